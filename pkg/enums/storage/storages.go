package storage

import (
	"fmt"
	"strings"
)

// StorageType is the kind of backend a configured store uses.
type StorageType string

const (
	Local StorageType = "local"
)

var ErrInvalidStorageType = fmt.Errorf("not a valid StorageType, try [%s]", strings.Join(StorageTypeNames(), ", "))

var storageTypeNames = []string{
	string(Local),
}

// StorageTypeNames returns a list of possible string values of StorageType.
func StorageTypeNames() []string {
	tmp := make([]string, len(storageTypeNames))
	copy(tmp, storageTypeNames)
	return tmp
}

func (x StorageType) String() string {
	return string(x)
}

func (x StorageType) IsValid() bool {
	_, err := ParseStorageType(string(x))
	return err == nil
}

var storageTypeValue = map[string]StorageType{
	"local": Local,
}

// ParseStorageType attempts to convert a string to a StorageType, ignoring case.
func ParseStorageType(name string) (StorageType, error) {
	if x, ok := storageTypeValue[strings.ToLower(name)]; ok {
		return x, nil
	}
	return StorageType(""), fmt.Errorf("%s is %w", name, ErrInvalidStorageType)
}
