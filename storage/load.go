package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/krau/filekit/config"
	sc "github.com/krau/filekit/config/storage"
)

var (
	storages   = make(map[string]Storage)
	storagesMu sync.Mutex
)

var lookupConfig = func(name string) sc.StorageConfig {
	if config.C() == nil {
		return nil
	}
	return config.C().GetStorageByName(name)
}

var configuredNames = func() []string {
	if config.C() == nil {
		return nil
	}
	return config.C().GetStorageNames()
}

// GetStorageByName returns the storage singleton for name, creating it on first use.
func GetStorageByName(ctx context.Context, name string) (Storage, error) {
	if name == "" {
		return nil, ErrStorageNameEmpty
	}

	storagesMu.Lock()
	defer storagesMu.Unlock()

	storage, ok := storages[name]
	if ok {
		return storage, nil
	}
	cfg := lookupConfig(name)
	if cfg == nil {
		return nil, fmt.Errorf("storage %s not found", name)
	}

	storage, err := NewStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	storages[name] = storage
	return storage, nil
}

// Default returns the first configured storage.
func Default(ctx context.Context) (Storage, error) {
	names := configuredNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("no storage configured")
	}
	return GetStorageByName(ctx, names[0])
}

// Resolve returns the named storage, or the default one when name is empty.
func Resolve(ctx context.Context, name string) (Storage, error) {
	if name == "" {
		return Default(ctx)
	}
	return GetStorageByName(ctx, name)
}

func LoadStorages(ctx context.Context) {
	logger := log.FromContext(ctx)
	logger.Debug("loading storages...")
	for _, name := range configuredNames() {
		if _, err := GetStorageByName(ctx, name); err != nil {
			logger.Errorf("failed to load storage %s: %v", name, err)
		}
	}
	storagesMu.Lock()
	defer storagesMu.Unlock()
	logger.Infof("successfully loaded %d storages", len(storages))
}
