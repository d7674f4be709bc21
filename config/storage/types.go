package storage

import (
	"errors"

	storenum "github.com/krau/filekit/pkg/enums/storage"
)

var ErrStorageNameRequired = errors.New("storage name is required")

// StorageConfig is the decoded, typed configuration of one configured store.
type StorageConfig interface {
	Validate() error
	GetType() storenum.StorageType
	GetName() string
	base() *BaseConfig
}

// BaseConfig holds the keys shared by every store. Keys specific to a store type are collected in
// RawConfig and decoded into the typed config afterwards.
type BaseConfig struct {
	Name      string         `toml:"name" mapstructure:"name" json:"name"`
	Type      string         `toml:"type" mapstructure:"type" json:"type"`
	Enable    bool           `toml:"enable" mapstructure:"enable" json:"enable"`
	RawConfig map[string]any `toml:"-" mapstructure:",remain" json:"-"`
}

func (b *BaseConfig) base() *BaseConfig {
	return b
}
