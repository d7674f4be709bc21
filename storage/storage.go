package storage

import (
	"context"
	"errors"
	"fmt"

	sc "github.com/krau/filekit/config/storage"
	"github.com/krau/filekit/filestore"
	storenum "github.com/krau/filekit/pkg/enums/storage"
	"github.com/krau/filekit/storage/local"
)

var ErrStorageNameEmpty = errors.New("storage name is empty")

// Storage is a named, configured filestore.Store.
type Storage interface {
	filestore.Store
	Init(ctx context.Context, cfg sc.StorageConfig) error
	Type() storenum.StorageType
	Name() string
}

type StorageConstructor func() Storage

var storageConstructors = map[storenum.StorageType]StorageConstructor{
	storenum.Local: func() Storage { return new(local.Local) },
}

func NewStorage(ctx context.Context, cfg sc.StorageConfig) (Storage, error) {
	if !cfg.GetType().IsValid() {
		return nil, fmt.Errorf("storage %s: %w", cfg.GetName(), storenum.ErrInvalidStorageType)
	}
	constructor, ok := storageConstructors[cfg.GetType()]
	if !ok {
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.GetType())
	}

	storage := constructor()
	if err := storage.Init(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to init storage %s: %w", cfg.GetName(), err)
	}

	return storage, nil
}
