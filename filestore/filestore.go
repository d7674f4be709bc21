// Package filestore stores uploaded files under a single root directory on the local filesystem.
package filestore

import (
	"context"
	"time"
)

// Store is the file storage contract callers depend on.
//
// Upload, Download and Info report failures to the caller. Delete and Move are best effort: failures
// are logged and reported as false. Exists never fails.
type Store interface {
	Upload(ctx context.Context, file IncomingFile, directory string) (string, error)
	Delete(ctx context.Context, filePath string) bool
	Exists(ctx context.Context, filePath string) bool
	Move(ctx context.Context, sourcePath, destinationPath string) bool
	Download(ctx context.Context, filePath string) ([]byte, error)
	Info(ctx context.Context, filePath string) (*FileInfo, error)
}

// Logger is the leveled sink a store reports to. *log.Logger from charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Error(msg any, keyvals ...any)
}

type FileInfo struct {
	Name      string    `json:"name" yaml:"name"`
	Path      string    `json:"path" yaml:"path"` // relative to the store root, always '/' separated
	Size      int64     `json:"size" yaml:"size"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// FileRecord is a FileInfo carrying an opaque caller payload. The store never inspects Extra.
type FileRecord[T any] struct {
	FileInfo `yaml:",inline"`
	Extra    T `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// GetInfo returns the metadata of filePath with extra attached unchanged.
func GetInfo[T any](ctx context.Context, store Store, filePath string, extra T) (*FileRecord[T], error) {
	info, err := store.Info(ctx, filePath)
	if err != nil {
		return nil, err
	}
	return &FileRecord[T]{
		FileInfo: *info,
		Extra:    extra,
	}, nil
}
