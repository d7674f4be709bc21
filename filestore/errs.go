package filestore

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("filestore: invalid argument")
	ErrNotFound        = errors.New("filestore: file not found")
	ErrNoRoot          = errors.New("filestore: neither web root nor content root is configured")
)

// NotFoundError carries the resolved path that had no backing file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("filestore: file not found: %s", e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
