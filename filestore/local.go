package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/duke-git/lancet/v2/fileutil"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/krau/filekit/common/utils/fsutil"
)

var _ Store = (*Local)(nil)

type LocalConfig struct {
	// WebRoot is preferred over ContentRoot when both are set.
	WebRoot     string
	ContentRoot string
	// DetectExt sniffs the extension from the content when the declared name has none.
	DetectExt bool
}

// Local is a Store backed by the local filesystem.
type Local struct {
	config  LocalConfig
	logger  Logger
	newName func() string
}

func NewLocal(cfg LocalConfig, logger Logger) (*Local, error) {
	if cfg.WebRoot == "" && cfg.ContentRoot == "" {
		return nil, ErrNoRoot
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Local{
		config:  cfg,
		logger:  logger,
		newName: uuid.NewString,
	}, nil
}

// Root returns the directory every relative path is resolved against.
func (l *Local) Root() string {
	if l.config.WebRoot != "" {
		return l.config.WebRoot
	}
	return l.config.ContentRoot
}

// resolve joins p onto the root. Parent segments are kept, so p may point outside the root.
func (l *Local) resolve(p string) string {
	return filepath.Join(l.Root(), p)
}

func (l *Local) relative(fullPath, fallback string) string {
	rel, err := filepath.Rel(l.Root(), fullPath)
	if err != nil {
		return filepath.ToSlash(fallback)
	}
	return filepath.ToSlash(rel)
}

func (l *Local) Upload(ctx context.Context, file IncomingFile, directory string) (string, error) {
	if file == nil || file.Size() <= 0 {
		return "", fmt.Errorf("%w: file cannot be nil or empty", ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		l.logger.Error("Error while uploading file", "dir", directory, "file", file.Name(), "err", err)
		return "", err
	}
	relPath, err := l.upload(file, directory)
	if err != nil {
		l.logger.Error("Error while uploading file", "dir", directory, "file", file.Name(), "err", err)
		return "", err
	}
	l.logger.Info("File uploaded successfully", "path", relPath, "size", humanize.Bytes(uint64(file.Size())))
	return relPath, nil
}

func (l *Local) upload(file IncomingFile, directory string) (string, error) {
	folderPath := l.resolve(directory)
	if err := fileutil.CreateDir(folderPath); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", folderPath, err)
	}

	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open incoming file %s: %w", file.Name(), err)
	}
	defer rc.Close()

	var reader io.Reader = rc
	ext := declaredExt(file.Name())
	if ext == "" && l.config.DetectExt {
		ext, reader, err = fsutil.SniffExt(rc)
		if err != nil {
			return "", fmt.Errorf("failed to read incoming file %s: %w", file.Name(), err)
		}
	}

	fileName := l.newName() + ext
	fullPath := filepath.Join(folderPath, fileName)
	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	if _, err := io.Copy(dst, reader); err != nil {
		dst.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}

	return l.relative(fullPath, filepath.Join(directory, fileName)), nil
}

func (l *Local) Delete(ctx context.Context, filePath string) bool {
	if err := ctx.Err(); err != nil {
		l.logger.Error("Error while deleting file", "path", filePath, "err", err)
		return false
	}
	fullPath := l.resolve(filePath)
	if !isRegularFile(fullPath) {
		return false
	}
	if err := os.Remove(fullPath); err != nil {
		l.logger.Error("Error while deleting file", "path", filePath, "err", err)
		return false
	}
	l.logger.Info("File deleted", "path", filePath)
	return true
}

func (l *Local) Exists(ctx context.Context, filePath string) bool {
	if ctx.Err() != nil {
		return false
	}
	exists := isRegularFile(l.resolve(filePath))
	l.logger.Debug("Checked file existence", "path", filePath, "exists", exists)
	return exists
}

// Move renames sourcePath to destinationPath, replacing any file already there.
func (l *Local) Move(ctx context.Context, sourcePath, destinationPath string) bool {
	if err := l.move(ctx, sourcePath, destinationPath); err != nil {
		l.logger.Error("Error moving file", "src", sourcePath, "dest", destinationPath, "err", err)
		return false
	}
	l.logger.Info("File moved", "src", sourcePath, "dest", destinationPath)
	return true
}

func (l *Local) move(ctx context.Context, sourcePath, destinationPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullSource := l.resolve(sourcePath)
	fullDestination := l.resolve(destinationPath)
	if !isRegularFile(fullSource) {
		return &NotFoundError{Path: fullSource}
	}
	if err := fileutil.CreateDir(filepath.Dir(fullDestination)); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(fullDestination), err)
	}
	err := os.Rename(fullSource, fullDestination)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	// source and destination are on different devices
	if err := fileutil.CopyFile(fullSource, fullDestination); err != nil {
		return fmt.Errorf("failed to copy %s across devices: %w", fullSource, err)
	}
	return os.Remove(fullSource)
}

func (l *Local) Download(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath := l.resolve(filePath)
	if !isRegularFile(fullPath) {
		l.logger.Error("File not found", "path", filePath)
		return nil, &NotFoundError{Path: fullPath}
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		l.logger.Error("Error while downloading file", "path", filePath, "err", err)
		return nil, err
	}
	l.logger.Info("File downloaded", "path", filePath, "size", humanize.Bytes(uint64(len(data))))
	return data, nil
}

func (l *Local) Info(ctx context.Context, filePath string) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath := l.resolve(filePath)
	stat, err := os.Stat(fullPath)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !stat.Mode().IsRegular()) {
		l.logger.Error("File not found", "path", filePath)
		return nil, &NotFoundError{Path: fullPath}
	}
	if err != nil {
		l.logger.Error("Error while reading file info", "path", filePath, "err", err)
		return nil, fmt.Errorf("failed to stat %s: %w", fullPath, err)
	}

	info := &FileInfo{
		Name:      stat.Name(),
		Path:      l.relative(fullPath, filePath),
		Size:      stat.Size(),
		CreatedAt: createdAt(fullPath, stat),
	}
	l.logger.Info("File info retrieved", "path", info.Path)
	return info, nil
}

func isRegularFile(fullPath string) bool {
	stat, err := os.Stat(fullPath)
	return err == nil && stat.Mode().IsRegular()
}

// declaredExt returns the extension of the declared file name. Clients may send a full path with
// either separator, so only the last element is considered.
func declaredExt(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	ext := path.Ext(name)
	if ext == "." {
		return ""
	}
	return ext
}

type nopLogger struct{}

func (nopLogger) Debug(any, ...any) {}
func (nopLogger) Info(any, ...any)  {}
func (nopLogger) Error(any, ...any) {}
