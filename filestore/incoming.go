package filestore

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// IncomingFile is an uploaded file as seen by Upload: a declared name, a length and its bytes.
type IncomingFile interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type multipartFile struct {
	header *multipart.FileHeader
}

// FromMultipart adapts a file part of a parsed multipart form.
func FromMultipart(fh *multipart.FileHeader) IncomingFile {
	return &multipartFile{header: fh}
}

func (m *multipartFile) Name() string { return m.header.Filename }
func (m *multipartFile) Size() int64  { return m.header.Size }

func (m *multipartFile) Open() (io.ReadCloser, error) {
	return m.header.Open()
}

type bytesFile struct {
	name string
	data []byte
}

func FromBytes(name string, data []byte) IncomingFile {
	return &bytesFile{name: name, data: data}
}

func (b *bytesFile) Name() string { return b.name }
func (b *bytesFile) Size() int64  { return int64(len(b.data)) }

func (b *bytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

type pathFile struct {
	path string
	size int64
}

// FromPath adapts a file on disk. The size is captured once, when FromPath is called.
func FromPath(fp string) (IncomingFile, error) {
	stat, err := os.Stat(fp)
	if err != nil {
		return nil, err
	}
	return &pathFile{path: filepath.Clean(fp), size: stat.Size()}, nil
}

func (p *pathFile) Name() string { return filepath.Base(p.path) }
func (p *pathFile) Size() int64  { return p.size }

func (p *pathFile) Open() (io.ReadCloser, error) {
	return os.Open(p.path)
}

type wrappedFile struct {
	IncomingFile
	wrap func(io.Reader) io.Reader
}

type readCloser struct {
	io.Reader
	io.Closer
}

// WithReader returns a file whose opened reader is passed through wrap, e.g. to report progress.
func WithReader(file IncomingFile, wrap func(io.Reader) io.Reader) IncomingFile {
	return &wrappedFile{IncomingFile: file, wrap: wrap}
}

func (w *wrappedFile) Open() (io.ReadCloser, error) {
	rc, err := w.IncomingFile.Open()
	if err != nil {
		return nil, err
	}
	return readCloser{Reader: w.wrap(rc), Closer: rc}, nil
}
