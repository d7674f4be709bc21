package ioutil

import (
	"io"
	"sync/atomic"
)

var _ io.Reader = (*ProgressReader)(nil)

// ProgressReader wraps an io.Reader and reports how many bytes went through it
type ProgressReader struct {
	reader     io.Reader
	total      int64
	read       atomic.Int64
	onProgress func(read int64, total int64)
}

// NewProgressReader creates a new ProgressReader. total may be 0 when the size is unknown.
func NewProgressReader(r io.Reader, total int64, onProgress func(read int64, total int64)) *ProgressReader {
	return &ProgressReader{
		reader:     r,
		total:      total,
		onProgress: onProgress,
	}
}

// Read implements io.Reader
func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		read := pr.read.Add(int64(n))
		if pr.onProgress != nil {
			pr.onProgress(read, pr.total)
		}
	}
	return n, err
}

// Progress returns the current progress as a float64 between 0 and 1
func (pr *ProgressReader) Progress() float64 {
	if pr.total <= 0 {
		return 0
	}
	return float64(pr.read.Load()) / float64(pr.total)
}

func (pr *ProgressReader) BytesRead() int64 {
	return pr.read.Load()
}

func (pr *ProgressReader) Total() int64 {
	return pr.total
}
