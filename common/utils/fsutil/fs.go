package fsutil

import (
	"bytes"
	"errors"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen matches the default number of bytes mimetype inspects
const sniffLen = 3072

// SniffExt detects the file extension from the head of r. The returned reader replays the consumed
// head followed by the rest of r. ext is empty when the content type has no known extension.
func SniffExt(r io.Reader) (ext string, replay io.Reader, err error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, err
	}
	head = head[:n]
	return mimetype.Detect(head).Extension(), io.MultiReader(bytes.NewReader(head), r), nil
}
