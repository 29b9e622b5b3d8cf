package unidump

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Open opens a dump file for reading, transparently decompressing
// gzip (.gz) and zstd (.zst, .zstd) files by extension. UniProt
// distributes dumps gzip-compressed.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump %s: %w", path, err)
	}
	switch filepath.Ext(path) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			closeErr := f.Close()
			return nil, fmt.Errorf("open dump %s: %w", path, errors.Join(err, closeErr))
		}
		return &decompressor{r: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(f)
		if err != nil {
			closeErr := f.Close()
			return nil, fmt.Errorf("open dump %s: %w", path, errors.Join(err, closeErr))
		}
		return &decompressor{r: zr, closers: []io.Closer{zr.IOReadCloser(), f}}, nil
	default:
		return f, nil
	}
}

type decompressor struct {
	r       io.Reader
	closers []io.Closer
}

func (d *decompressor) Read(p []byte) (int, error) {
	return d.r.Read(p)
}

func (d *decompressor) Close() error {
	var errs []error
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
