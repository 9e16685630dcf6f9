package cartridge

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// ErrEmptyArchive is returned when an archive holds no files.
var ErrEmptyArchive = errors.New("archive contains no files")

// LoadFile reads a ROM from disk and loads it. Archives (.zip, .7z, .gz)
// are decompressed first, the first file inside is used as the image.
func LoadFile(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	data, err = decompress(strings.ToLower(filepath.Ext(path)), data)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s: %w", path, err)
	}

	return Load(data)
}

func decompress(ext string, data []byte) ([]byte, error) {
	var rc io.ReadCloser

	switch ext {
	case ".gz":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		rc = r
	case ".zip":
		r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		if len(r.File) == 0 {
			return nil, ErrEmptyArchive
		}
		if rc, err = r.File[0].Open(); err != nil {
			return nil, err
		}
	case ".7z":
		r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		if len(r.File) == 0 {
			return nil, ErrEmptyArchive
		}
		if rc, err = r.File[0].Open(); err != nil {
			return nil, err
		}
	default:
		return data, nil
	}
	defer rc.Close()

	// one byte past the limit is enough for Load to reject the image
	return io.ReadAll(io.LimitReader(rc, MaxSize+1))
}
