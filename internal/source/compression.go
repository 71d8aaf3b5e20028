package source

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

type Compression int

const (
	None Compression = iota
	Gzip
	Zip
)

var (
	gzipMagic = []byte{0x1f, 0x8b, 0x08}
	zipMagic  = []byte{0x50, 0x4b, 0x03, 0x04}

	ErrEmptyArchive = errors.New("zip archive without entries")
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zip:
		return "zip"
	}
	return "none"
}

// Sniff detects the compression by the magic bytes at the start of the data
func Sniff(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return Gzip
	case bytes.HasPrefix(data, zipMagic):
		return Zip
	}
	return None
}

// Uncompress returns the uncompressed data, data without a known signature is returned unchanged.
// For zip archives the first entry is the tile.
func Uncompress(data []byte) ([]byte, error) {
	switch Sniff(data) {
	case Gzip:
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "can't open gzip stream")
		}
		defer gr.Close()
		raw, err := io.ReadAll(gr)
		if err != nil {
			return nil, errors.Wrap(err, "can't read gzip stream")
		}
		return raw, nil
	case Zip:
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, errors.Wrap(err, "can't open zip archive")
		}
		if len(zr.File) == 0 {
			return nil, ErrEmptyArchive
		}
		rd, err := zr.File[0].Open()
		if err != nil {
			return nil, errors.Wrapf(err, "can't open zip entry %s", zr.File[0].Name)
		}
		defer rd.Close()
		raw, err := io.ReadAll(rd)
		if err != nil {
			return nil, errors.Wrapf(err, "can't read zip entry %s", zr.File[0].Name)
		}
		return raw, nil
	}
	return data, nil
}
