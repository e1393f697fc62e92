package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Content encodings accepted for compressed exports.
const (
	EncodingGzip   = "gzip"
	EncodingZstd   = "zstd"
	EncodingBrotli = "br"
)

// ErrUnsupportedEncoding is returned for a content encoding Decoder cannot read.
var ErrUnsupportedEncoding = errors.New("source: unsupported encoding")

// Decoder wraps r so that reads return the decompressed stream.
// An empty encoding or "identity" returns r unchanged.
func Decoder(encoding string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return io.NopCloser(r), nil
	case EncodingGzip, "x-gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("source: gzip: %w", err)
		}
		return zr, nil
	case EncodingZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("source: zstd: %w", err)
		}
		return zr.IOReadCloser(), nil
	case EncodingBrotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	case "deflate":
		return flate.NewReader(r), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, encoding)
	}
}

// EncodingFromPath infers a content encoding from a file extension:
// .gz, .zst and .br. Other paths are uncompressed.
func EncodingFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return EncodingGzip
	case ".zst":
		return EncodingZstd
	case ".br":
		return EncodingBrotli
	default:
		return ""
	}
}

// decompress inflates data when name carries a compression extension.
func decompress(name string, data []byte) ([]byte, error) {
	enc := EncodingFromPath(name)
	if enc == "" {
		return data, nil
	}
	zr, err := Decoder(enc, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", name, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", name, err)
	}
	return out, nil
}
