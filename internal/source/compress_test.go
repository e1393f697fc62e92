package source

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compress(t *testing.T, encoding string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	switch encoding {
	case EncodingGzip:
		w = gzip.NewWriter(&buf)
	case EncodingZstd:
		zw, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		w = zw
	case EncodingBrotli:
		w = brotli.NewWriter(&buf)
	}
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecoder(t *testing.T) {
	for _, enc := range []string{EncodingGzip, EncodingZstd, EncodingBrotli} {
		t.Run(enc, func(t *testing.T) {
			r, err := Decoder(enc, bytes.NewReader(compress(t, enc, []byte(csvBody))))
			require.NoError(t, err)
			defer r.Close()
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, csvBody, string(data))
		})
	}
}

func TestDecoder_Identity(t *testing.T) {
	r, err := Decoder("", bytes.NewReader([]byte(csvBody)))
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(data))
}

func TestDecoder_Errors(t *testing.T) {
	_, err := Decoder("lzma", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)

	_, err = Decoder(EncodingGzip, bytes.NewReader([]byte("not gzip")))
	assert.Error(t, err)
}

func TestEncodingFromPath(t *testing.T) {
	assert.Equal(t, EncodingGzip, EncodingFromPath("logs.csv.gz"))
	assert.Equal(t, EncodingZstd, EncodingFromPath("logs.CSV.ZST"))
	assert.Equal(t, EncodingBrotli, EncodingFromPath("logs.csv.br"))
	assert.Empty(t, EncodingFromPath("logs.csv"))
}

func TestFileSource_Compressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv.zst")
	require.NoError(t, os.WriteFile(path, compress(t, EncodingZstd, []byte(csvBody)), 0o644))

	data, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(data))
}
