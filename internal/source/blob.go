package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// BlobSchemes lists the URL schemes NewBlobSource opens.
var BlobSchemes = []string{"s3", "file", "mem"}

// BlobSource reads a CSV export from an object store, e.g.
// s3://bucket/exports/logs.csv?region=ap-northeast-2 or file:///srv/exports/logs.csv.
// Keys ending in .gz, .zst or .br are decompressed.
type BlobSource struct {
	bucketURL string
	key       string
	bucket    *blob.Bucket
	maxBytes  int64
}

// IsBlobURL reports whether target uses one of BlobSchemes.
func IsBlobURL(target string) bool {
	for _, s := range BlobSchemes {
		if strings.HasPrefix(target, s+"://") {
			return true
		}
	}
	return false
}

// NewBlobSource splits rawURL into a bucket URL and an object key. The bucket
// is opened on each Load.
func NewBlobSource(rawURL string) (*BlobSource, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("source: parse blob url: %w", err)
	}

	var key string
	if u.Scheme == "file" {
		dir, base := path.Split(u.Path)
		u.Path, key = strings.TrimSuffix(dir, "/"), base
		if u.Path == "" {
			u.Path = "/"
		}
	} else {
		key = strings.TrimPrefix(u.Path, "/")
		u.Path = ""
	}
	if key == "" {
		return nil, fmt.Errorf("source: blob url %s has no object key", rawURL)
	}
	return &BlobSource{bucketURL: u.String(), key: key, maxBytes: DefaultMaxBytes}, nil
}

// NewBucketSource reads key from an already opened bucket. The caller owns bk.
func NewBucketSource(bk *blob.Bucket, key string) *BlobSource {
	return &BlobSource{bucketURL: "bucket", key: key, bucket: bk, maxBytes: DefaultMaxBytes}
}

// WithMaxBytes overrides the download limit.
func (s *BlobSource) WithMaxBytes(n int64) *BlobSource {
	s.maxBytes = n
	return s
}

// Name returns the source identifier.
func (s *BlobSource) Name() string {
	return fmt.Sprintf("blob:%s/%s", s.bucketURL, s.key)
}

// Load reads the whole object.
func (s *BlobSource) Load(ctx context.Context) ([]byte, error) {
	bk := s.bucket
	if bk == nil {
		var err error
		bk, err = blob.OpenBucket(ctx, s.bucketURL)
		if err != nil {
			return nil, fmt.Errorf("open bucket %s: %w", s.bucketURL, err)
		}
		defer bk.Close()
	}

	r, err := bk.NewReader(ctx, s.key, nil)
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", s.key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", s.key, err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes in %s", ErrTooLarge, s.maxBytes, s.key)
	}
	return decompress(s.key, data)
}
