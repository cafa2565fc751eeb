// Package storage opens point sources and result destinations by URI.
//
// Supported forms:
//
//	path/to/file, file:///abs/path   local file system
//	s3://bucket/key                  Amazon S3 (default AWS credential chain)
//	minio://bucket/key               MinIO or any S3-compatible endpoint
//	mem://name                       a registered in-process Memory store
//
// A key ending in ".zst" is transparently zstd (de)compressed, one ending in
// ".lz4" uses the lz4 frame format.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported storage scheme")
	ErrInvalidURI        = errors.New("invalid storage uri")
)

// Location names one object inside a backend. Bucket is empty for the local
// file system and the memory store.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	if l.Bucket == "" {
		return l.Key
	}
	return l.Bucket + "/" + l.Key
}

// Backend reads and writes whole objects.
type Backend interface {
	Open(ctx context.Context, loc Location) (io.ReadCloser, error)
	// Create returns a writer whose content becomes visible once Close
	// returns without error.
	Create(ctx context.Context, loc Location) (io.WriteCloser, error)
}

// Config holds the settings of the remote backends.
type Config struct {
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioSecure    bool
}

// Storage dispatches URIs to backends. Remote clients are created on first
// use.
type Storage struct {
	cfg      Config
	mu       sync.Mutex
	backends map[string]Backend
}

func New(cfg Config) *Storage {
	return &Storage{
		cfg: cfg,
		backends: map[string]Backend{
			"file": Local{},
		},
	}
}

// Register installs b for scheme, replacing any previous backend.
func (s *Storage) Register(scheme string, b Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backends[scheme] = b
}

// Open opens uri for reading.
func (s *Storage) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	b, loc, err := s.resolve(ctx, uri)
	if err != nil {
		return nil, err
	}
	rc, err := b.Open(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uri, err)
	}
	return decompress(loc.Key, rc)
}

// Create opens uri for writing.
func (s *Storage) Create(ctx context.Context, uri string) (io.WriteCloser, error) {
	b, loc, err := s.resolve(ctx, uri)
	if err != nil {
		return nil, err
	}
	wc, err := b.Create(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", uri, err)
	}
	return compress(loc.Key, wc)
}

func (s *Storage) resolve(ctx context.Context, uri string) (Backend, Location, error) {
	scheme, loc, err := Parse(uri)
	if err != nil {
		return nil, Location{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.backends[scheme]; ok {
		return b, loc, nil
	}
	var b Backend
	switch scheme {
	case "s3":
		b, err = newS3(ctx)
	case "minio":
		b, err = newMinio(s.cfg)
	default:
		return nil, Location{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	if err != nil {
		return nil, Location{}, err
	}
	s.backends[scheme] = b
	return b, loc, nil
}

// Parse splits uri into its scheme and location. Strings without "://" are
// local paths.
func Parse(uri string) (string, Location, error) {
	if uri == "" {
		return "", Location{}, fmt.Errorf("%w: empty", ErrInvalidURI)
	}
	if !strings.Contains(uri, "://") {
		return "file", Location{Key: uri}, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", Location{}, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}
	switch u.Scheme {
	case "file":
		if u.Path == "" {
			return "", Location{}, fmt.Errorf("%w: %q has no path", ErrInvalidURI, uri)
		}
		return "file", Location{Key: u.Path}, nil
	case "mem":
		return "mem", Location{Key: u.Host + u.Path}, nil
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", Location{}, fmt.Errorf("%w: %q needs a bucket and a key", ErrInvalidURI, uri)
	}
	return u.Scheme, Location{Bucket: u.Host, Key: key}, nil
}
