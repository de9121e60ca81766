package state

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Store is where configuration records are kept.
type Store interface {
	// Paths returns the canonical location of each record.
	Paths() Paths

	// Exists reports whether a record is present at location.
	Exists(ctx context.Context, location string) (bool, error)

	// Read returns the record bytes, or ErrNotFound.
	Read(ctx context.Context, location string) ([]byte, error)

	// Write replaces the record at location without ever exposing a partial file.
	Write(ctx context.Context, location string, data []byte) error
}

// StoreConfig selects a Store.
type StoreConfig struct {
	WaspDir string
	TomlDir string
	// Remote is an s3://bucket/prefix URL. When set, records live in S3 and
	// TomlDir is ignored.
	Remote     string
	AWSRegion  string
	AWSProfile string
}

// NewStore creates the store described by cfg.
func NewStore(ctx context.Context, cfg StoreConfig) (Store, error) {
	if cfg.Remote == "" {
		return NewLocalStore(cfg.WaspDir, cfg.TomlDir), nil
	}
	if !strings.HasPrefix(cfg.Remote, "s3://") {
		return nil, fmt.Errorf("unsupported record store %q: only s3:// URLs are supported", cfg.Remote)
	}
	return newS3Store(ctx, cfg)
}

// LocalStore keeps records on the local filesystem.
type LocalStore struct {
	paths Paths
}

func NewLocalStore(waspDir, tomlDir string) *LocalStore {
	return &LocalStore{paths: Locate(waspDir, tomlDir)}
}

func (s *LocalStore) Paths() Paths {
	return s.paths
}

func (s *LocalStore) Exists(ctx context.Context, location string) (bool, error) {
	_, err := os.Stat(location)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", location, err)
}

func (s *LocalStore) Read(ctx context.Context, location string) ([]byte, error) {
	data, err := os.ReadFile(location)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", location, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return data, nil
}

func (s *LocalStore) Write(ctx context.Context, location string, data []byte) error {
	return WriteFileAtomic(location, data, 0o644)
}
