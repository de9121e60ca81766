// Package state owns the two per-deployment configuration records
// (fly-server.toml and fly-client.toml): where they live, what they say, and
// the deployment phase their presence implies.
package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/picklr-io/flydeploy/internal/identity"
)

const (
	ServerFileName = "fly-server.toml"
	ClientFileName = "fly-client.toml"
	// WorkingFileName is the file flyctl reads from its working directory.
	WorkingFileName = "fly.toml"
)

// Paths holds the canonical location of each record.
type Paths struct {
	Server string
	Client string
}

// Locate resolves the record paths. Records live in tomlDir, or in waspDir
// when tomlDir is empty.
func Locate(waspDir, tomlDir string) Paths {
	base := tomlDir
	if base == "" {
		base = waspDir
	}
	return Paths{
		Server: filepath.Join(base, ServerFileName),
		Client: filepath.Join(base, ClientFileName),
	}
}

// For returns the record location of tier.
func (p Paths) For(t identity.Tier) string {
	if t == identity.Client {
		return p.Client
	}
	return p.Server
}

// Exists reports whether a file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Record is a parsed configuration record. Only the app name is interpreted;
// everything else belongs to flyctl's schema.
type Record struct {
	App string `toml:"app"`
	Raw []byte `toml:"-"`
}

// ParseRecord decodes a record and requires its app field.
func ParseRecord(data []byte) (*Record, error) {
	var rec Record
	if err := toml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", identity.ErrMalformedConfig, err)
	}
	if strings.TrimSpace(rec.App) == "" {
		return nil, fmt.Errorf("%w: missing app field", identity.ErrMalformedConfig)
	}
	rec.Raw = data
	return &rec, nil
}

// ReadRecord loads and parses the record at location.
func ReadRecord(ctx context.Context, store Store, location string) (*Record, error) {
	data, err := store.Read(ctx, location)
	if err != nil {
		return nil, err
	}
	rec, err := ParseRecord(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return rec, nil
}

// RecoverBase reads the record of tier and returns the base name it was
// provisioned under.
func RecoverBase(ctx context.Context, store Store, tier identity.Tier) (string, error) {
	location := store.Paths().For(tier)
	rec, err := ReadRecord(ctx, store, location)
	if err != nil {
		return "", err
	}
	base, err := identity.Recover(rec.App, tier)
	if err != nil {
		return "", fmt.Errorf("%s: %w", location, err)
	}
	return base, nil
}

// ErrNotFound is returned by Store.Read for an absent record.
var ErrNotFound = errors.New("record not found")
