package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/picklr-io/flydeploy/internal/logging"
)

// Sync mirrors one canonical record into a tool's working directory for the
// duration of an external command. Acquire copies it in; Release copies the
// working file back, and must run even when the command failed so that edits
// made by flyctl are kept.
type Sync struct {
	store    Store
	location string
	workDir  string
}

// Acquire clears any stale working file in workDir and copies the record at
// location into it when the record exists.
func Acquire(ctx context.Context, store Store, location, workDir string) (*Sync, error) {
	if info, err := os.Stat(workDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("working directory %s does not exist; build the project first", workDir)
	}
	if err := ClearWorking(workDir); err != nil {
		return nil, err
	}

	s := &Sync{store: store, location: location, workDir: workDir}

	data, err := store.Read(ctx, location)
	switch {
	case err == nil:
		if err := WriteFileAtomic(s.WorkingPath(), data, 0o644); err != nil {
			return nil, err
		}
		logging.Debug("record copied into working directory", "record", location, "dir", workDir)
	case errors.Is(err, ErrNotFound):
		logging.Debug("no record to copy", "record", location)
	default:
		return nil, err
	}
	return s, nil
}

// WorkingPath is the fly.toml the external tool reads and writes.
func (s *Sync) WorkingPath() string {
	return filepath.Join(s.workDir, WorkingFileName)
}

// Release copies the working file back to the canonical record if one exists.
func (s *Sync) Release(ctx context.Context) error {
	data, err := os.ReadFile(s.WorkingPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.WorkingPath(), err)
	}
	if err := s.store.Write(ctx, s.location, data); err != nil {
		return err
	}
	logging.Debug("working file copied back", "record", s.location)
	return nil
}

// Save promotes the working file freshly written by `flyctl launch` to the
// canonical record. It is the step that advances the deployment phase.
func Save(ctx context.Context, store Store, workDir, location string) error {
	working := filepath.Join(workDir, WorkingFileName)
	data, err := os.ReadFile(working)
	if err != nil {
		return fmt.Errorf("expected %s to be written by flyctl: %w", working, err)
	}
	if _, err := ParseRecord(data); err != nil {
		return fmt.Errorf("%s: %w", working, err)
	}
	return store.Write(ctx, location, data)
}

// ClearWorking removes the working file from workDir, if any.
func ClearWorking(workDir string) error {
	err := os.Remove(filepath.Join(workDir, WorkingFileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale %s: %w", WorkingFileName, err)
	}
	return nil
}
