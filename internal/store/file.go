package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/Armin-kho/satta-result-bot/internal/tracker"
)

// FileStore keeps the state as a JSON document:
//
//	{"day": "10-05", "results": {"GALI": "42"}}
type FileStore struct {
	path string
	log  logrus.FieldLogger
}

func NewFileStore(path string, log logrus.FieldLogger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	return &FileStore{path: path, log: log.WithField("component", "store")}, nil
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(_ context.Context) tracker.State {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return tracker.Empty()
	}
	if err != nil {
		f.log.WithError(err).Warn("could not read state, starting empty")
		return tracker.Empty()
	}
	var st tracker.State
	if err := json.Unmarshal(b, &st); err != nil {
		f.log.WithError(err).Warn("state file is malformed, starting empty")
		return tracker.Empty()
	}
	return st
}

// Save writes to a temp file in the same directory, syncs it and renames it
// over the target so readers never see a partial file.
func (f *FileStore) Save(_ context.Context, st tracker.State) error {
	if st.Results == nil {
		st = tracker.State{Day: st.Day, Results: tracker.Empty().Results}
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		cleanup()
		return fmt.Errorf("replace state: %w", err)
	}
	syncDir(filepath.Dir(f.path))
	return nil
}

func (f *FileStore) Close() error { return nil }

// syncDir flushes the rename to disk where the platform allows it.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
