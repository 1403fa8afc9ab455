package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Open returns the store for backend ("file" or "sqlite") at path.
func Open(backend, path string, log logrus.FieldLogger) (Store, error) {
	switch backend {
	case "", "file":
		return NewFileStore(path, log)
	case "sqlite":
		return OpenSQLite(path, log)
	}
	return nil, fmt.Errorf("unknown state backend %q", backend)
}

// Backup snapshots st to dstPath when the backend supports it.
func Backup(ctx context.Context, st Store, dstPath string) error {
	b, ok := st.(interface {
		BackupTo(ctx context.Context, dstPath string) error
	})
	if !ok {
		return ErrBackupUnsupported
	}
	return b.BackupTo(ctx, dstPath)
}
