package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store kinds accepted by Open.
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// KV is the key-value contract shared by every store in this package.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Backend pairs the value store with the cache store of one storage kind.
type Backend struct {
	Values KV
	Cache  KV
	close  func() error
}

// Close releases resources held by the backend.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open creates the backend of the given kind rooted at dataDir.
func Open(kind, dataDir string) (*Backend, error) {
	switch kind {
	case "", KindMemory:
		return &Backend{Values: NewMemory(), Cache: NewMemory()}, nil
	case KindFile:
		values := NewFile(filepath.Join(dataDir, "settings.json"))
		if err := values.EnsureDirs(); err != nil {
			return nil, fmt.Errorf("ensure data dir: %w", err)
		}
		return &Backend{
			Values: values,
			Cache:  NewFile(filepath.Join(dataDir, "transients.json")),
		}, nil
	case KindSQLite:
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure data dir: %w", err)
		}
		db, err := OpenSQLite(filepath.Join(dataDir, "themepainter.db"))
		if err != nil {
			return nil, err
		}
		return &Backend{Values: db.Settings(), Cache: db.Transients(), close: db.Close}, nil
	default:
		return nil, fmt.Errorf("unknown store %q", kind)
	}
}
