package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

type fileKV struct {
	dir string
}

// OpenFile returns an engine that keeps each key in its own JSON file under
// dir. It is the zero-dependency fallback for environments where embedding
// badger is unwanted.
func OpenFile(dir string) (KV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &fileKV{dir: dir}, nil
}

func (f *fileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *fileKV) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (f *fileKV) Put(key string, value []byte) error {
	return os.WriteFile(f.path(key), value, 0o644)
}

func (f *fileKV) Delete(key string) error {
	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (f *fileKV) Close() error {
	return nil
}
