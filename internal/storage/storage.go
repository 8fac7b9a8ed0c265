// Package storage provides the durable key-value engines the local store
// persists its aggregate blob into.
package storage

import "fmt"

// KV is the minimal key-value port the store needs. Get reports whether the
// key existed so callers can distinguish "absent" from "empty".
type KV interface {
	Get(key string) (value []byte, found bool, err error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Open selects and opens an engine by name. Supported engines are "badger"
// and "file".
func Open(engine, dataDir string) (KV, error) {
	switch engine {
	case "badger":
		return OpenBadger(dataDir)
	case "file":
		return OpenFile(dataDir)
	default:
		return nil, fmt.Errorf("unknown store engine %q", engine)
	}
}
