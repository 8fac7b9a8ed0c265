package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngines(t *testing.T) {
	engines := map[string]func(t *testing.T) KV{
		"file": func(t *testing.T) KV {
			kv, err := OpenFile(t.TempDir())
			require.NoError(t, err)
			return kv
		},
		"badger": func(t *testing.T) KV {
			kv, err := OpenBadger(t.TempDir())
			require.NoError(t, err)
			return kv
		},
	}

	for name, open := range engines {
		t.Run(name, func(t *testing.T) {
			kv := open(t)
			defer kv.Close()

			_, found, err := kv.Get("clubdb")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, kv.Put("clubdb", []byte(`{"users":[]}`)))
			value, found, err := kv.Get("clubdb")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, []byte(`{"users":[]}`), value)

			require.NoError(t, kv.Put("clubdb", []byte(`{"users":[{"id":"1"}]}`)))
			value, found, err = kv.Get("clubdb")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, []byte(`{"users":[{"id":"1"}]}`), value)

			require.NoError(t, kv.Delete("clubdb"))
			_, found, err = kv.Get("clubdb")
			require.NoError(t, err)
			assert.False(t, found)

			// Deleting an absent key is not an error.
			require.NoError(t, kv.Delete("clubdb"))
		})
	}
}

func TestOpenSelectsEngine(t *testing.T) {
	kv, err := Open("file", t.TempDir())
	require.NoError(t, err)
	require.NoError(t, kv.Close())

	_, err = Open("cassandra", t.TempDir())
	assert.Error(t, err)
}
