package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "local.json")

	s, err := Open(path)
	require.NoError(t, err)

	type snapshot struct {
		Items []string `json:"items"`
	}

	require.NoError(t, s.Set("omni_cart", snapshot{Items: []string{"a", "b"}}))

	// Reopen to prove the write hit disk.
	reopened, err := Open(path)
	require.NoError(t, err)

	var got snapshot
	ok, err := reopened.Get("omni_cart", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got.Items)
}

func TestStoreMissingKey(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "local.json"))
	require.NoError(t, err)

	var v string
	ok, err := s.Get("absent", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.json")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Set("demo_token", "abc"))
	require.NoError(t, s.Remove("demo_token"))
	require.NoError(t, s.Remove("demo_token")) // absent key is a no-op

	reopened, err := Open(path)
	require.NoError(t, err)
	var v string
	ok, err := reopened.Get("demo_token", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEphemeralStoreNeverPersists(t *testing.T) {
	s := OpenEphemeral()
	require.NoError(t, s.Set("demo_token", "abc"))

	var v string
	ok, err := s.Get("demo_token", &v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}
