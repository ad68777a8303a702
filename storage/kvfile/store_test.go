package kvfile

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logsvc "classhub/services/logger"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := New(dir, logsvc.NewStdLogger(log.New(io.Discard, "", 0)))
	require.NoError(t, err)
	return store, dir
}

func TestStore_roundTrip(t *testing.T) {
	store, dir := newTestStore(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	found, err := store.Load("classes", &payload{})
	require.NoError(t, err)
	assert.False(t, found, "missing key is not an error")

	require.NoError(t, store.Save("classes", payload{Name: "Grade 5 Blue", Count: 3}))

	var got payload
	found, err = store.Load("classes", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, payload{Name: "Grade 5 Blue", Count: 3}, got)

	// one file per key
	_, err = os.Stat(filepath.Join(dir, "classes.json"))
	assert.NoError(t, err)
}

func TestStore_corruptFileIsIsolated(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Save("good", map[string]int{"a": 1}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))

	var bad map[string]int
	found, err := store.Load("bad", &bad)
	require.NoError(t, err, "corrupt data reads as absent")
	assert.False(t, found)

	var good map[string]int
	found, err = store.Load("good", &good)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, map[string]int{"a": 1}, good)

	// a save over the corrupt key recovers it
	require.NoError(t, store.Save("bad", map[string]int{"b": 2}))
	found, err = store.Load("bad", &bad)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestNew_createsDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := New(dir, logsvc.NewStdLogger(log.New(io.Discard, "", 0)))
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
