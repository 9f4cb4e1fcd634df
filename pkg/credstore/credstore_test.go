package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), "test-master-secret")
	require.NoError(t, err)
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	cred := &Credential{User: "backup", Password: "p@ss:word", Domain: "WORKGROUP"}
	require.NoError(t, store.Save("srv-1", cred))

	loaded, err := store.Load("srv-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, cred, loaded)
}

func TestLoadMissingAliasReturnsNil(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.Load("does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("a", &Credential{User: "u1", Password: "p1"}))
	require.NoError(t, store.Save("a", &Credential{User: "u2", Password: "p2"}))

	loaded, err := store.Load("a")
	require.NoError(t, err)
	assert.Equal(t, "u2", loaded.User)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("a", &Credential{User: "u"}))
	require.NoError(t, store.Delete("a"))
	require.NoError(t, store.Delete("a"))

	loaded, err := store.Load("a")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStoredFileIsNotPlaintext(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "secret")
	require.NoError(t, err)

	require.NoError(t, store.Save("srv", &Credential{User: "visible-user", Password: "visible-pass"}))

	raw, err := os.ReadFile(filepath.Join(dir, "srv.cred"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "visible-user")
	assert.NotContains(t, string(raw), "visible-pass")
}

func TestWrongKeyFailsToUnseal(t *testing.T) {
	dir := t.TempDir()

	store1, err := NewStore(dir, "key-one")
	require.NoError(t, err)
	require.NoError(t, store1.Save("srv", &Credential{User: "u", Password: "p"}))

	store2, err := NewStore(dir, "key-two")
	require.NoError(t, err)
	_, err = store2.Load("srv")
	assert.Error(t, err)
}
