package ugit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	r := Open(t.TempDir())
	require.NoError(t, r.Init())
	return r
}

func TestHashObjectSeedOID(t *testing.T) {
	r := newTestRepo(t)
	oid, err := r.HashObject([]byte("hi\n"), TypeBlob)
	require.NoError(t, err)
	assert.Equal(t, "45b983be36b73c0788dc9cbcb76cbb80fc7bb057", oid)

	payload, err := r.GetObject(oid, TypeBlob)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(payload))
}

func TestHashObjectRoundTripAndDeterminism(t *testing.T) {
	r := newTestRepo(t)
	payload := []byte("arbitrary \x00 bytes with an embedded NUL")

	oid1, err := r.HashObject(payload, TypeBlob)
	require.NoError(t, err)
	oid2, err := r.HashObject(payload, TypeBlob)
	require.NoError(t, err)
	assert.Equal(t, oid1, oid2)

	got, err := r.GetObject(oid1, TypeBlob)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestGetObjectTypeMismatch(t *testing.T) {
	r := newTestRepo(t)
	oid, err := r.HashObject([]byte("tree payload"), TypeTree)
	require.NoError(t, err)

	_, err = r.GetObject(oid, TypeBlob)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestGetObjectNotFound(t *testing.T) {
	r := newTestRepo(t)
	_, err := r.GetObject("0000000000000000000000000000000000000000", TypeBlob)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestObjectExists(t *testing.T) {
	r := newTestRepo(t)
	assert.False(t, r.ObjectExists("0000000000000000000000000000000000000000"))
	oid, err := r.HashObject([]byte("x"), TypeBlob)
	require.NoError(t, err)
	assert.True(t, r.ObjectExists(oid))
}

func TestCopyObjectToAndFrom(t *testing.T) {
	r := newTestRepo(t)
	peer := newTestRepo(t)

	oid, err := r.HashObject([]byte("shared content"), TypeBlob)
	require.NoError(t, err)

	require.NoError(t, r.CopyObjectTo(oid, peer))
	assert.True(t, peer.ObjectExists(oid))

	other, err := r.HashObject([]byte("other content"), TypeBlob)
	require.NoError(t, err)
	require.NoError(t, r.CopyObjectTo(other, r)) // no-op, already local

	require.NoError(t, peer.CopyObjectFrom(oid, r)) // already present, no-op path
	assert.True(t, peer.ObjectExists(oid))
}
