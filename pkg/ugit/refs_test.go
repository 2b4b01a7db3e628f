package ugit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateAndGetRefDirect(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.UpdateRef("refs/heads/master", RefValue{Value: "abc123"}, false))

	value, err := r.GetRef("refs/heads/master", false)
	require.NoError(t, err)
	assert.Equal(t, RefValue{Value: "abc123"}, value)
}

func TestGetRefMissingIsUnset(t *testing.T) {
	r := newTestRepo(t)
	value, err := r.GetRef("refs/heads/nonexistent", true)
	require.NoError(t, err)
	assert.True(t, value.IsUnset())
}

func TestUpdateRefDerefAdvancesTerminal(t *testing.T) {
	r := newTestRepo(t)
	// HEAD starts symbolic at refs/heads/master (from Init).
	require.NoError(t, r.UpdateRef("HEAD", RefValue{Value: "deadbeef"}, true))

	branchValue, err := r.GetRef("refs/heads/master", false)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", branchValue.Value)

	headValue, err := r.GetRef("HEAD", false)
	require.NoError(t, err)
	assert.True(t, headValue.Symbolic)
}

func TestGetRefDerefCycleDetected(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.UpdateRef("refs/heads/a", RefValue{Symbolic: true, Value: "refs/heads/b"}, false))
	require.NoError(t, r.UpdateRef("refs/heads/b", RefValue{Symbolic: true, Value: "refs/heads/a"}, false))

	_, err := r.GetRef("refs/heads/a", true)
	assert.Error(t, err)
}

func TestDeleteRef(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.UpdateRef("refs/tags/v1", RefValue{Value: "abc123"}, false))
	require.NoError(t, r.DeleteRef("refs/tags/v1", false))

	value, err := r.GetRef("refs/tags/v1", false)
	require.NoError(t, err)
	assert.True(t, value.IsUnset())
}

func TestIterRefsFiltersByPrefixAndUnset(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.UpdateRef("refs/heads/feature", RefValue{Value: "1111111111111111111111111111111111111111"}, false))
	require.NoError(t, r.UpdateRef("refs/tags/v1", RefValue{Value: "2222222222222222222222222222222222222222"}, false))

	entries, err := r.IterRefs("refs/heads/", true)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name] = true
	}
	assert.True(t, names["refs/heads/feature"])
	assert.False(t, names["refs/tags/v1"])
}
