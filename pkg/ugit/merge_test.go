package ugit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeTreesPropagatesEqualState(t *testing.T) {
	r := newTestRepo(t)
	oid, err := r.HashObject([]byte("same\n"), TypeBlob)
	require.NoError(t, err)

	base := Index{"a.txt": oid}
	head := Index{"a.txt": oid}
	other := Index{"a.txt": oid}

	merged, conflicts, err := r.MergeTrees(base, head, other)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	assert.Equal(t, oid, merged["a.txt"])
}

func TestMergeTreesDropsFileDeletedOnOneSideUntouchedOnOther(t *testing.T) {
	r := newTestRepo(t)
	oid, err := r.HashObject([]byte("content\n"), TypeBlob)
	require.NoError(t, err)

	base := Index{"a.txt": oid}
	head := Index{} // deleted on head
	other := Index{"a.txt": oid}

	merged, _, err := r.MergeTrees(base, head, other)
	require.NoError(t, err)
	_, present := merged["a.txt"]
	assert.False(t, present)
}

func TestMergeTreesTakesChangedSideWhenOtherAbsent(t *testing.T) {
	r := newTestRepo(t)
	baseOID, err := r.HashObject([]byte("base\n"), TypeBlob)
	require.NoError(t, err)
	headOID, err := r.HashObject([]byte("changed\n"), TypeBlob)
	require.NoError(t, err)

	base := Index{"a.txt": baseOID}
	head := Index{"a.txt": headOID}
	other := Index{} // absent, but head differs from base

	merged, _, err := r.MergeTrees(base, head, other)
	require.NoError(t, err)
	assert.Equal(t, headOID, merged["a.txt"])
}

func TestMergeBlobsNonOverlappingChangesNoConflict(t *testing.T) {
	r := newTestRepo(t)
	baseOID, err := r.HashObject([]byte("line1\nline2\nline3\n"), TypeBlob)
	require.NoError(t, err)
	headOID, err := r.HashObject([]byte("line1-head\nline2\nline3\n"), TypeBlob)
	require.NoError(t, err)
	otherOID, err := r.HashObject([]byte("line1\nline2\nline3-other\n"), TypeBlob)
	require.NoError(t, err)

	mergedOID, conflicted, err := r.MergeBlobs(baseOID, headOID, otherOID)
	require.NoError(t, err)
	assert.False(t, conflicted)

	merged, err := r.GetObject(mergedOID, TypeBlob)
	require.NoError(t, err)
	assert.Equal(t, "line1-head\nline2\nline3-other\n", string(merged))
}

func TestMergeBlobsOverlappingChangeConflictsDeterministically(t *testing.T) {
	r := newTestRepo(t)
	baseOID, err := r.HashObject([]byte("line1\n"), TypeBlob)
	require.NoError(t, err)
	headOID, err := r.HashObject([]byte("head-version\n"), TypeBlob)
	require.NoError(t, err)
	otherOID, err := r.HashObject([]byte("other-version\n"), TypeBlob)
	require.NoError(t, err)

	oid1, conflicted1, err := r.MergeBlobs(baseOID, headOID, otherOID)
	require.NoError(t, err)
	assert.True(t, conflicted1)

	oid2, conflicted2, err := r.MergeBlobs(baseOID, headOID, otherOID)
	require.NoError(t, err)
	assert.True(t, conflicted2)
	assert.Equal(t, oid1, oid2) // determinism: same inputs, same bytes

	content, err := r.GetObject(oid1, TypeBlob)
	require.NoError(t, err)
	assert.Contains(t, string(content), conflictMarkerHead)
	assert.Contains(t, string(content), conflictMarkerOther)
}

func TestMergeFastForward(t *testing.T) {
	r := newTestRepo(t)
	first := commitFile(t, r, "a.txt", "A\n", "first")
	require.NoError(t, r.CreateBranch("feature", first))
	require.NoError(t, r.Checkout("feature"))
	second := commitFile(t, r, "a.txt", "A2\n", "second")

	require.NoError(t, r.Checkout("master"))
	outcome, err := r.Merge(second)
	require.NoError(t, err)
	assert.True(t, outcome.FastForward)

	head, err := r.GetRef("HEAD", true)
	require.NoError(t, err)
	assert.Equal(t, second, head.Value)
}

func TestMergeThreeWayCreatesMergeHeadForNextCommit(t *testing.T) {
	r := newTestRepo(t)
	base := commitFile(t, r, "a.txt", "A\n", "base")
	require.NoError(t, r.CreateBranch("feature", base))

	masterTip := commitFile(t, r, "a.txt", "A-master\n", "master change")

	require.NoError(t, r.Checkout("feature"))
	featureTip := commitFile(t, r, "b.txt", "B\n", "feature change")

	require.NoError(t, r.Checkout("master"))
	outcome, err := r.Merge(featureTip)
	require.NoError(t, err)
	assert.False(t, outcome.FastForward)

	mergeHead, err := r.GetRef("MERGE_HEAD", false)
	require.NoError(t, err)
	assert.Equal(t, featureTip, mergeHead.Value)

	mergeCommit, err := r.Commit("merge feature into master")
	require.NoError(t, err)

	commit, err := r.GetCommit(mergeCommit)
	require.NoError(t, err)
	assert.Equal(t, []string{masterTip, featureTip}, commit.Parents)

	// MERGE_HEAD consumed by the commit.
	mergeHead, err = r.GetRef("MERGE_HEAD", false)
	require.NoError(t, err)
	assert.True(t, mergeHead.IsUnset())
}
