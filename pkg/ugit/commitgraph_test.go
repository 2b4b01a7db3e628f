package ugit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, r *Repository, path, content, message string) string {
	t.Helper()
	oid, err := r.HashObject([]byte(content), TypeBlob)
	require.NoError(t, err)
	require.NoError(t, r.WithIndex(func(idx *Index) error {
		(*idx)[path] = oid
		return nil
	}))
	commitOID, err := r.Commit(message)
	require.NoError(t, err)
	return commitOID
}

func TestCommitAndGetCommitRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	first := commitFile(t, r, "a.txt", "A\n", "first")
	second := commitFile(t, r, "a.txt", "A2\n", "second")

	commit, err := r.GetCommit(second)
	require.NoError(t, err)
	assert.Equal(t, []string{first}, commit.Parents)
	assert.Equal(t, "second\n", commit.Message)
}

func TestLogOrderingNewestFirstWithParentLinkage(t *testing.T) {
	r := newTestRepo(t)
	first := commitFile(t, r, "a.txt", "A\n", "first")
	second := commitFile(t, r, "a.txt", "A2\n", "second")

	oids, err := r.IterCommitsAndParents([]string{second})
	require.NoError(t, err)
	require.Equal(t, []string{second, first}, oids)
}

func TestGetCommitUnknownHeaderIsCorrupt(t *testing.T) {
	r := newTestRepo(t)
	payload := "tree 1111111111111111111111111111111111111111\nauthor x\n\nmsg\n"
	oid, err := r.HashObject([]byte(payload), TypeCommit)
	require.NoError(t, err)

	_, err = r.GetCommit(oid)
	assert.ErrorIs(t, err, ErrCorruptObject)
}

func TestResolveNameCandidates(t *testing.T) {
	r := newTestRepo(t)
	oid := commitFile(t, r, "a.txt", "A\n", "first")

	resolved, err := r.ResolveName("@")
	require.NoError(t, err)
	assert.Equal(t, oid, resolved)

	require.NoError(t, r.CreateBranch("feature", oid))
	resolved, err = r.ResolveName("feature")
	require.NoError(t, err)
	assert.Equal(t, oid, resolved)

	require.NoError(t, r.Tag("v1", oid))
	resolved, err = r.ResolveName("v1")
	require.NoError(t, err)
	assert.Equal(t, oid, resolved)

	_, err = r.ResolveName("nonexistent")
	assert.ErrorIs(t, err, ErrUnknownRef)
}

func TestBranchAndMergeBaseScenario(t *testing.T) {
	r := newTestRepo(t)
	base := commitFile(t, r, "a.txt", "A\n", "base")
	require.NoError(t, r.CreateBranch("feature", base))

	masterTip := commitFile(t, r, "a.txt", "A-master\n", "master change")

	require.NoError(t, r.Checkout("feature"))
	featureTip := commitFile(t, r, "b.txt", "B\n", "feature change")

	mergeBase, err := r.MergeBase(masterTip, featureTip)
	require.NoError(t, err)
	assert.Equal(t, base, mergeBase)

	reverse, err := r.MergeBase(featureTip, masterTip)
	require.NoError(t, err)
	assert.Equal(t, mergeBase, reverse) // commutativity

	self, err := r.MergeBase(masterTip, masterTip)
	require.NoError(t, err)
	assert.Equal(t, masterTip, self)
}

func TestIsAncestorOf(t *testing.T) {
	r := newTestRepo(t)
	first := commitFile(t, r, "a.txt", "A\n", "first")
	second := commitFile(t, r, "a.txt", "A2\n", "second")

	isAnc, err := r.IsAncestorOf(second, first)
	require.NoError(t, err)
	assert.True(t, isAnc)

	isAnc, err = r.IsAncestorOf(second, second)
	require.NoError(t, err)
	assert.True(t, isAnc)

	isAnc, err = r.IsAncestorOf(first, second)
	require.NoError(t, err)
	assert.False(t, isAnc)
}
