package ugit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchInstallsRemoteTrackingRefs(t *testing.T) {
	local := newTestRepo(t)
	peer := newTestRepo(t)

	tip := commitFile(t, peer, "a.txt", "A\n", "first")

	require.NoError(t, local.Fetch(peer))

	assert.True(t, local.ObjectExists(tip))
	remoteRef, err := local.GetRef("refs/remote/master", false)
	require.NoError(t, err)
	assert.Equal(t, tip, remoteRef.Value)
}

func TestPushCopiesOnlyMissingObjectsAndAdvancesRemote(t *testing.T) {
	local := newTestRepo(t)
	peer := newTestRepo(t)

	commitFile(t, local, "a.txt", "A\n", "first")
	second := commitFile(t, local, "a.txt", "A2\n", "second")

	require.NoError(t, local.Push(peer, "master"))

	peerHead, err := peer.GetRef("refs/heads/master", false)
	require.NoError(t, err)
	assert.Equal(t, second, peerHead.Value)
	assert.True(t, peer.ObjectExists(second))
}

func TestPushNonFastForwardLeavesPeerUntouched(t *testing.T) {
	local := newTestRepo(t)
	peer := newTestRepo(t)

	first := commitFile(t, local, "a.txt", "A\n", "first")
	commitFile(t, local, "a.txt", "A2\n", "second")
	require.NoError(t, local.Push(peer, "master"))

	// Rewind local HEAD, simulating a local history that omits the
	// commit already known to the peer.
	require.NoError(t, local.UpdateRef("HEAD", RefValue{Value: first}, true))

	peerHeadBefore, err := peer.GetRef("refs/heads/master", false)
	require.NoError(t, err)

	err = local.Push(peer, "master")
	assert.ErrorIs(t, err, ErrNonFastForward)

	peerHeadAfter, err := peer.GetRef("refs/heads/master", false)
	require.NoError(t, err)
	assert.Equal(t, peerHeadBefore, peerHeadAfter)
}
