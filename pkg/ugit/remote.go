package ugit

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	remoteHeadsPrefix = "refs/heads/"
	localRemotePrefix = "refs/remote/"
)

// Fetch pulls every object reachable from the peer's branches into
// this repository's object store, then records each branch's tip
// locally under refs/remote/<branch>. Objects are copied sequentially
// (no internal task queue, no background worker).
func (r *Repository) Fetch(peer *Repository) error {
	remoteBranches, err := peer.IterRefs(remoteHeadsPrefix, true)
	if err != nil {
		return errors.Wrap(err, "enumerate remote branches")
	}

	var startOIDs []string
	for _, e := range remoteBranches {
		startOIDs = append(startOIDs, e.Value.Value)
	}

	objects, err := peer.IterObjectsInCommits(startOIDs)
	if err != nil {
		return errors.Wrap(err, "walk remote object graph")
	}
	for _, oid := range objects {
		if r.ObjectExists(oid) {
			continue
		}
		if err := r.CopyObjectFrom(oid, peer); err != nil {
			return errors.Wrapf(err, "fetch object %s", oid)
		}
	}

	for _, e := range remoteBranches {
		branch := strings.TrimPrefix(e.Name, remoteHeadsPrefix)
		localRef := localRemotePrefix + branch
		if err := r.UpdateRef(localRef, RefValue{Value: e.Value.Value}, false); err != nil {
			return errors.Wrapf(err, "install remote-tracking ref %s", localRef)
		}
	}
	return nil
}

// Push resolves the local tip of branch, requires that the peer's
// same-named branch (if any) is an ancestor of that tip, copies every
// object the peer is missing, and advances the peer's branch to the
// local tip. Objects are copied sequentially, matching the
// single-threaded operation model.
func (r *Repository) Push(peer *Repository, branch string) error {
	fullRef := remoteHeadsPrefix + branch

	local, err := r.GetRef(fullRef, true)
	if err != nil {
		return errors.Wrap(err, "resolve local branch")
	}
	if local.IsUnset() {
		return errors.Wrapf(ErrUnknownRef, "%s", fullRef)
	}
	localOID := local.Value

	remoteRefs, err := peer.IterRefs("", true)
	if err != nil {
		return errors.Wrap(err, "enumerate remote refs")
	}

	var remoteOID string
	var knownRemoteStarts []string
	for _, e := range remoteRefs {
		if e.Name == fullRef {
			remoteOID = e.Value.Value
		}
		if peer.ObjectExists(e.Value.Value) {
			knownRemoteStarts = append(knownRemoteStarts, e.Value.Value)
		}
	}

	if remoteOID != "" {
		isAncestor, err := r.IsAncestorOf(localOID, remoteOID)
		if err != nil {
			return errors.Wrap(err, "check fast-forward")
		}
		if !isAncestor {
			return errors.Wrapf(ErrNonFastForward, "%s", branch)
		}
	}

	remoteObjects, err := peer.IterObjectsInCommits(knownRemoteStarts)
	if err != nil {
		return errors.Wrap(err, "walk objects present on remote")
	}
	remoteSet := make(map[string]bool, len(remoteObjects))
	for _, oid := range remoteObjects {
		remoteSet[oid] = true
	}

	localObjects, err := r.IterObjectsInCommits([]string{localOID})
	if err != nil {
		return errors.Wrap(err, "walk local object graph")
	}

	for _, oid := range localObjects {
		if remoteSet[oid] {
			continue
		}
		if err := r.CopyObjectTo(oid, peer); err != nil {
			return errors.Wrapf(err, "push object %s", oid)
		}
	}

	if err := peer.UpdateRef(fullRef, RefValue{Value: localOID}, false); err != nil {
		return errors.Wrapf(err, "advance remote %s", fullRef)
	}
	return nil
}
