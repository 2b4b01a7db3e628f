package ugit

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// CurrentBranch reports the branch HEAD symbolically points at, if
// any. A detached HEAD (direct OID) reports ok == false.
func (r *Repository) CurrentBranch() (name string, ok bool, err error) {
	value, err := r.GetRef(headRefName, false)
	if err != nil {
		return "", false, err
	}
	if !value.Symbolic {
		return "", false, nil
	}
	return strings.TrimPrefix(value.Value, remoteHeadsPrefix), true, nil
}

// CreateBranch points refs/heads/<name> directly at startOID.
func (r *Repository) CreateBranch(name, startOID string) error {
	if name == "" || strings.Contains(name, "/") {
		return errors.Wrapf(ErrInvalidPath, "branch name %q", name)
	}
	return r.UpdateRef(remoteHeadsPrefix+name, RefValue{Value: startOID}, false)
}

// ListBranches returns every local branch name, sorted.
func (r *Repository) ListBranches() ([]string, error) {
	entries, err := r.IterRefs(remoteHeadsPrefix, false)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimPrefix(e.Name, remoteHeadsPrefix))
	}
	sort.Strings(names)
	return names, nil
}

// Tag points refs/tags/<name> directly at oid.
func (r *Repository) Tag(name, oid string) error {
	if name == "" || strings.Contains(name, "/") {
		return errors.Wrapf(ErrInvalidPath, "tag name %q", name)
	}
	return r.UpdateRef("refs/tags/"+name, RefValue{Value: oid}, false)
}

// Checkout resolves name to a commit, materializes its tree into the
// index and working tree, and repoints HEAD: symbolically at
// refs/heads/<name> if that branch exists, otherwise directly at the
// resolved OID (a detached HEAD).
func (r *Repository) Checkout(name string) error {
	oid, err := r.ResolveName(name)
	if err != nil {
		return err
	}

	tree, err := r.treeOf(oid)
	if err != nil {
		return errors.Wrap(err, "resolve target tree")
	}

	if err := r.WithIndex(func(idx *Index) error {
		idx.Clear()
		idx.Update(tree)
		return nil
	}); err != nil {
		return errors.Wrap(err, "stage checkout target")
	}
	if err := r.CheckoutIndex(tree); err != nil {
		return errors.Wrap(err, "materialize checkout target")
	}

	branchRef := remoteHeadsPrefix + name
	branchValue, err := r.GetRef(branchRef, false)
	if err != nil {
		return err
	}
	if !branchValue.IsUnset() {
		return r.UpdateRef(headRefName, RefValue{Symbolic: true, Value: branchRef}, false)
	}
	return r.UpdateRef(headRefName, RefValue{Value: oid}, false)
}

// Reset moves the ref HEAD currently resolves to (the current branch,
// or HEAD itself if detached) to oid, and resets the index to oid's
// tree. The working tree is left untouched, matching a plain (mixed)
// reset rather than a hard reset.
func (r *Repository) Reset(oid string) error {
	if err := r.UpdateRef(headRefName, RefValue{Value: oid}, true); err != nil {
		return errors.Wrap(err, "move HEAD")
	}

	tree, err := r.treeOf(oid)
	if err != nil {
		return errors.Wrap(err, "resolve target tree")
	}
	return r.WithIndex(func(idx *Index) error {
		idx.Clear()
		idx.Update(tree)
		return nil
	})
}
