package ugit

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// maxDerefDepth bounds symbolic ref chain following so a cyclic chain
// fails loudly instead of looping forever.
const maxDerefDepth = 32

const symbolicPrefix = "ref: "

// RefValue is the parsed form of a ref file: either a direct OID or a
// symbolic pointer at another ref name. An empty Value with
// Symbolic == false denotes "unset".
type RefValue struct {
	Symbolic bool
	Value    string
}

// IsUnset reports whether this ref resolves to nothing.
func (v RefValue) IsUnset() bool {
	return !v.Symbolic && v.Value == ""
}

func (r *Repository) refPath(name string) string {
	return filepath.Join(r.GitDir, filepath.FromSlash(name))
}

// UpdateRef writes value at ref. When deref is true and ref is itself
// symbolic, the write lands on the terminal ref in the chain instead
// (so update_ref("HEAD", oid) advances the branch HEAD points at).
// A RefValue with an empty Value is rejected: refs are deleted via
// DeleteRef, not by writing emptiness.
func (r *Repository) UpdateRef(ref string, value RefValue, deref bool) error {
	if value.Value == "" {
		return errors.New("update_ref requires a non-empty value")
	}

	target := ref
	if deref {
		var err error
		target, err = r.derefRefName(ref)
		if err != nil {
			return err
		}
	}

	path := r.refPath(target)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(ErrIOError, "create ref dir for %s: %v", target, err)
	}

	var contents string
	if value.Symbolic {
		contents = symbolicPrefix + value.Value
	} else {
		contents = value.Value
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return errors.Wrapf(ErrIOError, "write ref %s: %v", target, err)
	}
	return nil
}

// GetRef reads ref. When deref is true, a symbolic chain is followed
// to its terminal value and the returned RefValue's Symbolic flag is
// always false. When deref is false, only the immediate form at ref
// is returned.
func (r *Repository) GetRef(ref string, deref bool) (RefValue, error) {
	value, err := r.readRefFile(ref)
	if err != nil {
		return RefValue{}, err
	}
	if !deref || !value.Symbolic {
		return value, nil
	}

	depth := 0
	cur := value
	for cur.Symbolic {
		depth++
		if depth > maxDerefDepth {
			return RefValue{}, errors.Errorf("symbolic ref cycle detected starting at %s", ref)
		}
		next, err := r.readRefFile(cur.Value)
		if err != nil {
			return RefValue{}, err
		}
		cur = next
	}
	return cur, nil
}

// derefRefName follows a symbolic chain and returns the terminal ref
// *name* (not its value), used by UpdateRef/DeleteRef to find where
// to actually write or remove.
func (r *Repository) derefRefName(ref string) (string, error) {
	name := ref
	depth := 0
	for {
		value, err := r.readRefFile(name)
		if err != nil {
			return "", err
		}
		if !value.Symbolic {
			return name, nil
		}
		depth++
		if depth > maxDerefDepth {
			return "", errors.Errorf("symbolic ref cycle detected starting at %s", ref)
		}
		name = value.Value
	}
}

// readRefFile reads exactly the ref named, with no chain following.
// Missing file is the unset sentinel, not an error.
func (r *Repository) readRefFile(ref string) (RefValue, error) {
	raw, err := os.ReadFile(r.refPath(ref))
	if err != nil {
		if os.IsNotExist(err) {
			return RefValue{}, nil
		}
		return RefValue{}, errors.Wrapf(ErrIOError, "read ref %s: %v", ref, err)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return RefValue{}, nil
	}
	if strings.HasPrefix(text, "ref:") {
		target := strings.TrimSpace(strings.TrimPrefix(text, "ref:"))
		return RefValue{Symbolic: true, Value: target}, nil
	}
	return RefValue{Symbolic: false, Value: text}, nil
}

// DeleteRef resolves like UpdateRef (honoring deref) and removes the
// terminal ref file.
func (r *Repository) DeleteRef(ref string, deref bool) error {
	target := ref
	if deref {
		var err error
		target, err = r.derefRefName(ref)
		if err != nil {
			return err
		}
	}
	if err := os.Remove(r.refPath(target)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(ErrIOError, "delete ref %s: %v", target, err)
	}
	return nil
}

// RefEntry is one (name, resolved value) pair yielded by IterRefs.
type RefEntry struct {
	Name  string
	Value RefValue
}

// IterRefs enumerates HEAD, MERGE_HEAD, and every file under refs/
// recursively, filtered to names with the given prefix and to refs
// whose resolved value is non-empty.
func (r *Repository) IterRefs(prefix string, deref bool) ([]RefEntry, error) {
	names := []string{headRefName, mergeHeadName}

	refsRoot := filepath.Join(r.GitDir, refsDirName)
	err := filepath.Walk(refsRoot, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.GitDir, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrIOError, "walk refs: %v", err)
	}

	var entries []RefEntry
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		value, err := r.GetRef(name, deref)
		if err != nil {
			return nil, err
		}
		if value.IsUnset() {
			continue
		}
		entries = append(entries, RefEntry{Name: name, Value: value})
	}
	return entries, nil
}
