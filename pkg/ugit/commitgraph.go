package ugit

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Commit is the parsed form of a commit object's payload.
type Commit struct {
	Tree    string
	Parents []string
	Message string
}

var hexOIDPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// Commit materializes idx into a root tree, builds a commit object
// referencing it plus HEAD (and MERGE_HEAD, if one is pending) as
// parents, and advances HEAD to the new commit. Objects are flushed
// before the ref update (durability ordering): the tree and commit
// are both durably stored before HEAD ever points at the commit OID.
func (r *Repository) Commit(message string) (string, error) {
	idx, err := r.loadIndex()
	if err != nil {
		return "", err
	}

	treeOID, err := r.WriteTree(idx)
	if err != nil {
		return "", errors.Wrap(err, "write root tree")
	}

	var parents []string
	head, err := r.GetRef(headRefName, true)
	if err != nil {
		return "", errors.Wrap(err, "resolve HEAD")
	}
	if !head.IsUnset() {
		parents = append(parents, head.Value)
	}

	mergeHead, err := r.GetRef(mergeHeadName, true)
	if err != nil {
		return "", errors.Wrap(err, "resolve MERGE_HEAD")
	}
	if !mergeHead.IsUnset() {
		parents = append(parents, mergeHead.Value)
	}

	var sb strings.Builder
	sb.WriteString("tree ")
	sb.WriteString(treeOID)
	sb.WriteByte('\n')
	for _, p := range parents {
		sb.WriteString("parent ")
		sb.WriteString(p)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	sb.WriteString(message)
	if !strings.HasSuffix(message, "\n") {
		sb.WriteByte('\n')
	}

	commitOID, err := r.HashObject([]byte(sb.String()), TypeCommit)
	if err != nil {
		return "", errors.Wrap(err, "store commit object")
	}

	if err := r.UpdateRef(headRefName, RefValue{Value: commitOID}, true); err != nil {
		return "", errors.Wrap(err, "advance HEAD")
	}

	if !mergeHead.IsUnset() {
		if err := r.DeleteRef(mergeHeadName, false); err != nil {
			return "", errors.Wrap(err, "clear MERGE_HEAD")
		}
	}

	return commitOID, nil
}

// GetCommit parses the commit object named by oid. Any header other
// than "tree" or "parent" is a corruption.
func (r *Repository) GetCommit(oid string) (Commit, error) {
	payload, err := r.GetObject(oid, TypeCommit)
	if err != nil {
		return Commit{}, err
	}

	text := string(payload)
	headerEnd := strings.Index(text, "\n\n")
	if headerEnd < 0 {
		return Commit{}, errors.Wrapf(ErrCorruptObject, "commit %s: missing header/message separator", oid)
	}

	header := text[:headerEnd]
	message := text[headerEnd+2:]

	commit := Commit{Message: message}
	if header != "" {
		for _, line := range strings.Split(header, "\n") {
			fields := strings.SplitN(line, " ", 2)
			if len(fields) != 2 {
				return Commit{}, errors.Wrapf(ErrCorruptObject, "commit %s: malformed header %q", oid, line)
			}
			switch fields[0] {
			case "tree":
				commit.Tree = fields[1]
			case "parent":
				commit.Parents = append(commit.Parents, fields[1])
			default:
				return Commit{}, errors.Wrapf(ErrCorruptObject, "commit %s: unknown header %q", oid, fields[0])
			}
		}
	}
	if commit.Tree == "" {
		return Commit{}, errors.Wrapf(ErrCorruptObject, "commit %s: missing tree header", oid)
	}
	return commit, nil
}

// ResolveName accepts "@" as an alias for HEAD, then tries, in order,
// a ref literally named name, "refs/"+name, "refs/tags/"+name, and
// "refs/heads/"+name; the first one that resolves to a non-empty
// value wins. Failing that, a 40-hex string is treated as a literal
// OID. Anything else is ErrUnknownRef.
func (r *Repository) ResolveName(name string) (string, error) {
	if name == "@" {
		name = headRefName
	}

	candidates := []string{name, "refs/" + name, "refs/tags/" + name, "refs/heads/" + name}
	for _, ref := range candidates {
		value, err := r.GetRef(ref, true)
		if err != nil {
			return "", err
		}
		if !value.IsUnset() {
			return value.Value, nil
		}
	}

	if hexOIDPattern.MatchString(name) {
		return name, nil
	}
	return "", errors.Wrapf(ErrUnknownRef, "%s", name)
}

// IterCommitsAndParents performs a breadth-first walk across the
// commit DAG starting from startOIDs, with a visited set so finite
// (possibly cyclic-corrupted) graphs always terminate. Each commit's
// first parent is pushed to the front of the work queue and any
// further parents to the back, biasing traversal toward first-parent
// history the way `log` output expects. This ordering is load-bearing
// for callers and must be preserved exactly, not reordered.
func (r *Repository) IterCommitsAndParents(startOIDs []string) ([]string, error) {
	var queue []string
	queue = append(queue, startOIDs...)
	visited := map[string]bool{}
	var order []string

	for len(queue) > 0 {
		oid := queue[0]
		queue = queue[1:]
		if oid == "" || visited[oid] {
			continue
		}
		visited[oid] = true
		order = append(order, oid)

		commit, err := r.GetCommit(oid)
		if err != nil {
			return nil, err
		}
		if len(commit.Parents) > 0 {
			queue = append([]string{commit.Parents[0]}, queue...)
			if len(commit.Parents) > 1 {
				queue = append(queue, commit.Parents[1:]...)
			}
		}
	}
	return order, nil
}

// IterObjectsInCommits yields, for each reachable commit, the commit
// OID itself followed by every object OID transitively referenced by
// its tree (trees before blobs), deduplicated against a shared
// visited set.
func (r *Repository) IterObjectsInCommits(startOIDs []string) ([]string, error) {
	commits, err := r.IterCommitsAndParents(startOIDs)
	if err != nil {
		return nil, err
	}

	visited := map[string]bool{}
	var order []string
	emit := func(oid string) {
		if oid == "" || visited[oid] {
			return
		}
		visited[oid] = true
		order = append(order, oid)
	}

	for _, commitOID := range commits {
		emit(commitOID)
		commit, err := r.GetCommit(commitOID)
		if err != nil {
			return nil, err
		}
		if err := r.walkTreeObjects(commit.Tree, emit); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (r *Repository) walkTreeObjects(oid string, emit func(string)) error {
	if oid == "" {
		return nil
	}
	emit(oid)

	entries, err := r.ParseTree(oid)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Type == TypeTree {
			if err := r.walkTreeObjects(e.OID, emit); err != nil {
				return err
			}
		} else {
			emit(e.OID)
		}
	}
	return nil
}

// MergeBase returns the first common ancestor of a and b: the
// ancestor set of a (including a) is collected, then b's ancestors
// are streamed in first-parent-biased order and the first one found
// in a's set wins. Returns "" if none exists.
func (r *Repository) MergeBase(a, b string) (string, error) {
	ancestorsOfA, err := r.IterCommitsAndParents([]string{a})
	if err != nil {
		return "", err
	}
	setA := map[string]bool{}
	for _, oid := range ancestorsOfA {
		setA[oid] = true
	}

	ancestorsOfB, err := r.IterCommitsAndParents([]string{b})
	if err != nil {
		return "", err
	}
	for _, oid := range ancestorsOfB {
		if setA[oid] {
			return oid, nil
		}
	}
	return "", nil
}

// IsAncestorOf reports whether maybeAncestor is in the ancestor set
// of descendant (a commit is its own ancestor).
func (r *Repository) IsAncestorOf(descendant, maybeAncestor string) (bool, error) {
	ancestors, err := r.IterCommitsAndParents([]string{descendant})
	if err != nil {
		return false, err
	}
	for _, oid := range ancestors {
		if oid == maybeAncestor {
			return true, nil
		}
	}
	return false, nil
}
