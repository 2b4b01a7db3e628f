package ugit

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	conflictMarkerHead  = "<<<<<<< HEAD"
	conflictMarkerSplit = "======="
	conflictMarkerOther = ">>>>>>> other"
)

// MergeOutcome reports what Merge did: a fast-forward move, or a
// three-way merge staged into the index and working tree (with
// MERGE_HEAD set so the next Commit records a two-parent merge
// commit).
type MergeOutcome struct {
	FastForward bool
	Conflicts   []string
}

// Merge brings otherOID into the current HEAD. If HEAD is an ancestor
// of otherOID (or unset), it fast-forwards: the index and working
// tree are set to otherOID's tree directly and HEAD advances without
// a merge commit. Otherwise it computes the merge base, three-way
// merges the base/head/other trees, stages the result, materializes
// it into the working tree, and sets MERGE_HEAD so a subsequent
// Commit produces the two-parent merge commit .
func (r *Repository) Merge(otherOID string) (*MergeOutcome, error) {
	head, err := r.GetRef(headRefName, true)
	if err != nil {
		return nil, errors.Wrap(err, "resolve HEAD")
	}

	if head.IsUnset() {
		if err := r.fastForwardTo(otherOID); err != nil {
			return nil, err
		}
		return &MergeOutcome{FastForward: true}, nil
	}
	headOID := head.Value

	base, err := r.MergeBase(otherOID, headOID)
	if err != nil {
		return nil, errors.Wrap(err, "find merge base")
	}

	if base == headOID {
		if err := r.fastForwardTo(otherOID); err != nil {
			return nil, err
		}
		return &MergeOutcome{FastForward: true}, nil
	}

	baseTree, err := r.treeOf(base)
	if err != nil {
		return nil, err
	}
	headTree, err := r.treeOf(headOID)
	if err != nil {
		return nil, err
	}
	otherTree, err := r.treeOf(otherOID)
	if err != nil {
		return nil, err
	}

	merged, conflicts, err := r.MergeTrees(baseTree, headTree, otherTree)
	if err != nil {
		return nil, errors.Wrap(err, "merge trees")
	}

	if err := r.WithIndex(func(idx *Index) error {
		idx.Clear()
		idx.Update(merged)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "stage merge result")
	}
	if err := r.CheckoutIndex(merged); err != nil {
		return nil, errors.Wrap(err, "materialize merge result")
	}
	if err := r.UpdateRef(mergeHeadName, RefValue{Value: otherOID}, false); err != nil {
		return nil, errors.Wrap(err, "set MERGE_HEAD")
	}

	return &MergeOutcome{Conflicts: conflicts}, nil
}

// fastForwardTo moves the index, working tree, and HEAD straight to
// otherOID's tree without creating a merge commit.
func (r *Repository) fastForwardTo(otherOID string) error {
	tree, err := r.treeOf(otherOID)
	if err != nil {
		return err
	}
	if err := r.WithIndex(func(idx *Index) error {
		idx.Clear()
		idx.Update(tree)
		return nil
	}); err != nil {
		return errors.Wrap(err, "stage fast-forward tree")
	}
	if err := r.CheckoutIndex(tree); err != nil {
		return errors.Wrap(err, "materialize fast-forward tree")
	}
	return errors.Wrap(r.UpdateRef(headRefName, RefValue{Value: otherOID}, true), "advance HEAD")
}

// treeOf resolves a commit to its flattened path->oid tree.
func (r *Repository) treeOf(commitOID string) (Index, error) {
	commit, err := r.GetCommit(commitOID)
	if err != nil {
		return nil, err
	}
	return r.FlattenTree(commit.Tree, "")
}

// MergeTrees three-way merges base, head, and other (each a flattened
// path->oid map) into a map suitable for loading into the
// Index, resolving the result per-path. It also returns the
// set of paths whose blob merge produced conflict markers, a
// diagnostic the core doesn't require but the CLI's merge command
// uses to report "CONFLICT (content): path".
func (r *Repository) MergeTrees(base, head, other Index) (Index, []string, error) {
	merged := Index{}
	var conflicts []string

	paths := map[string]bool{}
	for p := range base {
		paths[p] = true
	}
	for p := range head {
		paths[p] = true
	}
	for p := range other {
		paths[p] = true
	}

	for p := range paths {
		baseOID, inBase := base[p]
		headOID, inHead := head[p]
		otherOID, inOther := other[p]

		if inHead == inOther && (!inHead || headOID == otherOID) {
			if inHead {
				merged[p] = headOID
			}
			continue
		}

		if !inHead {
			if inOther && otherOID == baseOID {
				continue // dropped on head's side, other untouched: drop
			}
			merged[p] = otherOID
			continue
		}

		if !inOther {
			if inBase && headOID == baseOID {
				continue // dropped on other's side, head untouched: drop
			}
			merged[p] = headOID
			continue
		}

		// Both present and differ: resolve at blob granularity.
		mergedOID, conflicted, err := r.MergeBlobs(baseOID, headOID, otherOID)
		if err != nil {
			return nil, nil, err
		}
		merged[p] = mergedOID
		if conflicted {
			conflicts = append(conflicts, p)
		}
	}

	return merged, conflicts, nil
}

// MergeBlobs three-way merges the blobs named by baseOID, headOID,
// and otherOID and stores the result as a new blob, returning its
// OID. The merger always produces some byte sequence: on overlapping
// changes it embeds textual conflict markers rather than failing.
// Same inputs always produce the same bytes.
func (r *Repository) MergeBlobs(baseOID, headOID, otherOID string) (string, bool, error) {
	baseBytes, err := r.blobOrEmpty(baseOID)
	if err != nil {
		return "", false, err
	}
	headBytes, err := r.blobOrEmpty(headOID)
	if err != nil {
		return "", false, err
	}
	otherBytes, err := r.blobOrEmpty(otherOID)
	if err != nil {
		return "", false, err
	}

	merged, conflicted := mergeLines(splitLines(baseBytes), splitLines(headBytes), splitLines(otherBytes))
	oid, err := r.HashObject([]byte(strings.Join(merged, "")), TypeBlob)
	if err != nil {
		return "", false, err
	}
	return oid, conflicted, nil
}

func (r *Repository) blobOrEmpty(oid string) ([]byte, error) {
	if oid == "" {
		return nil, nil
	}
	return r.GetObject(oid, TypeBlob)
}

// splitLines splits on "\n" keeping the trailing newline attached to
// each line (so rejoining with "" reproduces the original bytes
// exactly, including a possibly-missing final newline).
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	text := string(data)
	var lines []string
	for len(text) > 0 {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:idx+1])
		text = text[idx+1:]
	}
	return lines
}

// mergeLines performs a line-granularity three-way merge, anchored on
// base lines that are unchanged with respect to both head and other.
// Between two consecutive anchors, if one side's gap matches base
// it takes the other side's gap unmodified; if the two gaps are
// textually identical they're taken as-is; otherwise the region is a
// genuine conflict and is wrapped in markers.
func mergeLines(base, head, other []string) ([]string, bool) {
	matchHead := lcsMap(base, head)
	matchOther := lcsMap(base, other)

	type anchor struct{ baseIdx, headIdx, otherIdx int }
	anchors := []anchor{{-1, -1, -1}}
	for i := range base {
		if matchHead[i] >= 0 && matchOther[i] >= 0 {
			anchors = append(anchors, anchor{i, matchHead[i], matchOther[i]})
		}
	}
	anchors = append(anchors, anchor{len(base), len(head), len(other)})

	var out []string
	conflict := false

	for k := 1; k < len(anchors); k++ {
		prev, cur := anchors[k-1], anchors[k]

		baseGap := base[prev.baseIdx+1 : cur.baseIdx]
		headGap := head[prev.headIdx+1 : cur.headIdx]
		otherGap := other[prev.otherIdx+1 : cur.otherIdx]

		resolved, gapConflict := resolveGap(baseGap, headGap, otherGap)
		out = append(out, resolved...)
		if gapConflict {
			conflict = true
		}

		if cur.baseIdx < len(base) {
			out = append(out, base[cur.baseIdx])
		}
	}

	return out, conflict
}

func resolveGap(base, head, other []string) ([]string, bool) {
	if linesEqual(head, other) {
		return head, false
	}
	if linesEqual(head, base) {
		return other, false
	}
	if linesEqual(other, base) {
		return head, false
	}

	var marked []string
	marked = append(marked, conflictMarkerHead+"\n")
	marked = append(marked, head...)
	marked = append(marked, conflictMarkerSplit+"\n")
	marked = append(marked, other...)
	marked = append(marked, conflictMarkerOther+"\n")
	return marked, true
}

func linesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// lcsMap returns, for each index i in a, the index in b that a[i] is
// matched to under a longest-common-subsequence alignment, or -1 if
// a[i] participates in no match. Used to find stable (unchanged)
// anchor lines for the three-way merge.
func lcsMap(a, b []string) []int {
	n, m := len(a), len(b)
	dp := make([][]int32, n+1)
	for i := range dp {
		dp[i] = make([]int32, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	match := make([]int, n)
	for i := range match {
		match[i] = -1
	}
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			match[i] = j
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}
	return match
}
