package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systemshift/ugit/pkg/ugit"
)

var diffCached bool

var diffCmd = &cobra.Command{
	Use:   "diff [<commit>]",
	Short: "Show changes between the working tree (or index) and a commit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		name := "@"
		if len(args) == 1 {
			name = args[0]
		}
		oid, err := r.ResolveName(name)
		if err != nil {
			return err
		}
		commit, err := r.GetCommit(oid)
		if err != nil {
			return err
		}
		before, err := r.FlattenTree(commit.Tree, "")
		if err != nil {
			return err
		}

		var after ugit.Index
		if diffCached {
			after, err = r.ReadIndex()
		} else {
			after, err = r.Scan()
		}
		if err != nil {
			return err
		}
		return printTreeDiff(r, before, after)
	},
}

func init() {
	diffCmd.Flags().BoolVar(&diffCached, "cached", false, "diff against the index instead of the working tree")
}

// printTreeDiff renders a unified-style diff for every path that
// differs between before and after, fetching all blob content by OID
// from the object store. That holds for a working-tree "after" map
// too: Scan already hashed and stored every file it found.
func printTreeDiff(r *ugit.Repository, before, after ugit.Index) error {
	paths := map[string]bool{}
	for p := range before {
		paths[p] = true
	}
	for p := range after {
		paths[p] = true
	}
	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	for _, p := range sorted {
		beforeOID, hadBefore := before[p]
		afterOID, hasAfter := after[p]
		if hadBefore && hasAfter && beforeOID == afterOID {
			continue
		}

		beforeText, err := blobTextOrEmpty(r, beforeOID, hadBefore)
		if err != nil {
			return err
		}
		afterText, err := blobTextOrEmpty(r, afterOID, hasAfter)
		if err != nil {
			return err
		}

		fmt.Printf("diff --ugit a/%s b/%s\n", p, p)
		fmt.Printf("--- a/%s\n", p)
		fmt.Printf("+++ b/%s\n", p)
		printUnifiedLines(splitDiffLines(beforeText), splitDiffLines(afterText))
	}
	return nil
}

func blobTextOrEmpty(r *ugit.Repository, oid string, present bool) (string, error) {
	if !present {
		return "", nil
	}
	content, err := r.GetObject(oid, ugit.TypeBlob)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func splitDiffLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// printUnifiedLines renders a minimal unified-style diff body (no hunk
// headers/context collapsing) by aligning a and b on their longest
// common subsequence and printing "-"/"+"/" " prefixed lines.
func printUnifiedLines(a, b []string) {
	match := lcsAlign(a, b)
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && match[i] == j && j < len(b):
			fmt.Print(" " + a[i])
			i++
			j++
		case i < len(a) && (match[i] < 0 || match[i] > j):
			fmt.Print("-" + a[i])
			i++
		default:
			fmt.Print("+" + b[j])
			j++
		}
	}
}

// lcsAlign returns, for each index in a, the aligned index in b under
// a longest-common-subsequence match, or -1 if unmatched.
func lcsAlign(a, b []string) []int {
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
