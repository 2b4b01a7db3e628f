package main

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/systemshift/ugit/pkg/ugit"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the working tree status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}

		branch, onBranch, err := r.CurrentBranch()
		if err != nil {
			return err
		}
		if onBranch {
			fmt.Printf("On branch %s\n", branch)
		} else {
			fmt.Println("HEAD detached")
		}

		head, err := r.GetRef("HEAD", true)
		if err != nil {
			return err
		}
		var headTree ugit.Index
		if !head.IsUnset() {
			commit, err := r.GetCommit(head.Value)
			if err != nil {
				return err
			}
			headTree, err = r.FlattenTree(commit.Tree, "")
			if err != nil {
				return err
			}
		} else {
			headTree = ugit.Index{}
		}

		index, err := r.ReadIndex()
		if err != nil {
			return err
		}

		working, err := r.Scan()
		if err != nil {
			return err
		}

		staged := diffPaths(headTree, index)
		unstaged := diffPaths(index, working)

		fmt.Println("Changes staged for commit:")
		printStatusLines(staged)
		fmt.Println("Changes not staged for commit:")
		printStatusLines(unstaged)

		var totalBytes uint64
		for path := range working {
			content, err := r.GetObject(working[path], ugit.TypeBlob)
			if err == nil {
				totalBytes += uint64(len(content))
			}
			_ = path
		}
		fmt.Printf("working tree: %d files, %s\n", len(working), humanize.Bytes(totalBytes))
		return nil
	},
}

// diffPaths reports, per path present in either map, whether it was
// added, removed, or modified between before and after.
func diffPaths(before, after ugit.Index) map[string]string {
	changes := map[string]string{}
	for p, oid := range after {
		if old, ok := before[p]; !ok {
			changes[p] = "added"
		} else if old != oid {
			changes[p] = "modified"
		}
	}
	for p := range before {
		if _, ok := after[p]; !ok {
			changes[p] = "deleted"
		}
	}
	return changes
}

func printStatusLines(changes map[string]string) {
	if len(changes) == 0 {
		fmt.Println("  (none)")
		return
	}
	paths := make([]string, 0, len(changes))
	for p := range changes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Printf("  %s: %s\n", changes[p], p)
	}
}
