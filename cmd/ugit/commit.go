package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	commitMessage string
	commitAuthor  string
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record a new commit from the current index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if commitMessage == "" {
			return fmt.Errorf("commit message is required (use -m \"message\")")
		}
		r, err := openRepo()
		if err != nil {
			return err
		}
		author := commitAuthor
		if author == "" {
			author = r.UserIdentity()
		}
		full := fmt.Sprintf("Author: %s\n\n%s", author, commitMessage)

		oid, err := r.Commit(full)
		if err != nil {
			return err
		}
		short := oid
		if len(short) > 8 {
			short = short[:8]
		}
		fmt.Printf("[%s] %s\n", short, commitMessage)
		return nil
	},
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "commit message")
	commitCmd.Flags().StringVar(&commitAuthor, "author", "", "override the author line (default: config user.name/user.email)")
}

var logCmd = &cobra.Command{
	Use:   "log [<ref>]",
	Short: "Show commit history starting from a ref (default @)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		start := "@"
		if len(args) == 1 {
			start = args[0]
		}
		startOID, err := r.ResolveName(start)
		if err != nil {
			return err
		}

		oids, err := r.IterCommitsAndParents([]string{startOID})
		if err != nil {
			return err
		}
		if len(oids) == 0 {
			fmt.Println("No commits yet")
			return nil
		}

		for _, oid := range oids {
			commit, err := r.GetCommit(oid)
			if err != nil {
				return err
			}
			fmt.Printf("commit %s\n", oid)
			for _, p := range commit.Parents {
				fmt.Printf("parent %s\n", p)
			}
			fmt.Printf("\n%s\n\n", indentMessage(commit.Message))
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [<oid>]",
	Short: "Show a commit's message and the diff it introduces",
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

		fmt.Printf("commit %s\n\n%s\n\n", oid, indentMessage(commit.Message))

		var parentTree string
		if len(commit.Parents) > 0 {
			parentCommit, err := r.GetCommit(commit.Parents[0])
			if err != nil {
				return err
			}
			parentTree = parentCommit.Tree
		}

		before, err := r.FlattenTree(parentTree, "")
		if err != nil {
			return err
		}
		after, err := r.FlattenTree(commit.Tree, "")
		if err != nil {
			return err
		}
		return printTreeDiff(r, before, after)
	},
}

// indentMessage prefixes every line of message with four spaces, the
// way log/show present a commit's free-text body.
func indentMessage(message string) string {
	lines := strings.Split(strings.TrimRight(message, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "    " + line
	}
	return strings.Join(lines, "\n")
}
