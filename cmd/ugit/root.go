package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/systemshift/ugit/pkg/ugit"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "ugit",
	Short:         "µgit: a minimal content-addressed version control system",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// openRepo locates the repository root by walking up from cwd and
// returns a handle onto it. Commands that require an existing
// repository (everything except init) call this first.
func openRepo() (*ugit.Repository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := ugit.FindRoot(cwd)
	if err != nil {
		return nil, err
	}
	return ugit.Open(root), nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(hashObjectCmd)
	rootCmd.AddCommand(catFileCmd)
	rootCmd.AddCommand(writeTreeCmd)
	rootCmd.AddCommand(readTreeCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(mergeBaseCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(fsckCmd)
}
