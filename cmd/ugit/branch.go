package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var branchCmd = &cobra.Command{
	Use:   "branch [<name> [<start>]]",
	Short: "List branches, or create one at <start> (default @)",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			branches, err := r.ListBranches()
			if err != nil {
				return err
			}
			if len(branches) == 0 {
				fmt.Println("No branches yet")
				return nil
			}
			current, ok, err := r.CurrentBranch()
			if err != nil {
				return err
			}
			for _, b := range branches {
				if ok && b == current {
					fmt.Printf("* %s\n", b)
				} else {
					fmt.Printf("  %s\n", b)
				}
			}
			return nil
		}

		start := "@"
		if len(args) == 2 {
			start = args[1]
		}
		startOID, err := r.ResolveName(start)
		if err != nil {
			return err
		}
		if err := r.CreateBranch(args[0], startOID); err != nil {
			return err
		}
		fmt.Printf("Created branch '%s'\n", args[0])
		return nil
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout <name>",
	Short: "Switch the working tree and HEAD to <name>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		if err := r.Checkout(args[0]); err != nil {
			return err
		}
		fmt.Printf("Switched to '%s'\n", args[0])
		return nil
	},
}

var tagCmd = &cobra.Command{
	Use:   "tag <name> [<oid>]",
	Short: "Create a tag at <oid> (default @)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		target := "@"
		if len(args) == 2 {
			target = args[1]
		}
		oid, err := r.ResolveName(target)
		if err != nil {
			return err
		}
		if err := r.Tag(args[0], oid); err != nil {
			return err
		}
		fmt.Printf("Created tag '%s'\n", args[0])
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <oid>",
	Short: "Move HEAD and the index to <oid>, leaving the working tree untouched",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		oid, err := r.ResolveName(args[0])
		if err != nil {
			return err
		}
		return r.Reset(oid)
	},
}
