package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <commit>",
	Short: "Merge <commit> into the current branch",
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
		outcome, err := r.Merge(oid)
		if err != nil {
			return err
		}
		if outcome.FastForward {
			fmt.Println("Fast-forward merge")
			return nil
		}
		if len(outcome.Conflicts) == 0 {
			fmt.Println("Merge completed successfully")
			return nil
		}
		fmt.Printf("Merge completed with %d conflict(s):\n", len(outcome.Conflicts))
		for _, p := range outcome.Conflicts {
			fmt.Printf("  CONFLICT (content): %s\n", p)
		}
		fmt.Println("Fix conflicts and then commit the result")
		return nil
	},
}

var mergeBaseCmd = &cobra.Command{
	Use:   "merge-base <a> <b>",
	Short: "Find the first common ancestor of two commits",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		a, err := r.ResolveName(args[0])
		if err != nil {
			return err
		}
		b, err := r.ResolveName(args[1])
		if err != nil {
			return err
		}
		base, err := r.MergeBase(a, b)
		if err != nil {
			return err
		}
		if base == "" {
			return fmt.Errorf("no common ancestor")
		}
		fmt.Println(base)
		return nil
	},
}
