package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systemshift/ugit/pkg/ugit"
)

var addCmd = &cobra.Command{
	Use:   "add <paths...>",
	Short: "Add file contents to the staging area",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		return r.WithIndex(func(idx *ugit.Index) error {
			if err := r.Stage(idx, args...); err != nil {
				return err
			}
			for _, p := range args {
				fmt.Printf("added %s\n", p)
			}
			return nil
		})
	},
}
