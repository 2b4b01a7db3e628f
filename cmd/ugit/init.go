package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systemshift/ugit/pkg/ugit"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		r := ugit.Open(cwd)
		if err := r.Init(); err != nil {
			return err
		}
		fmt.Println("Initialized empty ugit repository in", r.GitDir)
		return nil
	},
}
