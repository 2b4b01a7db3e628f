package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systemshift/ugit/pkg/ugit"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <path>",
	Short: "Fetch every branch from a peer repository directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		peer := ugit.Open(args[0])
		if !peer.Exists() {
			return fmt.Errorf("%s is not a ugit repository", args[0])
		}
		if err := r.Fetch(peer); err != nil {
			return err
		}
		fmt.Printf("Fetched from %s\n", args[0])
		return nil
	},
}

var pushCmd = &cobra.Command{
	Use:   "push <path> <branch>",
	Short: "Push a local branch to a peer repository directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		peer := ugit.Open(args[0])
		if !peer.Exists() {
			return fmt.Errorf("%s is not a ugit repository", args[0])
		}
		if err := r.Push(peer, args[1]); err != nil {
			return err
		}
		fmt.Printf("Pushed %s to %s\n", args[1], args[0])
		return nil
	},
}
