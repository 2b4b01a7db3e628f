package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systemshift/ugit/pkg/ugit"
)

var hashObjectCmd = &cobra.Command{
	Use:   "hash-object <file>",
	Short: "Compute and store a blob object from a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		oid, err := r.HashObject(content, ugit.TypeBlob)
		if err != nil {
			return err
		}
		fmt.Println(oid)
		return nil
	},
}

var catFileCmd = &cobra.Command{
	Use:   "cat-file <oid>",
	Short: "Print an object's payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		payload, err := r.GetObject(args[0], "")
		if err != nil {
			return err
		}
		os.Stdout.Write(payload)
		return nil
	},
}

var writeTreeCmd = &cobra.Command{
	Use:   "write-tree",
	Short: "Materialize the current index into a tree object",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		var oid string
		err = r.WithIndex(func(idx *ugit.Index) error {
			var err error
			oid, err = r.WriteTree(*idx)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Println(oid)
		return nil
	},
}

var readTreeCmd = &cobra.Command{
	Use:   "read-tree <oid>",
	Short: "Read a tree object into the index and working tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		tree, err := r.FlattenTree(args[0], "")
		if err != nil {
			return err
		}
		if err := r.WithIndex(func(idx *ugit.Index) error {
			idx.Clear()
			idx.Update(tree)
			return nil
		}); err != nil {
			return err
		}
		return r.CheckoutIndex(tree)
	},
}
