package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var fsckCmd = &cobra.Command{
	Use:   "fsck",
	Short: "Verify that every reachable object rehashes to its own OID",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		report, err := r.VerifyObjectGraph()
		if err != nil {
			return err
		}
		fmt.Printf("checked %d refs, %d objects\n", len(report.RefsChecked), report.ObjectsChecked)
		for _, d := range report.DanglingRefs {
			fmt.Printf("dangling: %s -> %s\n", d.FromObject, d.Missing)
		}
		for _, oid := range report.CorruptObjects {
			fmt.Printf("corrupt: %s\n", oid)
		}
		if !report.OK() {
			os.Exit(2)
		}
		fmt.Println("ok")
		return nil
	},
}
