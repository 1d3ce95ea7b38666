package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strata-vc/strata/pkg/object"
	"github.com/strata-vc/strata/pkg/repo"
)

func newLsTreeCmd() *cobra.Command {
	var nameOnly bool

	cmd := &cobra.Command{
		Use:   "ls-tree <digest>",
		Short: "List the entries of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			tr, err := r.Store.GetTree(object.Hash(args[0]))
			if err != nil {
				return err
			}

			for _, e := range tr.Entries {
				if nameOnly {
					fmt.Fprintln(cmd.OutOrStdout(), e.Name)
					continue
				}

				kind := object.TypeBlob
				if e.IsDir {
					kind = object.TypeTree
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\t%s\n", e.Mode, kind, e.TargetHash(), e.Name)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "print only entry names")

	return cmd
}
