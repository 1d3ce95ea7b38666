package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strata-vc/strata/pkg/object"
	"github.com/strata-vc/strata/pkg/repo"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <digest>",
		Short: "Restore the working tree to a commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			target := object.Hash(args[0])
			if err := r.Checkout(target); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "HEAD is now at %s\n", target)
			return nil
		},
	}
}
