package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/strata-vc/strata/pkg/object"
	"github.com/strata-vc/strata/pkg/repo"
)

func newHashObjectCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Compute and store the blob digest of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("hash-object: %w", err)
			}

			h, err := r.Store.PutBlob(&object.Blob{Data: data})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	// -w is accepted for compatibility; this store always writes.
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the object (always on)")

	return cmd
}
