package main

import (
	"github.com/spf13/cobra"
	"github.com/strata-vc/strata/pkg/repo"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Stage files for the next commit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			for _, path := range args {
				if err := r.Add(path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
