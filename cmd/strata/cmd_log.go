package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strata-vc/strata/pkg/repo"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Echo the commit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			log, err := r.ReadLog()
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), log)
			return nil
		},
	}
}
