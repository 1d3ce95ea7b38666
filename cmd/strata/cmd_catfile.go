package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strata-vc/strata/pkg/object"
	"github.com/strata-vc/strata/pkg/repo"
)

func newCatFileCmd() *cobra.Command {
	var (
		showType bool
		showSize bool
		showPP   bool
	)

	cmd := &cobra.Command{
		Use:   "cat-file <digest>",
		Short: "Print object contents, size, or type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := 0
			for _, b := range []bool{showType, showSize, showPP} {
				if b {
					selected++
				}
			}
			if selected != 1 {
				return fmt.Errorf("cat-file: exactly one of -t, -s, -p is required")
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			objType, payload, err := r.Store.Get(object.Hash(args[0]))
			if err != nil {
				return err
			}

			switch {
			case showType:
				fmt.Fprintln(cmd.OutOrStdout(), objType)
			case showSize:
				fmt.Fprintln(cmd.OutOrStdout(), len(payload))
			case showPP:
				cmd.OutOrStdout().Write(payload)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object's type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "print the object's payload size")
	cmd.Flags().BoolVarP(&showPP, "print", "p", false, "pretty-print the object's payload")

	return cmd
}
