package cli

import (
	"fmt"

	"segaug/internal/config"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <pipeline.toml>",
		Short: "Print the transforms a pipeline file describes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.Load(args[0])
			if err != nil {
				return err
			}
			p, err := f.Pipeline()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seed: %d\n", f.Seed)
			for i, t := range p {
				fmt.Fprintf(out, "%2d  %-24s %+v\n", i, f.Stages[i].Type, t)
			}
			return nil
		},
	}
}
