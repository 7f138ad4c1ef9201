// Package cli implements the segaug command-line interface.
//
// Commands:
//   - augment: run a TOML pipeline over an image/label pair and write samples
//   - inspect: print the stages a pipeline file expands to
//
// All commands accept --verbose (-v) for debug logging. The logger travels
// through the command context.
package cli

import (
	"context"
	"fmt"
	"os"

	"segaug/internal/version"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Execute runs the segaug CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "segaug",
		Short:        "Paired image/label augmentation for segmentation training",
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	root.SetVersionTemplate(version.String())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newAugmentCmd())
	root.AddCommand(newInspectCmd())
	return root
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
