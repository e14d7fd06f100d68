// Package cli implements the evalctl operator commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/talentscope/pkg/logger"
)

// Output formats.
const (
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

// NewRootCmd builds the evalctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "evalctl",
		Short: "Operator tooling for talentscope player evaluations",
		Long: `evalctl inspects evaluation datasets and exercises a running talentscope server.

  evalctl report p-104 --dataset academy.yaml     Player history, trend and radar
  evalctl candidates --dataset academy.yaml       Players ranked by latest overall score
  evalctl simulate --url http://localhost:9080    Load and verify a running server`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(opts.logFormat)); err != nil {
				return err
			}
			return logger.SetLevelString(opts.logLevel)
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format (text|json)")

	root.AddCommand(newReportCmd(), newCandidatesCmd(), newSimulateCmd())
	return root
}

// Execute runs evalctl. Cobra reports the error on stderr.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func validateFormat(format string) error {
	switch format {
	case formatTable, formatYAML, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q (table|yaml|json)", format)
	}
}
