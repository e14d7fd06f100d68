package cli

import (
	"github.com/spf13/cobra"
)

const defaultCandidateLimit = 10

func newCandidatesCmd() *cobra.Command {
	var (
		ds     datasetOptions
		format string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "Rank players by the overall score of their latest evaluation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()
			svc, err := openDataset(ctx, ds)
			if err != nil {
				return err
			}
			defer svc.Stop()

			entries, err := svc.Candidates(ctx, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == formatTable {
				return renderCandidates(out, entries)
			}
			return writeStructured(out, format, entries)
		},
	}
	ds.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table|yaml|json)")
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultCandidateLimit, "Number of candidates to list")
	return cmd
}
