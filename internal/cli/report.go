package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/talentscope/internal/domain/types"
)

func newReportCmd() *cobra.Command {
	var (
		ds     datasetOptions
		format string
	)
	cmd := &cobra.Command{
		Use:   "report <player-id>",
		Short: "Show a player's evaluation history, trend and radar",
		Long: `Loads a dataset file and prints the player's evaluations most recent first,
with category averages, overall score, grade, growth trend and the five-point
radar chart of the latest evaluation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()
			svc, err := openDataset(ctx, ds)
			if err != nil {
				return err
			}
			defer svc.Stop()

			playerID := args[0]
			h, err := svc.GetPlayerEvaluationHistory(ctx, playerID)
			if err != nil {
				return err
			}
			report := playerReport{PlayerID: playerID}
			if h != nil {
				view, err := types.NewHistory(playerID, h)
				if err != nil {
					return err
				}
				report.History = &view
			}

			latest, err := svc.GetLatestEvaluation(ctx, playerID)
			if err != nil {
				return err
			}
			if latest != nil {
				radar, err := types.NewRadar(*latest)
				if err != nil {
					return err
				}
				report.Radar = &radar
			}

			out := cmd.OutOrStdout()
			if format == formatTable {
				return renderReport(out, report)
			}
			return writeStructured(out, format, report)
		},
	}
	ds.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table|yaml|json)")
	return cmd
}
