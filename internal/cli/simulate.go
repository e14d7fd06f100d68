package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/okian/talentscope/internal/simulate"
)

func newSimulateCmd() *cobra.Command {
	cfg := simulate.Config{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Post generated evaluations to a running server and verify its histories",
		Long: `Generates players with steady, improving and declining trajectories, posts
their evaluations in random order, then checks that every served history is
ordered most recent first and carries the trend computed locally with the
server's trend settings.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := simulate.Run(cmd.Context(), &cfg)
			if stats != nil {
				fmt.Fprintf(cmd.OutOrStdout(),
					"seed=%d players=%d submitted=%d accepted=%d verified=%d mismatches=%d duration=%s\n",
					stats.Seed, stats.PlayersGenerated, stats.EvaluationsSubmitted, stats.EvaluationsAccepted,
					stats.PlayersVerified, len(stats.Mismatches), stats.Duration)
				for _, m := range stats.Mismatches {
					fmt.Fprintln(cmd.OutOrStdout(), "  "+m)
				}
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	flags.IntVar(&cfg.Players, "players", simulate.DefaultPlayers, "Number of generated players")
	flags.IntVar(&cfg.EvaluationsPerPlayer, "per-player", simulate.DefaultEvaluationsPerPlayer, "Evaluations per player")
	flags.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "Number of concurrent submitters")
	flags.DurationVar(&cfg.Timeout, "timeout", simulate.DefaultTimeout, "HTTP request timeout")
	flags.Uint64Var(&cfg.Seed, "seed", 0, "Generator seed (0 picks one from the clock)")
	flags.StringVarP(&cfg.OutputFile, "output", "o", "", "Write the generated evaluations as a dataset file")
	return cmd
}
