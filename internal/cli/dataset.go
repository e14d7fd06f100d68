package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	service "github.com/okian/talentscope/internal/app"
	"github.com/okian/talentscope/internal/domain/trend"
	"github.com/okian/talentscope/pkg/logger"
)

type datasetOptions struct {
	path    string
	epsilon float64
	window  int
}

// openDataset starts an in-memory service seeded from the dataset file.
func openDataset(ctx context.Context, o datasetOptions) (*service.Service, error) {
	if o.path == "" {
		return nil, fmt.Errorf("--dataset is required")
	}
	svc := service.New(
		service.WithLogger(logger.Named("evalctl")),
		service.WithSeedFile(o.path),
		service.WithTrendEpsilon(o.epsilon),
		service.WithTrendWindow(o.window),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func (o *datasetOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.path, "dataset", "d", "", "Dataset YAML file of evaluations and reports")
	flags.Float64Var(&o.epsilon, "trend-epsilon", trend.DefaultEpsilon, "Noise band for growth trends")
	flags.IntVar(&o.window, "trend-window", trend.DefaultWindow, "Evaluations averaged on each side of a trend comparison")
}
