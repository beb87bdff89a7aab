package cmd

import (
	"github.com/spf13/cobra"
	"github.com/umich-library-it/bookmatch/internal/config"
	"github.com/umich-library-it/bookmatch/internal/identify"
)

func newIdentifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identify",
		Short: "Match the configured book list against WorldCat",
		Long: `Runs the matching batch over the configured input file.

Each known book is looked up once (served from the response cache when a
previous run already fetched it), its candidate records are compared on
title and publisher, and results are written as CSV: matched manifestations,
books needing review, and unmatched books, plus a YAML run summary.`,
		Example: `  # Run a full batch
  bookmatch identify

  # Limit to the first 10 books while tuning configuration
  BOOKMATCH_SAMPLE_LIMIT=10 bookmatch identify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return identify.Run(cmd.Context(), cfg)
		},
	}
}
