package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/brief"
	"github.com/exportdesk/advisor-cli/internal/recommend"
	"github.com/exportdesk/advisor-cli/pkg/anthropic"
)

var (
	briefCategory string
	briefOrigin   string
	briefMarkets  []string
	briefGoal     string
	briefTopN     int
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Run a recommendation and write an analyst brief for it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("brief"); err != nil {
			return err
		}

		eng, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer eng.Close()

		result, err := eng.Recommender.Recommend(ctx, recommend.Request{
			Category:       briefCategory,
			Origin:         briefOrigin,
			CurrentMarkets: briefMarkets,
			Goal:           briefGoal,
			TopN:           briefTopN,
		})
		if err != nil {
			return eris.Wrap(err, "recommend")
		}

		gen := brief.New(anthropic.NewClient(cfg.Anthropic.Key), brief.Params{
			Model:     cfg.Anthropic.Model,
			MaxTokens: cfg.Anthropic.MaxTokens,
		})

		text, err := gen.Generate(ctx, result)
		if err != nil {
			return err
		}

		zap.L().Info("brief generated",
			zap.String("category", result.Category),
			zap.String("source", result.Source),
			zap.Int("rankings", len(result.Rankings)),
		)

		fmt.Println(text)
		return nil
	},
}

func init() {
	briefCmd.Flags().StringVar(&briefCategory, "category", "", "HS code or chapter prefix (required)")
	briefCmd.Flags().StringVar(&briefOrigin, "origin", "", "origin country, ISO 3166-1 alpha-2 (required)")
	briefCmd.Flags().StringSliceVar(&briefMarkets, "markets", nil, "current export markets (country codes)")
	briefCmd.Flags().StringVar(&briefGoal, "goal", "", `ranking goal: "" or "diversify"`)
	briefCmd.Flags().IntVar(&briefTopN, "top", 0, "number of results (default 5, max 20)")
	_ = briefCmd.MarkFlagRequired("category")
	_ = briefCmd.MarkFlagRequired("origin")
	rootCmd.AddCommand(briefCmd)
}
