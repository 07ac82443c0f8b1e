package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/recommend"
)

var (
	recCategory string
	recOrigin   string
	recMarkets  []string
	recGoal     string
	recTopN     int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank candidate export markets for a product category",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer eng.Close()

		result, err := eng.Recommender.Recommend(ctx, recommend.Request{
			Category:       recCategory,
			Origin:         recOrigin,
			CurrentMarkets: recMarkets,
			Goal:           recGoal,
			TopN:           recTopN,
		})
		if err != nil {
			return eris.Wrap(err, "recommend")
		}

		zap.L().Info("recommendation complete",
			zap.String("category", result.Category),
			zap.String("source", result.Source),
			zap.Int("rankings", len(result.Rankings)),
			zap.Int("excluded", len(result.Excluded)),
			zap.Float64("confidence", result.Confidence.Score),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	recommendCmd.Flags().StringVar(&recCategory, "category", "", "HS code or chapter prefix (required)")
	recommendCmd.Flags().StringVar(&recOrigin, "origin", "", "origin country, ISO 3166-1 alpha-2 (required)")
	recommendCmd.Flags().StringSliceVar(&recMarkets, "markets", nil, "current export markets (country codes)")
	recommendCmd.Flags().StringVar(&recGoal, "goal", "", `ranking goal: "" or "diversify"`)
	recommendCmd.Flags().IntVar(&recTopN, "top", 0, "number of results (default 5, max 20)")
	_ = recommendCmd.MarkFlagRequired("category")
	_ = recommendCmd.MarkFlagRequired("origin")
	rootCmd.AddCommand(recommendCmd)
}
