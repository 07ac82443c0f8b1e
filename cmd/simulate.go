package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/simulate"
)

var (
	simCategory   string
	simTarget     string
	simUnitPrice  float64
	simMOQ        int
	simCapacity   int
	simMarketSize float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Project export performance in one target market",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer eng.Close()

		proj, err := eng.Simulator.Simulate(ctx, simulate.Request{
			Category:       simCategory,
			Target:         simTarget,
			UnitPrice:      simUnitPrice,
			MinOrderQty:    simMOQ,
			AnnualCapacity: simCapacity,
			MarketSizeUSD:  simMarketSize,
		})
		if err != nil {
			return eris.Wrap(err, "simulate")
		}

		zap.L().Info("simulation complete",
			zap.String("target", proj.Target),
			zap.Float64("success_probability", proj.SuccessProbability),
			zap.Float64("expected_revenue_usd", proj.ExpectedRevenueUSD),
			zap.Float64("confidence", proj.Confidence.Score),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(proj)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simCategory, "category", "", "HS code or chapter prefix (required)")
	simulateCmd.Flags().StringVar(&simTarget, "target", "", "target country, ISO 3166-1 alpha-2 (required)")
	simulateCmd.Flags().Float64Var(&simUnitPrice, "price", 0, "unit price in USD (required)")
	simulateCmd.Flags().IntVar(&simMOQ, "moq", 0, "minimum order quantity (required)")
	simulateCmd.Flags().IntVar(&simCapacity, "capacity", 0, "annual production capacity in units (required)")
	simulateCmd.Flags().Float64Var(&simMarketSize, "market-size", 0, "market size estimate in USD (optional, overrides the estimation ladder)")
	_ = simulateCmd.MarkFlagRequired("category")
	_ = simulateCmd.MarkFlagRequired("target")
	_ = simulateCmd.MarkFlagRequired("price")
	_ = simulateCmd.MarkFlagRequired("moq")
	_ = simulateCmd.MarkFlagRequired("capacity")
	rootCmd.AddCommand(simulateCmd)
}
