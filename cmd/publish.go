package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/recommend"
	"github.com/exportdesk/advisor-cli/pkg/notion"
)

var (
	pubCategory string
	pubOrigin   string
	pubMarkets  []string
	pubGoal     string
	pubTopN     int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Run a recommendation and publish the result to Notion",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("publish"); err != nil {
			return err
		}

		eng, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer eng.Close()

		result, err := eng.Recommender.Recommend(ctx, recommend.Request{
			Category:       pubCategory,
			Origin:         pubOrigin,
			CurrentMarkets: pubMarkets,
			Goal:           pubGoal,
			TopN:           pubTopN,
		})
		if err != nil {
			return eris.Wrap(err, "recommend")
		}

		nc := notion.NewClient(cfg.Notion.Token)
		pageID, err := notion.PublishReport(ctx, nc, cfg.Notion.ReportDB, reportFromResult(result))
		if err != nil {
			return err
		}

		zap.L().Info("report published",
			zap.String("page_id", pageID),
			zap.String("category", result.Category),
			zap.String("source", result.Source),
		)
		fmt.Println(pageID)
		return nil
	},
}

// reportFromResult flattens a recommendation into the page shape the notion
// package publishes.
func reportFromResult(res *recommend.Result) notion.Report {
	lines := make([]string, 0, len(res.Rankings)+len(res.Excluded)+1)
	for _, cs := range res.Rankings {
		line := fmt.Sprintf("%d. %s (%s) score %.3f", cs.Rank, cs.Name, cs.Country, cs.Score)
		if cs.RiskGrade != "" {
			line += fmt.Sprintf(", risk %s", cs.RiskGrade)
		}
		lines = append(lines, line)
		for _, w := range cs.Warnings {
			lines = append(lines, fmt.Sprintf("   warning: %s", w))
		}
	}
	for _, ex := range res.Excluded {
		lines = append(lines, fmt.Sprintf("excluded %s: %s", ex.Country, ex.Reason))
	}
	lines = append(lines, fmt.Sprintf("confidence %.2f (%s): %s",
		res.Confidence.Score, res.Confidence.Level, res.Confidence.Interpretation))

	return notion.Report{
		Title:       fmt.Sprintf("%s from %s", res.Category, res.Origin),
		Category:    res.Category,
		Origin:      res.Origin,
		Source:      res.Source,
		Confidence:  res.Confidence.Score,
		GeneratedAt: res.GeneratedAt,
		Lines:       lines,
	}
}

func init() {
	publishCmd.Flags().StringVar(&pubCategory, "category", "", "HS code or chapter prefix (required)")
	publishCmd.Flags().StringVar(&pubOrigin, "origin", "", "origin country, ISO 3166-1 alpha-2 (required)")
	publishCmd.Flags().StringSliceVar(&pubMarkets, "markets", nil, "current export markets (country codes)")
	publishCmd.Flags().StringVar(&pubGoal, "goal", "", `ranking goal: "" or "diversify"`)
	publishCmd.Flags().IntVar(&pubTopN, "top", 0, "number of results (default 5, max 20)")
	_ = publishCmd.MarkFlagRequired("category")
	_ = publishCmd.MarkFlagRequired("origin")
	rootCmd.AddCommand(publishCmd)
}
