package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/matching"
)

var (
	matchType     string
	matchProfile  string
	matchHSCode   string
	matchCountry  string
	matchIndustry string
	matchOrderQty int
	matchTopN     int
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank compatible counterparties from the partner catalog",
	Long:  "Matches a seller or buyer profile against the opposite-side partner catalog. The profile can be given inline with flags or as a JSON file via --profile.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		req, err := buildMatchRequest()
		if err != nil {
			return err
		}

		eng, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer eng.Close()

		result, err := eng.Matcher.Match(ctx, req)
		if err != nil {
			return eris.Wrap(err, "match")
		}

		zap.L().Info("matching complete",
			zap.String("profile_type", result.ProfileType),
			zap.Int("matches", len(result.Matches)),
			zap.Int("excluded", len(result.Excluded)),
			zap.Float64("confidence", result.Confidence.Score),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// buildMatchRequest assembles the request from --profile JSON when given,
// with inline flags layered on top so a file can be partially overridden.
func buildMatchRequest() (matching.Request, error) {
	req := matching.Request{ProfileType: matchType, TopN: matchTopN}

	if matchProfile != "" {
		data, err := os.ReadFile(matchProfile)
		if err != nil {
			return req, eris.Wrap(err, "read profile file")
		}
		if err := json.Unmarshal(data, &req.Profile); err != nil {
			return req, eris.Wrap(err, "parse profile file")
		}
	}

	if matchHSCode != "" {
		req.Profile.HSCode = matchHSCode
	}
	if matchCountry != "" {
		req.Profile.Country = matchCountry
	}
	if matchIndustry != "" {
		req.Profile.Industry = matchIndustry
	}
	if matchOrderQty > 0 {
		req.Profile.OrderQty = matchOrderQty
	}

	return req, nil
}

func init() {
	matchCmd.Flags().StringVar(&matchType, "type", "", `profile type: "seller" or "buyer" (required)`)
	matchCmd.Flags().StringVar(&matchProfile, "profile", "", "path to a JSON profile file")
	matchCmd.Flags().StringVar(&matchHSCode, "hs", "", "HS code of the traded product")
	matchCmd.Flags().StringVar(&matchCountry, "country", "", "profile country, ISO 3166-1 alpha-2")
	matchCmd.Flags().StringVar(&matchIndustry, "industry", "", "industry key")
	matchCmd.Flags().IntVar(&matchOrderQty, "qty", 0, "preferred order quantity (buyer side)")
	matchCmd.Flags().IntVar(&matchTopN, "top", 0, "number of results (default 5, max 20)")
	_ = matchCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(matchCmd)
}
