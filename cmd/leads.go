package main

import (
	"encoding/json"
	"os"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/matching"
	sfpkg "github.com/exportdesk/advisor-cli/pkg/salesforce"
)

var (
	leadType    string
	leadProfile string
	leadHSCode  string
	leadCountry string
	leadTopN    int
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Run partner matching and push the matches to Salesforce as leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("leads"); err != nil {
			return err
		}

		req := matching.Request{ProfileType: leadType, TopN: leadTopN}
		if leadProfile != "" {
			data, err := os.ReadFile(leadProfile)
			if err != nil {
				return eris.Wrap(err, "read profile file")
			}
			if err := json.Unmarshal(data, &req.Profile); err != nil {
				return eris.Wrap(err, "parse profile file")
			}
		}
		if leadHSCode != "" {
			req.Profile.HSCode = leadHSCode
		}
		if leadCountry != "" {
			req.Profile.Country = leadCountry
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
		if len(result.Matches) == 0 {
			zap.L().Warn("no matches to push", zap.String("profile_type", result.ProfileType))
			return nil
		}

		sfc, err := initSalesforce()
		if err != nil {
			return err
		}

		pushRes, err := sfpkg.PushLeads(ctx, sfc, leadsFromMatches(req.Profile.HSCode, result.Matches))
		if err != nil {
			return err
		}

		zap.L().Info("leads pushed",
			zap.Int("created", pushRes.Created),
			zap.Int("skipped", pushRes.Skipped),
			zap.Int("failed", pushRes.Failed),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pushRes)
	},
}

func initSalesforce() (sfpkg.Client, error) {
	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf), nil
}

// leadsFromMatches converts ranked matches into the flat Lead shape the
// salesforce package pushes.
func leadsFromMatches(hsCode string, matches []matching.Match) []sfpkg.Lead {
	leads := make([]sfpkg.Lead, 0, len(matches))
	for _, m := range matches {
		leads = append(leads, sfpkg.Lead{
			Company:     m.Name,
			Country:     m.Country,
			HSCode:      hsCode,
			PartnerType: m.PartnerType,
			FitScore:    m.FitScore,
			FraudRisk:   m.FraudRisk,
		})
	}
	return leads
}

func init() {
	leadsCmd.Flags().StringVar(&leadType, "type", "", `profile type: "seller" or "buyer" (required)`)
	leadsCmd.Flags().StringVar(&leadProfile, "profile", "", "path to a JSON profile file")
	leadsCmd.Flags().StringVar(&leadHSCode, "hs", "", "HS code of the traded product")
	leadsCmd.Flags().StringVar(&leadCountry, "country", "", "profile country, ISO 3166-1 alpha-2")
	leadsCmd.Flags().IntVar(&leadTopN, "top", 0, "number of results (default 5, max 20)")
	_ = leadsCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(leadsCmd)
}
