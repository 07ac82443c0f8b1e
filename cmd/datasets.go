package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/dataset"
	"github.com/exportdesk/advisor-cli/internal/fetcher"
	"github.com/exportdesk/advisor-cli/internal/model"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Manage the bundled reference catalogs",
}

var datasetsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh catalog snapshots from the configured sources",
	Long:  "Downloads each configured snapshot source and rewrites the matching snapshot file under datasets.dir. A failed or malformed source leaves the previous snapshot (or the bundled table) in place.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("sync"); err != nil {
			return err
		}

		var failed int
		for name, rawURL := range cfg.Datasets.Sources {
			if err := syncSource(ctx, name, rawURL); err != nil {
				failed++
				zap.L().Warn("snapshot sync failed, keeping previous data",
					zap.String("source", name),
					zap.String("url", rawURL),
					zap.Error(err),
				)
				continue
			}
			zap.L().Info("snapshot refreshed", zap.String("source", name))
		}

		if failed == len(cfg.Datasets.Sources) && failed > 0 {
			return eris.Errorf("datasets sync: all %d sources failed", failed)
		}
		return nil
	},
}

// syncSource downloads one source and rewrites its snapshot file. The source
// name selects the section: markets, industries, partners, or cases.
func syncSource(ctx context.Context, name, rawURL string) error {
	f, err := fetcher.ForURL(rawURL, fetcher.HTTPOptions{})
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "advisor-sync-*")
	if err != nil {
		return eris.Wrap(err, "create temp dir")
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck

	local := filepath.Join(tmpDir, filepath.Base(rawURL))
	if _, err := f.FetchToFile(ctx, rawURL, local); err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(local), ".zip") {
		local, err = fetcher.ExtractSingle(local, tmpDir)
		if err != nil {
			return err
		}
	}

	section, err := decodeSection(name, local)
	if err != nil {
		return err
	}

	return dataset.WriteSnapshot(cfg.Datasets.Dir, snapshotFile(name), section)
}

// snapshotFile maps a source name onto its snapshot file name.
func snapshotFile(name string) string {
	switch name {
	case "markets":
		return dataset.MarketsFile
	case "industries":
		return dataset.IndustriesFile
	case "partners":
		return dataset.PartnersFile
	case "cases":
		return dataset.CasesFile
	default:
		return name + ".json"
	}
}

// decodeSection parses the downloaded document into the section's snapshot
// shape. Markets arrive as JSON, CSV, XLSX, XML, or YAML; the structured
// sections (industries, partners, cases) only as JSON.
func decodeSection(name, path string) (any, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if name == "markets" {
		switch ext {
		case ".csv":
			return marketsFromFile(path, func(f *os.File) ([]dataset.MarketParams, error) {
				table, err := fetcher.DecodeCSV(f, fetcher.CSVOptions{})
				if err != nil {
					return nil, err
				}
				return dataset.MarketsFromTable(table)
			})
		case ".xlsx":
			table, err := fetcher.DecodeXLSX(path, fetcher.XLSXOptions{})
			if err != nil {
				return nil, err
			}
			return dataset.MarketsFromTable(table)
		case ".xml":
			return marketsFromFile(path, func(f *os.File) ([]dataset.MarketParams, error) {
				return dataset.DecodeMarketsXML(f)
			})
		case ".yaml", ".yml":
			return marketsFromFile(path, func(f *os.File) ([]dataset.MarketParams, error) {
				return dataset.DecodeMarketsYAML(f)
			})
		}
	}

	if ext != ".json" {
		return nil, eris.Errorf("source %q: unsupported format %q", name, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open download")
	}
	defer f.Close() //nolint:errcheck

	switch name {
	case "markets":
		return fetcher.DecodeJSON[[]dataset.MarketParams](f)
	case "industries":
		return fetcher.DecodeJSON[[]dataset.Industry](f)
	case "partners":
		return fetcher.DecodeJSON[struct {
			Sellers []model.SellerProfile `json:"sellers"`
			Buyers  []model.BuyerProfile  `json:"buyers"`
		}](f)
	case "cases":
		return fetcher.DecodeJSON[struct {
			Fraud   []model.FraudCase   `json:"fraud"`
			Success []model.SuccessCase `json:"success"`
		}](f)
	default:
		return nil, eris.Errorf("unknown snapshot section %q", name)
	}
}

func marketsFromFile(path string, decode func(*os.File) ([]dataset.MarketParams, error)) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open download")
	}
	defer f.Close() //nolint:errcheck
	return decode(f)
}

func init() {
	datasetsCmd.AddCommand(datasetsSyncCmd)
	rootCmd.AddCommand(datasetsCmd)
}
