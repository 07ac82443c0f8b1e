package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/model"
)

// Snapshot file names inside the dataset directory. `advisor datasets sync`
// writes them; Open overlays whichever ones parse.
const (
	MarketsFile    = "markets.json"
	IndustriesFile = "industries.json"
	PartnersFile   = "partners.json"
	CasesFile      = "cases.json"
)

type partnersSnapshot struct {
	Sellers []model.SellerProfile `json:"sellers"`
	Buyers  []model.BuyerProfile  `json:"buyers"`
}

type casesSnapshot struct {
	Fraud   []model.FraudCase   `json:"fraud"`
	Success []model.SuccessCase `json:"success"`
}

// Open loads the catalog, overlaying bundled tables with any snapshot files
// found under dir. A snapshot replaces its whole section; a missing or
// unreadable file keeps the bundled data (warn, never fail). An empty dir
// yields the bundled catalog.
func Open(dir string) *Catalog {
	markets := bundledMarkets
	industries := bundledIndustries
	sellers, buyers := bundledSellers, bundledBuyers
	fraud, success := bundledFraudCases, bundledSuccessCases

	if dir != "" {
		var m []MarketParams
		if loadSection(filepath.Join(dir, MarketsFile), &m) && len(m) > 0 {
			markets = m
		}
		var ind []Industry
		if loadSection(filepath.Join(dir, IndustriesFile), &ind) && len(ind) > 0 {
			industries = ind
		}
		var p partnersSnapshot
		if loadSection(filepath.Join(dir, PartnersFile), &p) {
			if len(p.Sellers) > 0 {
				sellers = p.Sellers
			}
			if len(p.Buyers) > 0 {
				buyers = p.Buyers
			}
		}
		var cs casesSnapshot
		if loadSection(filepath.Join(dir, CasesFile), &cs) {
			if len(cs.Fraud) > 0 {
				fraud = cs.Fraud
			}
			if len(cs.Success) > 0 {
				success = cs.Success
			}
		}
	}
	return newCatalog(markets, industries, sellers, buyers, fraud, success)
}

// WriteSnapshot marshals v and replaces dir/name atomically.
func WriteSnapshot(dir, name string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "dataset: create snapshot dir")
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "dataset: marshal snapshot")
	}
	tmp := filepath.Join(dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrap(err, "dataset: write snapshot")
	}
	if err := os.Rename(tmp, filepath.Join(dir, name)); err != nil {
		return eris.Wrap(err, "dataset: replace snapshot")
	}
	return nil
}

// loadSection reads one snapshot JSON file into dst. Absence is normal;
// anything else wrong with the file is warned about and skipped.
func loadSection(path string, dst any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("dataset: snapshot unreadable, using bundled table",
				zap.String("path", path), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		zap.L().Warn("dataset: snapshot corrupt, using bundled table",
			zap.String("path", path),
			zap.Error(eris.Wrap(err, "dataset: unmarshal snapshot")))
		return false
	}
	return true
}
