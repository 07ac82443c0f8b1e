package dataset

import (
	"github.com/exportdesk/advisor-cli/internal/model"
)

// Default returns the bundled catalog compiled into the binary. Figures
// are rounded public 2024 estimates; risk grades follow the usual export
// insurer scale (A best through E).
func Default() *Catalog {
	return newCatalog(
		bundledMarkets, bundledIndustries,
		bundledSellers, bundledBuyers,
		bundledFraudCases, bundledSuccessCases,
	)
}

var bundledMarkets = []MarketParams{
	{Country: "US", Name: "United States", GDPUSD: 27.4e12, ImportGrowthPct: 3.0, RiskGrade: "A"},
	{Country: "CN", Name: "China", GDPUSD: 17.8e12, ImportGrowthPct: 2.5, RiskGrade: "B"},
	{Country: "JP", Name: "Japan", GDPUSD: 4.2e12, ImportGrowthPct: 1.2, RiskGrade: "A"},
	{Country: "DE", Name: "Germany", GDPUSD: 4.5e12, ImportGrowthPct: 1.5, RiskGrade: "A"},
	{Country: "GB", Name: "United Kingdom", GDPUSD: 3.4e12, ImportGrowthPct: 1.8, RiskGrade: "A"},
	{Country: "FR", Name: "France", GDPUSD: 3.0e12, ImportGrowthPct: 1.6, RiskGrade: "A"},
	{Country: "IN", Name: "India", GDPUSD: 3.6e12, ImportGrowthPct: 7.2, RiskGrade: "C"},
	{Country: "KR", Name: "South Korea", GDPUSD: 1.7e12, ImportGrowthPct: 2.2, RiskGrade: "A"},
	{Country: "VN", Name: "Vietnam", GDPUSD: 0.43e12, ImportGrowthPct: 8.5, RiskGrade: "C"},
	{Country: "TH", Name: "Thailand", GDPUSD: 0.51e12, ImportGrowthPct: 3.8, RiskGrade: "B"},
	{Country: "ID", Name: "Indonesia", GDPUSD: 1.4e12, ImportGrowthPct: 5.1, RiskGrade: "C"},
	{Country: "MY", Name: "Malaysia", GDPUSD: 0.42e12, ImportGrowthPct: 4.4, RiskGrade: "B"},
	{Country: "PH", Name: "Philippines", GDPUSD: 0.44e12, ImportGrowthPct: 6.0, RiskGrade: "C"},
	{Country: "SG", Name: "Singapore", GDPUSD: 0.50e12, ImportGrowthPct: 3.2, RiskGrade: "A"},
	{Country: "AE", Name: "United Arab Emirates", GDPUSD: 0.51e12, ImportGrowthPct: 4.8, RiskGrade: "B"},
	{Country: "SA", Name: "Saudi Arabia", GDPUSD: 1.1e12, ImportGrowthPct: 3.5, RiskGrade: "B"},
	{Country: "BR", Name: "Brazil", GDPUSD: 2.2e12, ImportGrowthPct: 2.9, RiskGrade: "C"},
	{Country: "MX", Name: "Mexico", GDPUSD: 1.8e12, ImportGrowthPct: 3.3, RiskGrade: "B"},
	{Country: "AU", Name: "Australia", GDPUSD: 1.7e12, ImportGrowthPct: 2.0, RiskGrade: "A"},
	{Country: "CA", Name: "Canada", GDPUSD: 2.1e12, ImportGrowthPct: 2.4, RiskGrade: "A"},
	{Country: "PL", Name: "Poland", GDPUSD: 0.81e12, ImportGrowthPct: 4.1, RiskGrade: "B"},
	{Country: "TR", Name: "Turkey", GDPUSD: 1.1e12, ImportGrowthPct: 4.6, RiskGrade: "C"},
}

var bundledIndustries = []Industry{
	{
		Key: "cosmetics", HSChapters: []string{"33"}, MarketRatio: 0.0020,
		Trends: []string{"vegan skincare", "sun care", "derma cosmetics", "k-beauty routines"},
	},
	{
		Key: "food_beverage", HSChapters: []string{"16", "17", "18", "19", "20", "21", "22"}, MarketRatio: 0.0045,
		Trends: []string{"ready meals", "plant-based snacks", "functional drinks"},
	},
	{
		Key: "machinery", HSChapters: []string{"84"}, MarketRatio: 0.0110,
		Trends: []string{"factory automation", "cnc retrofitting"},
	},
	{
		Key: "electronics", HSChapters: []string{"85"}, MarketRatio: 0.0130,
		Trends: []string{"wearables", "smart home", "edge ai devices"},
	},
	{
		Key: "automotive", HSChapters: []string{"87"}, MarketRatio: 0.0095,
		Trends: []string{"ev components"},
	},
	{
		Key: "textiles", HSChapters: []string{"50", "52", "54", "60", "61", "62", "63"}, MarketRatio: 0.0060,
		Trends: []string{"athleisure", "recycled fabrics"},
	},
	{
		Key: "pharmaceuticals", HSChapters: []string{"30"}, MarketRatio: 0.0040,
	},
	{
		Key: "plastics", HSChapters: []string{"39"}, MarketRatio: 0.0050,
	},
	{
		Key: "metals", HSChapters: []string{"72", "73", "76"}, MarketRatio: 0.0070,
	},
	{
		Key: "furniture", HSChapters: []string{"94"}, MarketRatio: 0.0030,
	},
	{
		Key: "agriculture", HSChapters: []string{"07", "08", "10", "12"}, MarketRatio: 0.0040,
		Trends: []string{"organic produce"},
	},
	{
		Key: "chemicals", HSChapters: []string{"28", "29"}, MarketRatio: 0.0065,
	},
}

var bundledSellers = []model.SellerProfile{
	{
		ID: "SLR-001", Name: "Hanbit Cosmetics Co.", Country: "KR",
		Industry: "cosmetics", HSCode: "330499",
		PriceMinUSD: 4.5, PriceMaxUSD: 12.0,
		MinOrderQty: 5000, AnnualCapacity: 800000, MinOrderValue: 25000,
		Certifications: []string{"ISO22716", "CPNP"},
		TargetMarkets:  []string{"US", "JP", "VN"},
	},
	{
		ID: "SLR-002", Name: "Daesung Food Export", Country: "KR",
		Industry: "food_beverage", HSCode: "190230",
		PriceMinUSD: 1.2, PriceMaxUSD: 3.8,
		MinOrderQty: 20000, AnnualCapacity: 5000000, MinOrderValue: 30000,
		Certifications: []string{"HACCP", "HALAL"},
		TargetMarkets:  []string{"AE", "MY", "ID"},
	},
	{
		ID: "SLR-003", Name: "Kumho Precision Machinery", Country: "KR",
		Industry: "machinery", HSCode: "845811",
		PriceMinUSD: 18000, PriceMaxUSD: 65000,
		MinOrderQty: 2, AnnualCapacity: 120, MinOrderValue: 40000,
		Certifications: []string{"CE", "ISO9001"},
		TargetMarkets:  []string{"DE", "IN", "MX"},
	},
	{
		ID: "SLR-004", Name: "Seoyeon Electronics", Country: "KR",
		Industry: "electronics", HSCode: "851762",
		PriceMinUSD: 35, PriceMaxUSD: 220,
		MinOrderQty: 1000, AnnualCapacity: 400000, MinOrderValue: 50000,
		Certifications: []string{"CE", "FCC", "RoHS"},
		TargetMarkets:  []string{"US", "DE", "BR"},
	},
	{
		ID: "SLR-005", Name: "Jinhae Textile Mills", Country: "KR",
		Industry: "textiles", HSCode: "610910",
		PriceMinUSD: 2.8, PriceMaxUSD: 7.5,
		MinOrderQty: 10000, AnnualCapacity: 2400000, MinOrderValue: 28000,
		Certifications: []string{"OEKO-TEX", "GOTS"},
		TargetMarkets:  []string{"US", "GB", "PL"},
	},
}

var bundledBuyers = []model.BuyerProfile{
	{
		ID: "BYR-001", Company: "Pacific Beauty Distribution", Country: "US",
		Industry: "cosmetics", HSCode: "330499",
		OrderQty: 20000, TargetPriceMin: 5, TargetPriceMax: 10,
		RequiredCerts:  []string{"ISO22716"},
		PreferredCerts: []string{"CPNP", "VEGAN"},
	},
	{
		ID: "BYR-002", Company: "Rhein Kosmetik Handel", Country: "DE",
		Industry: "cosmetics", HSCode: "330410",
		OrderQty: 8000, TargetPriceMin: 6, TargetPriceMax: 14,
		RequiredCerts:  []string{"CPNP"},
		PreferredCerts: []string{"ISO22716"},
	},
	{
		ID: "BYR-003", Company: "Sakura Retail Group", Country: "JP",
		Industry: "cosmetics", HSCode: "330499",
		OrderQty: 15000, TargetPriceMin: 4, TargetPriceMax: 9,
		PreferredCerts: []string{"ISO22716"},
	},
	{
		ID: "BYR-004", Company: "Hanoi Beauty Import", Country: "VN",
		Industry: "cosmetics", HSCode: "330499",
		OrderQty: 30000, TargetPriceMin: 3, TargetPriceMax: 6,
	},
	{
		ID: "BYR-005", Company: "Gulf Food Trading", Country: "AE",
		Industry: "food_beverage", HSCode: "190230",
		OrderQty: 50000, TargetPriceMin: 1, TargetPriceMax: 3,
		RequiredCerts:  []string{"HALAL"},
		PreferredCerts: []string{"HACCP"},
	},
	{
		ID: "BYR-006", Company: "Mumbai Machine Tools", Country: "IN",
		Industry: "machinery", HSCode: "845811",
		OrderQty: 4, TargetPriceMin: 15000, TargetPriceMax: 50000,
		RequiredCerts:  []string{"CE"},
		PreferredCerts: []string{"ISO9001"},
	},
	{
		ID: "BYR-007", Company: "Sao Paulo Electro", Country: "BR",
		Industry: "electronics", HSCode: "851762",
		OrderQty: 5000, TargetPriceMin: 40, TargetPriceMax: 180,
		RequiredCerts:  []string{"ANATEL"},
		PreferredCerts: []string{"CE"},
	},
	{
		ID: "BYR-008", Company: "Bangkok Apparel Co.", Country: "TH",
		Industry: "textiles", HSCode: "610910",
		OrderQty: 25000, TargetPriceMin: 2, TargetPriceMax: 5,
		PreferredCerts: []string{"OEKO-TEX"},
	},
	{
		ID: "BYR-009", Company: "Britannia Garments", Country: "GB",
		Industry: "textiles", HSCode: "610990",
		OrderQty: 12000, TargetPriceMin: 3, TargetPriceMax: 8,
		RequiredCerts:  []string{"OEKO-TEX"},
		PreferredCerts: []string{"GOTS"},
	},
	{
		ID: "BYR-010", Company: "Warsaw Trade House", Country: "PL",
		Industry: "food_beverage", HSCode: "210690",
		OrderQty: 18000, TargetPriceMin: 2, TargetPriceMax: 6,
		PreferredCerts: []string{"HACCP"},
	},
	{
		ID: "BYR-011", Company: "Nogales Import Partners", Country: "MX",
		Industry: "machinery", HSCode: "845819",
		OrderQty: 6, TargetPriceMin: 20000, TargetPriceMax: 70000,
		RequiredCerts:  []string{"ISO9001"},
		PreferredCerts: []string{"CE"},
	},
	{
		ID: "BYR-012", Company: "Lion City Electronics", Country: "SG",
		Industry: "electronics", HSCode: "851762",
		OrderQty: 80000, TargetPriceMin: 30, TargetPriceMax: 120,
		RequiredCerts:  []string{"CE"},
		PreferredCerts: []string{"RoHS", "FCC"},
	},
}

var bundledFraudCases = []model.FraudCase{
	{ID: "FRD-NG-01", Country: "NG", Type: "advance_fee", DamageUSD: 42000, Year: 2023, Summary: "fake LC issued against phantom cargo"},
	{ID: "FRD-NG-02", Country: "NG", Type: "advance_fee", DamageUSD: 18000, Year: 2024, Summary: "inspection-fee scam on first order"},
	{ID: "FRD-NG-03", Country: "NG", Type: "advance_fee", DamageUSD: 9500, Year: 2022, Summary: "customs clearance deposit never returned"},
	{ID: "FRD-NG-04", Country: "NG", Type: "email_hacking", DamageUSD: 150000, Year: 2023, Summary: "bank detail swap on invoice chain"},
	{ID: "FRD-NG-05", Country: "NG", Type: "email_hacking", DamageUSD: 61000, Year: 2021, Summary: "spoofed buyer domain mid-negotiation"},
	{ID: "FRD-NG-06", Country: "NG", Type: "forged_docs", DamageUSD: 27000, Year: 2024, Summary: "forged bill of lading"},
	{ID: "FRD-PK-01", Country: "PK", Type: "forged_docs", DamageUSD: 33000, Year: 2022, Summary: "altered certificate of origin"},
	{ID: "FRD-PK-02", Country: "PK", Type: "quality_dispute", DamageUSD: 12000, Year: 2023, Summary: "rejected shipment held at port as leverage"},
	{ID: "FRD-PK-03", Country: "PK", Type: "logistics", DamageUSD: 8000, Year: 2024, Summary: "container rerouted by fake forwarder"},
	{ID: "FRD-BD-01", Country: "BD", Type: "quality_dispute", DamageUSD: 15000, Year: 2023, Summary: "claimed defects after resale"},
	{ID: "FRD-BD-02", Country: "BD", Type: "other", DamageUSD: 5000, Year: 2022, Summary: "buyer vanished after sample delivery"},
	{ID: "FRD-CN-01", Country: "CN", Type: "quality_dispute", DamageUSD: 22000, Year: 2023, Summary: "substituted materials on OEM run"},
	{ID: "FRD-CN-02", Country: "CN", Type: "quality_dispute", DamageUSD: 9000, Year: 2021, Summary: "spec drift across reorders"},
	{ID: "FRD-CN-03", Country: "CN", Type: "forged_certs", DamageUSD: 30000, Year: 2024, Summary: "fabricated test reports"},
	{ID: "FRD-CN-04", Country: "CN", Type: "logistics", DamageUSD: 7000, Year: 2022, Summary: "phantom warehouse fees"},
	{ID: "FRD-VN-01", Country: "VN", Type: "logistics", DamageUSD: 6000, Year: 2023, Summary: "double-brokered trucking leg"},
	{ID: "FRD-ID-01", Country: "ID", Type: "impersonation", DamageUSD: 28000, Year: 2023, Summary: "fake procurement office of real conglomerate"},
	{ID: "FRD-ID-02", Country: "ID", Type: "other", DamageUSD: 4000, Year: 2021, Summary: "ghost trade-show stand deposit"},
}

var bundledSuccessCases = []model.SuccessCase{
	{ID: "SUC-01", Country: "VN", Industry: "cosmetics", Year: 2023, Summary: "social-commerce distributor tripled reorders in two quarters"},
	{ID: "SUC-02", Country: "VN", Industry: "food_beverage", Year: 2022, Summary: "convenience-store chain listing after localized packaging"},
	{ID: "SUC-03", Country: "US", Industry: "cosmetics", Year: 2024, Summary: "DTC marketplace launch reached top-100 in category"},
	{ID: "SUC-04", Country: "JP", Industry: "cosmetics", Year: 2021, Summary: "drugstore chain adoption via local OEM partner"},
	{ID: "SUC-05", Country: "DE", Industry: "machinery", Year: 2023, Summary: "retrofit contract with tier-2 auto supplier"},
	{ID: "SUC-06", Country: "IN", Industry: "machinery", Year: 2020, Summary: "joint service center cut lead times, repeat orders followed"},
	{ID: "SUC-07", Country: "AE", Industry: "food_beverage", Year: 2024, Summary: "halal line listed across hypermarket chain"},
	{ID: "SUC-08", Country: "TH", Industry: "textiles", Year: 2019, Summary: "athleisure private-label program"},
	{ID: "SUC-09", Country: "SG", Industry: "electronics", Year: 2023, Summary: "regional distributor covering three ASEAN markets"},
	{ID: "SUC-10", Country: "BR", Industry: "electronics", Year: 2018, Summary: "certification-first entry beat established importer"},
	{ID: "SUC-11", Country: "GB", Industry: "textiles", Year: 2022, Summary: "recycled-fabric capsule with high-street retailer"},
	{ID: "SUC-12", Country: "MX", Industry: "machinery", Year: 2016, Summary: "maquiladora supply contract via trade mission"},
}
