package model

// ProfileType selects which side of the market a Match request describes.
type ProfileType string

const (
	ProfileSeller ProfileType = "seller"
	ProfileBuyer  ProfileType = "buyer"
)

// SellerProfile describes an exporter offering product under one HS code.
type SellerProfile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Country        string   `json:"country"`
	Industry       string   `json:"industry"`
	HSCode         string   `json:"hs_code"`
	PriceMinUSD    float64  `json:"price_min_usd"`
	PriceMaxUSD    float64  `json:"price_max_usd"`
	MinOrderQty    int      `json:"min_order_qty"`
	AnnualCapacity int      `json:"annual_capacity"`
	MinOrderValue  float64  `json:"min_order_value,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	TargetMarkets  []string `json:"target_markets,omitempty"`
}

// BuyerProfile describes an importer sourcing product under one HS code.
type BuyerProfile struct {
	ID             string   `json:"id"`
	Company        string   `json:"company"`
	Country        string   `json:"country"`
	Industry       string   `json:"industry"`
	HSCode         string   `json:"hs_code"`
	OrderQty       int      `json:"order_qty"` // preferred order quantity per year
	TargetPriceMin float64  `json:"target_price_min"`
	TargetPriceMax float64  `json:"target_price_max"`
	RequiredCerts  []string `json:"required_certs,omitempty"`
	PreferredCerts []string `json:"preferred_certs,omitempty"`
}

// PriceMidpoint returns the midpoint of the seller's declared price range.
func (s SellerProfile) PriceMidpoint() float64 {
	if s.PriceMinUSD <= 0 && s.PriceMaxUSD <= 0 {
		return 0
	}
	if s.PriceMaxUSD <= 0 {
		return s.PriceMinUSD
	}
	return (s.PriceMinUSD + s.PriceMaxUSD) / 2
}

// HS4 returns the 4-digit heading prefix of an HS code, the granularity at
// which two sides are considered to trade the same product family.
func HS4(hsCode string) string {
	if len(hsCode) < 4 {
		return hsCode
	}
	return hsCode[:4]
}

// PriceRangesOverlap reports whether [aMin,aMax] and [bMin,bMax] intersect.
// An unset bound (<= 0) is treated as open on that side.
func PriceRangesOverlap(aMin, aMax, bMin, bMax float64) bool {
	if aMax > 0 && bMin > 0 && aMax < bMin {
		return false
	}
	if bMax > 0 && aMin > 0 && bMax < aMin {
		return false
	}
	return true
}
