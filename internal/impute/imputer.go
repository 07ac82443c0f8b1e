// Package impute fills absent upstream indicators using region-level
// statistical defaults. Absence is never silently zero-filled: every
// substitution is recorded so the confidence report can account for it.
package impute

import (
	"fmt"
	"strings"
)

// Method tags, recorded verbatim on every Record. Region-derived tags carry
// the region as a suffix, e.g. "region_avg:asia".
const (
	MethodOriginal  = "original"
	MethodFallback  = "fallback"
	MethodUnknown   = "unknown"
	MethodEmptyList = "empty_list"

	// UnknownValue is the categorical sentinel of last resort.
	UnknownValue = "UNKNOWN"
)

// Record documents one imputation decision.
type Record struct {
	Field    string `json:"field"`
	Original any    `json:"original,omitempty"`
	Value    any    `json:"value"`
	Method   string `json:"method"`
}

// Imputer accumulates records for one scoring request. Create one per
// request (or Reset between requests); it is not safe for concurrent use.
type Imputer struct {
	records []Record
}

// New returns an empty per-request imputer.
func New() *Imputer {
	return &Imputer{}
}

// Numeric resolves a possibly-absent numeric indicator. Priority: the
// original value (present; and non-zero for magnitude fields — a zero GDP
// is a reporting gap, a zero growth rate is data), then the region average
// for the candidate's region, then the caller's fallback.
func (im *Imputer) Numeric(value *float64, field, country string, fallback float64) (float64, string) {
	if value != nil && (!magnitudeField(field) || *value != 0) {
		im.append(field, *value, *value, MethodOriginal)
		return *value, MethodOriginal
	}

	region := RegionOf(country)
	if v, ok := regionNumericDefault(region, field); ok {
		method := "region_avg:" + region
		im.append(field, originalOf(value), v, method)
		return v, method
	}

	im.append(field, originalOf(value), fallback, MethodFallback)
	return fallback, MethodFallback
}

// Categorical resolves a possibly-absent categorical indicator with the
// same priority ladder; the final fallback is the UNKNOWN sentinel when the
// caller supplies none.
func (im *Imputer) Categorical(value, field, country, fallback string) (string, string) {
	if strings.TrimSpace(value) != "" {
		im.append(field, value, value, MethodOriginal)
		return value, MethodOriginal
	}

	region := RegionOf(country)
	if v, ok := regionCategoricalDefault(region, field); ok {
		method := "region_default:" + region
		im.append(field, nil, v, method)
		return v, method
	}

	if fallback != "" {
		im.append(field, nil, fallback, MethodFallback)
		return fallback, MethodFallback
	}
	im.append(field, nil, UnknownValue, MethodUnknown)
	return UnknownValue, MethodUnknown
}

// List resolves a possibly-absent list. An absent list becomes an empty
// list — no synthetic entries — but the substitution still counts against
// coverage.
func (im *Imputer) List(values []string, field string) ([]string, string) {
	if len(values) > 0 {
		im.append(field, values, values, MethodOriginal)
		return values, MethodOriginal
	}
	im.append(field, nil, []string{}, MethodEmptyList)
	return []string{}, MethodEmptyList
}

// Records returns all decisions made since the last Reset, in call order.
func (im *Imputer) Records() []Record {
	return im.records
}

// MissingFields lists the fields that needed a substitute, in call order.
func (im *Imputer) MissingFields() []string {
	var out []string
	for _, r := range im.records {
		if r.Method != MethodOriginal {
			out = append(out, r.Field)
		}
	}
	return out
}

// Methods returns field → method for the confidence report.
func (im *Imputer) Methods() map[string]string {
	out := make(map[string]string, len(im.records))
	for _, r := range im.records {
		out[r.Field] = r.Method
	}
	return out
}

// Coverage is the fraction of lookups answered by original data, 1.0 when
// nothing was looked up.
func (im *Imputer) Coverage() float64 {
	if len(im.records) == 0 {
		return 1.0
	}
	orig := 0
	for _, r := range im.records {
		if r.Method == MethodOriginal {
			orig++
		}
	}
	return float64(orig) / float64(len(im.records))
}

// Reset clears accumulated records for reuse on the next request.
func (im *Imputer) Reset() {
	im.records = im.records[:0]
}

func (im *Imputer) append(field string, original, value any, method string) {
	im.records = append(im.records, Record{
		Field:    field,
		Original: original,
		Value:    value,
		Method:   method,
	})
}

func originalOf(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// magnitudeField reports whether a zero value means "unreported" rather
// than a legitimate measurement. Monetary magnitudes carry a _usd suffix.
func magnitudeField(field string) bool {
	return strings.HasSuffix(field, "_usd")
}

// String implements fmt.Stringer for log-friendly records.
func (r Record) String() string {
	return fmt.Sprintf("%s=%v (%s)", r.Field, r.Value, r.Method)
}
