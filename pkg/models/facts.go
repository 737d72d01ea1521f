package models

import "fmt"

// Confidence grades how much structure backed an extracted fact. It is a
// first-class field on every fact shape so consumers can't conflate a
// structured match with a bare-value fallback.
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
	ConfidenceVeryLow Confidence = "very_low"
)

// LineItems maps a metric name (e.g. "total_revenue") to the distinct
// string values captured for it, in order of first occurrence.
type LineItems map[string][]string

// MarginComparison is the result of comparing an actual pretax profit
// margin against plan/guidance. When no comparison language was found the
// ActualPct/BeatOrMiss fields are zero and only MarginValues (or
// QuarterlyValues) carry data, at low confidence.
type MarginComparison struct {
	ActualPct       float64    `json:"actual_pct,omitempty"`
	GuidanceHighPct float64    `json:"guidance_high_pct,omitempty"`
	DifferenceBps   int        `json:"difference_bps,omitempty"`
	BeatOrMiss      string     `json:"beat_or_miss,omitempty"` // "beat" or "miss"
	MarginValues    []float64  `json:"margin_values,omitempty"`
	QuarterlyValues []float64  `json:"quarterly_values,omitempty"`
	Confidence      Confidence `json:"confidence"`
	Source          string     `json:"source"`
}

// String renders the comparison for logs and CLI summaries.
func (m *MarginComparison) String() string {
	if m == nil {
		return "margin: none"
	}
	if m.BeatOrMiss != "" {
		return fmt.Sprintf("margin %.1f%% %s plan by %dbps (%s confidence)",
			m.ActualPct, m.BeatOrMiss, m.DifferenceBps, m.Confidence)
	}
	if m.ActualPct != 0 {
		return fmt.Sprintf("margin %.1f%% (%s confidence)", m.ActualPct, m.Confidence)
	}
	return fmt.Sprintf("margin values %v (%s confidence)", m.MarginValues, m.Confidence)
}

// RevenueRange is a forward revenue guidance range.
type RevenueRange struct {
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	Midpoint float64 `json:"midpoint"`
	Unit     string  `json:"unit"` // "billion" or "million"
	RangePct float64 `json:"range_pct"`
}

// MarginRange is a forward margin guidance range. Width is expressed in
// basis points.
type MarginRange struct {
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	Midpoint float64 `json:"midpoint"`
	RangeBps int     `json:"range_bps"`
}

// EPSRange is a forward earnings-per-share guidance range.
type EPSRange struct {
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	Midpoint float64 `json:"midpoint"`
}

// GuidanceData collects forward-looking guidance found in one filing.
type GuidanceData struct {
	RevenueRanges []RevenueRange `json:"revenue_range,omitempty"`
	MarginRanges  []MarginRange  `json:"margin_range,omitempty"`
	EPSRanges     []EPSRange     `json:"eps_range,omitempty"`
	Periods       []string       `json:"periods,omitempty"`
	Values        []float64      `json:"guidance_values,omitempty"` // bare-numbers fallback
	Confidence    Confidence     `json:"confidence"`
	Source        string         `json:"source"`
}

// Empty reports whether nothing at all was extracted.
func (g *GuidanceData) Empty() bool {
	return g == nil || (len(g.RevenueRanges) == 0 && len(g.MarginRanges) == 0 &&
		len(g.EPSRanges) == 0 && len(g.Periods) == 0 && len(g.Values) == 0)
}

// SubscriberData holds per-subscriber revenue (ARPPU) and membership-count
// extractions. ARPPUOverall is the mode of the direct matches: filings
// restate the headline figure repeatedly while regional breakdowns vary, so
// the most-repeated value is the best estimator of the global number.
type SubscriberData struct {
	ARPPUDirect         []float64 `json:"arppu_direct,omitempty"`
	ARPPUOverall        []float64 `json:"arppu_overall,omitempty"`
	MembershipsMillions []float64 `json:"memberships_millions,omitempty"`
	Source              string    `json:"source,omitempty"`
}

// Empty reports whether no subscriber figures were extracted.
func (s *SubscriberData) Empty() bool {
	return s == nil || (len(s.ARPPUDirect) == 0 && len(s.MembershipsMillions) == 0)
}
