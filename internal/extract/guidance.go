package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/seenimoa/edgarfacts/pkg/models"
)

// maxRangesPerKind caps how many guidance ranges of each kind are kept.
const maxRangesPerKind = 3

var (
	// "revenue guidance of $5.0 billion to $5.2 billion"
	revGuidanceRe = regexp.MustCompile(`(?is)(?:revenue|sales).*?(?:guidance|outlook|expects?|projects?|forecasts?).*?\$\s*([\d.]+)\s*(?:billion|million).*?(?:to|and|-).*?\$\s*([\d.]+)\s*(billion|million)`)
	// "revenue between $5.0 and $5.2 billion"
	revBetweenRe = regexp.MustCompile(`(?is)(?:revenue|sales).*?between.*?\$\s*([\d.]+).*?and.*?\$\s*([\d.]+)\s*(billion|million)`)

	// "pre-tax margin guidance of 10.8% to 10.9%"
	marginGuidanceRe = regexp.MustCompile(`(?is)(?:margin|pre-?tax|gross|operating).*?(?:guidance|outlook|expects?|projects?).*?([\d.]+)\s*%.*?(?:to|and|-).*?([\d.]+)\s*%`)
	// "margin between 10.8% and 10.9%"
	marginBetweenRe = regexp.MustCompile(`(?is)(?:margin|pre-?tax).*?between.*?([\d.]+)\s*%.*?and.*?([\d.]+)\s*%`)

	// "EPS guidance of $2.50 to $2.60"
	epsGuidanceRe = regexp.MustCompile(`(?is)(?:EPS|earnings\s+per\s+share).*?(?:guidance|outlook|expects?).*?\$\s*([\d.]+).*?(?:to|and|-).*?\$\s*([\d.]+)`)

	// Fiscal period mentions: FY2025, Q1 2025, "first quarter 2025".
	periodPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:fiscal|FY|full\s+year)\s*(\d{4})`),
		regexp.MustCompile(`(?i)(Q[1-4])\s*(?:fiscal|FY)?\s*(\d{4})`),
		regexp.MustCompile(`(?i)(?:first|second|third|fourth)\s+quarter.*?(\d{4})`),
	}

	// Last-resort: any number near the word "guidance".
	guidanceFallbackRe = regexp.MustCompile(`(?is)guidance.*?([\d.]+)\s*(?:%|billion|million)`)
)

// Guidance extracts forward-looking ranges (revenue, margin, EPS) and the
// fiscal periods they refer to.
//
// Any structured range grades high confidence; period mentions alone grade
// low; a bare number near "guidance" grades very low. Returns nil when
// nothing at all was found.
func Guidance(text string) *models.GuidanceData {
	g := &models.GuidanceData{}

	for _, m := range revGuidanceRe.FindAllStringSubmatch(text, maxRangesPerKind) {
		if r, ok := revenueRange(m[1], m[2], m[3]); ok {
			g.RevenueRanges = append(g.RevenueRanges, r)
		}
	}
	if len(g.RevenueRanges) == 0 {
		for _, m := range revBetweenRe.FindAllStringSubmatch(text, maxRangesPerKind) {
			if r, ok := revenueRange(m[1], m[2], m[3]); ok {
				g.RevenueRanges = append(g.RevenueRanges, r)
			}
		}
	}

	for _, m := range marginGuidanceRe.FindAllStringSubmatch(text, maxRangesPerKind) {
		if r, ok := marginRange(m[1], m[2]); ok {
			g.MarginRanges = append(g.MarginRanges, r)
		}
	}
	if len(g.MarginRanges) == 0 {
		for _, m := range marginBetweenRe.FindAllStringSubmatch(text, maxRangesPerKind) {
			if r, ok := marginRange(m[1], m[2]); ok {
				g.MarginRanges = append(g.MarginRanges, r)
			}
		}
	}

	for _, m := range epsGuidanceRe.FindAllStringSubmatch(text, maxRangesPerKind) {
		low, errL := strconv.ParseFloat(m[1], 64)
		high, errH := strconv.ParseFloat(m[2], 64)
		if errL != nil || errH != nil {
			continue
		}
		g.EPSRanges = append(g.EPSRanges, models.EPSRange{
			Low:      low,
			High:     high,
			Midpoint: round2((low + high) / 2),
		})
	}

	g.Periods = extractPeriods(text)

	switch {
	case len(g.RevenueRanges) > 0 || len(g.MarginRanges) > 0 || len(g.EPSRanges) > 0:
		g.Confidence = models.ConfidenceHigh
		g.Source = "structured_guidance"
	case len(g.Periods) > 0:
		g.Confidence = models.ConfidenceLow
		g.Source = "period_mentions_only"
	default:
		for _, m := range guidanceFallbackRe.FindAllStringSubmatch(text, 5) {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				g.Values = append(g.Values, v)
			}
		}
		if len(g.Values) == 0 {
			return nil
		}
		g.Confidence = models.ConfidenceVeryLow
		g.Source = "unstructured_mentions"
	}
	return g
}

func revenueRange(lowS, highS, unit string) (models.RevenueRange, bool) {
	low, errL := strconv.ParseFloat(lowS, 64)
	high, errH := strconv.ParseFloat(highS, 64)
	if errL != nil || errH != nil {
		return models.RevenueRange{}, false
	}
	rangePct := 0.0
	if low > 0 {
		rangePct = round2((high - low) / low * 100)
	}
	return models.RevenueRange{
		Low:      low,
		High:     high,
		Midpoint: round2((low + high) / 2),
		Unit:     strings.ToLower(unit),
		RangePct: rangePct,
	}, true
}

func marginRange(lowS, highS string) (models.MarginRange, bool) {
	low, errL := strconv.ParseFloat(lowS, 64)
	high, errH := strconv.ParseFloat(highS, 64)
	if errL != nil || errH != nil {
		return models.MarginRange{}, false
	}
	return models.MarginRange{
		Low:      low,
		High:     high,
		Midpoint: round2((low + high) / 2),
		RangeBps: bps(high - low),
	}, true
}

// extractPeriods collects distinct fiscal period mentions, sorted, capped
// at five.
func extractPeriods(text string) []string {
	seen := map[string]bool{}
	for _, re := range periodPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			parts := m[1:]
			period := ""
			for _, p := range parts {
				if p == "" {
					continue
				}
				if period != "" {
					period += " "
				}
				period += p
			}
			if period != "" {
				seen[period] = true
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	periods := make([]string, 0, len(seen))
	for p := range seen {
		periods = append(periods, p)
	}
	sort.Strings(periods)
	if len(periods) > 5 {
		periods = periods[:5]
	}
	return periods
}
