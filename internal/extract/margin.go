package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/seenimoa/edgarfacts/pkg/models"
)

// marginSearchCap bounds how far into the text the margin patterns scan.
// The comparison language always appears near the top of a press release;
// unbounded scans over full 10-Ks are wasted work.
const marginSearchCap = 100000

var (
	// "pretax profit margin of 12.3% ... (well) above/below plan"
	marginPlanRe = regexp.MustCompile(`(?i)pretax\s+profit\s+margin\s+of\s+([\d.]+)%.*?(?:well\s+)?(above|below).*?(?:plan|guidance)`)

	// "...margin was 11.6% above plan by 0.7 percentage points"
	marginExplicitDiffRe = regexp.MustCompile(`(?i)pretax\s+(?:profit\s+)?margin.*?([\d.]+)%.*?(above|below).*?(?:plan|guidance).*?by\s+([\d.]+)\s+percentage\s+point`)

	// Bare value and quarterly-context fallbacks.
	marginSimpleRe    = regexp.MustCompile(`(?i)pretax\s+profit\s+margin\s+of\s+([\d.]+)%`)
	marginQuarterlyRe = regexp.MustCompile(`(?i)Q[1-4]\s+pretax\s+profit\s+margin\s+of\s+([\d.]+)%`)

	// "up/down/by X percentage points" near a plan comparison.
	marginDiffRe = regexp.MustCompile(`(?i)(?:up|down|by)\s+([\d.]+)\s+percentage\s+points?`)
)

// Margin compares the reported pretax profit margin against plan.
//
// Strategies run in decreasing confidence: plan-comparison language with a
// nearby percentage-point delta (high), the same language without a delta
// (medium), then bare or quarterly margin values (low). When a delta is
// found the implied guidance is reverse-engineered: a beat means guidance
// sat below the actual, a miss above. Returns nil when nothing matched.
func Margin(text string) *models.MarginComparison {
	if len(text) > marginSearchCap {
		text = text[:marginSearchCap]
	}

	if loc := marginPlanRe.FindStringSubmatchIndex(text); loc != nil {
		actual, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		if err != nil {
			return nil
		}
		direction := text[loc[4]:loc[5]]

		result := &models.MarginComparison{
			ActualPct:  actual,
			BeatOrMiss: "beat",
			Confidence: models.ConfidenceMedium,
			Source:     "plan_comparison",
		}
		if isBelow(direction) {
			result.BeatOrMiss = "miss"
		}

		// Look around the match for an explicit percentage-point delta.
		ctxStart := max(0, loc[0]-200)
		ctxEnd := min(len(text), loc[1]+500)
		if dm := marginDiffRe.FindStringSubmatch(text[ctxStart:ctxEnd]); dm != nil {
			if diff, err := strconv.ParseFloat(dm[1], 64); err == nil {
				result.DifferenceBps = bps(diff)
				result.Confidence = models.ConfidenceHigh
				if result.BeatOrMiss == "beat" {
					result.GuidanceHighPct = round1(actual - diff)
				} else {
					result.GuidanceHighPct = round1(actual + diff)
				}
			}
		}
		return result
	}

	if m := marginExplicitDiffRe.FindStringSubmatch(text); m != nil {
		actual, errA := strconv.ParseFloat(m[1], 64)
		diff, errD := strconv.ParseFloat(m[3], 64)
		if errA != nil || errD != nil {
			return nil
		}

		result := &models.MarginComparison{
			ActualPct:     actual,
			DifferenceBps: bps(diff),
			BeatOrMiss:    "beat",
			Confidence:    models.ConfidenceHigh,
			Source:        "explicit_difference",
		}
		if isBelow(m[2]) {
			result.BeatOrMiss = "miss"
			result.GuidanceHighPct = round1(actual + diff)
		} else {
			result.GuidanceHighPct = round1(actual - diff)
		}
		return result
	}

	if values := marginFloats(marginSimpleRe, text, 3); len(values) > 0 {
		return &models.MarginComparison{
			MarginValues: values,
			Confidence:   models.ConfidenceLow,
			Source:       "simple_extraction",
		}
	}

	if values := marginFloats(marginQuarterlyRe, text, 4); len(values) > 0 {
		return &models.MarginComparison{
			QuarterlyValues: values,
			Confidence:      models.ConfidenceLow,
			Source:          "quarterly_mentions",
		}
	}
	return nil
}

func marginFloats(re *regexp.Regexp, text string, limit int) []float64 {
	var out []float64
	for _, m := range re.FindAllStringSubmatch(text, limit) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func isBelow(direction string) bool {
	return strings.EqualFold(direction, "below")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// bps converts a percentage-point delta to whole basis points. Rounded,
// not truncated: 0.1pp must come out as 10bps despite float representation.
func bps(percentagePoints float64) int {
	return int(math.Round(percentagePoints * 100))
}
