package extract

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/seenimoa/edgarfacts/pkg/models"
)

// Plausibility bands. Values outside are regional breakouts, prices, or
// stray numbers, not the global figures we're after.
const (
	arppuMin = 5.0
	arppuMax = 25.0

	membershipsMinMillions = 50.0
	membershipsMaxMillions = 500.0
)

// ARPPU phrasings, in decreasing specificity. All require a two-decimal
// dollar figure, which filters out counts and percentages.
var arppuPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)average\s+monthly\s+revenue\s+per\s+paying\s+membership\s+[$€]?\s*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)average\s+revenue\s+per\s+paid\s+member[\s:]+[$€]?\s*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)ARPPU.*?[$€]?\s*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)global\s+average.*?[$€]?\s*(\d+\.\d{2})`),
}

// Membership phrasings: "X.X million paid memberships", the reverse
// order, and the bare table form "Paid memberships   280.6".
var (
	membershipLeadingRe  = regexp.MustCompile(`(?i)(?:paid|streaming|total)\s+member(?:ship)?s?\s+(?:of\s+)?([\d.]+)\s+million`)
	membershipTrailingRe = regexp.MustCompile(`(?i)([\d.]+)\s+million\s+(?:paid|streaming|total)\s+member(?:ship)?s?`)
	membershipTableRe    = regexp.MustCompile(`(?i)(?:paid|streaming)\s+member(?:ship)?s?[\s\n]+(\d{2,3}\.\d{1,2})(?:[^0-9]|$)`)
)

// Subscribers extracts per-subscriber revenue (ARPPU) and membership
// counts.
//
// Filings restate the headline ARPPU repeatedly while regional breakouts
// vary, so ARPPUOverall is the mode of all in-band direct matches and
// ARPPUDirect lists the distinct values seen. Membership counts are
// deduplicated, band-filtered, and sorted descending (the headline global
// count first). Returns nil when neither was found.
func Subscribers(text string) *models.SubscriberData {
	data := &models.SubscriberData{}

	var direct []float64
	for _, re := range arppuPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil || v < arppuMin || v > arppuMax {
				continue
			}
			direct = append(direct, v)
		}
	}
	if len(direct) > 0 {
		data.ARPPUDirect = uniqueSorted(direct, 5)
		data.ARPPUOverall = []float64{mode(direct)}
		data.Source = "global_mode_from_direct"
	}

	var counts []float64
	for _, re := range []*regexp.Regexp{membershipLeadingRe, membershipTrailingRe, membershipTableRe} {
		matches := re.FindAllStringSubmatch(text, maxValuesPerMetric)
		for _, m := range matches {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			counts = append(counts, v)
		}
	}
	if len(counts) > 0 {
		var valid []float64
		for _, v := range counts {
			if v >= membershipsMinMillions && v <= membershipsMaxMillions {
				valid = append(valid, v)
			}
		}
		if len(valid) > 0 {
			u := uniqueSorted(valid, len(valid))
			sort.Sort(sort.Reverse(sort.Float64Slice(u)))
			data.MembershipsMillions = u
		}
	}

	if data.Empty() {
		return nil
	}
	return data
}

// uniqueSorted returns the distinct values in ascending order, capped at n.
func uniqueSorted(values []float64, n int) []float64 {
	seen := map[float64]bool{}
	var out []float64
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// mode returns the most frequent value; ties go to the value seen first.
func mode(values []float64) float64 {
	counts := map[float64]int{}
	best := values[0]
	bestCount := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}
