package extract

import (
	"regexp"
	"strings"

	"github.com/seenimoa/edgarfacts/pkg/models"
)

// maxValuesPerMetric caps how many raw matches are considered per metric
// before deduplication.
const maxValuesPerMetric = 10

type metricPattern struct {
	name string
	re   *regexp.Regexp
}

// Line-item patterns. The capture group takes the numeric value, optionally
// parenthesized (accounting negative). Values may be separated from their
// label by newlines in tabular filings, hence the [\s\n:]* bridges.
var metricPatterns = []metricPattern{
	{"total_revenue", regexp.MustCompile(`(?i)Total\s+(?:net\s+)?revenues?[\s\n:]*\$?[\s\n]*([()]?[\d,]+[()]?)`)},
	{"total_assets", regexp.MustCompile(`(?i)Total\s+assets[\s\n:]*\$?[\s\n]*([()]?[\d,]+[()]?)`)},
	{"total_liabilities", regexp.MustCompile(`(?i)Total\s+liabilities[\s\n:]*\$?[\s\n]*([()]?[\d,]+[()]?)`)},
	{"stockholders_equity", regexp.MustCompile(`(?i)Total\s+stockholders['’]?\s+equity[\s\n:]*\$?[\s\n]*([()]?[\d,]+[()]?)`)},
	{"net_income", regexp.MustCompile(`(?i)Net\s+(?:income|earnings)[\s\n:]*\$?[\s\n]*([()]?[\d,]+[()]?)`)},
	{"operating_cash_flow", regexp.MustCompile(`(?i)(?:Net\s+)?cash\s+(?:provided\s+by|from)\s+operating\s+activities[\s\n:]*\$?[\s\n]*([()]?[\d,]+[()]?)`)},

	{"paid_memberships", regexp.MustCompile(`(?i)(?:paid|average).*?member(?:ship)?s?[\s\n:]*[\s\n]*([\d,]+(?:\.\d+)?)\s*(?:million)?`)},
	{"streaming_members", regexp.MustCompile(`(?i)streaming.*?member(?:ship)?s?[\s\n:]*[\s\n]*([\d,]+(?:\.\d+)?)\s*(?:million)?`)},
	{"average_memberships", regexp.MustCompile(`(?i)average.*?(?:paying\s+)?member(?:ship)?s?[\s\n:]*[\s\n]*([\d,]+(?:\.\d+)?)\s*(?:million)?`)},

	{"arppu", regexp.MustCompile(`(?i)(?:ARPPU|average\s+revenue\s+per.*?user|revenue\s+per.*?member)[\s\n:]*\$?[\s\n]*([\d,]+(?:\.\d+)?)`)},

	{"gross_margin_pct", regexp.MustCompile(`(?i)gross\s+(?:profit\s+)?margin[\s\n:]*[\s\n]*([\d,]+(?:\.\d+)?)\s*%`)},
	{"operating_margin_pct", regexp.MustCompile(`(?i)operating\s+(?:profit\s+)?margin[\s\n:]*[\s\n]*([\d,]+(?:\.\d+)?)\s*%`)},
	{"pretax_margin_pct", regexp.MustCompile(`(?i)pre[-\s]?tax\s+(?:profit\s+)?margin[\s\n:]*[\s\n]*([\d,]+(?:\.\d+)?)\s*%`)},
}

// LineItems pulls named financial metrics out of filing text. Each metric
// keeps its distinct captured values in order of first occurrence;
// parenthesized values are rewritten as negatives ("(123)" → "-123").
// Metrics with no match are absent from the result.
func LineItems(text string) models.LineItems {
	items := models.LineItems{}
	for _, mp := range metricPatterns {
		matches := mp.re.FindAllStringSubmatch(text, maxValuesPerMetric)
		if matches == nil {
			continue
		}

		seen := map[string]bool{}
		var values []string
		for _, m := range matches {
			v := strings.TrimSpace(m[1])
			if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
				v = "-" + v[1:len(v)-1]
			}
			if seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
		if len(values) > 0 {
			items[mp.name] = values
		}
	}
	return items
}
