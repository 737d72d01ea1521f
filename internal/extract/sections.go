// Package extract turns cleaned filing text into structured facts:
// named sections, financial line items, margin-versus-plan comparisons,
// subscriber metrics, forward guidance, and board nominees.
//
// All extraction is pattern-based over plain text. Patterns are compiled
// once at package init; every extractor is a pure function safe for
// concurrent use.
package extract

import (
	"regexp"
	"strings"

	"github.com/seenimoa/edgarfacts/pkg/models"
)

// sectionCap bounds how much text one section may carry into a result.
const sectionCap = 12000

type sectionPattern struct {
	name string
	re   *regexp.Regexp
}

// Material-event (8-K) sections: the numbered items plus guidance and
// earnings-release blocks. Item sections run until the next item heading;
// keyword sections carry a fixed window of following text.
var materialEventSections = []sectionPattern{
	{"item_1_01", regexp.MustCompile(`(?is)(Item\s+1\.01.*?)(?:Item\s+\d|\z)`)},
	{"item_2_01", regexp.MustCompile(`(?is)(Item\s+2\.01.*?)(?:Item\s+\d|\z)`)},
	{"item_2_02", regexp.MustCompile(`(?is)(Item\s+2\.02.*?)(?:Item\s+\d|\z)`)},
	{"item_5_02", regexp.MustCompile(`(?is)(Item\s+5\.02.*?)(?:Item\s+\d|\z)`)},
	{"item_8_01", regexp.MustCompile(`(?is)(Item\s+8\.01.*?)(?:Item\s+\d|\z)`)},
	{"ma_activity", regexp.MustCompile(`(?is)(merger|acquisition|divestiture|deal)[^\n]*.*?(?:\n\n|\z)`)},
	{"guidance_section", regexp.MustCompile(`(?is)(?:guidance|outlook|expects?|projections?|forecasts?)[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}`)},
	{"earnings_release", regexp.MustCompile(`(?is)(?:EARNINGS RELEASE|RESULTS OF OPERATIONS|QUARTERLY RESULTS)[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}`)},
	{"financial_outlook", regexp.MustCompile(`(?is)(?:Financial Outlook|Business Outlook|2025 Outlook)[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}`)},
	{"board_changes", regexp.MustCompile(`(?is)(?:director.*(?:appointed|elected|resigned|nominated))[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}`)},
}

// Proxy-statement (DEF 14A / DEFA14A) sections.
var proxySections = []sectionPattern{
	{"board_nominees", regexp.MustCompile(`(?is)(?:ELECTION OF DIRECTORS|PROPOSAL.*ELECT.*DIRECTOR|DIRECTOR NOMINEES?)[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}`)},
	{"nominee_details", regexp.MustCompile(`(?is)(?:Class\s+I+\s+Director|Nominees?\s+for\s+Election)[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}`)},
	{"director_qualifications", regexp.MustCompile(`(?is)(?:DIRECTOR QUALIFICATIONS|NOMINEE BIOGRAPHIES?)[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}`)},
	{"proposal_1", regexp.MustCompile(`(?is)(PROPOSAL\s+(?:1|ONE).*?)(?:PROPOSAL\s+(?:2|TWO)|\z)`)},
}

// Periodic-report (10-K/10-Q and everything else) sections.
var periodicSections = []sectionPattern{
	{"business", regexp.MustCompile(`(?is)(Item\s+1\.?\s+Business.*?)(?:Item\s+1A|\z)`)},
	{"risk_factors", regexp.MustCompile(`(?is)(Item\s+1A\.?\s+Risk\s+Factors.*?)(?:Item\s+1B|\z)`)},
	{"mda", regexp.MustCompile(`(?is)(Item\s+7\.?\s+Management[^\n]*.*?)(?:Item\s+7A|Item\s+8|\z)`)},
	{"financial_statements", regexp.MustCompile(`(?is)(Item\s+8\.?\s+Financial\s+Statements.*?)(?:Item\s+9|\z)`)},
	{"subscriber_metrics", regexp.MustCompile(`(?is)(?:paid.*member|subscriber|streaming.*member|average.*user)[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}`)},
	{"revenue_per_user", regexp.MustCompile(`(?is)(?:average.*revenue.*(?:per|/)|ARPU|ARPPU)[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}`)},
	{"membership_table", regexp.MustCompile(`(?is)(?:membership|subscriber).*(?:table|data)[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}`)},
	{"quarterly_table", regexp.MustCompile(`(?is)(?:Q[1-4]|First|Second|Third|Fourth).*?Quarter[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}`)},
	{"three_months_ended", regexp.MustCompile(`(?is)(?:Three|3)\s+Months\s+Ended[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}`)},
	{"margin_analysis", regexp.MustCompile(`(?is)(?:gross margin|operating margin|pre-tax margin|profit margin)[\s\S]{0,1000}[\s\S]{0,1000}[\s\S]{0,1000}`)},
}

// Sections extracts the named sections appropriate to the filing's form
// type. Form matching is substring-based, so amendments ("8-K/A") select
// the same pattern set as their base form. Sections that don't match are
// simply absent; a filing with no recognizable sections returns an empty
// (non-nil) map.
func Sections(text, form string) models.SectionMap {
	formUpper := strings.ToUpper(form)

	var patterns []sectionPattern
	switch {
	case strings.Contains(formUpper, "8-K"):
		patterns = materialEventSections
	case strings.Contains(formUpper, "DEF 14A"), strings.Contains(formUpper, "DEFA14A"):
		patterns = proxySections
	default:
		patterns = periodicSections
	}

	sections := models.SectionMap{}
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		content := m[0]
		if p.re.NumSubexp() > 0 {
			content = m[1]
		}
		if len(content) > sectionCap {
			content = content[:sectionCap]
		}
		if content = strings.TrimSpace(content); content != "" {
			sections[p.name] = content
		}
	}
	return sections
}
