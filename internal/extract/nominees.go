package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNominees caps the nominee list; a proxy statement never puts more
// than a dozen names up for election.
const maxNominees = 15

// nomineeStopwords are substrings that mark a candidate string as a
// section header or job title rather than a person's name.
var nomineeStopwords = []string{
	"committee", "board", "director", "nominee", "occupation",
	"principal", "retired", "managing", "election", "proposal",
	"class", "term", "age", "since", "current", "former",
	"independent", "non", "executive", "member", "chairman",
	"president", "officer", "table", "following", "information",
	"experience", "qualifications", "skills", "company", "board of",
}

// nomineeFalsePositives are exact strings that pass the shape checks but
// are never names.
var nomineeFalsePositives = map[string]bool{
	"The Board":   true,
	"Board Of":    true,
	"Our Board":   true,
	"The Company": true,
}

var (
	// "Nominee: John Doe", a name before "Age 62", a name before
	// "has served"/"has been".
	nomineeLabeledRe = regexp.MustCompile(`(?:Nominee|Director|Candidate):\s*([A-Z][a-z]+(?:\s+[A-Z]\.?)?\s+[A-Z][a-z]+)`)
	nomineeAgeRe     = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z]\.?)?\s+[A-Z][a-z]+)[,\s]+Age\s+\d{2}`)
	nomineeServedRe  = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z]\.?)?\s+[A-Z][a-z]+)\s+has\s+(?:served|been)`)

	// Director-table rows: a 2-4 word capitalized name, a run of 3+
	// spaces, then a two-digit age. Older proxies keep this fixed-width
	// layout in the cleaned text.
	nomineeTableRe = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z.]+){1,3})\s{3,}\d{2}`)

	// Generational suffixes are not part of the comparable name.
	nomineeSuffixRe = regexp.MustCompile(`\s*(Jr\.?|Sr\.?|III|IV)$`)

	nbspRe = regexp.MustCompile(`&nbsp;|&#160;`)
)

// BoardNominees extracts director nominee names from proxy-statement text.
//
// Candidates come from labeled mentions, age annotations, biography
// openers, and fixed-width director tables; each must then survive shape
// validation (2-4 Title Case words, no section-header vocabulary).
// Order of first appearance is kept and duplicates are dropped.
func BoardNominees(text string) []string {
	var candidates []string
	for _, re := range []*regexp.Regexp{nomineeLabeledRe, nomineeAgeRe, nomineeServedRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			candidates = append(candidates, m[1])
		}
	}

	// Table rows may separate columns with HTML entity spaces.
	tableText := nbspRe.ReplaceAllString(text, " ")
	for _, m := range nomineeTableRe.FindAllStringSubmatch(tableText, -1) {
		name := strings.TrimSpace(nomineeSuffixRe.ReplaceAllString(m[1], ""))
		candidates = append(candidates, name)
	}

	seen := map[string]bool{}
	var nominees []string
	for _, name := range candidates {
		name = strings.TrimSpace(name)
		if !plausibleName(name) || seen[name] {
			continue
		}
		seen[name] = true
		nominees = append(nominees, name)
		if len(nominees) == maxNominees {
			break
		}
	}
	return nominees
}

// plausibleName applies the shape checks shared by all candidate sources.
func plausibleName(name string) bool {
	words := strings.Fields(name)
	if len(words) < 2 || len(words) > 4 {
		return false
	}

	lower := strings.ToLower(name)
	for _, stop := range nomineeStopwords {
		if strings.Contains(lower, stop) {
			return false
		}
	}

	for _, w := range words {
		if len(w) > 1 && !unicode.IsUpper(rune(w[0])) {
			return false
		}
	}

	return !nomineeFalsePositives[name]
}
