package edgar

import (
	"regexp"
	"strings"
)

// Patterns compiled once at startup; normalization runs on every registry
// row during a fallback scan of the ~20MB lookup archive.
var (
	legalSuffixRe = regexp.MustCompile(`\b(CORPORATION|CORP|INC|LLC|LLP|LTD|LIMITED|CO|COMPANY|PLC|AG|SA)\b\.?`)
	punctuationRe = regexp.MustCompile("[.,&'’\\-—–/\\\\()]+")
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// CleanCompanyName reduces a company name to its comparison key: legal
// suffixes, punctuation, and a leading/trailing "The" are removed and the
// remaining tokens are lowercased. The same key is computed for query
// names and registry names, so matching is insensitive to legal form but
// exact on what's left.
func CleanCompanyName(name string) string {
	s := strings.ToUpper(name)
	s = legalSuffixRe.ReplaceAllString(s, "")
	s = punctuationRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "THE ")
	s = strings.TrimSuffix(s, " THE")
	return strings.ToLower(strings.TrimSpace(s))
}
