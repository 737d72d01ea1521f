// Package models defines the typed records exchanged between the EDGAR
// plumbing, the extractors, and the search pipeline.
package models

import (
	"fmt"
	"strings"
)

// CompanyIdentity is a resolved company: canonical registry name, ticker,
// and the zero-padded 10-digit CIK used for all downstream lookups.
// Resolved once per search and immutable afterward.
type CompanyIdentity struct {
	CanonicalName string `json:"canonical_name"`
	Ticker        string `json:"ticker"`
	CIK           string `json:"cik"`
}

// FilingReference identifies one filing row from the EDGAR submissions index.
type FilingReference struct {
	FormType        string `json:"form"`
	FilingDate      string `json:"filing_date"` // YYYY-MM-DD as reported by EDGAR
	AccessionNumber string `json:"accession_number"`
	PrimaryDocument string `json:"primary_document"`
}

// AccessionCompact returns the accession number with dashes stripped,
// the form EDGAR uses in archive paths.
func (r FilingReference) AccessionCompact() string {
	return strings.ReplaceAll(r.AccessionNumber, "-", "")
}

// CacheKey is the disk-cache key for the filing's primary document:
// CIK{cik}-{accession without dashes}-{document name}.
func (r FilingReference) CacheKey(cik string) string {
	return fmt.Sprintf("CIK%s-%s-%s", cik, r.AccessionCompact(), r.PrimaryDocument)
}

// FetchedDocument holds the cleaned plain text of one filing and, when one
// was located, its press-release exhibit (Exhibit 99.1).
type FetchedDocument struct {
	Ref         FilingReference `json:"ref"`
	RawText     string          `json:"raw_text"`
	ExhibitText string          `json:"exhibit_text,omitempty"`
	FromCache   bool            `json:"from_cache"`
}

// SectionMap maps a section name to its (length-capped) text.
type SectionMap map[string]string

// Names returns the section names in no particular order.
func (m SectionMap) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	return names
}

// TimelineEntry is one processed filing in a search result. Entries are
// appended only when at least one extractor produced output, and are never
// mutated afterward.
type TimelineEntry struct {
	Filing        FilingReference   `json:"filing"`
	URL           string            `json:"url"`
	Sections      SectionMap        `json:"sections,omitempty"`
	LineItems     LineItems         `json:"financial_metrics,omitempty"`
	Margin        *MarginComparison `json:"margin,omitempty"`
	Subscribers   *SubscriberData   `json:"subscribers,omitempty"`
	Guidance      *GuidanceData     `json:"guidance,omitempty"`
	BoardNominees []string          `json:"board_nominees,omitempty"`
	SectionsFound []string          `json:"sections_found,omitempty"`
	FactsFound    []string          `json:"facts_found,omitempty"`
}

// HasSignal reports whether any extractor produced output for this entry.
// No-signal filings are dropped from the timeline.
func (e *TimelineEntry) HasSignal() bool {
	return len(e.Sections) > 0 ||
		len(e.LineItems) > 0 ||
		e.Margin != nil ||
		e.Subscribers != nil ||
		e.Guidance != nil ||
		len(e.BoardNominees) > 0
}

// SearchResult is the top-level report for one search invocation. It is
// always well formed: failures surface in the Error field rather than as
// panics or partial state.
type SearchResult struct {
	Company        string          `json:"company,omitempty"`
	Ticker         string          `json:"ticker,omitempty"`
	CIK            string          `json:"cik,omitempty"`
	SIC            string          `json:"sic,omitempty"`
	SICDescription string          `json:"sic_description,omitempty"`
	Timeline       []TimelineEntry `json:"timeline"`
	TotalFound     int             `json:"total_found"`
	Error          string          `json:"error,omitempty"`
	Suggestion     string          `json:"suggestion,omitempty"`
}
