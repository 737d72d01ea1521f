// Package pipeline orchestrates a filing search end to end: company
// resolution, filing listing, document retrieval, and fact extraction,
// assembled into a single timeline report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/seenimoa/edgarfacts/internal/edgar"
	"github.com/seenimoa/edgarfacts/internal/extract"
	"github.com/seenimoa/edgarfacts/pkg/models"
)

// DefaultForms is the form-type filter applied when a query names none:
// the periodic reports, material-event reports, and proxy statements the
// extractors understand, including amendments.
var DefaultForms = []string{"10-K", "10-K/A", "10-Q", "10-Q/A", "8-K", "8-K/A", "DEF 14A", "DEFA14A"}

// exhibitSectionName is the pseudo-section carrying press-release exhibit
// text alongside the pattern-extracted sections.
const exhibitSectionName = "exhibit_99_1"

// Query describes one search. At least one of CompanyName, Ticker, or CIK
// must be set.
type Query struct {
	CompanyName string
	Ticker      string
	CIK         string
	Forms       []string
	StartDate   string // YYYY-MM-DD, inclusive
	EndDate     string // YYYY-MM-DD, inclusive
}

// Searcher runs search queries against EDGAR through a shared client.
type Searcher struct {
	client *edgar.Client
}

// NewSearcher returns a Searcher over the given EDGAR client.
func NewSearcher(client *edgar.Client) *Searcher {
	return &Searcher{client: client}
}

// Search executes a query and returns its timeline report.
//
// The result is always well formed: an unresolvable company, a bad date
// bound, or a registry failure comes back in the result's Error field with
// the rest zeroed, never as a Go error. Filings that can't be fetched or
// that yield no extractable signal are skipped, not fatal. The returned
// error is reserved for context cancellation.
func (s *Searcher) Search(ctx context.Context, q Query) (*models.SearchResult, error) {
	result := &models.SearchResult{Timeline: []models.TimelineEntry{}}

	cik := strings.TrimSpace(q.CIK)
	ticker := strings.ToUpper(strings.TrimSpace(q.Ticker))
	if cik == "" {
		id, err := s.client.Resolve(ctx, q.CompanyName, q.Ticker)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			queried := q.CompanyName
			if queried == "" {
				queried = q.Ticker
			}
			result.Error = fmt.Sprintf("company not found: %s", queried)
			result.Suggestion = "try variations of the name or use the ticker symbol"
			return result, nil
		}
		cik = id.CIK
		if id.Ticker != "" {
			ticker = id.Ticker
		}
	}
	cik = edgar.PadCIK(cik)

	meta, err := s.client.Company(ctx, cik)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result.Error = fmt.Sprintf("failed to fetch submissions: %v", err)
		return result, nil
	}
	result.Company = meta.Name
	result.Ticker = ticker
	result.CIK = cik
	result.SIC = meta.SIC
	result.SICDescription = meta.SICDescription

	forms := q.Forms
	if len(forms) == 0 {
		forms = DefaultForms
	}
	refs, err := s.client.ListFilings(ctx, cik, forms, q.StartDate, q.EndDate)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, edgar.ErrInvalidDate) {
			result.Error = err.Error()
			return result, nil
		}
		result.Error = fmt.Sprintf("failed to list filings: %v", err)
		return result, nil
	}

	for _, ref := range refs {
		doc, err := s.client.FetchDocument(ctx, cik, ref)
		if err != nil {
			return nil, err
		}
		if doc.RawText == "" {
			continue
		}

		entry := s.processFiling(cik, doc)
		if entry.HasSignal() {
			result.Timeline = append(result.Timeline, entry)
		} else {
			log.Printf("pipeline: %s %s: no extractable signal, skipping",
				ref.FormType, ref.AccessionNumber)
		}
	}

	result.TotalFound = len(result.Timeline)
	return result, nil
}

// processFiling runs every applicable extractor over one fetched document.
func (s *Searcher) processFiling(cik string, doc models.FetchedDocument) models.TimelineEntry {
	ref := doc.Ref
	formUpper := strings.ToUpper(ref.FormType)

	sections := extract.Sections(doc.RawText, ref.FormType)
	if doc.ExhibitText != "" {
		sections[exhibitSectionName] = doc.ExhibitText
	}

	// Financial facts come from the best available text: the press-release
	// exhibit leads when present, then an extracted earnings-release
	// section, then the filing alone. The filing text always trails so
	// tabular data outside the lead block still contributes.
	combined := doc.RawText
	if doc.ExhibitText != "" {
		combined = doc.ExhibitText + "\n\n" + doc.RawText
	} else if release, ok := sections["earnings_release"]; ok {
		combined = release + "\n\n" + doc.RawText
	}

	entry := models.TimelineEntry{
		Filing:      ref,
		URL:         s.client.DocumentURL(cik, ref),
		Sections:    sections,
		LineItems:   extract.LineItems(combined),
		Margin:      extract.Margin(combined),
		Subscribers: extract.Subscribers(combined),
	}

	// Guidance is a material-event concern: only 8-K family filings
	// carry it. The focused guidance section is tried first.
	if strings.Contains(formUpper, "8-K") {
		if section, ok := sections["guidance_section"]; ok {
			entry.Guidance = extract.Guidance(section)
		}
		if entry.Guidance == nil {
			entry.Guidance = extract.Guidance(combined)
		}
	}

	// Board nominees come only from proxy statements, and from the raw
	// filing text: the name patterns rely on document layout a combined
	// view would disturb.
	if strings.Contains(formUpper, "DEF 14A") || strings.Contains(formUpper, "DEFA14A") {
		entry.BoardNominees = extract.BoardNominees(doc.RawText)
	}

	entry.SectionsFound = sortedNames(entry.Sections.Names())
	for name := range entry.LineItems {
		entry.FactsFound = append(entry.FactsFound, name)
	}
	entry.FactsFound = sortedNames(entry.FactsFound)
	return entry
}

func sortedNames(names []string) []string {
	sort.Strings(names)
	return names
}
