package edgar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/edgarfacts/internal/infra"
	"github.com/seenimoa/edgarfacts/pkg/models"
)

// ErrInvalidDate reports a malformed date-range bound on the query side.
var ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")

const filingDateLayout = "2006-01-02"

// submissions fetches and memo-caches the company submissions document.
func (c *Client) submissions(ctx context.Context, cik string) (*submissionsResponse, error) {
	key := "submissions:" + cik
	if cached, ok := c.mem.Get(key); ok {
		return cached.(*submissionsResponse), nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/CIK%s.json", c.submissionsBase, PadCIK(cik))
	body, status, err := infra.DoGetRetry(ctx, c.resolverHTTP, u, c.headers(), c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("fetch submissions: %w", err)
	}
	if status != 200 {
		return nil, fmt.Errorf("fetch submissions: HTTP %d", status)
	}

	var resp submissionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse submissions: %w", err)
	}
	c.mem.Set(key, &resp)
	return &resp, nil
}

// Company returns the registry metadata for a CIK.
func (c *Client) Company(ctx context.Context, cik string) (CompanyMeta, error) {
	resp, err := c.submissions(ctx, cik)
	if err != nil {
		return CompanyMeta{}, err
	}
	return CompanyMeta{
		CIK:            PadCIK(resp.CIK),
		Name:           resp.Name,
		SIC:            resp.SIC,
		SICDescription: resp.SICDescription,
		Tickers:        resp.Tickers,
	}, nil
}

// ListFilings returns the company's recent filings whose form type
// contains (case-insensitively) any of the requested form types and whose
// filing date falls within [startDate, endDate] inclusive when bounds are
// given. Rows with malformed dates are skipped under a date filter rather
// than failing the call. Registry order (reverse chronological) is kept.
func (c *Client) ListFilings(ctx context.Context, cik string, forms []string, startDate, endDate string) ([]models.FilingReference, error) {
	var start, end time.Time
	hasFilter := startDate != "" || endDate != ""
	if startDate != "" {
		t, err := time.Parse(filingDateLayout, startDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, startDate)
		}
		start = t
	}
	if endDate != "" {
		t, err := time.Parse(filingDateLayout, endDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, endDate)
		}
		end = t
	}

	resp, err := c.submissions(ctx, cik)
	if err != nil {
		return nil, err
	}

	recent := resp.Filings.Recent
	var refs []models.FilingReference
	for i := range recent.Form {
		if i >= len(recent.FilingDate) || i >= len(recent.AccessionNumber) || i >= len(recent.PrimaryDocument) {
			break
		}
		form := recent.Form[i]
		if !formMatches(form, forms) {
			continue
		}

		if hasFilter {
			filed, err := time.Parse(filingDateLayout, recent.FilingDate[i])
			if err != nil {
				continue // malformed registry date
			}
			if !start.IsZero() && filed.Before(start) {
				continue
			}
			if !end.IsZero() && filed.After(end) {
				continue
			}
		}

		refs = append(refs, models.FilingReference{
			FormType:        form,
			FilingDate:      recent.FilingDate[i],
			AccessionNumber: recent.AccessionNumber[i],
			PrimaryDocument: recent.PrimaryDocument[i],
		})
	}
	return refs, nil
}

// formMatches reports whether form contains any requested form type,
// case-insensitively. "10-K" therefore also matches "10-K/A".
func formMatches(form string, requested []string) bool {
	upper := strings.ToUpper(form)
	for _, ft := range requested {
		if ft != "" && strings.Contains(upper, strings.ToUpper(ft)) {
			return true
		}
	}
	return false
}

var accessionRe = regexp.MustCompile(`\d{10}-\d{2}-\d{6}`)

// RecentFeed lists a company's recent filings from the EDGAR Atom feed.
// It is a degraded listing — Atom entries don't name the primary document,
// so results can't be fetched, only enumerated — used when the submissions
// endpoint is unavailable or for lightweight monitoring.
func (c *Client) RecentFeed(ctx context.Context, cik, form string) ([]models.FilingReference, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s?action=getcompany&CIK=%s&type=%s&owner=include&count=40&output=atom",
		c.browseBase, url.QueryEscape(cik), url.QueryEscape(form))
	body, status, err := infra.DoGetRetry(ctx, c.resolverHTTP, u, c.headers(), c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("fetch filing feed: %w", err)
	}
	if status != 200 {
		return nil, fmt.Errorf("fetch filing feed: HTTP %d", status)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse filing feed: %w", err)
	}

	var refs []models.FilingReference
	for _, item := range feed.Items {
		ref := models.FilingReference{}
		if len(item.Categories) > 0 {
			ref.FormType = item.Categories[0]
		}
		if item.UpdatedParsed != nil {
			ref.FilingDate = item.UpdatedParsed.Format(filingDateLayout)
		} else if item.PublishedParsed != nil {
			ref.FilingDate = item.PublishedParsed.Format(filingDateLayout)
		}
		if acc := accessionRe.FindString(item.GUID + " " + item.Link); acc != "" {
			ref.AccessionNumber = acc
		}
		if ref.FormType == "" && ref.AccessionNumber == "" {
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
