package edgar

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/edgarfacts/internal/infra"
	"github.com/seenimoa/edgarfacts/pkg/models"
)

// exhibitCacheSuffix distinguishes the press-release exhibit cache entry
// from the filing's own entry under the same base key.
const exhibitCacheSuffix = "_ex991"

// FetchDocument retrieves a filing's primary document and, when one is
// discoverable, its press-release exhibit (Exhibit 99.1), as cleaned plain
// text.
//
// The disk cache is consulted first, and a hit on the filing text blocks
// any outbound request — the exhibit entry is read if present, otherwise
// the filing is returned alone. This is a correctness rule (no redundant
// load on EDGAR), not just an optimization.
//
// A filing that can't be fetched after retries yields an empty document
// and a nil error: "filing unavailable" is a per-filing condition the
// caller skips, not a pipeline failure. Only context cancellation is
// surfaced as an error.
func (c *Client) FetchDocument(ctx context.Context, cik string, ref models.FilingReference) (models.FetchedDocument, error) {
	doc := models.FetchedDocument{Ref: ref}
	key := ref.CacheKey(cik)
	exKey := key + exhibitCacheSuffix

	if text, ok := c.disk.Get(key); ok {
		doc.RawText = text
		doc.FromCache = true
		if ex, ok := c.disk.Get(exKey); ok {
			doc.ExhibitText = ex
		}
		return doc, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return doc, err
	}
	body, status, err := infra.DoGetRetry(ctx, c.docHTTP, c.DocumentURL(cik, ref), c.headers(), c.maxRetries)
	if err != nil {
		if ctx.Err() != nil {
			return doc, ctx.Err()
		}
		log.Printf("edgar: fetch %s: %v", ref.AccessionNumber, err)
		return doc, nil
	}
	if status != 200 {
		log.Printf("edgar: fetch %s: HTTP %d", ref.AccessionNumber, status)
		return doc, nil
	}
	rawHTML := string(body)

	// Scan the original HTML for an exhibit link before reducing to text.
	if exhibitURL := c.findExhibitLink(rawHTML, cik, ref); exhibitURL != "" {
		doc.ExhibitText = c.fetchExhibit(ctx, exhibitURL)
	}
	doc.RawText = HTMLToText(rawHTML)

	if err := c.disk.Put(key, doc.RawText); err != nil {
		log.Printf("edgar: cache write %s: %v", key, err)
	}
	if doc.ExhibitText != "" {
		if err := c.disk.Put(exKey, doc.ExhibitText); err != nil {
			log.Printf("edgar: cache write %s: %v", exKey, err)
		}
	}
	return doc, nil
}

// fetchExhibit downloads an exhibit document on its shorter budget with no
// retry loop. Failures degrade to "no exhibit".
func (c *Client) fetchExhibit(ctx context.Context, exhibitURL string) string {
	if err := c.limiter.Wait(ctx); err != nil {
		return ""
	}
	body, status, err := infra.DoGet(ctx, c.exhibitHTTP, exhibitURL, c.headers())
	if err != nil {
		log.Printf("edgar: exhibit fetch failed: %v", err)
		return ""
	}
	defer body.Close()
	if status != 200 {
		return ""
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return ""
	}
	return HTMLToText(string(data))
}

// findExhibitLink scans a filing's anchors and table cells for a link
// plausibly pointing to a press-release exhibit. The first match wins.
// Relative hrefs resolve against the filing's archive directory.
func (c *Client) findExhibitLink(rawHTML, cik string, ref models.FilingReference) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	found := ""
	doc.Find("a, td, tr").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(sel.Text()))

		href := ""
		if sel.Is("a") {
			href, _ = sel.Attr("href")
		} else if strings.Contains(text, "99.1") {
			href, _ = sel.Find("a[href]").First().Attr("href")
		}
		if href == "" {
			return true
		}

		if !looksLikeExhibit(text, strings.ToLower(href)) {
			return true
		}

		switch {
		case strings.HasPrefix(href, "http"):
			found = href
		case strings.HasPrefix(href, "/"):
			found = c.siteBase + href
		default:
			found = c.archivesBase + "/" + cik + "/" + ref.AccessionCompact() + "/" + href
		}
		return false
	})
	return found
}

// looksLikeExhibit applies the press-release heuristics to link text and
// href: an explicit 99.1 mention, press-release wording, an earnings/press
// document name, or a quarter-fiscal-year token in the filename.
func looksLikeExhibit(text, hrefLower string) bool {
	switch {
	case strings.Contains(text, "99.1"),
		strings.Contains(text, "exhibit 99"),
		strings.Contains(text, "press release"),
		strings.Contains(hrefLower, "earnings") && strings.Contains(hrefLower, ".htm"),
		strings.Contains(hrefLower, "press") && strings.Contains(hrefLower, ".htm"),
		strings.Contains(hrefLower, "q1fy"), strings.Contains(hrefLower, "q2fy"),
		strings.Contains(hrefLower, "q3fy"), strings.Contains(hrefLower, "q4fy"):
		return true
	}
	return false
}
