// Package edgar implements access to the SEC EDGAR registry: company
// identifier resolution, filing listing, and document retrieval with
// on-disk caching.
//
// No API key is required. The SEC requires a User-Agent identifying the
// caller and rate-limits to 10 requests/second per user agent.
// Docs: https://www.sec.gov/edgar/sec-api-documentation
package edgar

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/seenimoa/edgarfacts/internal/config"
	"github.com/seenimoa/edgarfacts/internal/infra"
	"github.com/seenimoa/edgarfacts/internal/store"
	"github.com/seenimoa/edgarfacts/pkg/models"
)

// Default EDGAR hosts. Endpoints derive from these; config can point them
// at a mirror or proxy, and tests point them at httptest servers.
const (
	defaultSiteBase = "https://www.sec.gov"
	defaultDataBase = "https://data.sec.gov"
)

// archiveMirrorKey is the disk-cache key for the ~20MB CIK lookup archive.
const archiveMirrorKey = "cik-lookup-data"

// Client talks to EDGAR. All outbound requests pass through a shared rate
// limiter; parsed registry indexes are held in an in-memory TTL cache and
// fetched document text in the on-disk store.
type Client struct {
	userAgent  string
	maxRetries int

	resolverHTTP *http.Client // ticker-table lookups
	archiveHTTP  *http.Client // flat-archive download
	docHTTP      *http.Client // per-filing documents
	exhibitHTTP  *http.Client // exhibits (shorter budget, no retry loop)

	limiter *infra.RateLimiter
	mem     *infra.Cache
	disk    store.Store

	// archiveSF dedupes concurrent downloads of the lookup archive.
	archiveSF singleflight.Group

	// Derived from the configured base hosts.
	tickerURL       string
	archiveIndexURL string
	submissionsBase string
	archivesBase    string
	browseBase      string
	siteBase        string
}

// NewClient builds a client from SEC configuration and a disk store.
func NewClient(cfg config.SECConfig, disk store.Store) *Client {
	rate := cfg.RateLimitPerSec
	if rate <= 0 {
		rate = 10
	}
	site := cfg.SiteBaseURL
	if site == "" {
		site = defaultSiteBase
	}
	data := cfg.DataBaseURL
	if data == "" {
		data = defaultDataBase
	}
	return &Client{
		userAgent:    cfg.UserAgent,
		maxRetries:   cfg.MaxRetries,
		resolverHTTP: &http.Client{Timeout: cfg.ResolverTimeout()},
		archiveHTTP:  &http.Client{Timeout: cfg.ArchiveTimeout()},
		docHTTP:      &http.Client{Timeout: cfg.DocumentTimeout()},
		exhibitHTTP:  &http.Client{Timeout: cfg.ExhibitTimeout()},
		limiter:      infra.NewRateLimiter(rate, time.Second),
		mem:          infra.NewCache(10 * time.Minute),
		disk:         disk,

		tickerURL:       site + "/files/company_tickers_exchange.json",
		archiveIndexURL: site + "/Archives/edgar/cik-lookup-data.txt",
		submissionsBase: data + "/submissions",
		archivesBase:    site + "/Archives/edgar/data",
		browseBase:      site + "/cgi-bin/browse-edgar",
		siteBase:        site,
	}
}

// headers returns the header set EDGAR expects on every request.
func (c *Client) headers() map[string]string {
	return map[string]string{
		"User-Agent":      c.userAgent,
		"Accept-Encoding": "gzip, deflate",
	}
}

// DocumentURL builds the archive URL of a filing's primary document.
func (c *Client) DocumentURL(cik string, ref models.FilingReference) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.archivesBase, cik, ref.AccessionCompact(), ref.PrimaryDocument)
}

// PadCIK pads a CIK number to 10 digits with leading zeros.
func PadCIK(cik string) string {
	for len(cik) < 10 {
		cik = "0" + cik
	}
	return cik
}
