package edgar

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/seenimoa/edgarfacts/internal/config"
	"github.com/seenimoa/edgarfacts/internal/infra"
	"github.com/seenimoa/edgarfacts/internal/store"
	"github.com/seenimoa/edgarfacts/pkg/models"
)

// newTestClient builds a client pointed at a local test server, with a
// throwaway disk store and retry backoff shrunk to keep tests fast.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()

	saved := infra.RetryBaseDelay
	infra.RetryBaseDelay = time.Millisecond
	t.Cleanup(func() { infra.RetryBaseDelay = saved })

	disk, err := store.NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	return NewClient(config.SECConfig{
		UserAgent:          "edgarfacts-test admin@example.com",
		SiteBaseURL:        srv.URL,
		DataBaseURL:        srv.URL,
		ResolverTimeoutSec: 5,
		ArchiveTimeoutSec:  5,
		DocumentTimeoutSec: 5,
		ExhibitTimeoutSec:  5,
		MaxRetries:         3,
		RateLimitPerSec:    1000,
	}, disk)
}

func TestDocumentURL(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	c := newTestClient(t, srv)

	ref := ref10K()
	want := srv.URL + "/Archives/edgar/data/0000320193/000032019323000106/aapl-20230930.htm"
	if got := c.DocumentURL("0000320193", ref); got != want {
		t.Errorf("DocumentURL = %q, want %q", got, want)
	}
}

// ref10K is a reusable filing reference fixture.
func ref10K() models.FilingReference {
	return models.FilingReference{
		FormType:        "10-K",
		FilingDate:      "2023-11-03",
		AccessionNumber: "0000320193-23-000106",
		PrimaryDocument: "aapl-20230930.htm",
	}
}
