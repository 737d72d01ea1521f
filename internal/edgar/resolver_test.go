package edgar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const tickerTableJSON = `{
	"fields": ["cik", "name", "ticker", "exchange"],
	"data": [
		[320193, "Apple Inc.", "AAPL", "Nasdaq"],
		[1065280, "NETFLIX INC", "NFLX", "Nasdaq"],
		[109198, "TJX COMPANIES INC /DE/", "TJX", "NYSE"]
	]
}`

func tickerServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/company_tickers_exchange.json" {
			http.NotFound(w, r)
			return
		}
		if hits != nil {
			*hits++
		}
		w.Write([]byte(tickerTableJSON))
	}))
}

func TestResolveByTicker(t *testing.T) {
	srv := tickerServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv)

	id, err := c.Resolve(context.Background(), "", "nflx")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.CIK != "0001065280" {
		t.Errorf("CIK = %q, want 0001065280", id.CIK)
	}
	if id.Ticker != "NFLX" {
		t.Errorf("Ticker = %q, want NFLX", id.Ticker)
	}
	if id.CanonicalName != "NETFLIX INC" {
		t.Errorf("CanonicalName = %q, want registry legal name", id.CanonicalName)
	}
}

func TestResolveByName(t *testing.T) {
	srv := tickerServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv)

	// Differently-styled spellings of the same company resolve to the
	// same CIK.
	for _, name := range []string{"Apple Inc.", "APPLE, INC", "apple"} {
		id, err := c.Resolve(context.Background(), name, "")
		if err != nil {
			t.Fatalf("Resolve(%q): %v", name, err)
		}
		if id.CIK != "0000320193" {
			t.Errorf("Resolve(%q).CIK = %q, want 0000320193", name, id.CIK)
		}
	}
}

func TestResolveTickerWinsOverName(t *testing.T) {
	srv := tickerServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv)

	id, err := c.Resolve(context.Background(), "Apple Inc.", "NFLX")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.CIK != "0001065280" {
		t.Errorf("CIK = %q, want ticker match 0001065280", id.CIK)
	}
}

func TestResolveEmptyQuery(t *testing.T) {
	srv := tickerServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.Resolve(context.Background(), "", "  ")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve with empty query = %v, want ErrNotFound", err)
	}
}

func TestResolveTickerTableCached(t *testing.T) {
	hits := 0
	srv := tickerServer(t, &hits)
	defer srv.Close()
	c := newTestClient(t, srv)

	for i := 0; i < 3; i++ {
		if _, err := c.Resolve(context.Background(), "", "AAPL"); err != nil {
			t.Fatalf("Resolve #%d: %v", i, err)
		}
	}
	if hits != 1 {
		t.Errorf("ticker table fetched %d times, want 1", hits)
	}
}

func TestResolveArchiveFallback(t *testing.T) {
	archiveHits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files/company_tickers_exchange.json":
			// Ticker table unavailable: force the archive tier.
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/Archives/edgar/cik-lookup-data.txt":
			archiveHits++
			w.Write([]byte("ACME HOLDINGS CORP:0001234567:\n" +
				"DEFUNCT SHELL CO:0000000000:\n" +
				"BARRETT BUSINESS SERVICES INC:0000902791:\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	id, err := c.Resolve(context.Background(), "Barrett Business Services, Inc.", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.CIK != "0000902791" {
		t.Errorf("CIK = %q, want 0000902791", id.CIK)
	}

	// The archive was mirrored to disk: a second resolve must not
	// re-download it.
	if _, err := c.Resolve(context.Background(), "ACME Holdings Corp.", ""); err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if archiveHits != 1 {
		t.Errorf("archive downloaded %d times, want 1", archiveHits)
	}
}

func TestResolveArchiveSkipsZeroCIK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files/company_tickers_exchange.json":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/Archives/edgar/cik-lookup-data.txt":
			w.Write([]byte("GHOST ENTRY INC:0000000000:\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.Resolve(context.Background(), "Ghost Entry Inc", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve = %v, want ErrNotFound for placeholder CIK", err)
	}
}

func TestResolveMissEverywhere(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files/company_tickers_exchange.json":
			w.Write([]byte(tickerTableJSON))
		case "/Archives/edgar/cik-lookup-data.txt":
			w.Write([]byte("SOMEBODY ELSE INC:0009999999:\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.Resolve(context.Background(), "No Such Company", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve = %v, want ErrNotFound", err)
	}
}
