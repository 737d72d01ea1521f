package edgar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const submissionsJSON = `{
	"cik": "1065280",
	"entityType": "operating",
	"sic": "7841",
	"sicDescription": "Services-Video Tape Rental",
	"name": "NETFLIX INC",
	"tickers": ["NFLX"],
	"exchanges": ["Nasdaq"],
	"filings": {
		"recent": {
			"accessionNumber": [
				"0001065280-24-000287",
				"0001065280-24-000119",
				"0001065280-24-000044",
				"0001065280-23-000273",
				"0001065280-23-000195"
			],
			"filingDate": [
				"2024-10-17",
				"2024-04-18",
				"2024-01-26",
				"not-a-date",
				"2023-04-21"
			],
			"reportDate": ["2024-09-30", "2024-03-31", "2023-12-31", "2023-09-30", "2023-03-31"],
			"form": ["8-K", "8-K", "10-K", "10-Q/A", "DEF 14A"],
			"primaryDocument": [
				"nflx-8k_20241017.htm",
				"nflx-8k_20240418.htm",
				"form10k.htm",
				"form10qa.htm",
				"proxy2023.htm"
			],
			"items": ["2.02", "2.02", "", "", ""]
		}
	}
}`

func submissionsServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/submissions/CIK0001065280.json" {
			http.NotFound(w, r)
			return
		}
		if hits != nil {
			*hits++
		}
		w.Write([]byte(submissionsJSON))
	}))
}

func TestListFilingsByForm(t *testing.T) {
	srv := submissionsServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv)

	refs, err := c.ListFilings(context.Background(), "1065280", []string{"8-K"}, "", "")
	if err != nil {
		t.Fatalf("ListFilings: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("got %d filings, want 2", len(refs))
	}
	// Registry order (reverse chronological) is preserved.
	if refs[0].FilingDate != "2024-10-17" || refs[1].FilingDate != "2024-04-18" {
		t.Errorf("unexpected order: %s, %s", refs[0].FilingDate, refs[1].FilingDate)
	}
	if refs[0].PrimaryDocument != "nflx-8k_20241017.htm" {
		t.Errorf("PrimaryDocument = %q", refs[0].PrimaryDocument)
	}
}

// Form matching is a case-insensitive substring test: "10-K" also matches
// amendments, and "10-Q" matches "10-Q/A".
func TestListFilingsFormSubstring(t *testing.T) {
	srv := submissionsServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv)

	refs, err := c.ListFilings(context.Background(), "1065280", []string{"10-q"}, "", "")
	if err != nil {
		t.Fatalf("ListFilings: %v", err)
	}
	if len(refs) != 1 || refs[0].FormType != "10-Q/A" {
		t.Fatalf("got %+v, want the 10-Q/A amendment", refs)
	}
}

func TestListFilingsMultipleForms(t *testing.T) {
	srv := submissionsServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv)

	refs, err := c.ListFilings(context.Background(), "1065280", []string{"10-K", "DEF 14A"}, "", "")
	if err != nil {
		t.Fatalf("ListFilings: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("got %d filings, want 2 (10-K + DEF 14A)", len(refs))
	}
}

func TestListFilingsDateBoundsInclusive(t *testing.T) {
	srv := submissionsServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv)

	// Bounds exactly on the filing dates: both endpoints are included.
	refs, err := c.ListFilings(context.Background(), "1065280", []string{"8-K"}, "2024-04-18", "2024-10-17")
	if err != nil {
		t.Fatalf("ListFilings: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("got %d filings, want 2 (inclusive bounds)", len(refs))
	}

	refs, err = c.ListFilings(context.Background(), "1065280", []string{"8-K"}, "2024-04-19", "")
	if err != nil {
		t.Fatalf("ListFilings: %v", err)
	}
	if len(refs) != 1 || refs[0].FilingDate != "2024-10-17" {
		t.Fatalf("got %+v, want only the October filing", refs)
	}
}

// A malformed registry date only matters under a date filter, where the
// row is skipped; with no filter it passes through untouched.
func TestListFilingsMalformedRegistryDate(t *testing.T) {
	srv := submissionsServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv)

	refs, err := c.ListFilings(context.Background(), "1065280", []string{"10-Q"}, "", "")
	if err != nil {
		t.Fatalf("ListFilings: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("unfiltered: got %d, want the malformed-date row kept", len(refs))
	}

	refs, err = c.ListFilings(context.Background(), "1065280", []string{"10-Q"}, "2023-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("ListFilings: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("filtered: got %d, want malformed-date row skipped", len(refs))
	}
}

func TestListFilingsInvalidQueryDate(t *testing.T) {
	srv := submissionsServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.ListFilings(context.Background(), "1065280", []string{"8-K"}, "04/18/2024", "")
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
	_, err = c.ListFilings(context.Background(), "1065280", []string{"8-K"}, "", "2024-13-40")
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
}

func TestSubmissionsCached(t *testing.T) {
	hits := 0
	srv := submissionsServer(t, &hits)
	defer srv.Close()
	c := newTestClient(t, srv)

	if _, err := c.ListFilings(context.Background(), "1065280", []string{"8-K"}, "", ""); err != nil {
		t.Fatalf("ListFilings: %v", err)
	}
	if _, err := c.Company(context.Background(), "1065280"); err != nil {
		t.Fatalf("Company: %v", err)
	}
	if hits != 1 {
		t.Errorf("submissions fetched %d times, want 1", hits)
	}
}

func TestCompanyMeta(t *testing.T) {
	srv := submissionsServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv)

	meta, err := c.Company(context.Background(), "1065280")
	if err != nil {
		t.Fatalf("Company: %v", err)
	}
	if meta.CIK != "0001065280" {
		t.Errorf("CIK = %q, want zero-padded", meta.CIK)
	}
	if meta.Name != "NETFLIX INC" || meta.SIC != "7841" {
		t.Errorf("meta = %+v", meta)
	}
	if len(meta.Tickers) != 1 || meta.Tickers[0] != "NFLX" {
		t.Errorf("Tickers = %v", meta.Tickers)
	}
}

func TestRecentFeed(t *testing.T) {
	const atom = `<?xml version="1.0" encoding="ISO-8859-1" ?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>NETFLIX INC - Recent Filings</title>
  <entry>
    <title>8-K - Current report</title>
    <link rel="alternate" type="text/html" href="https://www.sec.gov/Archives/edgar/data/1065280/000106528024000287/0001065280-24-000287-index.htm"/>
    <category scheme="https://www.sec.gov/" label="form type" term="8-K"/>
    <id>urn:tag:sec.gov,2008:accession-number=0001065280-24-000287</id>
    <updated>2024-10-17T16:05:08-04:00</updated>
  </entry>
  <entry>
    <title>10-K - Annual report</title>
    <link rel="alternate" type="text/html" href="https://www.sec.gov/Archives/edgar/data/1065280/000106528024000044/0001065280-24-000044-index.htm"/>
    <category scheme="https://www.sec.gov/" label="form type" term="10-K"/>
    <id>urn:tag:sec.gov,2008:accession-number=0001065280-24-000044</id>
    <updated>2024-01-26T16:01:22-05:00</updated>
  </entry>
</feed>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cgi-bin/browse-edgar" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("output") != "atom" {
			t.Errorf("missing output=atom in query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(atom))
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	refs, err := c.RecentFeed(context.Background(), "1065280", "8-K")
	if err != nil {
		t.Fatalf("RecentFeed: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("got %d entries, want 2", len(refs))
	}
	if refs[0].FormType != "8-K" {
		t.Errorf("FormType = %q, want 8-K", refs[0].FormType)
	}
	if refs[0].AccessionNumber != "0001065280-24-000287" {
		t.Errorf("AccessionNumber = %q", refs[0].AccessionNumber)
	}
	if refs[0].FilingDate == "" {
		t.Error("FilingDate empty, want date from <updated>")
	}
	// Atom entries carry no primary document name; the listing is
	// enumeration-only.
	if refs[0].PrimaryDocument != "" {
		t.Errorf("PrimaryDocument = %q, want empty", refs[0].PrimaryDocument)
	}
}
