package edgar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/seenimoa/edgarfacts/internal/infra"
	"github.com/seenimoa/edgarfacts/pkg/models"
)

// ErrNotFound is returned when a company matches no registry entry. It is
// recoverable by the caller (try an alternate spelling or the ticker).
var ErrNotFound = errors.New("company not found in EDGAR registries")

const tickerTableCacheKey = "ticker-table"

// Resolve maps a company name and/or ticker to its EDGAR identity.
// Resolution is two-tier: exact match against the structured ticker table,
// then a normalized-name scan of the flat CIK lookup archive. Network
// failure in the first tier degrades to the second; a miss in both is
// ErrNotFound, never a partial result.
func (c *Client) Resolve(ctx context.Context, companyName, ticker string) (models.CompanyIdentity, error) {
	name := strings.TrimSpace(companyName)
	tick := strings.ToUpper(strings.TrimSpace(ticker))
	if name == "" && tick == "" {
		return models.CompanyIdentity{}, ErrNotFound
	}

	id, err := c.resolveFromTickerTable(ctx, name, tick)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrNotFound) {
		log.Printf("edgar: ticker table lookup failed, falling back to archive: %v", err)
	}

	if name != "" {
		cik, archiveErr := c.resolveFromArchive(ctx, name)
		if archiveErr == nil {
			return models.CompanyIdentity{CanonicalName: name, Ticker: tick, CIK: cik}, nil
		}
		if !errors.Is(archiveErr, ErrNotFound) {
			log.Printf("edgar: archive lookup failed: %v", archiveErr)
		}
	}
	return models.CompanyIdentity{}, ErrNotFound
}

// resolveFromTickerTable scans company_tickers_exchange.json. An exact
// ticker match wins over a normalized-name match.
func (c *Client) resolveFromTickerTable(ctx context.Context, name, tick string) (models.CompanyIdentity, error) {
	table, err := c.tickerTable(ctx)
	if err != nil {
		return models.CompanyIdentity{}, err
	}

	if tick != "" {
		for _, row := range table.Data {
			cik, legal, rowTick, ok := tickerRow(row)
			if !ok {
				continue
			}
			if rowTick == tick {
				return models.CompanyIdentity{CanonicalName: legal, Ticker: rowTick, CIK: cik}, nil
			}
		}
	}

	if name != "" {
		key := CleanCompanyName(name)
		for _, row := range table.Data {
			cik, legal, rowTick, ok := tickerRow(row)
			if !ok {
				continue
			}
			if CleanCompanyName(legal) == key {
				return models.CompanyIdentity{CanonicalName: legal, Ticker: rowTick, CIK: cik}, nil
			}
		}
	}
	return models.CompanyIdentity{}, ErrNotFound
}

// tickerTable fetches and memo-caches the parsed ticker/exchange table.
func (c *Client) tickerTable(ctx context.Context) (*tickerExchangeResponse, error) {
	if cached, ok := c.mem.Get(tickerTableCacheKey); ok {
		return cached.(*tickerExchangeResponse), nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, status, err := infra.DoGetRetry(ctx, c.resolverHTTP, c.tickerURL, c.headers(), c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("fetch ticker table: %w", err)
	}
	if status != 200 {
		return nil, fmt.Errorf("fetch ticker table: HTTP %d", status)
	}

	var table tickerExchangeResponse
	if err := json.Unmarshal(body, &table); err != nil {
		return nil, fmt.Errorf("parse ticker table: %w", err)
	}
	c.mem.Set(tickerTableCacheKey, &table)
	return &table, nil
}

// tickerRow unpacks one [cik, name, ticker, exchange] row.
func tickerRow(row []any) (cik, legal, tick string, ok bool) {
	if len(row) < 4 {
		return "", "", "", false
	}
	cik = cikString(row[0])
	if cik == "" {
		return "", "", "", false
	}
	legal, _ = row[1].(string)
	t, _ := row[2].(string)
	return cik, legal, strings.ToUpper(strings.TrimSpace(t)), true
}

// cikString converts the CIK cell (a JSON number or string) to a
// 10-digit zero-padded string.
func cikString(v any) string {
	switch n := v.(type) {
	case float64:
		return PadCIK(strconv.FormatInt(int64(n), 10))
	case string:
		if _, err := strconv.Atoi(strings.TrimSpace(n)); err != nil {
			return ""
		}
		return PadCIK(strings.TrimSpace(n))
	default:
		return ""
	}
}

// resolveFromArchive scans the flat "legal-name: cik" lookup archive.
// The archive is ~20MB, so it is mirrored to the disk store after the
// first download and concurrent downloads are collapsed via singleflight.
func (c *Client) resolveFromArchive(ctx context.Context, name string) (string, error) {
	data, ok := c.disk.Get(archiveMirrorKey)
	if !ok {
		downloaded, err, _ := c.archiveSF.Do(archiveMirrorKey, func() (any, error) {
			// Another goroutine may have mirrored it while we waited.
			if d, ok := c.disk.Get(archiveMirrorKey); ok {
				return d, nil
			}
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			body, status, err := infra.DoGetRetry(ctx, c.archiveHTTP, c.archiveIndexURL, c.headers(), c.maxRetries)
			if err != nil {
				return nil, fmt.Errorf("download CIK archive: %w", err)
			}
			if status != 200 {
				return nil, fmt.Errorf("download CIK archive: HTTP %d", status)
			}
			text := string(body)
			if err := c.disk.Put(archiveMirrorKey, text); err != nil {
				log.Printf("edgar: failed to mirror CIK archive: %v", err)
			}
			return text, nil
		})
		if err != nil {
			return "", err
		}
		data = downloaded.(string)
	}

	key := CleanCompanyName(name)
	for _, line := range strings.Split(data, "\n") {
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		legal := line[:idx]
		rest := strings.SplitN(line[idx+1:], ":", 2)
		cik := PadCIK(strings.TrimSpace(rest[0]))
		if cik == "0000000000" || len(cik) != 10 {
			continue
		}
		if CleanCompanyName(legal) == key {
			return cik, nil
		}
	}
	return "", ErrNotFound
}
