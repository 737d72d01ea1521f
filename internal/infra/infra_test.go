package infra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for absent key")
	}

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Errorf("Get(k) = %v, %v; want v, true", got, ok)
	}

	c.Flush()
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after Flush")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Minute)
	c.SetWithTTL("k", 1, -time.Second) // already expired
	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}

	// Fourth token should block until the context is cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); err == nil {
		t.Error("expected Wait to fail once tokens are exhausted")
	}
}

func TestDoGetRetryOn429(t *testing.T) {
	old := RetryBaseDelay
	RetryBaseDelay = time.Millisecond
	defer func() { RetryBaseDelay = old }()

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, status, err := DoGetRetry(context.Background(), srv.Client(), srv.URL, nil, 5)
	if err != nil {
		t.Fatalf("DoGetRetry: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDoGetRetryExhausted(t *testing.T) {
	old := RetryBaseDelay
	RetryBaseDelay = time.Millisecond
	defer func() { RetryBaseDelay = old }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, status, err := DoGetRetry(context.Background(), srv.Client(), srv.URL, nil, 2)
	if err != nil {
		t.Fatalf("DoGetRetry: %v", err)
	}
	if status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 after exhausting retries", status)
	}
}

func TestDoGetRetryNonRetryableStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, status, err := DoGetRetry(context.Background(), srv.Client(), srv.URL, nil, 3)
	if err != nil {
		t.Fatalf("DoGetRetry: %v", err)
	}
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without retries", status)
	}
}

func TestDoGetSetsHeaders(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	body, status, err := DoGet(context.Background(), srv.Client(), srv.URL, map[string]string{
		"User-Agent": "edgarfacts test",
	})
	if err != nil {
		t.Fatalf("DoGet: %v", err)
	}
	body.Close()
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if gotUA != "edgarfacts test" {
		t.Errorf("User-Agent = %q, want edgarfacts test", gotUA)
	}
}
