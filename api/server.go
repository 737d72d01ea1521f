// Package api provides the HTTP REST API server for edgarfacts.
//
// It exposes endpoints for filing search, company resolution, and filing
// listing over the shared EDGAR client.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/edgarfacts/internal/config"
	"github.com/seenimoa/edgarfacts/internal/edgar"
	"github.com/seenimoa/edgarfacts/internal/pipeline"
	"github.com/seenimoa/edgarfacts/internal/store"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	client   *edgar.Client
	searcher *pipeline.Searcher
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) (*Server, error) {
	disk, err := store.NewDirStore(cfg.SEC.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("cache dir setup failed: %w", err)
	}
	client := edgar.NewClient(cfg.SEC, disk)

	srv := &Server{
		cfg:      cfg,
		client:   client,
		searcher: pipeline.NewSearcher(client),
	}
	srv.router = srv.buildRouter()
	return srv, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware. The timeout budget covers a full search: listing plus
	// a sequential, rate-limited fetch per filing.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(300 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Search: resolve, list, fetch, extract
		r.Post("/search", s.handleSearch)

		// Registry lookups
		r.Get("/resolve", s.handleResolve)
		r.Get("/company/{cik}", s.handleCompany)
		r.Get("/filings/{cik}", s.handleFilings)
		r.Get("/feed/{cik}", s.handleFeed)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SearchRequest is the body for POST /api/v1/search.
type SearchRequest struct {
	Company   string   `json:"company,omitempty"`
	Ticker    string   `json:"ticker,omitempty"`
	CIK       string   `json:"cik,omitempty"`
	Forms     []string `json:"forms,omitempty"`
	StartDate string   `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   string   `json:"end_date,omitempty"`   // YYYY-MM-DD
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": "dev",
		},
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Company == "" && req.Ticker == "" && req.CIK == "" {
		writeError(w, http.StatusBadRequest, "one of company, ticker, or cik is required")
		return
	}

	result, err := s.searcher.Search(r.Context(), pipeline.Query{
		CompanyName: req.Company,
		Ticker:      req.Ticker,
		CIK:         req.CIK,
		Forms:       req.Forms,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: result.Error == "", Data: result, Error: result.Error})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	company := r.URL.Query().Get("company")
	ticker := r.URL.Query().Get("ticker")
	if company == "" && ticker == "" {
		writeError(w, http.StatusBadRequest, "company or ticker query parameter is required")
		return
	}

	id, err := s.client.Resolve(r.Context(), company, ticker)
	if err != nil {
		if errors.Is(err, edgar.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: id})
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	cik := chi.URLParam(r, "cik")
	meta, err := s.client.Company(r.Context(), cik)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: meta})
}

func (s *Server) handleFilings(w http.ResponseWriter, r *http.Request) {
	cik := chi.URLParam(r, "cik")
	q := r.URL.Query()

	forms := pipeline.DefaultForms
	if raw := q.Get("forms"); raw != "" {
		forms = strings.Split(raw, ",")
	}

	refs, err := s.client.ListFilings(r.Context(), cik, forms, q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		if errors.Is(err, edgar.ErrInvalidDate) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: refs})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	cik := chi.URLParam(r, "cik")
	form := r.URL.Query().Get("form")

	refs, err := s.client.RecentFeed(r.Context(), cik, form)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: refs})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
