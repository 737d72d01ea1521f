// edgarfacts — SEC EDGAR filing search and fact extraction.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seenimoa/edgarfacts/api"
	"github.com/seenimoa/edgarfacts/internal/config"
	"github.com/seenimoa/edgarfacts/internal/edgar"
	"github.com/seenimoa/edgarfacts/internal/pipeline"
	"github.com/seenimoa/edgarfacts/internal/store"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "edgarfacts",
	Short: "edgarfacts — SEC EDGAR filing search and fact extraction",
	Long: `edgarfacts retrieves SEC EDGAR filings for a company and extracts
structured facts from them: financial line items, margin-versus-plan
comparisons, subscriber metrics, forward guidance ranges, and board
nominees, assembled into a per-filing timeline.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(filingsCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(serveCmd)
}

// buildClient wires the disk cache and EDGAR client from the loaded config.
func buildClient() (*edgar.Client, error) {
	disk, err := store.NewDirStore(cfg.SEC.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("cache dir setup failed: %w", err)
	}
	return edgar.NewClient(cfg.SEC, disk), nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("edgarfacts %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Search Command ---

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search a company's filings and extract facts",
	Long: `Resolve a company, list its filings, fetch each document, and run the
fact extractors. The result is a JSON timeline, one entry per filing
that produced at least one extracted fact.

Examples:
  edgarfacts search --ticker NFLX --forms 10-Q,8-K
  edgarfacts search --company "The TJX Companies" --start 2024-01-01
  edgarfacts search --cik 320193 --forms "DEF 14A"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		company, _ := cmd.Flags().GetString("company")
		ticker, _ := cmd.Flags().GetString("ticker")
		cik, _ := cmd.Flags().GetString("cik")
		forms, _ := cmd.Flags().GetString("forms")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")

		if company == "" && ticker == "" && cik == "" {
			return fmt.Errorf("one of --company, --ticker, or --cik is required")
		}

		client, err := buildClient()
		if err != nil {
			return err
		}

		q := pipeline.Query{
			CompanyName: company,
			Ticker:      ticker,
			CIK:         cik,
			StartDate:   start,
			EndDate:     end,
		}
		if forms != "" {
			q.Forms = splitForms(forms)
		}

		result, err := pipeline.NewSearcher(client).Search(cmd.Context(), q)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	searchCmd.Flags().String("company", "", "company name to resolve")
	searchCmd.Flags().String("ticker", "", "ticker symbol to resolve")
	searchCmd.Flags().String("cik", "", "CIK number (skips resolution)")
	searchCmd.Flags().String("forms", "", "comma-separated form types (default: all supported forms)")
	searchCmd.Flags().String("start", "", "earliest filing date (YYYY-MM-DD)")
	searchCmd.Flags().String("end", "", "latest filing date (YYYY-MM-DD)")
}

// --- Resolve Command ---

var resolveCmd = &cobra.Command{
	Use:   "resolve [company or ticker]",
	Short: "Resolve a company name or ticker to its CIK",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient()
		if err != nil {
			return err
		}

		// A short all-caps argument is most likely a ticker; try it as
		// both so either spelling works.
		arg := args[0]
		id, err := client.Resolve(cmd.Context(), arg, arg)
		if err != nil {
			return fmt.Errorf("could not resolve %q: %w", arg, err)
		}
		return printJSON(id)
	},
}

// --- Filings Command ---

var filingsCmd = &cobra.Command{
	Use:   "filings [cik]",
	Short: "List a company's filings from the submissions index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		forms, _ := cmd.Flags().GetString("forms")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")

		client, err := buildClient()
		if err != nil {
			return err
		}

		want := pipeline.DefaultForms
		if forms != "" {
			want = splitForms(forms)
		}

		cik := edgar.PadCIK(args[0])
		refs, err := client.ListFilings(cmd.Context(), cik, want, start, end)
		if err != nil {
			return err
		}
		return printJSON(refs)
	},
}

func init() {
	filingsCmd.Flags().String("forms", "", "comma-separated form types (default: all supported forms)")
	filingsCmd.Flags().String("start", "", "earliest filing date (YYYY-MM-DD)")
	filingsCmd.Flags().String("end", "", "latest filing date (YYYY-MM-DD)")
}

// --- Feed Command ---

var feedCmd = &cobra.Command{
	Use:   "feed [cik]",
	Short: "List a company's most recent filings from the browse Atom feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		form, _ := cmd.Flags().GetString("form")

		client, err := buildClient()
		if err != nil {
			return err
		}

		refs, err := client.RecentFeed(cmd.Context(), edgar.PadCIK(args[0]), form)
		if err != nil {
			return err
		}
		return printJSON(refs)
	},
}

func init() {
	feedCmd.Flags().String("form", "", "restrict the feed to one form type")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := api.NewServer(cfg)
		if err != nil {
			return err
		}
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting edgarfacts API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

func splitForms(raw string) []string {
	var forms []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			forms = append(forms, f)
		}
	}
	return forms
}
