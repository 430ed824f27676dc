package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/baasilali/2m-backend/internal/app"
	"github.com/baasilali/2m-backend/internal/config"
	"github.com/baasilali/2m-backend/internal/mcp"
	"github.com/baasilali/2m-backend/internal/searcher"
	"github.com/baasilali/2m-backend/internal/storage"
	"github.com/baasilali/2m-backend/pkg/types"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			logger.Info().
				Str("version", version).
				Str("build_mode", storage.BuildMode).
				Str("driver", storage.DriverName).
				Msg("skinsearch starting")

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			defer func() { _ = a.Close() }()

			server := mcp.NewServer(a.Engine, a, logger)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			errChan := make(chan error, 1)
			go func() {
				errChan <- server.Serve(ctx)
			}()

			select {
			case sig := <-sigChan:
				logger.Info().Str("signal", sig.String()).Msg("Shutting down")
				cancel()
			case err := <-errChan:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
			}

			logger.Info().Msg("Server stopped")
			return nil
		},
	}
}

func newQueryCmd(opts *options) *cobra.Command {
	var (
		asJSON bool
		wait   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Answer a single search query",
		Example: `  skinsearch query "cheapest ak47"
  skinsearch query --json "awp under \$100"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if wait > 0 && a.Indexer != nil {
				waitCtx, cancel := context.WithTimeout(ctx, wait)
				if !a.WaitSemantic(waitCtx) {
					logger.Warn().Dur("wait", wait).Msg("Semantic index not ready, answering lexically")
				}
				cancel()
			}

			query := strings.Join(args, " ")
			resp, err := a.Engine.Search(ctx, query)
			if errors.Is(err, types.ErrEmptyQuery) {
				fmt.Println(searcher.EmptyQueryMessage)
				return nil
			}
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(responseJSON(query, resp))
			}

			headerColor.Printf("%s (%s, %s)\n\n", query, resp.Path, resp.Duration.Round(time.Microsecond))
			fmt.Println(a.Engine.Format(resp))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print structured results")
	cmd.Flags().DurationVar(&wait, "wait", 10*time.Second, "how long to wait for the semantic index")
	return cmd
}

func newIntentCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "intent <text>",
		Short: "Show how a query is parsed without searching",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			// Parsing never consults the semantic index
			a, err := app.New(cmd.Context(), withoutSemantic(cfg), logger)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			q := a.Engine.Parse(strings.Join(args, " "))

			headerColor.Println("Query")
			printField("normalized", q.Normalized)
			printField("weapon", orDash(string(q.Weapon)))
			printField("skin", orDash(q.Skin))
			printField("wear", orDash(string(q.Wear)))
			printField("stattrak", q.StatTrak)
			printField("souvenir", q.Souvenir)

			fmt.Println()
			headerColor.Println("Price")
			printField("kind", q.Intent.Kind)
			if q.Intent.IsRange() {
				lo, hi := q.Intent.Bounds()
				printField("min", fmt.Sprintf("$%.2f", lo))
				if !math.IsInf(hi, 1) {
					printField("max", fmt.Sprintf("$%.2f", hi))
				}
			}
			if q.Intent.Kind == types.IntentNear {
				printField("target", fmt.Sprintf("$%.2f", q.Intent.Target))
			}
			printField("extremum", orDash(string(q.Extremum)))
			printField("price keyword", q.PriceKeyword)
			return nil
		},
	}
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Load the catalog and report its state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			st := a.Engine.Status()
			headerColor.Println("Catalog")
			printField("source", orDash(st.Source))
			printField("items", st.Items)
			printField("version", st.Version)
			printField("name hash", orDash(st.NameSetHash))
			printField("skipped", st.LoadStats.Skipped)
			printField("duplicates", st.LoadStats.Duplicates)
			printField("malformed fields", st.LoadStats.MalformedFields)
			printField("pipeline", strings.Join(st.StrategyPipeline, " → "))

			fmt.Println()
			headerColor.Println("Semantic")
			printField("enabled", st.SemanticEnabled)

			cache, err := a.CacheStatus(ctx)
			if err != nil {
				return err
			}
			if cache != nil {
				printField("schema", cache.SchemaVersion)
				printField("embedding sets", cache.Sets)
				printField("vectors", cache.Vectors)
				printField("cache size", fmt.Sprintf("%.2f MB", float64(cache.SizeBytes)/(1024*1024)))
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			headerColor.Println("skinsearch")
			printField("Version", version)
			printField("Build Time", buildTime)
			printField("Build Mode", storage.BuildMode)
			printField("SQLite Driver", storage.DriverName)
			printField("Vector Extension", storage.VectorExtensionAvailable)
		},
	}
}

// matchOutput is the --json shape of one result
type matchOutput struct {
	Name           string   `json:"name"`
	MinPrice       *float64 `json:"min_price"`
	MaxPrice       *float64 `json:"max_price"`
	SuggestedPrice *float64 `json:"suggested_price"`
	Quantity       int      `json:"quantity"`
	Score          float64  `json:"score"`
	Strategy       string   `json:"strategy"`
}

type queryOutput struct {
	Query      string        `json:"query"`
	Path       string        `json:"path"`
	Strategy   string        `json:"strategy,omitempty"`
	Total      int           `json:"total"`
	Capped     bool          `json:"capped"`
	DurationMS int64         `json:"duration_ms"`
	Matches    []matchOutput `json:"matches"`
}

func responseJSON(query string, resp *searcher.Response) queryOutput {
	out := queryOutput{
		Query:      query,
		Path:       string(resp.Path),
		Strategy:   resp.Strategy,
		Total:      resp.Total,
		Capped:     resp.Capped,
		DurationMS: resp.Duration.Milliseconds(),
		Matches:    make([]matchOutput, 0, len(resp.Matches)),
	}
	for _, m := range resp.Matches {
		out.Matches = append(out.Matches, matchOutput{
			Name:           m.Name,
			MinPrice:       pricePtr(m.MinPrice),
			MaxPrice:       pricePtr(m.MaxPrice),
			SuggestedPrice: pricePtr(m.SuggestedPrice),
			Quantity:       m.Quantity,
			Score:          m.Score,
			Strategy:       m.Strategy,
		})
	}
	return out
}

func pricePtr(p types.Price) *float64 {
	if !p.Known() {
		return nil
	}
	v := float64(p)
	return &v
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func withoutSemantic(cfg *config.Config) *config.Config {
	c := *cfg
	c.Semantic.Enabled = false
	return &c
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
