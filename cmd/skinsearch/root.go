package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/baasilali/2m-backend/internal/config"
	"github.com/baasilali/2m-backend/internal/logging"
)

// options holds the persistent flags
type options struct {
	cfgFile  string
	catalog  string
	logLevel string
	noColor  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "skinsearch",
		Short: "Natural language search over a CS2 skin marketplace catalog",
		Long: `skinsearch answers free-text questions about a CS2 marketplace snapshot,
such as "cheapest ak47", "st ak redline ft" or "awp between $50 and $100".
It runs as an MCP server on stdio or answers single queries from the shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file path")
	root.PersistentFlags().StringVar(&opts.catalog, "catalog", "", "marketplace snapshot path (overrides config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newServeCmd(opts),
		newQueryCmd(opts),
		newIntentCmd(opts),
		newStatusCmd(opts),
		newVersionCmd(),
	)
	return root
}

// load reads the configuration and applies flag overrides
func (o *options) load() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if o.catalog != "" {
		cfg.Catalog.Path = o.catalog
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	logger := logging.New(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  os.Stderr,
		Service: "skinsearch",
	})
	return cfg, logger, nil
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.FgYellow)
	errorColor  = color.New(color.FgRed)
)

// printField writes an aligned "label: value" line
func printField(label string, value interface{}) {
	labelColor.Printf("%-18s", label+":")
	fmt.Println(value)
}
