package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"bookscraper/src/internal/amazon"
	"bookscraper/src/internal/config"
	"bookscraper/src/internal/fetch"
	"bookscraper/src/internal/httpx"
	"bookscraper/src/internal/names"
)

var (
	cfgPath  string
	logLevel string
	cfg      config.Config

	// client is the HTTP client pages are fetched with; nil means a default
	// client. Tests replace it.
	client httpx.Doer
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookscrape",
		Short:         "Scrape book records from the Amazon storefront by ISBN",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				loaded.LogLevel = logLevel
			}
			cfg = loaded
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()})))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file (default "+config.DefaultFile+" if present)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (overrides config and LOG_LEVEL)")
	root.AddCommand(newScrapeCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newTablesCmd())
	return root
}

// newClient wires a page loader and the name tables from c into a lookup client.
func newClient(c config.Config) (*amazon.Client, error) {
	loader, err := fetch.New(fetch.OptionsFrom(c), client)
	if err != nil {
		return nil, err
	}
	return amazon.New(loader, names.NewParser(c.NameTables()), amazon.OptionsFrom(c)), nil
}

func execute() error {
	return newRootCmd().Execute()
}

func main() {
	if err := execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
