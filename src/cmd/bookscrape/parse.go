package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookscraper/src/internal/isbn"
	"bookscraper/src/internal/names"
	"bookscraper/src/internal/pubinfo"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Run the text parsers directly",
	}

	// parse name <raw...>
	name := &cobra.Command{
		Use:   "name <raw...>",
		Short: "Parse a person or organization name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := names.NewParser(cfg.NameTables()).Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}

	// parse publisher <raw...> [--fallback-year N]
	var fallbackYear int
	publisher := &cobra.Command{
		Use:   "publisher <raw...>",
		Short: "Parse a publisher/edition/date line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year := fallbackYear
			if year <= 0 {
				year = cfg.FallbackYear
			}
			res := pubinfo.Parse(strings.Join(args, " "), year)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "grammar: %s\n", res.Grammar)
			fmt.Fprintf(out, "publisher: %s\n", res.Publisher)
			fmt.Fprintf(out, "edition: %s\n", res.Edition)
			fmt.Fprintf(out, "year: %d\n", res.Year)
			return nil
		},
	}
	publisher.Flags().IntVar(&fallbackYear, "fallback-year", 0, "year used when the line has none (default from config)")

	// parse isbn <raw>
	isbnCmd := &cobra.Command{
		Use:   "isbn <raw>",
		Short: "Normalize an ISBN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			norm, ok := isbn.Normalize(args[0])
			if !ok {
				return fmt.Errorf("invalid ISBN: %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), norm)
			return nil
		},
	}

	cmd.AddCommand(name, publisher, isbnCmd)
	return cmd
}
