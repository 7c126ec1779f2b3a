package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"bookscraper/src/internal/store"
)

func newScrapeCmd() *cobra.Command {
	var format, output string
	var save bool
	cmd := &cobra.Command{
		Use:   "scrape <isbn>",
		Short: "Look up one ISBN and print the book record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := newClient(cfg)
			if err != nil {
				return err
			}
			book, err := c.Lookup(ctx, args[0], format)
			if err != nil {
				return err
			}
			out := output
			if out == "" {
				out = cfg.Output
			}
			buf, err := store.Encode(book, out)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(buf); err != nil {
				return err
			}
			if !save {
				return nil
			}
			sink, err := store.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer sink.Close(ctx)
			where, err := sink.Save(ctx, book)
			if err != nil {
				return err
			}
			slog.Info("saved", "isbn", args[0], "to", where)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "binding to switch to, e.g. paperback or hardcover")
	cmd.Flags().StringVarP(&output, "output", "o", "", "json|yaml (default from config)")
	cmd.Flags().BoolVar(&save, "save", false, "also save the record to the configured store")
	return cmd
}
