package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"bookscraper/src/internal/amazon"
	"bookscraper/src/internal/metrics"
	"bookscraper/src/internal/store"
)

func newBatchCmd() *cobra.Command {
	var workers int
	var format, metricsAddr string
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Scrape every ISBN in a file (one per line) and save the records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			isbns, err := readISBNs(args[0])
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				stop := serveMetrics(metricsAddr)
				defer stop()
			}
			c, err := newClient(cfg)
			if err != nil {
				return err
			}
			sink, err := store.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer sink.Close(ctx)

			lines, failed := runBatch(ctx, c, sink, isbns, format, workers)
			for _, l := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			if failed > 0 {
				return fmt.Errorf("batch: %d of %d ISBNs failed", failed, len(isbns))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 2, "concurrent lookups")
	cmd.Flags().StringVar(&format, "format", "", "binding to switch to for every ISBN")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

// runBatch looks up and saves each ISBN with at most workers in flight. The
// report lines keep the input order.
func runBatch(ctx context.Context, c *amazon.Client, sink store.Sink, isbns []string, format string, workers int) ([]string, int) {
	if workers < 1 {
		workers = 1
	}
	lines := make([]string, len(isbns))
	var failed atomic.Int32
	var g errgroup.Group
	g.SetLimit(workers)
	for i, raw := range isbns {
		i, raw := i, raw
		g.Go(func() error {
			where, err := scrapeOne(ctx, c, sink, raw, format)
			if err != nil {
				failed.Add(1)
				slog.Error("scrape failed", "isbn", raw, "err", err)
				lines[i] = fmt.Sprintf("%s\tFAIL\t%v", raw, err)
				return nil
			}
			lines[i] = fmt.Sprintf("%s\tOK\t%s", raw, where)
			return nil
		})
	}
	_ = g.Wait()
	return lines, int(failed.Load())
}

func scrapeOne(ctx context.Context, c *amazon.Client, sink store.Sink, raw, format string) (string, error) {
	book, err := c.Lookup(ctx, raw, format)
	if err != nil {
		return "", err
	}
	return sink.Save(ctx, book)
}

// readISBNs returns the non-blank lines of path, skipping # comments.
func readISBNs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server", "addr", addr, "err", err)
		}
	}()
	slog.Info("serving metrics", "addr", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
