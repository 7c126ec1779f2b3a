package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookscraper/src/internal/schema"
	"bookscraper/src/internal/store"
)

func newListCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the books saved under the data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = cfg.DataDir
			}
			books, err := store.ReadAll(dir)
			if err != nil {
				return err
			}
			for _, b := range books {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\t%s\t%s\n", b.ID(), b.Year, editionLabel(b.Edition), b.Title, authorList(b.Authors))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory to read (default data_dir from config)")
	return cmd
}

// editionLabel renders numbered editions as "ed. N" and keeps text editions verbatim.
func editionLabel(e schema.Edition) string {
	if e.IsNumber() {
		return "ed. " + e.String()
	}
	return e.String()
}

func authorList(people []schema.Person) string {
	out := make([]string, 0, len(people))
	for _, p := range people {
		out = append(out, p.SortableName())
	}
	return strings.Join(out, "; ")
}
