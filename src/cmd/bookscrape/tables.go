package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Print the title and credential tables the name parser uses",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := cfg.NameTables()
			out := cmd.OutOrStdout()
			for _, s := range t.Titles() {
				fmt.Fprintf(out, "title\t%s\n", s)
			}
			for _, s := range t.Credentials() {
				fmt.Fprintf(out, "credential\t%s\n", s)
			}
			for _, r := range t.Replacements() {
				if r.Spaced == r.Compact {
					continue
				}
				fmt.Fprintf(out, "spelling\t%s\t%s\n", r.Spaced, r.Compact)
			}
			return nil
		},
	}
}
