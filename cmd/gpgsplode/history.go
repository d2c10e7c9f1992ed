// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/toeirei/gpgsplode/internal/db"
	"github.com/toeirei/gpgsplode/internal/i18n"
)

// newHistoryCmd builds the 'history' subcommand, listing recorded export and
// import runs from the audit database.
func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recorded export/import runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := db.DefaultStore()
			if store == nil {
				return fmt.Errorf("no audit store available")
			}
			entries, err := store.GetExportLog()
			if err != nil {
				return fmt.Errorf("failed to read export history: %w", err)
			}
			if len(entries) == 0 {
				fmt.Println(i18n.T("history.empty"))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIMESTAMP\tUSER\tACTION\tDETAILS")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Timestamp, e.Username, e.Action, e.Details)
			}
			return w.Flush()
		},
	}
}
