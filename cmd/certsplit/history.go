// Copyright VeeTech Ltd., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veetech/certsplit/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs from the ledger",
	Long: `History lists recent runs recorded in the local SQLite ledger,
newest first: when each run started, which bundle it split, and how many
certificates were written or failed.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 10, "maximum runs to list")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	cfg := pipelineConfig(cmd)

	path := ledgerPath(cfg.History)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("No recorded runs.")
		return nil
	}

	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-19s  %-32s  %5s  %5s  %6s\n",
		"Started", "Bundle", "Pages", "Certs", "Failed")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 75))

	for _, r := range rows {
		name := filepath.Base(r.Bundle)
		if r.DryRun {
			name += " (dry run)"
		}
		if len(name) > 32 {
			name = name[:29] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-19s  %-32s  %5d  %5d  %6d\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), name,
			r.Pages, r.Certificates, r.Failed)
	}
	return nil
}
