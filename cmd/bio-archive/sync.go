// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bio-archive/internal/archive"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Seed the local record store from the published index",
	Long: `Sync fetches the published summary index and seeds the local record
store. Seeding is idempotent per dataset generation: a store that already
holds the current generation is left untouched, so locally cached dossier
details survive repeated syncs. When the network is unreachable, sync
falls back to whatever rows the store already holds.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	svc, err := archive.Open(archiveConfig(cmd), newLogger(cmd), nil)
	if err != nil {
		return err
	}
	defer svc.Close()

	count, err := svc.Sync(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Synced %d record(s)\n", count)
	return nil
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
