// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bio-archive/internal/build"
	"github.com/pdiddy/bio-archive/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the published dataset from raw dossier files",
	Long: `Build reads free-form per-paper JSON from the raw directory, normalizes
each record (year derivation, keyword dedup, confidence scoring, access
tags, entity selection), and writes the published dataset: one detail
file per paper plus a summary index sorted by year and title.

Per-file failures are reported and skipped; a corrupt input never blocks
the rest of the dataset.`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	rawDir, _ := cmd.Flags().GetString("raw-dir")
	outDir, _ := cmd.Flags().GetString("out-dir")

	cfg := types.BuildConfig{RawDir: rawDir, OutDir: outDir}

	summary, err := build.Run(cfg, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Generated %d dossier file(s)\n", summary.Generated)
	if summary.Failed > 0 {
		return fmt.Errorf("%d raw file(s) failed normalization", summary.Failed)
	}
	return nil
}

func init() {
	buildCmd.Flags().String("raw-dir", "data_raw", "directory of raw per-paper JSON input")
	buildCmd.Flags().String("out-dir", "public/data", "output directory for index.json and papers/")

	rootCmd.AddCommand(buildCmd)
}
