// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bio-archive/internal/archive"
)

var getCmd = &cobra.Command{
	Use:   "get <paper-id>",
	Short: "Resolve the full dossier detail for a paper",
	Long: `Get resolves a dossier detail through the fallback chain: the local
record store first, then each remote source in priority order. When every
source fails, get prints a deterministic offline stub instead of an
error, flagged with a note on stderr.

Remote resolutions are written back to the record store so later lookups
are served locally.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	svc, err := archive.Open(archiveConfig(cmd), newLogger(cmd), nil)
	if err != nil {
		return err
	}
	defer svc.Close()

	detail, isFallback, err := svc.Get(context.Background(), args[0])
	if err != nil {
		return err
	}
	if isFallback {
		fmt.Fprintf(os.Stderr, "note: all sources failed, serving offline stub for %s\n", args[0])
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json", "":
		return encodeJSON(detail)
	case "yaml":
		out, err := yaml.Marshal(detail)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}

func init() {
	getCmd.Flags().String("format", "json", "output format: json or yaml")

	rootCmd.AddCommand(getCmd)
}
