// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bio-archive/internal/archive"
	"github.com/pdiddy/bio-archive/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the archived dossier index",
	Long: `Search tokenizes the query, requires every token to match (by prefix,
exact term, or small edit distance), and ranks results by weighted score.
An empty query lists every indexed record. Facet flags narrow results by
exact organism, platform, or year.

Use --suggest for typeahead mode, where any token matching is enough.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := archive.Open(archiveConfig(cmd), newLogger(cmd), nil)
	if err != nil {
		return err
	}
	defer svc.Close()

	if _, err := svc.Sync(context.Background()); err != nil {
		return err
	}

	query := strings.Join(args, " ")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if suggest, _ := cmd.Flags().GetBool("suggest"); suggest {
		limit, _ := cmd.Flags().GetInt("limit")
		suggestions := svc.Typeahead(query, limit)
		if jsonOutput {
			return encodeJSON(suggestions)
		}
		for _, s := range suggestions {
			fmt.Fprintf(os.Stdout, "%-24s  %s\n", s.ID, s.Title)
		}
		return nil
	}

	results := svc.Search(query, filterFromFlags(cmd))
	if jsonOutput {
		return encodeJSON(results)
	}
	return formatSearchOutput(results)
}

func filterFromFlags(cmd *cobra.Command) types.Filter {
	organism, _ := cmd.Flags().GetString("organism")
	platform, _ := cmd.Flags().GetString("platform")
	year, _ := cmd.Flags().GetInt("year")

	return types.Filter{Organism: organism, Platform: platform, Year: year}
}

func formatSearchOutput(results []types.PaperRecord) error {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-24s  %-50s  %-6s  %-16s  %s\n",
		"Rank", "ID", "Title", "Year", "Organism", "Conf")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 112))

	for i, r := range results {
		title := r.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		organism := r.Organism
		if len(organism) > 16 {
			organism = organism[:13] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-24s  %-50s  %-6d  %-16s  %.2f\n",
			i+1, r.ID, title, r.Year, organism, r.Confidence)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func encodeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	searchCmd.Flags().String("organism", "", "filter by exact organism")
	searchCmd.Flags().String("platform", "", "filter by exact platform")
	searchCmd.Flags().Int("year", 0, "filter by publication year (0 = any)")
	searchCmd.Flags().Int("limit", 0, "maximum suggestions in --suggest mode (0 = default)")
	searchCmd.Flags().Bool("suggest", false, "typeahead mode: rank any-token matches")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
