// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bio-archive CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bio-archive/internal/observability"
	"github.com/pdiddy/bio-archive/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the bio-archive CLI.
var rootCmd = &cobra.Command{
	Use:   "bio-archive",
	Short: "Offline-capable archive of bioscience research dossiers",
	Long: `bio-archive maintains a local, offline-capable archive of bioscience
research dossiers. It seeds a SQLite record store from a published index,
keeps an in-memory search index with typeahead and fuzzy matching, and
resolves full dossier details through a cache-first fallback chain that
always produces a usable document.

Each operation is a subcommand: build prepares the published dataset from
raw inputs, sync seeds the local store, search and get query it, and serve
exposes the archive over a local HTTP API.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bio-archive.yaml or ~/.config/bio-archive/config.yaml)")
	rootCmd.PersistentFlags().String("archive-dir", ".archive", "base directory for the local record store")
	rootCmd.PersistentFlags().String("base-url", "", "asset base URL the published dataset is served from")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bio-archive")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bio-archive"))
		}
	}

	viper.SetEnvPrefix("BIO_ARCHIVE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a setting from the config file unless the flag
// was set explicitly on the command line.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if v := viper.GetString(key); v != "" && !cmd.Flags().Changed(flag) {
		return v
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

// archiveConfig assembles the service configuration from flags and the
// config file.
func archiveConfig(cmd *cobra.Command) types.ArchiveConfig {
	cfg := types.ArchiveConfig{
		Store: types.StoreConfig{
			ArchiveDir: stringSetting(cmd, "archive-dir", "store.archive_dir"),
		},
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			BaseURL:    stringSetting(cmd, "base-url", "fetch.base_url"),
			Sources:    viper.GetStringSlice("fetch.sources"),
			IndexPath:  viper.GetString("fetch.index_path"),
			MaxRetries: viper.GetInt("fetch.max_retries"),
		},
		Search: types.SearchConfig{
			MaxResults:     viper.GetInt("search.max_results"),
			TypeaheadLimit: viper.GetInt("search.typeahead_limit"),
			Fuzziness:      viper.GetFloat64("search.fuzziness"),
		},
		Serve: types.ServeConfig{
			Address:         viper.GetString("serve.address"),
			ReadTimeout:     viper.GetDuration("serve.read_timeout"),
			WriteTimeout:    viper.GetDuration("serve.write_timeout"),
			IdleTimeout:     viper.GetDuration("serve.idle_timeout"),
			ShutdownTimeout: viper.GetDuration("serve.shutdown_timeout"),
		},
	}
	if cfg.Serve.ShutdownTimeout <= 0 {
		cfg.Serve.ShutdownTimeout = 10 * time.Second
	}
	return cfg
}

// newLogger builds the CLI logger from the persistent logging flags.
func newLogger(cmd *cobra.Command) zerolog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")

	cfg := observability.DefaultLoggingConfig()
	if level != "" {
		cfg.Level = level
	}
	if format != "" {
		cfg.Format = format
	}
	return observability.NewLogger(cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
