// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/config"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/export"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/logger"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/media"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/provider"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagBase     string
	flagType     string
	flagPage     int
	flagLanguage string
	flagExport   string
	flagDebug    bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "hianime",
	Short: "Scrape anime metadata and streaming links from the terminal",
	Long: `hianime scrapes the anime catalog: search, browse, episode lists,
and playable m3u8 streaming links with the headers each CDN requires.`,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBase, "base", "", "Site host (default: hianime.to)")
	rootCmd.PersistentFlags().StringVarP(&flagType, "type", "t", "", "Server type: sub | dub | raw | all")
	rootCmd.PersistentFlags().IntVarP(&flagPage, "page", "p", 1, "Result page")
	rootCmd.PersistentFlags().StringVarP(&flagLanguage, "language", "l", "", "Subtitle language filter")
	rootCmd.PersistentFlags().StringVarP(&flagExport, "export", "e", "", "Export results to this directory")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI
// flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagBase != "" {
		cfg.Base = flagBase
	}
	if flagType != "" {
		cfg.ServerType = flagType
	}
	if flagLanguage != "" {
		cfg.SubsLanguage = flagLanguage
	}
	if flagDebug {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Init(cfg.Debug)
	return nil
}

func newProvider() *provider.HiAnime {
	return provider.NewHiAnime(cfg.Base)
}

// printJSON writes a value as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit prints a value and, with --export set, also writes it to a file.
func emit(v any, exportName string) error {
	if err := printJSON(v); err != nil {
		return err
	}
	if flagExport == "" {
		return nil
	}

	path, err := export.WriteJSON(flagExport, exportName, v)
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", path)
	return nil
}

// emitResults prints search results and honors --export (JSON plus CSV).
func emitResults(results []media.SearchResult, exportName string) error {
	if err := emit(results, exportName+".json"); err != nil {
		return err
	}
	if flagExport == "" {
		return nil
	}

	path, err := export.WriteResultsCSV(flagExport, exportName+".csv", results)
	if err != nil {
		return fmt.Errorf("exporting CSV: %w", err)
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", path)
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("hianime", Version)
	},
}
