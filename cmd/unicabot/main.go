package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shanehull/unicabot/internal/config"
	applog "github.com/shanehull/unicabot/internal/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "unicabot",
	Short: "unicabot - Telegram notifications for UniCa sport events",
	Long: `unicabot watches the Université Côte d'Azur sport events page and
sends a Telegram message to every subscribed chat when a new event appears.

Users manage their subscription with /subscribe and /unsubscribe.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"unicabot version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding subs.json and events.json (default: .)")
	rootCmd.PersistentFlags().String("page-url", "", "Events page to scrape")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug logging and a 10s long wait")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON instead of console output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scrapeCmd)
}

// loadConfig loads the config file and environment, then applies the flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("page-url") {
		cfg.PageURL, _ = flags.GetString("page-url")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("log-json") {
		cfg.LogJSON, _ = flags.GetBool("log-json")
	}
	if flags.Lookup("listen") != nil && flags.Changed("listen") {
		cfg.Listen, _ = flags.GetString("listen")
	}
	if flags.Lookup("storage") != nil && flags.Changed("storage") {
		cfg.Storage, _ = flags.GetString("storage")
	}
	cfg.Normalize()

	level := applog.InfoLevel
	if cfg.Debug {
		level = applog.DebugLevel
	}
	applog.Init(applog.Config{Level: level, JSONOutput: cfg.LogJSON})

	return cfg, nil
}
