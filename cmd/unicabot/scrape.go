package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shanehull/unicabot/internal/unica"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch the events page once and print the parsed events",
	Long: `Fetch and parse the events page without touching stored state or
sending any message. Useful to check the page layout still parses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 90*time.Second)
		defer cancel()

		fetcher := unica.NewFetcher(cfg.PageURL, nil)
		markup, err := fetcher.Fetch(ctx)
		if err != nil {
			return err
		}
		events := unica.ParseEvents(markup, fetcher.URL())

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(events)
		}

		if len(events) == 0 {
			fmt.Println("No events found.")
			return nil
		}
		for i, e := range events {
			fmt.Printf("%d. %s\n   Date: %s\n   Link: %s\n", i+1, e.Title, e.Date, e.Link)
		}
		return nil
	},
}

func init() {
	scrapeCmd.Flags().Bool("json", false, "Print events as JSON")
}
