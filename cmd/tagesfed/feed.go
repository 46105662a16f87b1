package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pevans/tagesfed/discovery"
)

var feedCmd = &cobra.Command{
	Use:   "feed <feed-url>",
	Short: "List article links from an RSS or Atom feed",
	Long:  "Lists the feed's article links; with --scrape, extracts and stores each article.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scrape, _ := cmd.Flags().GetBool("scrape")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		entries, err := discovery.FeedEntries(cmd.Context(), newClient(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !scrape {
			if len(entries) == 0 {
				fmt.Fprintln(out, "No entries in feed.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, e := range entries {
				published := "-"
				if e.PublishedAt != nil {
					published = e.PublishedAt.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", published, truncate(e.Title, 70), e.Link)
			}
			return tw.Flush()
		}

		links := make([]string, 0, len(entries))
		for _, e := range entries {
			links = append(links, e.Link)
		}

		pipeline, closeStore, err := newPipeline(concurrency)
		if err != nil {
			return err
		}
		defer closeStore()

		result, err := pipeline.RunLinks(cmd.Context(), links)
		if err != nil {
			return err
		}
		printRunResult(out, "feed", result)
		return nil
	},
}

func init() {
	feedCmd.Flags().Bool("scrape", false, "extract and store every linked article")
	feedCmd.Flags().Int("concurrency", 4, "parallel article fetches")

	rootCmd.AddCommand(feedCmd)
}
