package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pevans/tagesfed/configs"
	"github.com/pevans/tagesfed/discovery"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Scrape archive days into the record store",
	Long: "Fetches the archive page for each day from --date up to but excluding --until " +
		"(default: the day after --date), stores its teasers and, with --articles, their articles.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dateFlag, _ := cmd.Flags().GetString("date")
		untilFlag, _ := cmd.Flags().GetString("until")
		category, _ := cmd.Flags().GetString("category")
		articles, _ := cmd.Flags().GetBool("articles")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		start, err := parseDate(dateFlag, time.Now())
		if err != nil {
			return err
		}
		end := start.AddDate(0, 0, 1)
		if untilFlag != "" {
			if end, err = parseDate(untilFlag, time.Now()); err != nil {
				return err
			}
		}
		days, err := discovery.DateRange(start, end)
		if err != nil {
			return err
		}
		if err := (discovery.ArchiveFilter{Category: category}).Validate(); err != nil {
			return err
		}

		pipeline, closeStore, err := newPipeline(concurrency)
		if err != nil {
			return err
		}
		defer closeStore()
		pipeline.FetchArticles = articles

		log := zap.L().With(zap.String("command", "archive"))
		out := cmd.OutOrStdout()
		var failed int
		for _, day := range days {
			filter := discovery.ArchiveFilter{Date: day, Category: category}
			result, err := pipeline.RunArchive(cmd.Context(), filter)
			if err != nil {
				// One unreachable day shouldn't stop a long range.
				log.Error("archive day failed", zap.String("date", day.Format(time.DateOnly)), zap.Error(err))
				failed++
				continue
			}
			printRunResult(out, day.Format(time.DateOnly), result)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d archive days failed", failed, len(days))
		}
		return nil
	},
}

// newPipeline wires the record store and the archive and article configs.
// The returned func closes the store.
func newPipeline(concurrency int) (*discovery.Pipeline, func(), error) {
	archive, err := scrapingConfig(configs.Archive)
	if err != nil {
		return nil, nil, err
	}
	article, err := scrapingConfig(configs.Article)
	if err != nil {
		return nil, nil, err
	}

	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	return &discovery.Pipeline{
		Client:      newClient(),
		Store:       store,
		Archive:     archive,
		Article:     article,
		Concurrency: concurrency,
		Now:         time.Now,
	}, func() { store.Close() }, nil
}

func init() {
	archiveCmd.Flags().String("date", "", "first day to scrape, YYYY-MM-DD (default: yesterday)")
	archiveCmd.Flags().String("until", "", "stop before this day, YYYY-MM-DD")
	archiveCmd.Flags().String("category", "", "inland, ausland or wirtschaft (default: all)")
	archiveCmd.Flags().Bool("articles", false, "also scrape each teaser's article")
	archiveCmd.Flags().Int("concurrency", 4, "parallel article fetches")

	rootCmd.AddCommand(archiveCmd)
}
