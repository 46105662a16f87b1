package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pevans/tagesfed/scraper"
)

var errInvalidDocument = errors.New("document does not pass the config's validation")

var extractCmd = &cobra.Command{
	Use:   "extract <config> <html-file-or-url>",
	Short: "Extract a record from one page",
	Long: "Runs a scraping config against a local HTML file or a URL and prints the record. " +
		"<config> is a built-in name (archive, teaser, article) or a path to a YAML/JSON config.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}

		cfg, err := scrapingConfig(args[0])
		if err != nil {
			return err
		}
		doc, err := loadDocument(cmd.Context(), args[1])
		if err != nil {
			return err
		}

		if !force && !scraper.CanScrape(doc, cfg) {
			return errInvalidDocument
		}

		record, err := scraper.Extract(doc, cfg)
		if err != nil {
			return err
		}

		if format == formatJSON {
			return printJSON(cmd.OutOrStdout(), record)
		}
		printFields(cmd.OutOrStdout(), record)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <config> <html-file-or-url>",
	Short: "Check whether a page can be scraped with a config",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := scrapingConfig(args[0])
		if err != nil {
			return err
		}
		doc, err := loadDocument(cmd.Context(), args[1])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if scraper.CanScrape(doc, cfg) {
			fmt.Fprintln(out, "valid")
			return nil
		}

		fmt.Fprintln(out, "invalid")
		for _, rule := range scraper.FailedRules(doc.Selection, cfg.Validation) {
			fmt.Fprintf(out, "  failed: %s\n", rule)
		}
		return errInvalidDocument
	},
}

func init() {
	extractCmd.Flags().Bool("force", false, "extract even if the page fails validation")
	extractCmd.Flags().String("format", formatJSON, "output format: json or table")

	rootCmd.AddCommand(extractCmd, validateCmd)
}
