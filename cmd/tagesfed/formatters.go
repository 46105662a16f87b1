package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/pevans/tagesfed/discovery"
	"github.com/pevans/tagesfed/records"
	"github.com/pevans/tagesfed/scraper"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func checkFormat(format string) error {
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("--format must be %q or %q", formatTable, formatJSON)
	}
	return nil
}

// printJSON prints v as indented JSON
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printFields prints an extracted record as an aligned key/value table.
// Group instances are indented under the group id.
func printFields(w io.Writer, fields scraper.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeFields(tw, fields, "")
	tw.Flush()
}

func writeFields(tw *tabwriter.Writer, fields scraper.Record, indent string) {
	for _, id := range sortedKeys(fields) {
		switch v := fields[id].(type) {
		case []scraper.Record:
			fmt.Fprintf(tw, "%s%s\t(%d)\n", indent, id, len(v))
			for i, instance := range v {
				fmt.Fprintf(tw, "%s  [%d]\t\n", indent, i)
				writeFields(tw, instance, indent+"    ")
			}
		case []string:
			fmt.Fprintf(tw, "%s%s\t%s\n", indent, id, truncate(strings.Join(v, " / "), 100))
		case string:
			fmt.Fprintf(tw, "%s%s\t%s\n", indent, id, truncate(v, 100))
		default:
			fmt.Fprintf(tw, "%s%s\t-\n", indent, id)
		}
	}
}

func sortedKeys(fields scraper.Record) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// printRecordList prints stored records one per line
func printRecordList(w io.Writer, rs []records.Record) {
	if len(rs) == 0 {
		fmt.Fprintln(w, "No records to display.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tEXTRACTED\tURL")
	for _, r := range rs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			r.ID.String(),
			r.Kind,
			r.ExtractedAt.Local().Format("2006-01-02 15:04"),
			truncate(r.URL, 80),
		)
	}
	tw.Flush()
}

// printRecord prints one stored record with its fields
func printRecord(w io.Writer, r *records.Record) {
	fmt.Fprintf(w, "ID:        %s\n", r.ID)
	fmt.Fprintf(w, "Kind:      %s\n", r.Kind)
	fmt.Fprintf(w, "URL:       %s\n", r.URL)
	fmt.Fprintf(w, "Extracted: %s\n", r.ExtractedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w)
	printFields(w, r.Fields)
}

// printRunResult summarizes a pipeline run
func printRunResult(w io.Writer, label string, result *discovery.RunResult) {
	fmt.Fprintf(w, "%s: %d archive, %d teasers, %d articles new; %d duplicates, %d skipped\n",
		label, result.Archives, result.Teasers, result.Articles, result.Duplicates, result.Skipped)
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  ! %s\n", e.Error())
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
