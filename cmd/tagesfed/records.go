package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pevans/tagesfed/records"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect stored records",
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		kindFlag, _ := cmd.Flags().GetString("kind")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}

		kind, err := parseKind(kindFlag)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		rs, err := store.List(records.Filter{Kind: kind, Limit: limit, Offset: offset})
		if err != nil {
			return err
		}

		if format == formatJSON {
			if rs == nil {
				rs = []records.Record{}
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"records": rs, "count": len(rs)})
		}
		printRecordList(cmd.OutOrStdout(), rs)
		return nil
	},
}

var recordsShowCmd = &cobra.Command{
	Use:   "show <record-id>",
	Short: "Show one record with its fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid record ID: %w", err)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		r, err := store.Get(id)
		if err != nil {
			return err
		}

		if format == formatJSON {
			return printJSON(cmd.OutOrStdout(), r)
		}
		printRecord(cmd.OutOrStdout(), r)
		return nil
	},
}

var recordsDeleteCmd = &cobra.Command{
	Use:   "delete <record-id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid record ID: %w", err)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(id); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted record: %s\n", id)
		return nil
	},
}

func init() {
	recordsListCmd.Flags().String("kind", "", "archive, teaser or article")
	recordsListCmd.Flags().Int("limit", 50, "maximum records to list (0 for all)")
	recordsListCmd.Flags().Int("offset", 0, "records to skip")
	recordsListCmd.Flags().String("format", formatTable, "output format: table or json")
	recordsShowCmd.Flags().String("format", formatTable, "output format: table or json")

	recordsCmd.AddCommand(recordsListCmd, recordsShowCmd, recordsDeleteCmd)
	rootCmd.AddCommand(recordsCmd)
}
