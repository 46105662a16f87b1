package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pevans/tagesfed/export"
	"github.com/pevans/tagesfed/records"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored records as JSON files",
	Long:  "Writes every stored record (optionally of one kind) to <dir>/<record-id>.json.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dirFlag, _ := cmd.Flags().GetString("dir")
		kindFlag, _ := cmd.Flags().GetString("kind")

		kind, err := parseKind(kindFlag)
		if err != nil {
			return err
		}
		if dirFlag == "" {
			dirFlag = settings.Storage.Export.Dir
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		rs, err := store.List(records.Filter{Kind: kind})
		if err != nil {
			return err
		}

		dir, err := export.NewDir(dirFlag)
		if err != nil {
			return err
		}
		n, err := dir.WriteAll(rs)
		if err != nil {
			return err
		}

		// Read the directory back so stale or corrupted files from earlier
		// exports are reported.
		listed, err := dir.List()
		if err != nil {
			return err
		}
		for _, readErr := range listed.Errors {
			zap.L().Warn("unreadable export file", zap.String("file", readErr.Filename), zap.Error(readErr.Err))
		}

		zap.L().Info("export complete", zap.String("dir", dir.Path()), zap.Int("records", n))
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s (%d files, %d unreadable)\n",
			n, dir.Path(), len(listed.Records), len(listed.Errors))
		return nil
	},
}

func init() {
	exportCmd.Flags().String("dir", "", "export directory (default: storage.export.dir)")
	exportCmd.Flags().String("kind", "", "only export records of this kind")

	rootCmd.AddCommand(exportCmd)
}
