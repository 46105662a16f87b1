package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pevans/tagesfed/config"
)

var settings *config.FileConfig

var rootCmd = &cobra.Command{
	Use:   "tagesfed",
	Short: "Config-driven scraper for the tagesschau.de news archive",
	Long: "Extracts archive pages, teasers and articles with declarative scraping configs, " +
		"stores the records in SQLite and exports them as JSON.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		settings = s

		if err := config.InitLogger(settings.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// loadSettings layers the config file and the environment over the
// defaults.
func loadSettings() (*config.FileConfig, error) {
	s := config.Defaults()

	fileCfg, err := config.LoadConfigFile()
	if err != nil {
		return nil, err
	}
	s.Merge(fileCfg)

	s.Storage.Records.DSN = getEnv("TAGESFED_RECORDS_DSN", s.Storage.Records.DSN)
	s.Storage.Export.Dir = getEnv("TAGESFED_EXPORT_DIR", s.Storage.Export.Dir)
	s.Log.Level = getEnv("TAGESFED_LOG_LEVEL", s.Log.Level)

	return s, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
