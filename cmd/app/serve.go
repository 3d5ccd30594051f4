package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"FinSight/internal/di"
	"FinSight/pkg/config"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, news ingest and alert scanner",
	Long: `Start the service described by the config file. Environment variables
FINSIGHT_ENV, KAFKA_BROKERS, REDIS_ADDR, CLICKHOUSE_HOST and ALERT_SYMBOLS
override the file.

Examples:
  finsight serve
  finsight serve --config /etc/finsight/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config/config.yaml", "config file path")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithEnv(serveConfigPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.Run(ctx)
}
