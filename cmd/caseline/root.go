package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/caseline-backend/internal/app"
	"github.com/yungbote/caseline-backend/internal/platform/envutil"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:           "caseline",
	Short:         "Caseline case management API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env files to load before reading config (default .env)")
	rootCmd.AddCommand(serveCmd, migrateCmd, adjustStepsCmd, createUserCmd)
}

// bootstrap loads config and wires the app; callers must Close it.
func bootstrap(ctx context.Context) (*app.App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	app.LoadEnvFiles(log, envFiles...)
	cfg, err := app.LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}
	a, err := app.New(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}
