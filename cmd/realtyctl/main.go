package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"realty-dashboard/internal/app"
	"realty-dashboard/internal/config"
	"realty-dashboard/internal/report"
	"realty-dashboard/internal/ws"
	"realty-dashboard/pkg/database"
	"realty-dashboard/pkg/jwt"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "realtyctl",
		Short:        "Realty dashboard operator tool",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		statsCmd(),
		reportCmd(),
		seedCmd(),
		userCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads config, opens the database and wires the services. There
// are no websocket listeners in the CLI, so events are discarded.
func bootstrap() (*app.App, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := cfg.NewLogger()
	jwt.Configure(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	renderer := report.NewChromeRenderer(cfg.Report.ChromeBin, cfg.Report.ExportTimeout, log)
	a, err := app.New(cfg, db, log, ws.Discard{}, renderer)
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}
