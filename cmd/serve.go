package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/alfred/app"
	"github.com/kilianp07/alfred/config"
	"github.com/kilianp07/alfred/infra/logger"
)

var cfgPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard session API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if err := logger.Configure(logger.Options{Level: cfg.Logging.Level, Console: cfg.Logging.Format == "console"}); err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
