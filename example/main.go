package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/grishkovelli/proxypool"
)

var (
	configFile string
	serve      bool
	count      int
)

var rootCmd = &cobra.Command{
	Use:   "proxypool",
	Short: "Resolve a proxy pool and print connection options",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := proxypool.ReadConfig(configFile)
		if err != nil {
			return err
		}

		logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
		m := proxypool.NewManager(cfg.SourceConfig(), logger)
		defer m.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			if err := m.Initialize(ctx); err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				opts := m.Options()
				if opts.Direct() {
					logger.Info("connection options", "proxy", "direct")
				} else {
					logger.Info("connection options", "proxy", opts.Proxy)
				}
			}
			return nil
		})

		if serve {
			srv := &proxypool.StatusServer{
				Manager:  m,
				Interval: time.Duration(cfg.StatInterval) * time.Second,
				Logger:   logger,
			}
			g.Go(func() error {
				return srv.ListenAndServe(ctx, cfg.Port)
			})
		}

		return g.Wait()
	},
}

func main() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml)")
	rootCmd.Flags().BoolVar(&serve, "serve", false, "serve the status page on the configured port")
	rootCmd.Flags().IntVarP(&count, "count", "n", 5, "number of connection options to print")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error("proxypool", "error", err)
		os.Exit(1)
	}
}
