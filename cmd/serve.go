package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kickit-app/kickit/internal/api"
	"github.com/kickit-app/kickit/internal/cache"
	"github.com/kickit-app/kickit/internal/config"
	"github.com/kickit-app/kickit/internal/scheduler"
	"github.com/kickit-app/kickit/pkg/kickit"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const cacheStatsInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the KickIt web server",
	Long:  `Start the server rendered KickIt web front-end. It talks to the KickIt API configured with api_url.`,
	Example: `kickit serve --config config.yml
kickit serve -c /path/to/config.yml --log-level debug
`,
	Args: cobra.NoArgs,
	RunE: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		return err
	}

	debug := log.GetLevel() == log.DebugLevel

	kickCache, err := cache.NewKickCache(cfg.Cache)
	if err != nil {
		return err
	}

	server, err := api.New(cfg, kickit.New(cfg), kickCache, debug)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs, err := scheduler.New()
	if err != nil {
		return err
	}
	if kickCache != nil {
		if err := jobs.Every("cache-stats", "Report kick cache stats", cacheStatsInterval, func(context.Context) error {
			reportCacheStats(kickCache)
			return nil
		}); err != nil {
			return err
		}
	}
	jobs.Start()
	defer func() {
		if err := jobs.Stop(); err != nil {
			log.Warn("failed to stop scheduler", "error", err)
		}
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})

	log.Info("kickit started successfully")
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("kickit stopped")
	return nil
}

func reportCacheStats(kickCache *cache.KickCache) {
	stats := kickCache.Stats()
	log.Debug("kick list cache stats",
		"hits", stats.Hits,
		"misses", stats.Miss,
		"set_success", stats.SetSuccess,
		"invalidations", stats.DeleteSuccess,
	)
}
