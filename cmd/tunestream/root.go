package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/hszk-dev/tunestream/internal/config"
	"github.com/hszk-dev/tunestream/internal/httpserver"
	"github.com/hszk-dev/tunestream/internal/infrastructure/cache"
	"github.com/hszk-dev/tunestream/internal/infrastructure/extractor"
	"github.com/hszk-dev/tunestream/internal/infrastructure/search"
	"github.com/hszk-dev/tunestream/internal/player"
	"github.com/hszk-dev/tunestream/internal/session"
	"github.com/hszk-dev/tunestream/internal/usecase"
	"github.com/hszk-dev/tunestream/internal/worker"
)

var flags struct {
	cacheDir     string
	cacheBackend string
	cacheTTL     time.Duration
	maxResults   int
	slow         bool
	debugAddr    string
}

// rootCmd starts the interactive player when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "tunestream",
	Short: "Interactive YouTube audio player",
	Long: `tunestream resolves free-text searches to audio streams and plays
them through mpv. Searches are cached on disk so repeated queries start
playing almost instantly; stream extraction runs in the background while
the result is printed.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVar(&flags.cacheDir, "cache-dir", "", "search cache directory (default ./yt_cache)")
	rootCmd.Flags().StringVar(&flags.cacheBackend, "cache-backend", "", "cache backend: filesystem or redis")
	rootCmd.Flags().DurationVar(&flags.cacheTTL, "cache-ttl", 0, "search cache entry lifetime (default 1h)")
	rootCmd.Flags().IntVar(&flags.maxResults, "max-results", 0, "search results fetched per query (default 3)")
	rootCmd.Flags().BoolVar(&flags.slow, "slow", false, "start with fast mode off (direct resolution only)")
	rootCmd.Flags().StringVar(&flags.debugAddr, "debug-addr", "", "debug listener address, e.g. localhost:6060")
	rootCmd.AddCommand(versionCmd)
}

func run(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)

	// Logs go to stderr; stdout belongs to the interactive prompt.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.Cache.Backend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
	}

	resultCache, err := cache.New(cfg.Cache, redisClient)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer resultCache.Close()

	pool := worker.NewPool(cfg.Worker.PoolSize)

	resolver := usecase.NewResolveService(
		search.NewClient(cfg.Search),
		extractor.NewYtdlpExtractor(extractor.Config{
			Path:          cfg.Extract.YtdlpPath,
			SocketTimeout: cfg.Extract.SocketTimeout,
			Retries:       cfg.Extract.Retries,
		}),
		resultCache,
		pool,
		usecase.ResolveServiceConfig{MaxResults: cfg.Search.MaxResults},
	)

	p, err := player.Start(ctx, cfg.Player)
	if err != nil {
		return fmt.Errorf("failed to start player: %w", err)
	}

	errCh := make(chan error, 1)
	var debugSrv *httpserver.Server
	if cfg.Debug.Addr != "" {
		debugSrv = httpserver.New(cfg.Debug.Addr, logger)
		debugSrv.Start(errCh)
	}

	sess := session.New(resolver, p, logger, os.Stdin, os.Stdout, session.Config{
		FastMode: !flags.slow,
	})

	runErr := make(chan error, 1)
	go func() {
		runErr <- sess.Run(ctx)
	}()

	select {
	case err = <-errCh:
	case err = <-runErr:
	case <-ctx.Done():
		err = nil
	}

	shutdown(cfg, logger, p, pool, debugSrv)
	return err
}

// shutdown releases the player, drains the pool, and stops the debug
// listener, each under its own timeout.
func shutdown(cfg *config.Config, logger *slog.Logger, p player.Player, pool *worker.Pool, debugSrv *httpserver.Server) {
	if err := p.Terminate(); err != nil {
		logger.Warn("player terminate failed", slog.String("error", err.Error()))
	}

	poolCtx, cancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout)
	defer cancel()
	if err := pool.Shutdown(poolCtx); err != nil {
		logger.Warn("worker pool shutdown timed out, tasks cancelled", slog.String("error", err.Error()))
	}

	if debugSrv != nil {
		debugCtx, cancel := context.WithTimeout(context.Background(), cfg.Debug.ShutdownTimeout)
		defer cancel()
		if err := debugSrv.Shutdown(debugCtx); err != nil {
			logger.Warn("debug server shutdown failed", slog.String("error", err.Error()))
		}
	}
}

// applyFlags lets command-line flags override environment configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("cache-dir") {
		cfg.Cache.Dir = flags.cacheDir
	}
	if cmd.Flags().Changed("cache-backend") {
		cfg.Cache.Backend = flags.cacheBackend
	}
	if cmd.Flags().Changed("cache-ttl") {
		cfg.Cache.TTL = flags.cacheTTL
	}
	if cmd.Flags().Changed("max-results") {
		cfg.Search.MaxResults = flags.maxResults
	}
	if cmd.Flags().Changed("debug-addr") {
		cfg.Debug.Addr = flags.debugAddr
	}
}
