package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/whitelistlab/wx-db-kit/internal/config"
	"github.com/whitelistlab/wx-db-kit/internal/decrypt"
	"github.com/whitelistlab/wx-db-kit/internal/metrics"
	"github.com/whitelistlab/wx-db-kit/internal/migrate"
	"github.com/whitelistlab/wx-db-kit/internal/scheduler"
	"github.com/whitelistlab/wx-db-kit/internal/source"
	"github.com/whitelistlab/wx-db-kit/internal/target"
)

func main() {
	var cfgPaths string
	flag.StringVar(&cfgPaths, "c", "./config.yml", "config file path (supports: a.yml,b.yml)")
	flag.Parse()

	log, _ := zap.NewProduction()
	defer log.Sync()

	// optional .env for the decryption key and local overrides
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPaths)
	if err != nil {
		log.Fatal("load config failed", zap.Error(err))
	}

	metrics.Register()
	go serveMetrics(cfg.Metrics.Addr, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := target.Connect(ctx, target.Options{
		URI:         cfg.Target.URI,
		Database:    cfg.Target.Database,
		PingTimeout: cfg.Target.OpTimeout,
	})
	if err != nil {
		log.Fatal("mongo connect failed", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatal("index creation failed", zap.Error(err))
	}
	cps := target.NewCheckpoints(store)

	var dec decrypt.Decryptor = decrypt.Nop{}
	var mrg decrypt.Merger = decrypt.Nop{}
	if cfg.Decrypt.Enabled {
		cmd := decrypt.Command{DecryptCmd: cfg.Decrypt.DecryptCmd, MergeCmd: cfg.Decrypt.MergeCmd}
		dec, mrg = cmd, cmd
	}
	key := os.Getenv(cfg.Decrypt.KeyEnv)

	runCycle := func(ctx context.Context) error {
		if err := dec.Decrypt(ctx, cfg.Decrypt.Dir, key); err != nil {
			return err
		}
		if err := mrg.Merge(ctx); err != nil {
			return err
		}

		// The decrypt step rewrites the source files, so connections are
		// scoped to one cycle.
		msgDB, err := source.Open(source.Options{Path: cfg.Source.MsgDB})
		if err != nil {
			return err
		}
		defer msgDB.Close()
		microDB, err := source.Open(source.Options{Path: cfg.Source.MicroMsgDB})
		if err != nil {
			return err
		}
		defer microDB.Close()

		m := migrate.New(
			source.NewMessageRepo(msgDB.DB),
			source.NewContactRepo(microDB.DB),
			store, cps, log,
			migrate.Options{
				BatchSize:    cfg.Sync.BatchSize,
				NameCacheTTL: cfg.Sync.NameCacheTTL,
			},
		)
		if err := m.MigrateMessages(ctx); err != nil {
			return err
		}
		if err := m.MigrateContacts(ctx); err != nil {
			return err
		}
		return m.MigrateChatRooms(ctx)
	}

	sched, err := scheduler.New(runCycle, log, scheduler.Options{
		Interval: cfg.Sync.Interval,
		Cron:     cfg.Sync.Cron,
	})
	if err != nil {
		log.Fatal("scheduler init failed", zap.Error(err))
	}

	log.Info("wx-sync started",
		zap.String("msg_db", cfg.Source.MsgDB),
		zap.String("micromsg_db", cfg.Source.MicroMsgDB),
		zap.String("database", cfg.Target.Database),
		zap.Duration("interval", cfg.Sync.Interval),
		zap.String("metrics", cfg.Metrics.Addr),
	)

	sched.Run(ctx)
	log.Info("wx-sync stopped")
}

func serveMetrics(addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 2 * time.Second,
	}
	log.Info("metrics listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("metrics server error", zap.Error(err))
	}
}
