package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bryan-buckman/jobdesk/internal/auth"
	"github.com/bryan-buckman/jobdesk/internal/catalog"
	"github.com/bryan-buckman/jobdesk/internal/config"
	"github.com/bryan-buckman/jobdesk/internal/database"
	"github.com/bryan-buckman/jobdesk/internal/model"
	"github.com/bryan-buckman/jobdesk/internal/opml"
	"github.com/bryan-buckman/jobdesk/internal/pages"
	"github.com/bryan-buckman/jobdesk/internal/seed"
	"github.com/bryan-buckman/jobdesk/internal/server"
	"github.com/bryan-buckman/jobdesk/internal/simulate"
	"github.com/bryan-buckman/jobdesk/internal/state"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	}
	if cfg.LogLevel != "" {
		lvl, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zc.Build()
}

func newDatabase(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (database.Store, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("state backend ready", zap.String("backend", db.DatabaseType()))

	if cfg.OverridePoll {
		mins := max(int(cfg.PollInterval/time.Minute), database.MinPollingIntervalMinutes)
		if err := db.SetSetting(model.SettingPollingInterval, strconv.Itoa(mins)); err != nil {
			logger.Warn("store polling interval", zap.Error(err))
		}
	}
	if err := registerSources(db, cfg, logger); err != nil {
		logger.Warn("register job sources", zap.Error(err))
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

func registerSources(db database.Store, cfg *config.Config, logger *zap.Logger) error {
	var entries []opml.Entry
	if cfg.JobFeedsOPML != "" {
		f, err := os.Open(cfg.JobFeedsOPML)
		if err != nil {
			return err
		}
		defer f.Close()
		if entries, err = opml.Parse(f); err != nil {
			return err
		}
	}
	added, err := catalog.RegisterSources(db, cfg.JobFeeds, entries)
	if added > 0 {
		logger.Info("registered job sources", zap.Int("added", added))
	}
	return err
}

func newStore(lc fx.Lifecycle, db database.Store, cfg *config.Config, logger *zap.Logger) *state.Store {
	store := state.New(context.Background(), db, state.Options{
		Key:     cfg.StateKey,
		Catalog: seed.Catalog(),
		Logger:  logger,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store
}

func newSession(lc fx.Lifecycle, store *state.Store, cfg *config.Config, logger *zap.Logger) *pages.Session {
	session := pages.NewSession(pages.Deps{
		Store:  store,
		Clock:  simulate.RealClock(),
		Random: simulate.NewRandom(),
		Logger: logger,
		Timing: pages.Timing{
			ReplyMin:   cfg.ReplyMinDelay,
			ReplyMax:   cfg.ReplyMaxDelay,
			Reschedule: cfg.RescheduleDelay,
			ToastTTL:   cfg.ToastTTL,
		},
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			session.Close()
			return nil
		},
	})
	return session
}

func newPoller(lc fx.Lifecycle, db database.Store, store *state.Store, logger *zap.Logger) *catalog.Poller {
	poller := catalog.NewPoller(db, store, logger)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			poller.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			poller.Stop()
			return nil
		},
	})
	return poller
}

func newProvider(cfg *config.Config) auth.Provider {
	return auth.NewHeaderProvider(cfg.DevUser)
}

func newServer(db database.Store, store *state.Store, session *pages.Session, poller *catalog.Poller, provider auth.Provider, logger *zap.Logger) *server.Server {
	return server.New(db, store, session, poller.Fetcher(), provider, logger)
}

func registerHTTP(lc fx.Lifecycle, cfg *config.Config, srv *server.Server, logger *zap.Logger) {
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", httpServer.Addr)
			if err != nil {
				return err
			}
			logger.Info("server starting", zap.String("addr", httpServer.Addr))
			go func() {
				if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
	})
}

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newDatabase,
			newStore,
			newSession,
			newPoller,
			newProvider,
			newServer,
		),
		fx.Invoke(registerHTTP),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
