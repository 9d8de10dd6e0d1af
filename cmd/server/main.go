package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/session-auth/internal/config"
	"github.com/iliyamo/session-auth/internal/database"
	"github.com/iliyamo/session-auth/internal/handler"
	"github.com/iliyamo/session-auth/internal/logging"
	"github.com/iliyamo/session-auth/internal/middleware"
	"github.com/iliyamo/session-auth/internal/oauth"
	"github.com/iliyamo/session-auth/internal/queue"
	"github.com/iliyamo/session-auth/internal/repository"
	"github.com/iliyamo/session-auth/internal/router"
	"github.com/iliyamo/session-auth/internal/service"
	"github.com/iliyamo/session-auth/internal/utils"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *logging.SlogLogger) error {
	store, db, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	var users repository.CredentialStore = store
	if cfg.Cache.Enabled {
		if rdb := config.NewRedisClient(ctx, cfg.Redis); rdb != nil {
			defer rdb.Close()
			users = repository.NewCachedStore(store, rdb, cfg.Cache, log)
			log.Info(ctx, "user cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Cache.TTL)
		} else {
			log.Warn(ctx, "redis unavailable, user cache disabled", "addr", cfg.Redis.Addr)
		}
	}

	var events service.EventPublisher
	if cfg.Events.Enabled {
		events = queue.NewPublisher(cfg.Events.URL, cfg.Events.Queue)
	}

	codec := utils.NewTokenCodec(cfg.JWTSecret)
	sessions := service.NewSessionManager(users, codec, service.SessionConfig{
		AccessTTL:     cfg.AccessTTL,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.Production(),
		BcryptCost:    cfg.BcryptCost,
	}, events, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	if cfg.CORSOrigin != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.CORSOrigin},
			AllowCredentials: cfg.CORSCredentials,
		}))
	}

	var pinger handler.Pinger
	if db != nil {
		pinger = db
	}
	router.RegisterRoutes(e, pinger)
	router.RegisterAuth(e, handler.NewAuthHandler(sessions, log), codec, users)
	if cfg.Google.Enabled() {
		g := handler.NewGoogleHandler(oauth.NewGoogle(cfg.Google), sessions, cfg.Production(), log)
		router.RegisterGoogle(e, g)
	}

	var wg sync.WaitGroup
	if cfg.Events.Enabled && cfg.Events.Consume {
		c := &queue.Consumer{URL: cfg.Events.URL, Queue: cfg.Events.Queue, LogDir: cfg.Events.LogDir, Log: log}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error(ctx, "auth consumer stopped", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info(ctx, "listening", "addr", addr, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = e.Shutdown(shutdownCtx)
	wg.Wait()
	return err
}

// openStore returns the credential store selected by STORE_DRIVER. The
// *sql.DB is nil for the memory driver.
func openStore(ctx context.Context, cfg config.Config, log logging.Logger) (repository.CredentialStore, *sql.DB, error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn(ctx, "using in-memory credential store; data is lost on restart")
		return repository.NewMemoryStore(), nil, nil
	}

	db, err := database.Open(ctx, database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName))
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repository.NewStore(db), db, nil
}
