package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/chatapp-auth/internal/config"
	"github.com/iliyamo/chatapp-auth/internal/database"
	"github.com/iliyamo/chatapp-auth/internal/logging"
	"github.com/iliyamo/chatapp-auth/internal/metrics"
	"github.com/iliyamo/chatapp-auth/internal/queue"
	"github.com/iliyamo/chatapp-auth/internal/repository"
	"github.com/iliyamo/chatapp-auth/internal/router"
	"github.com/iliyamo/chatapp-auth/internal/service"
	"github.com/iliyamo/chatapp-auth/internal/utils"
)

func main() {
	config.LoadDotenv()
	cfg := config.MustLoad()
	log := logging.New(cfg.Env, cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	users, closeDB, err := database.OpenDirectory(ctx, cfg.DatabaseURL, cfg.Migrate, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB(context.Background()) }()

	cacheCfg := config.LoadUserCacheConfig()
	if cacheCfg.Enabled {
		if rdb := config.NewRedisClient(); rdb != nil {
			defer rdb.Close()
			users = repository.NewCachedDirectory(users, rdb, cacheCfg.TTL, cacheCfg.Prefix)
			log.WithField("ttl", cacheCfg.TTL).Info("user cache enabled")
		} else {
			log.Warn("redis unavailable; user cache disabled")
		}
	}

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.AMQPURL != "" {
		events = queue.NewAMQPPublisher(cfg.AMQPURL)
		consumer := queue.NewConsumer(cfg.AMQPURL, cfg.EventsLogDir, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("auth-consumer stopped")
			}
		}()
	}

	m := metrics.New()
	svc := service.NewAuthService(users,
		utils.NewHasher(cfg.BcryptCost),
		utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		events, log, m)

	e := router.New(router.Options{Auth: svc, Metrics: m, Log: log, CORSOrigins: cfg.CORSOrigins})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
