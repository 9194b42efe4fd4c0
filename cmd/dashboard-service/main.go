package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/bsm/redislock"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/config"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/realtime"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/server"
	"github.com/sirupsen/logrus"
)

const (
	connectAttempts = 5
	shutdownTimeout = 30 * time.Second
)

func main() {
	logger := config.GetLogger()

	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		os.Exit(1)
	}

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	publisher := realtime.NewPublisher(
		realtime.WithLogger(logger),
		realtime.WithLocation(settings.Location()),
	)

	// Optional backends: each one that fails to connect is logged and skipped.
	var locker *redislock.Client
	var cache *realtime.SnapshotCache
	var rateLimiter *server.RateLimiter
	if settings.RedisAddress != "" {
		if err := config.ConnectRedisWithRetry(sigCtx, settings.RedisAddress, connectAttempts); err != nil {
			config.LogError(logger, "main.go", "main", "Redis unavailable; snapshot cache disabled", settings.RedisAddress, err)
		} else {
			cache = realtime.NewSnapshotCache(config.GetRedisDB(), settings.SnapshotKey, settings.SnapshotTTL)
			publisher.Subscribe(cache.Observe)
			locker = config.GetRedisLock()
			if settings.RateLimitEnabled {
				rateLimiter = server.NewRateLimiter(config.GetRedisDB(), settings.RateLimitMax, settings.RateLimitWindow)
			}
		}
	}

	var topic *pubsub.Topic
	if settings.DashboardTopic != "" && config.PubSubConfigured() {
		client, err := config.GetPubSubClient(sigCtx, connectAttempts)
		if err == nil {
			topic, err = config.CreateTopicIfNotExists(sigCtx, client, settings.DashboardTopic)
		}
		if err != nil {
			config.LogError(logger, "main.go", "main", "Pub/Sub unavailable; snapshot broadcast disabled", settings.DashboardTopic, err)
		} else {
			publisher.Subscribe(realtime.NewTopicBroadcaster(topic, settings.BusinessId).Observe)
		}
	}

	var refresher server.Refresher
	if config.DatabaseConfigured() {
		if err := config.ConnectDatabaseWithRetry(connectAttempts); err != nil {
			config.LogError(logger, "main.go", "main", "Database unavailable; refresh disabled", nil, err)
		} else {
			r := realtime.NewRefresher(publisher, models.NewGormDataSource(config.GetDB()), locker)
			if cache != nil {
				r.EvictOnFailure(cache)
			}
			refresher = r
		}
	}

	if refresher != nil && settings.BusinessId != "" {
		if _, err := refresher.Refresh(sigCtx, settings.BusinessId); err != nil {
			config.LogError(logger, "main.go", "main", "Initial refresh failed", settings.BusinessId, err)
		}
	}

	r := server.NewRouter(server.Deps{
		Publisher:      publisher,
		Refresher:      refresher,
		RateLimiter:    rateLimiter,
		BusinessId:     settings.BusinessId,
		Locale:         settings.Locale,
		Logger:         logger,
		AllowedOrigins: settings.AllowedOrigins,
		Production:     settings.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	logger.WithFields(logrus.Fields{
		"port":        settings.Port,
		"business_id": settings.BusinessId,
		"locale":      settings.Locale,
		"timezone":    settings.Timezone,
	}).Info("dashboard service started")

	select {
	case <-sigCtx.Done():
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if topic != nil {
		topic.Stop()
	}
	if db := config.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}
