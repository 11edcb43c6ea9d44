package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rocketshoes-cart/internal/backend"
	"rocketshoes-cart/internal/config"
	"rocketshoes-cart/internal/httpserver"
	"rocketshoes-cart/internal/metrics"
	"rocketshoes-cart/internal/notify"
	cartsvc "rocketshoes-cart/internal/service/cart"
	"rocketshoes-cart/internal/service/session"
	"rocketshoes-cart/internal/telemetry"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, "rocketshoes-api", cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatalf("init tracing: %v", err)
	}

	backends, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open backends: %v", err)
	}
	defer backends.Close()

	cartMetrics := metrics.NewCartMetrics("api")

	var keyed func(string) cartsvc.Notifier
	if cfg.StanURL != "" {
		clientID := cfg.StanClientID
		if clientID == "" {
			clientID = fmt.Sprintf("rocketshoes-api-%d", os.Getpid())
		}
		publisher, err := notify.DialStan(notify.StanConfig{
			URL:       cfg.StanURL,
			ClusterID: cfg.StanClusterID,
			ClientID:  clientID,
			Subject:   cfg.StanSubject,
		}, logger)
		if err != nil {
			logger.Fatalf("connect nats streaming: %v", err)
		}
		defer publisher.Close()
		keyed = func(key string) cartsvc.Notifier { return publisher.WithKey(key) }
		logger.Printf("publishing cart notifications to %s on %s", cfg.StanSubject, cfg.StanURL)
	}

	sessions := session.New(session.Options{
		Namespace: cfg.CartNamespace,
		TTL:       cfg.SessionTTL,
		Cart: cartsvc.Deps{
			Inventory: backends.Inventory,
			Sink:      backends.CartState,
			Notifier:  notify.NewLogger(logger),
			Messages:  cartsvc.MessagesFor(cfg.CartLocale),
			Logger:    logger,
			Metrics:   cartMetrics,
		},
		Keyed:   keyed,
		Observe: cartMetrics.ObserveCart,
		Logger:  logger,
	})
	go sessions.Run(ctx, time.Minute)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Sessions:       sessions,
		Ready:          backends.CartState,
		Metrics:        cartMetrics.Handler(),
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Printf("tracer shutdown: %v", err)
	}
}
