package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rocketshoes-cart/internal/config"
	"rocketshoes-cart/internal/db"
	"rocketshoes-cart/internal/inventory"
	"rocketshoes-cart/internal/repository/product"
	productsvc "rocketshoes-cart/internal/service/product"
	"rocketshoes-cart/internal/telemetry"

	"github.com/sirupsen/logrus"
)

const serviceName = "rocketshoes-inventory"

var log *logrus.Logger

func init() {
	log = logrus.New()
	log.Level = logrus.InfoLevel
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout
}

func main() {
	cfg := config.FromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("init tracing: %v", err)
	}

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	catalog := productsvc.New(product.NewPostgres(pool, nil))
	srv := &http.Server{
		Addr:              cfg.InventoryAddr,
		Handler:           inventory.NewRouter(serviceName, catalog, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("inventory service listening on %s", cfg.InventoryAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("http: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.WithError(err).Warn("tracer shutdown failed")
	}
}
