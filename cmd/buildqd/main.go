package main

import (
	"os"
	"os/signal"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/the-maldridge/buildq/pkg/config"
	"github.com/the-maldridge/buildq/pkg/estimator"
	"github.com/the-maldridge/buildq/pkg/http"
	"github.com/the-maldridge/buildq/pkg/registry"
	"github.com/the-maldridge/buildq/pkg/storage"

	_ "github.com/the-maldridge/buildq/pkg/storage/bc"
)

func main() {
	ll := os.Getenv("BUILDQ_LOG_LEVEL")
	if ll == "" {
		ll = "INFO"
	}
	appLogger := hclog.New(&hclog.LoggerOptions{
		Name:  "buildq",
		Level: hclog.LevelFromString(ll),
	})
	appLogger.Info("buildq is initializing")

	cfg := config.NewConfig()
	if p := os.Getenv("BUILDQ_CONFIG"); p != "" {
		if err := cfg.LoadFromFile(p); err != nil {
			appLogger.Error("Error loading config", "error", err)
			return
		}
	}

	srv, err := http.New(appLogger)
	if err != nil {
		appLogger.Error("Error initializing webserver", "error", err)
		return
	}

	storage.SetLogger(appLogger)
	storage.DoCallbacks()
	store, err := storage.Initialize(cfg.Store)
	if err != nil {
		appLogger.Error("Couldn't initialize storage", "error", err)
		return
	}

	reg := registry.New(appLogger)
	if err := reg.EnablePersistence(store); err != nil {
		appLogger.Error("Couldn't load farm state", "error", err)
		return
	}

	est, err := estimator.New(
		estimator.WithLogger(appLogger),
		estimator.WithSnapshotSource(reg),
	)
	if err != nil {
		appLogger.Error("Couldn't initialize estimator", "error", err)
		return
	}

	srv.Mount("/api/registry", reg.HTTPEntry())
	srv.Mount("/api/estimator", est.HTTPEntry())
	srv.Handle("/metrics", promhttp.Handler())
	go srv.Serve(cfg.Bind)

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, os.Interrupt)

	<-stop

	appLogger.Info("Shutting down")
	store.Close()
	appLogger.Info("Goodbye!")
}
