// Command cartd serves the cart over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/rocketshoes-cart/internal/api"
	"github.com/example/rocketshoes-cart/internal/app"
	"github.com/example/rocketshoes-cart/internal/config"
	"github.com/example/rocketshoes-cart/internal/logging"
	"github.com/example/rocketshoes-cart/internal/notification"
	"golang.org/x/sync/errgroup"
)

func main() {
	configFile := flag.String("config", config.DefaultConfigFile, "path to the YAML config file")
	envFile := flag.String("env", config.DefaultEnvFile, "path to the .env file")
	flag.Parse()

	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logger.WithField("component", "cartd")
	log.Infof("Configuration: %s", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wired, err := app.NewCart(ctx, cfg, logger)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize cart")
	}
	defer wired.Close()

	// load before serving so a broken store shows up in the startup log
	if err := wired.Store.Load(ctx); err != nil {
		log.WithError(err).Warn("Cart storage unreadable, mutations are rejected until it recovers")
	}

	handlers := api.NewHandlers(wired.Store, notification.NewLogNotifier(logger), logger)
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(handlers, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", cfg.Server.Addr).Info("Server started")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Server stopped with error")
		os.Exit(1)
	}
	log.Info("Server stopped")
}
