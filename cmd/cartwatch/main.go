// Command cartwatch prints cart activity published to Kafka.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/rocketshoes-cart/internal/config"
	"github.com/example/rocketshoes-cart/internal/infrastructure/kafka"
	"github.com/example/rocketshoes-cart/internal/logging"
	"github.com/example/rocketshoes-cart/internal/notification"
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
	log := logger.WithField("component", "cartwatch")

	if !cfg.Kafka.Enabled() {
		log.Fatal("kafka.brokers is not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, logger)
	defer consumer.Close()

	handler := notification.NewHandler(os.Stdout, logger)
	log.WithField("topic", cfg.Kafka.Topic).Info("Watching cart activity")

	if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("Consumer stopped")
		os.Exit(1)
	}
}
