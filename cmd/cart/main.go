// Command cart edits the local RocketShoes cart from the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/rocketshoes-cart/internal/app"
	"github.com/example/rocketshoes-cart/internal/config"
	"github.com/example/rocketshoes-cart/internal/domain/cart"
	"github.com/example/rocketshoes-cart/internal/logging"
	"github.com/example/rocketshoes-cart/internal/notification"
	"github.com/example/rocketshoes-cart/internal/view"
)

func main() {
	configFile := flag.String("config", config.DefaultConfigFile, "path to the YAML config file")
	envFile := flag.String("env", config.DefaultEnvFile, "path to the .env file")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), errUsage)
		flag.PrintDefaults()
	}
	flag.Parse()

	os.Exit(run(*configFile, *envFile, flag.Args()))
}

func run(configFile, envFile string, args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configFile, envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	wired, err := app.NewCart(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize cart")
		return 1
	}
	defer wired.Close()

	ctrl := view.NewController(wired.Store, notification.NewLogNotifier(logger))
	if err := execute(ctx, ctrl, args, os.Stdout); err != nil {
		switch {
		case errors.Is(err, errUsage):
			fmt.Fprintln(os.Stderr, err)
			return 2
		case cart.KindOf(err) != cart.KindUnknown:
			fmt.Fprintln(os.Stderr, cart.MessageOf(err))
		default:
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}
