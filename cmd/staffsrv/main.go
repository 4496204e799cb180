package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/tansive/tansive-workforce/internal/common/logtrace"
	"github.com/tansive/tansive-workforce/internal/staffsrv/app"
	"github.com/tansive/tansive-workforce/internal/staffsrv/config"
)

func init() {
	logtrace.InitLogger()
}

type cmdoptions struct {
	configFile *string
}

func main() {
	slog := log.With().Str("state", "init").Logger()
	opt := parseFlags()

	slog.Info().Str("config_file", *opt.configFile).Msg("loading config file")
	if err := config.LoadConfig(*opt.configFile); err != nil {
		slog.Error().Str("config_file", *opt.configFile).Err(err).Msg("unable to load config file")
		os.Exit(1)
	}
	logtrace.InitLogger(config.Config().LogLevel)
	logtrace.SetTraceEnabled(config.Config().TraceRoutes)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	a, err := app.New(ctx, config.Config())
	if err != nil {
		slog.Error().Err(err).Msg("unable to start workforce server")
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Serve(ctx, ":"+config.Config().ServerPort); err != nil {
		log.Error().Err(err).Msg("workforce server stopped")
		a.Close()
		os.Exit(1)
	}
}

func parseFlags() cmdoptions {
	var opt cmdoptions
	opt.configFile = flag.String("config", "", "Path to the config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
	}
	flag.Parse()
	return opt
}
