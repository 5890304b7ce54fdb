// Command propsort sorts JSON or YAML record lists by the first usable value
// found along a list of property paths.
//
//	propsort -by alias -by profile.name -by name people.json
//	propsort -paths people.json.gz
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amp-labs/propsort/build"
	"github.com/amp-labs/propsort/logger"
	"github.com/amp-labs/propsort/telemetry"
)

const telemetryShutdownTimeout = 5 * time.Second

func main() {
	os.Exit(mainWithCode())
}

func mainWithCode() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := logger.ConfigureLogging(ctx, "propsort"); err != nil {
		fmt.Fprintln(os.Stderr, "propsort: configuring logging:", err) //nolint:forbidigo

		return 2 //nolint:mnd
	}

	shutdown := startTelemetry(ctx)
	defer shutdown()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	default:
		logger.Get(ctx).Error("propsort failed", "error", err)

		return 1
	}
}

// startTelemetry enables tracing when configured. Telemetry problems are
// logged and never fail the command.
func startTelemetry(ctx context.Context) func() {
	cfg, err := telemetry.LoadConfigFromEnv(ctx, build.Current(buildInfo).Version)
	if err != nil {
		logger.Get(ctx).Warn("ignoring telemetry configuration", "error", err)

		return func() {}
	}

	shutdown, err := telemetry.Initialize(ctx, cfg)
	if err != nil {
		logger.Get(ctx).Warn("tracing unavailable", "error", err)

		return func() {}
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryShutdownTimeout)
		defer cancel()

		if err := shutdown(ctx); err != nil {
			logger.Get(ctx).Warn("flushing traces failed", "error", err)
		}
	}
}
