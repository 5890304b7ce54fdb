package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/amp-labs/propsort/bgworker"
	"github.com/amp-labs/propsort/build"
	"github.com/amp-labs/propsort/compare"
	amperrors "github.com/amp-labs/propsort/errors"
	"github.com/amp-labs/propsort/logger"
	"github.com/amp-labs/propsort/pathsort"
	"github.com/amp-labs/propsort/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// buildInfo is injected at release time:
//
//	go build -ldflags "-X main.buildInfo=$(cat build.json)"
var buildInfo string //nolint:gochecknoglobals

// run is the whole command. Inputs are decoded and sorted concurrently and
// written in argument order. A failed input is logged and reported in the
// returned error; the remaining inputs are still written.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	cfg, err := parseConfig(ctx, args, stderr)
	if err != nil {
		return err
	}

	if cfg.Version {
		return writeVersion(stdout, build.Current(buildInfo))
	}

	ctx = logger.WithMuted(logger.With(ctx, "run", uuid.NewString()), cfg.Quiet)

	sorter := pathsort.New(cfg.Paths,
		pathsort.WithLocale(cfg.Locale),
		pathsort.WithNumeric(cfg.Numeric),
		pathsort.WithBracketPaths(cfg.Brackets),
		pathsort.WithLogger(logger.Get(ctx)))

	inputs := cfg.Inputs
	if len(inputs) == 0 {
		inputs = []string{stdinName}
	}

	stats := newMetrics()

	results := bgworker.Map(ctx, cfg.Workers, inputs, func(ctx context.Context, name string) (*document, error) {
		ctx = logger.With(ctx, "input", name)

		doc, err := process(ctx, cfg, sorter, stats, name, stdin)
		stats.observeInput(err)

		if err != nil {
			return nil, logger.AnnotateError(err, "input", name)
		}

		return doc, nil
	})

	var errs amperrors.Collection

	out := newOutput(stdout, cfg, sorter)

	for _, res := range results {
		if res.Err != nil {
			logger.Get(ctx).Error("input failed", "error", res.Err)
			errs.Add(res.Err)

			continue
		}

		errs.Add(out.write(res.Value))
	}

	errs.Add(out.close())

	if cfg.MetricsFile != "" {
		errs.Add(stats.writeTo(cfg.MetricsFile))
	}

	return errs.GetError()
}

// writeVersion prints the version line followed by one indented line per
// dependency module.
func writeVersion(w io.Writer, info build.Info) error {
	if _, err := fmt.Fprintln(w, "propsort", info.String()); err != nil {
		return err
	}

	for _, dep := range info.DependencyList() {
		if _, err := fmt.Fprintln(w, "\t"+dep); err != nil {
			return err
		}
	}

	return nil
}

// process reads one input and, unless only paths are listed, sorts it.
func process(
	ctx context.Context, cfg *config, sorter *pathsort.Sorter, stats *metrics, name string, stdin io.Reader,
) (doc *document, err error) {
	ctx, span := telemetry.Tracer(ctx).Start(ctx, "propsort.input",
		trace.WithAttributes(attribute.String("propsort.input", name)))

	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
	}()

	doc, err = readDocument(ctx, name, stdin, cfg.Charset)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("propsort.format", string(doc.format)),
		attribute.String("propsort.charset", doc.charset),
		attribute.Int("propsort.records", len(doc.records)))

	if cfg.ListPaths {
		return doc, nil
	}

	counter := compare.Counting(sorter.Compare)
	start := time.Now()

	slices.SortStableFunc(doc.records, counter.Compare)

	elapsed := time.Since(start)
	stats.observeSort(len(doc.records), counter.Calls(), elapsed)
	span.SetAttributes(attribute.Int64("propsort.comparisons", counter.Calls()))

	logger.Get(ctx).Debug("sorted input",
		"records", len(doc.records),
		"comparisons", counter.Calls(),
		"elapsed", elapsed)

	return doc, nil
}
