package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"strings"

	"github.com/amp-labs/propsort/bgworker"
	"github.com/amp-labs/propsort/envutil"
	amperrors "github.com/amp-labs/propsort/errors"
	"github.com/amp-labs/propsort/pathsort"
	"github.com/amp-labs/propsort/xform"
	"golang.org/x/text/language"
)

var (
	ErrNoPaths          = errors.New("no sort paths given (use -by or PROPSORT_PATHS)")
	ErrConflictingModes = errors.New("-extract and -paths cannot be combined")
	ErrStdinRepeated    = errors.New("standard input (-) can only be read once")
)

const (
	envPaths       = "PROPSORT_PATHS"
	envLocale      = "PROPSORT_LOCALE"
	envNumeric     = "PROPSORT_NUMERIC"
	envFormat      = "PROPSORT_FORMAT"
	envWorkers     = "PROPSORT_WORKERS"
	envMetricsFile = "PROPSORT_METRICS_FILE"
	envCharset     = "PROPSORT_CHARSET"
	envQuiet       = "PROPSORT_QUIET"
	envBrackets    = "PROPSORT_BRACKET_PATHS"
)

type config struct {
	Paths       []string
	Format      inputFormat
	Locale      language.Tag
	Numeric     bool
	Brackets    bool
	Extract     bool
	ListPaths   bool
	Version     bool
	Quiet       bool
	Workers     int
	MetricsFile string
	Charset     string
	Inputs      []string
}

// multiFlag collects every occurrence of a repeatable flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)

	return nil
}

// flagSource returns a reader for the flag value when the flag was given on
// the command line, and env otherwise.
func flagSource(given map[string]bool, name string, value string, env envutil.Reader[string]) envutil.Reader[string] {
	if given[name] {
		return envutil.NewReader("-"+name, true, nil, value)
	}

	return env
}

// parseConfig reads flags from args. Flags win over the environment.
// Every invalid setting is reported, not just the first one.
func parseConfig(ctx context.Context, args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("propsort", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		by          multiFlag
		format      string
		locale      string
		numeric     bool
		brackets    bool
		quiet       bool
		workers     string
		metricsFile string
		charsetName string
		cfg         config
	)

	fs.Var(&by, "by", "sort path in priority order, e.g. profile.name (repeatable)")
	fs.StringVar(&format, "format", "json", "output format: json or yaml")
	fs.StringVar(&locale, "locale", pathsort.DefaultLocale.String(), "collation locale (BCP 47)")
	fs.BoolVar(&numeric, "numeric", false, "collate digit runs by numeric value")
	fs.BoolVar(&brackets, "bracket-paths", false, "also accept sort paths in bracket notation, e.g. $['a.b']")
	fs.BoolVar(&cfg.Extract, "extract", false, "print group and extracted value per sorted record")
	fs.BoolVar(&cfg.ListPaths, "paths", false, "print every leaf path found in the input instead of sorting")
	fs.BoolVar(&cfg.Version, "version", false, "print build information and exit")
	fs.BoolVar(&quiet, "quiet", false, "suppress log output while processing inputs")
	fs.StringVar(&workers, "workers", "", "number of inputs processed concurrently")
	fs.StringVar(&metricsFile, "metrics-file", "", "write Prometheus text-format metrics to this file")
	fs.StringVar(&charsetName, "charset", "", "input charset label (detected when omitted)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	given := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })

	if cfg.Version {
		return &cfg, nil
	}

	var errs amperrors.Collection

	cfg.Inputs = fs.Args()

	if countOf(cfg.Inputs, stdinName) > 1 {
		errs.Add(ErrStdinRepeated)
	}

	if len(by) > 0 {
		paths, err := xform.TrimStrings(by)
		errs.Add(err)

		cfg.Paths = paths
	} else {
		paths, err := envutil.StringSlice(ctx, envPaths, ",").Value()
		if err != nil && !errors.Is(err, envutil.ErrEnvVarMissing) {
			errs.Add(err)
		}

		cfg.Paths = paths
	}

	if cfg.Extract && cfg.ListPaths {
		errs.Add(ErrConflictingModes)
	}

	if len(cfg.Paths) == 0 && !cfg.ListPaths && !errs.HasError() {
		errs.Add(ErrNoPaths)
	}

	formatName, err := flagSource(given, "format", format, envutil.String(ctx, envFormat)).
		Map(xform.TrimString).
		Map(xform.ToLower).
		Map(xform.OneOf(string(formatJSON), string(formatYAML))).
		WithDefault(string(formatJSON)).
		Value()
	errs.Add(err)

	cfg.Format = inputFormat(formatName)

	cfg.Locale, err = envutil.Map(
		flagSource(given, "locale", locale, envutil.String(ctx, envLocale)).Map(xform.TrimString),
		xform.LanguageTag,
	).WithDefault(pathsort.DefaultLocale).Value()
	errs.Add(err)

	cfg.Numeric, err = boolSetting(given, "numeric", numeric, envutil.String(ctx, envNumeric))
	errs.Add(err)

	// Zero leaves the pool size to bgworker.
	cfg.Workers, err = envutil.Map(
		envutil.Map(flagSource(given, "workers", workers, envutil.String(ctx, envWorkers)).Map(xform.TrimString), xform.Int64),
		xform.CastNumeric[int64, int],
	).With(
		envutil.Fallback(envutil.Int[int](ctx, bgworker.EnvWorkerCount)),
		envutil.Positive[int](),
		envutil.Default(0),
	).Value()
	errs.Add(err)

	cfg.Brackets, err = boolSetting(given, "bracket-paths", brackets, envutil.String(ctx, envBrackets))
	errs.Add(err)

	cfg.Quiet, err = boolSetting(given, "quiet", quiet, envutil.String(ctx, envQuiet))
	errs.Add(err)

	flagSource(given, "metrics-file", metricsFile, envutil.String(ctx, envMetricsFile)).
		DoWithValue(func(path string) { cfg.MetricsFile = path })
	flagSource(given, "charset", charsetName, envutil.String(ctx, envCharset)).
		DoWithValue(func(label string) { cfg.Charset = label })

	if errs.HasError() {
		return nil, errs.GetError()
	}

	return &cfg, nil
}

func countOf(items []string, want string) int {
	count := 0

	for _, item := range items {
		if item == want {
			count++
		}
	}

	return count
}

// boolSetting resolves a boolean flag against its environment variable.
// Unset means false.
func boolSetting(given map[string]bool, name string, value bool, env envutil.Reader[string]) (bool, error) {
	return envutil.Map(flagSource(given, name, boolString(value), env).Map(xform.TrimString), xform.Bool).
		WithDefault(false).
		Value()
}

func boolString(b bool) string {
	if b {
		return "true"
	}

	return "false"
}
