// Package main provides the europa command: run a script file, evaluate
// inline code, or work in the interactive REPL.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"

	"github.com/iotaledger/hive.go/logger"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dueldanov/europa/internal/config"
	"github.com/dueldanov/europa/internal/engine"
	"github.com/dueldanov/europa/internal/environment"
	europaerrors "github.com/dueldanov/europa/internal/errors"
	"github.com/dueldanov/europa/internal/interpreter"
	"github.com/dueldanov/europa/internal/logging"
	"github.com/dueldanov/europa/internal/metrics"
	"github.com/dueldanov/europa/internal/value"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const banner = "Welcome to the Europa Interactive Repl."

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options holds the parsed command line
type options struct {
	code        string
	file        string
	repl        bool
	verbose     bool
	configPath  string
	reportPath  string
	metricsAddr string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("europa", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.code, "e", "", "Evaluate CODE instead of a file")
	fs.BoolVar(&opts.repl, "r", false, "Continue in the REPL after running FILE or CODE")
	fs.BoolVar(&opts.verbose, "v", false, "Print per-stage timings and debug logs")
	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&opts.reportPath, "report", "", "Write a JSON step report to this path")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Europa interpreter\n\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  europa [options] [FILE]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  europa script.eu\n")
		fmt.Fprintf(stderr, "  europa -e 'print(1 + 2);'\n")
		fmt.Fprintf(stderr, "  europa -r script.eu\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.file = fs.Arg(0)
	default:
		fs.Usage()
		return nil, errors.New("at most one FILE may be given")
	}
	if opts.file != "" && opts.code != "" {
		fs.Usage()
		return nil, errors.New("-e and FILE cannot be combined")
	}
	return opts, nil
}

// resolveConfig loads the config file and lets flags override it
func resolveConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	if opts.reportPath != "" {
		cfg.ReportFile = opts.reportPath
	}
	if opts.metricsAddr != "" {
		cfg.MetricsAddr = opts.metricsAddr
	}
	return cfg, nil
}

func newRootLogger(verbose bool) *logger.Logger {
	if !verbose {
		return zap.NewNop().Sugar()
	}
	z, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return z.Sugar().Named("europa")
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "europa: %v\n", err)
		return exitUsage
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "europa: %v\n", err)
		return exitError
	}

	log := newRootLogger(cfg.Verbose)
	defer func() { _ = log.Sync() }()

	engineOpts := []engine.Option{
		engine.WithMaxScriptSize(cfg.MaxScriptSize),
		engine.WithInterpreterOptions(
			interpreter.WithOutput(stdout),
			interpreter.WithMaxCallDepth(cfg.MaxCallDepth),
		),
	}
	if cfg.CacheSize > 0 {
		engineOpts = append(engineOpts, engine.WithCache(engine.NewProgramCache(cfg.CacheSize)))
	}
	if cfg.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		engineOpts = append(engineOpts, engine.WithMetrics(metrics.NewMetrics(registry)))
		srv, err := serveMetrics(cfg.MetricsAddr, registry, log)
		if err != nil {
			fmt.Fprintf(stderr, "europa: %v\n", err)
			return exitError
		}
		defer srv.Close()
	}
	eng := engine.New(log, engineOpts...)

	workflow, source := logging.WorkflowREPL, "<repl>"
	switch {
	case opts.file != "":
		workflow, source = logging.WorkflowFile, opts.file
	case opts.code != "":
		workflow, source = logging.WorkflowEval, "<eval>"
	}

	stepLogger := logging.NewDisabledLogger()
	if cfg.Verbose || cfg.ReportFile != "" {
		stepLogger = logging.NewLogger(workflow, cfg.ReportFile)
		stepLogger.WithSource(source)
		if cfg.Verbose {
			stepLogger.SetOutput(stderr)
		} else {
			stepLogger.SetOutput(nil)
		}
	}
	ctx := logging.WithLogger(context.Background(), stepLogger)
	defer func() {
		if err := stepLogger.Flush(); err != nil {
			fmt.Fprintf(stderr, "europa: %v\n", err)
		}
	}()

	env := eng.NewSession()

	if opts.file != "" || opts.code != "" {
		text := opts.code
		if opts.file != "" {
			data, err := os.ReadFile(opts.file)
			if err != nil {
				fmt.Fprintf(stderr, "europa: %v\n", errors.Wrap(err, "read script"))
				return exitError
			}
			text = string(data)
		}

		if _, err := eng.RunContext(ctx, text, env); err != nil {
			displayError(stderr, err)
			return exitError
		}
		if !opts.repl {
			return exitOK
		}
	}

	r := &repl{
		engine: eng,
		env:    env,
		ctx:    ctx,
		out:    stdout,
		errOut: stderr,
	}
	if opts.file == "" && opts.code == "" {
		fmt.Fprintln(stdout, banner)
	}
	if err := r.runInteractive(stdin, cfg.HistoryFile); err != nil {
		fmt.Fprintf(stderr, "europa: %v\n", err)
		return exitError
	}
	return exitOK
}

// serveMetrics binds addr before returning so a busy address is reported
// to the caller instead of failing in the background.
func serveMetrics(addr string, registry *prometheus.Registry, log *logger.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen for metrics on %s", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warnf("metrics server stopped: %v", err)
		}
	}()
	log.Infof("serving metrics on %s/metrics", ln.Addr())
	return srv, nil
}

// displayError prints script errors as diagnostics and anything else with
// the command prefix.
func displayError(w io.Writer, err error) {
	if scriptErr, ok := europaerrors.As(err); ok {
		scriptErr.Display(w)
		return
	}
	fmt.Fprintf(w, "europa: %v\n", err)
}

// bindings renders the names bound directly in env, one per line
func bindings(env *environment.Environment) []string {
	lines := make([]string, 0, env.Len())
	for _, name := range env.Names() {
		v, err := env.Get(name)
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s = %s", name, value.Quote(v)))
	}
	return lines
}
