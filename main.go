package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yumyai/ppp-onestep/internal/config"
	"github.com/yumyai/ppp-onestep/logger"
	"github.com/yumyai/ppp-onestep/pkg/handler"
	"github.com/yumyai/ppp-onestep/pkg/pepstats"
	"github.com/yumyai/ppp-onestep/pkg/render"
)

// version can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

type options struct {
	fasta   string
	out     string
	tool    string
	envFile string
	lenient bool
	verbose bool
	version bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("ppp-onestep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.fasta, "fasta", "", "protein sequence file (required)")
	fs.StringVar(&opts.fasta, "f", "", "shorthand for -fasta")
	fs.StringVar(&opts.out, "out", "", "output directory (required)")
	fs.StringVar(&opts.out, "o", "", "shorthand for -out")
	fs.StringVar(&opts.tool, "tool", "", "pepstats binary (default $"+config.EnvPepstats+" or pepstats)")
	fs.StringVar(&opts.envFile, "env", "", "dotenv file to load (default ./.env)")
	fs.BoolVar(&opts.lenient, "lenient", false, "keep going when pepstats fails or the report has no sequence blocks")
	fs.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ppp-onestep -f <sequences.fasta> -o <output dir> [options]\n\n")
		fmt.Fprintf(stderr, "Runs EMBOSS pepstats and summarises the report with a Kyte-Doolittle hydrophobicity score.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.version {
		return opts, nil
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.fasta == "" || opts.out == "" {
		fs.Usage()
		return nil, errors.New("both -fasta and -out are required")
	}
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {

	opts, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "error:", err)
		}
		return exitUsage
	}
	if opts.version {
		fmt.Fprintln(stdout, "ppp-onestep", version)
		return exitOK
	}

	// Establish logger
	if err := logger.InitLogger(zapcore.InfoLevel); err != nil {
		fmt.Fprintln(stderr, "error: init logger:", err)
		return exitFail
	}
	defer logger.Sync() // Make sure that the buffered is flushed.

	var envFiles []string
	if opts.envFile != "" {
		envFiles = append(envFiles, opts.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		return exitUsage
	}

	level, ok := logger.ParseLevel(cfg.LogLevel)
	if !ok {
		logger.Warn("Unknown log level, using info", zap.String("provided", cfg.LogLevel))
	}
	if opts.verbose {
		level = zapcore.DebugLevel
	}
	if level != zapcore.InfoLevel {
		if err := logger.InitLogger(level); err != nil {
			fmt.Fprintln(stderr, "error: init logger:", err)
			return exitFail
		}
	}

	// flags override environment
	if opts.tool != "" {
		cfg.Pepstats = opts.tool
	}
	if opts.lenient {
		cfg.Policy = config.PolicyLenient
	}

	logger.Info("Start:", zap.String("Version", version), zap.String("pepstats", cfg.Pepstats))

	runner := pepstats.NewRunner(cfg.Pepstats, cfg.ToolTimeout)
	if p, err := runner.LookPath(); err != nil {
		logger.Warn("pepstats not found in PATH", zap.String("tool", cfg.Pepstats), zap.Error(err))
	} else {
		logger.Debug("pepstats path", zap.String("path", p))
	}

	rc := &handler.RunContext{
		Runner:       runner,
		SequenceFile: opts.fasta,
		OutputDir:    opts.out,
		Policy:       cfg.Policy,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	job, err := rc.Run(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitFail
	}

	if err := render.RenderSummary(stdout, rc.Summary(job)); err != nil {
		logger.Error("Error rendering summary", zap.Error(err))
		return exitFail
	}

	return exitOK
}
