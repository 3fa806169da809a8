package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"galaxy/internal/bench"
	"galaxy/internal/evaluator"
	"galaxy/internal/log"
	"galaxy/internal/object"
	"galaxy/internal/parser"
	"galaxy/internal/repl"
	"galaxy/internal/util"
)

var (
	// Version is stamped at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	help    bool
	version bool
	// logging
	logLevel string
	logFile  string
	// run config
	configPath  string
	exprFlag    string
	scan        bool
	stateFlag   string
	interaction string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	// run config
	flag.StringVar(&configPath, "config", "galaxy.toml", "Path of the TOML configuration file")
	flag.StringVar(&exprFlag, "e", "", "Evaluate one expression against the loaded protocol and print it")
	flag.BoolVar(&scan, "scan", false, "Apply the interaction program to every grid point from the config")
	flag.StringVar(&stateFlag, "state", "", "Initial state expression for -scan (overrides config)")
	flag.StringVar(&interaction, "interaction", "", "Entry binding for -scan (overrides config)")
	// log config
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	log.Init(logLevel, logFile)
	defer log.Close()

	if version {
		printVersion()
		return
	}
	if help {
		printHelp()
		return
	}

	cfg, err := util.LoadConfiguration(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg.Version = Version
	cfg.BuildDate = BuildDate
	cfg.Commit = Commit
	if flag.Arg(0) != "" {
		cfg.Protocol = flag.Arg(0)
	}
	if stateFlag != "" {
		cfg.State = stateFlag
	}
	if interaction != "" {
		cfg.Interaction = interaction
	}

	env := object.NewEnclosedEnvironment(evaluator.NewStdEnv())
	ev := evaluator.New()

	if cfg.Protocol != "" {
		code, err := os.ReadFile(cfg.Protocol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if err := parser.ParseDefs(env, string(code)); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", cfg.Protocol, err)
			os.Exit(1)
		}
		slog.Info("protocol loaded",
			slog.String("path", cfg.Protocol),
			slog.Int("definitions", env.Len()))
	}

	var rec *bench.Recorder
	if cfg.Bench.Driver != "" {
		rec, err = bench.Open(cfg.Bench.Driver, cfg.Bench.DSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: bench: %v\n", err)
			os.Exit(1)
		}
		defer rec.Close()
	}

	switch {
	case exprFlag != "":
		if err := runExpr(cfg, env, ev, rec); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case scan:
		if err := runScan(cfg, env, ev, rec); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	default:
		repl.Start(os.Stdin, os.Stdout, env, ev)
	}
}

func runExpr(cfg util.Configuration, env *object.Environment, ev *evaluator.Evaluator, rec *bench.Recorder) error {
	expr, err := parser.ParseExpr(env, exprFlag)
	if err != nil {
		return err
	}

	started := time.Now()
	rendered, err := ev.Render(expr)
	if err != nil {
		return err
	}
	elapsed := time.Since(started)

	fmt.Println(rendered)
	fmt.Printf("Evals: %d\n", ev.Count())

	record(rec, cfg.Protocol, exprFlag, ev.Count(), elapsed)
	return nil
}

// runScan drives the interaction program across the configured
// coordinate grid, forcing the result for every point. It reports the
// total force count and wall time, which is what the counter exists
// for.
func runScan(cfg util.Configuration, env *object.Environment, ev *evaluator.Evaluator, rec *bench.Recorder) error {
	program, err := parser.ParseExpr(env, cfg.Interaction)
	if err != nil {
		return err
	}
	state, err := parser.ParseExpr(env, cfg.State)
	if err != nil {
		return err
	}

	started := time.Now()
	for y := cfg.Grid.YMin; y <= cfg.Grid.YMax; y++ {
		slog.Debug("scanning row", slog.Int64("y", y))
		for x := cfg.Grid.XMin; x <= cfg.Grid.XMax; x++ {
			point := object.NewPair(object.NewNumber(x), object.NewNumber(y))
			applied, err := object.Apply(program, state)
			if err != nil {
				return err
			}
			applied, err = object.Apply(applied, point)
			if err != nil {
				return err
			}
			if _, err := ev.Force(applied); err != nil {
				return fmt.Errorf("at (%d,%d): %w", x, y, err)
			}
		}
	}
	elapsed := time.Since(started)

	fmt.Printf("Evals: %d in %s\n", ev.Count(), elapsed.Round(time.Millisecond))

	record(rec, cfg.Protocol, cfg.Interaction, ev.Count(), elapsed)
	return nil
}

func record(rec *bench.Recorder, protocol, expr string, evals int64, elapsed time.Duration) {
	if rec == nil {
		return
	}
	id, err := rec.Record(bench.Run{
		Protocol: protocol,
		Expr:     expr,
		Evals:    evals,
		Duration: elapsed,
	}).Await()
	if err != nil {
		slog.Warn("failed to record run", slog.Any("error", err))
		return
	}
	slog.Info("run recorded", slog.Int64("id", id))
}

func printVersion() {
	fmt.Printf("galaxy version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: galaxy [options] [protocol-file]

Options:
  -config <path>       TOML configuration file. Default is 'galaxy.toml'.
  -e <expr>            Evaluate one expression against the loaded protocol and print it.
  -scan                Apply the interaction program to every grid point from the config.
  -state <expr>        Initial state expression for -scan (overrides config).
  -interaction <name>  Entry binding for -scan (overrides config).
  -help                Display this help information and exit.
  -version             Display version information and exit.
  -log-level <level>   Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>     Specify a log file to write logs. Default is stderr.

Details:
This is the galaxy combinator-language evaluator. Without -e or -scan it
starts an interactive session over the loaded protocol.

Examples:
  galaxy -e "ap ap add 1 2"              Evaluate a single expression
  galaxy galaxy.txt -e "ap car :1029"    Evaluate against a loaded protocol
  galaxy galaxy.txt -scan                Sweep the configured grid

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}
