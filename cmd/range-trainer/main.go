package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/behrlich/range-trainer/pkg/config"
	"github.com/behrlich/range-trainer/pkg/history"
	"github.com/behrlich/range-trainer/pkg/quiz"
	"github.com/behrlich/range-trainer/pkg/rangedict"
	"github.com/behrlich/range-trainer/pkg/session"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "Usage: range-trainer [flags] <command> [args]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  list                                 list registered range dicts\n")
		fmt.Fprintf(os.Stderr, "  show <dict> [dim=label ...]          print the reference range of a situation\n")
		fmt.Fprintf(os.Stderr, "  set <dict> [dim=label ...] <range>   replace a reference range and save\n")
		fmt.Fprintf(os.Stderr, "  new <name>                           register an empty 6-max range dict\n")
		fmt.Fprintf(os.Stderr, "  practice <dict> [dim=label ...]      enter a range from memory and grade it\n")
		fmt.Fprintf(os.Stderr, "  quiz <dict> [dim=label ...]          quiz single hands\n")
		fmt.Fprintf(os.Stderr, "  stats <dict> [action]                show quiz accuracy and missed hands\n")
		fmt.Fprintf(os.Stderr, "  serve                                run the MCP tool server on stdio\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  range-trainer show 6max Position=HJ Action=3bet VS=UTG\n")
		fmt.Fprintf(os.Stderr, "  range-trainer set 6max Position=UTG Action=RFI \"77+,A9s+,KQs,AJo+\"\n")
		fmt.Fprintf(os.Stderr, "  range-trainer -randomize quiz 6max\n")
		fmt.Fprintf(os.Stderr, "\nFlags:\n")
		fs.PrintDefaults()
	}
}

func run(args []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	flags := flag.NewFlagSet("range-trainer", flag.ContinueOnError)
	cfg.RegisterFlags(flags)
	verbose := flags.Bool("verbose", false, "log debug events")
	flags.Usage = usage(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if flags.NArg() < 1 {
		flags.Usage()
		return errors.New("missing command")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cmd, rest := flags.Arg(0), flags.Args()[1:]
	a, err := newApp(cfg, newLogger(cmd == "serve", *verbose))
	if err != nil {
		return err
	}
	defer a.Close()

	switch cmd {
	case "list":
		return a.list()
	case "show":
		return a.show(rest)
	case "set":
		return a.set(rest)
	case "new":
		return a.create(rest)
	case "practice":
		return a.practice(rest)
	case "quiz":
		return a.runQuiz(rest)
	case "stats":
		return a.stats(rest)
	case "serve":
		return a.serve()
	default:
		flags.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// newLogger routes slog through pterm. The MCP server owns stdout, so its
// logs go to stderr.
func newLogger(serve, verbose bool) *slog.Logger {
	l := pterm.DefaultLogger
	if serve {
		l = *l.WithWriter(os.Stderr)
	}
	if verbose {
		l = *l.WithLevel(pterm.LogLevelDebug)
	}
	return slog.New(pterm.NewSlogHandler(&l))
}

// app wires the configured stores into a session.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	history *history.Store // nil when history is disabled
	sess    *session.Session
}

func newApp(cfg config.Config, log *slog.Logger) (*app, error) {
	reg, err := rangedict.LoadRegistry(cfg.RegistryPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("starting a new registry", slog.String("file", cfg.RegistryPath))
		reg = rangedict.NewRegistry(cfg.RegistryPath)
	} else if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	opts := []session.Option{session.WithLogger(log)}

	if cfg.QuizConfigPath != "" {
		qc, err := quiz.LoadConfig(cfg.QuizConfigPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, session.WithQuizConfig(qc))
	}

	quizOpts := []quiz.Option{
		quiz.WithMarginalOnly(cfg.MarginalOnly),
		quiz.WithRandomizePath(cfg.RandomizePath),
	}
	if cfg.Seed != 0 {
		quizOpts = append(quizOpts, quiz.WithRand(rand.New(rand.NewSource(cfg.Seed))))
	}
	opts = append(opts, session.WithQuizOptions(quizOpts...))

	if cfg.HistoryPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.HistoryPath), 0o755); err != nil {
			return nil, fmt.Errorf("history dir: %w", err)
		}
		store, err := history.NewStore(cfg.HistoryPath)
		if err != nil {
			return nil, err
		}
		a.history = store
		opts = append(opts, session.WithRecorder(store))
	}

	a.sess = session.New(reg, opts...)
	return a, nil
}

// Close releases the history database.
func (a *app) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.log.Warn("closing history failed", slog.String("error", err.Error()))
		}
	}
}
