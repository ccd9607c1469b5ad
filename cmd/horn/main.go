package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/ichiban/horn"
	"github.com/ichiban/horn/store"
)

// Version is a version of this build.
var Version = "horn/0.1"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, logrus.New()))
}

// run runs the command with args and returns the exit code.
func run(args []string, stdout io.Writer, log *logrus.Logger) int {
	var (
		cfg        = DefaultConfig()
		configPath string
		query      string
	)
	fs := pflag.NewFlagSet("horn", pflag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", `YAML config file`)
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, `trace goals`)
	fs.StringVarP(&query, "query", "q", "", `print the solutions of the query and exit`)
	fs.StringVar(&cfg.Database, "db", cfg.Database, `SQLite database of saved programs`)
	fs.StringVar(&cfg.Program, "program", cfg.Program, `saved program to load from the database`)
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, `depth limit of the search`)
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if configPath != "" {
		c, err := LoadConfig(configPath)
		if err != nil {
			log.WithError(err).Error("failed to load config")
			return 1
		}
		override(fs, &c, cfg)
		cfg = c
	}

	level, err := cfg.Level()
	if err != nil {
		log.WithError(err).Error("invalid log level")
		return 1
	}
	if cfg.Verbose && level < logrus.InfoLevel {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	i := New(cfg, log)

	var s *store.Store
	if cfg.Database != "" {
		s, err = store.Open(ctx, cfg.Database)
		if err != nil {
			log.WithError(err).Error("failed to open database")
			return 1
		}
		defer s.Close()
	}

	if cfg.Program != "" {
		if s == nil {
			log.Error("--program requires --db")
			return 1
		}
		rs, err := s.Load(ctx, cfg.Program)
		if err != nil {
			log.WithError(err).Error("failed to load program")
			return 1
		}
		i.AddRules(rs...)
	}

	for _, a := range append(cfg.Consult, fs.Args()...) {
		if err := consult(i, a); err != nil {
			log.WithError(err).Error("failed to consult")
			return 1
		}
	}

	if query != "" {
		found, err := runQuery(ctx, stdout, i, query)
		if err != nil {
			log.WithError(err).Error("failed to query")
			return 1
		}
		if !found {
			return 1
		}
		return 0
	}

	if err := interact(ctx, i, s, log); err != nil {
		log.WithError(err).Error("failed")
		return 1
	}
	return 0
}

// override copies the values of the flags set on the command line into c.
func override(fs *pflag.FlagSet, c *Config, flags Config) {
	if fs.Changed("verbose") {
		c.Verbose = flags.Verbose
	}
	if fs.Changed("db") {
		c.Database = flags.Database
	}
	if fs.Changed("program") {
		c.Program = flags.Program
	}
	if fs.Changed("max-depth") {
		c.MaxDepth = flags.MaxDepth
	}
}

func interact(ctx context.Context, i *horn.Interpreter, s *store.Store, log *logrus.Logger) error {
	oldState, err := terminal.MakeRaw(0)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() {
		_ = terminal.Restore(0, oldState)
	}()

	t := terminal.NewTerminal(os.Stdin, "?- ")
	defer fmt.Printf("\r\n")

	log.SetOutput(t)

	r := repl{
		i:     i,
		store: s,
		log:   log,
		in:    t,
		out:   t,
		keys:  bufio.NewReader(os.Stdin),
	}
	for {
		if err := r.handleLine(ctx); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
