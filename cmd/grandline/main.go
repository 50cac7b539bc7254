// Grand Line is a turn-based pirate combat game played through chat-style
// commands. This binary hosts the bot for one local player.
// Usage: grandline [--version] [--plain] [--script <file>] [--trace] [--verbose] [content_directory]
package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nathoo/grandline/bot"
	"github.com/nathoo/grandline/cli"
	"github.com/nathoo/grandline/config"
	"github.com/nathoo/grandline/engine"
	"github.com/nathoo/grandline/engine/progress"
	"github.com/nathoo/grandline/engine/spawn"
	"github.com/nathoo/grandline/loader"
	"github.com/nathoo/grandline/store"
	"github.com/nathoo/grandline/store/bolt"
	"github.com/nathoo/grandline/store/memory"
	"github.com/nathoo/grandline/store/sqlite"
	"github.com/nathoo/grandline/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		config.Exitf("Error: %v", err)
	}
}

type options struct {
	plain      bool
	trace      bool
	verbose    bool
	version    bool
	contentDir string
	scriptFile string
}

func parseArgs(args []string) (options, error) {
	var opts options
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			opts.version = true
		case "--plain":
			opts.plain = true
		case "--trace":
			opts.trace = true
		case "--verbose":
			opts.verbose = true
		case "--script":
			if i+1 >= len(args) {
				return opts, errors.New("--script requires a file path")
			}
			i++
			opts.scriptFile = args[i]
		default:
			if opts.contentDir == "" {
				opts.contentDir = args[i]
			}
		}
	}
	return opts, nil
}

// run wires the stores, engine and bot, then plays until the input ends.
// Every store opened here is closed before it returns.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintf(stdout, "grandline %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	if opts.contentDir == "" {
		opts.contentDir = cfg.ContentDir
	}

	// The TUI owns the terminal, so logs only go to stderr when asked for.
	logger := log.New(io.Discard, "", 0)
	if opts.verbose {
		logger = log.New(os.Stderr, "grandline: ", log.LstdFlags)
	}

	meta, tables, rules, err := loadContent(opts.contentDir, logger)
	if err != nil {
		return err
	}

	players, closePlayers, err := openPlayers(ctx, cfg.PlayerDB)
	if err != nil {
		return fmt.Errorf("opening player store: %w", err)
	}
	defer closePlayers()

	sessions, closeSessions, err := openSessions(cfg.SessionDB)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer closeSessions()

	rng := newRNG(cfg.Seed, cfg.RNGPosition)
	logger.Printf("rng seed=%d position=%d", rng.Seed(), rng.Position())
	defer func() {
		logger.Printf("rng seed=%d position=%d", rng.Seed(), rng.Position())
	}()

	eng := engine.New(sessions, rng, engine.WithRules(rules), engine.WithLogger(logger))
	b := bot.New(players, eng, spawn.NewGenerator(tables, rng), logger)
	if _, err := b.Register(ctx, cfg.PlayerID, cfg.PlayerName); err != nil {
		return fmt.Errorf("registering player: %w", err)
	}

	// Script mode: read commands from the file, force plain, echo commands.
	if opts.scriptFile != "" {
		f, err := os.Open(opts.scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := cli.New(b, cfg.PlayerID, meta)
		c.In = f
		c.Out = stdout
		c.EchoInput = true
		c.Trace = opts.trace
		c.Run(ctx)
		return nil
	}

	if opts.plain || !isTerminal() {
		c := cli.New(b, cfg.PlayerID, meta)
		c.Out = stdout
		c.Trace = opts.trace
		c.Run(ctx)
		return nil
	}

	return tui.Run(ctx, b, cfg.PlayerID, meta)
}

// newRNG resumes the stream at position when a seed is configured, and
// starts a fresh random seed otherwise.
func newRNG(seed, position int64) *engine.RNG {
	if seed == 0 {
		return engine.NewRNG(randomSeed())
	}
	return engine.RestoreRNG(seed, position)
}

// loadContent compiles the Lua content pack in dir, or falls back to the
// built-in tables when dir is empty.
func loadContent(dir string, logger *log.Logger) (loader.Meta, spawn.Tables, progress.Rules, error) {
	if dir == "" {
		return loader.Meta{Title: "Grand Line", Intro: "Set sail! Type 'explore' to find a fight."},
			spawn.DefaultTables(), progress.DefaultRules(), nil
	}
	content, err := loader.Load(dir)
	if err != nil {
		return loader.Meta{}, spawn.Tables{}, progress.Rules{}, fmt.Errorf("loading content: %w", err)
	}
	for _, w := range content.Warnings {
		logger.Printf("content warning: %s", w)
	}
	logger.Printf("content loaded title=%q regions=%d", content.Game.Title, len(content.Tables.Regions))
	return content.Game, content.Tables, content.Rules, nil
}

// openPlayers picks the SQLite store when path is set, memory otherwise.
func openPlayers(ctx context.Context, path string) (store.PlayerStore, func(), error) {
	if path == "" {
		return memory.New(), func() {}, nil
	}
	st, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return st, func() { _ = st.Close() }, nil
}

// openSessions picks the bbolt store when path is set, memory otherwise.
func openSessions(path string) (store.SessionStore, func(), error) {
	if path == "" {
		return memory.New(), func() {}, nil
	}
	st, err := bolt.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return st, func() { _ = st.Close() }, nil
}

func randomSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 1
	}
	if s := int64(binary.LittleEndian.Uint64(buf[:]) >> 1); s != 0 {
		return s
	}
	return 1
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
