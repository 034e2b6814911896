// Package cmd implements the CLI command structure for taskdeck.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/kv"
	"github.com/taskdeck/taskdeck/internal/logging"
	"github.com/taskdeck/taskdeck/internal/session"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskdeck CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskdeck", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	logger := logging.FromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps)

	// Determine the subcommand; with none, open the TUI.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, logger)
	case "ls":
		return lsCommand(cfg, logger, remainingArgs)
	case "add":
		return addCommand(cfg, logger, remainingArgs)
	case "done":
		return toggleCommand(cfg, logger, remainingArgs, true)
	case "undo":
		return toggleCommand(cfg, logger, remainingArgs, false)
	case "edit":
		return editCommand(cfg, logger, remainingArgs)
	case "rm":
		return rmCommand(cfg, logger, remainingArgs)
	case "clear":
		return clearCommand(cfg, logger, remainingArgs)
	case "stats":
		return statsCommand(cfg, logger, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "example-config":
		fmt.Print(config.ExampleConfig())
		return nil
	case "version", "--version":
		return versionCommand()
	case "help", "--help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openBackend builds the storage backend the config selects.
func openBackend(cfg *config.Config) (kv.Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return kv.NewSQLiteBackend(filepath.Join(cfg.DataDir, "taskdeck.db"))
	default:
		return kv.NewFileBackend(cfg.DataDir)
	}
}

// openSession opens the backend and returns a loaded session. The caller
// must Close the returned backend.
func openSession(cfg *config.Config) (*session.Session, kv.Backend, error) {
	backend, err := openBackend(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s backend: %w", cfg.Backend, err)
	}
	sess := session.New(store.New(backend))
	if err := sess.Load(); err != nil {
		_ = backend.Close()
		return nil, nil, err
	}
	return sess, backend, nil
}

func tuiCommand(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	backend, err := openBackend(cfg)
	if err != nil {
		return fmt.Errorf("opening %s backend: %w", cfg.Backend, err)
	}
	defer backend.Close()

	logger.Debug("starting tui", "backend", cfg.Backend, "data_dir", cfg.DataDir)
	sess := session.New(store.New(backend))
	return ui.RunTUI(ctx, sess)
}

func versionCommand() error {
	fmt.Printf("taskdeck %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `taskdeck - a local task manager

Usage:
  taskdeck [flags] [command]

Commands:
  tui             Open the interactive terminal UI (default)
  ls              List tasks
  add TITLE...    Add a task
  done ID         Mark a task done
  undo ID         Mark a task pending
  edit ID         Edit a task's title or description
  rm ID           Delete a task
  clear           Delete all tasks
  stats           Show task counts
  doctor          Check data directory and stored data health
  example-config  Print an example configuration file
  version         Show version

Flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
