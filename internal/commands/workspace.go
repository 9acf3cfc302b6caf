package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/tally/internal/aggregate"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/directory"
	"github.com/cleared-dev/tally/internal/logger"
	"github.com/cleared-dev/tally/internal/parser"
)

// workspace is a loaded tally directory: configuration, counterparty
// directory and logger.
type workspace struct {
	root string
	cfg  *config.Config
	dir  *directory.Directory
	log  zerolog.Logger
}

// loadWorkspace reads <root>/tally.yaml and the counterparty directory it
// names. Both fall back to the built-in defaults when the files are absent.
func loadWorkspace(opts *rootOptions, logOut io.Writer) (*workspace, error) {
	root, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.Default()
	default:
		return nil, err
	}
	if err := config.ApplyEnv(cfg, filepath.Join(root, ".env")); err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	log, err := logger.NewConsole(logOut, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	dirPath := cfg.DirectoryPath(root)
	dir, err := directory.Load(dirPath)
	switch {
	case err == nil:
		log.Debug().Str("path", dirPath).Int("entries", dir.Len()).Msg("counterparty directory loaded")
	case errors.Is(err, fs.ErrNotExist):
		log.Debug().Str("path", dirPath).Msg("no counterparty directory, using built-in table")
		dir = directory.Default()
	default:
		return nil, err
	}

	return &workspace{root: root, cfg: cfg, dir: dir, log: log}, nil
}

// aggregator builds the statement pipeline from the workspace configuration.
func (w *workspace) aggregator() (*aggregate.Aggregator, error) {
	p, err := parser.New(w.cfg.PurchaseTypes())
	if err != nil {
		return nil, fmt.Errorf("configuring purchase types: %w", err)
	}
	return aggregate.New(p, w.dir, aggregate.Options{
		Markers: aggregate.Markers{
			Terminal: w.cfg.Statement.TerminalMarker,
			Totals:   w.cfg.Statement.TotalsMarker,
		},
		Logger: &w.log,
	}), nil
}
