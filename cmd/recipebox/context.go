package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/config"
	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/recipe"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

// store is everything the commands need from a backend.
type store interface {
	recipe.Seeder
	domain.PlaybackFetcher
}

// commandContext holds the flags and the lazily built dependencies
// shared by every subcommand.
type commandContext struct {
	configFlag string
	envFile    string
	verbose    bool
	quiet      bool

	// logOut overrides the configured log destination. Tests set it.
	logOut io.Writer

	cfg     *config.Config
	log     *logger.Logger
	store   store
	closers []io.Closer
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag), c.envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// logger builds the logger once. Logs go to a file by default so the
// console UIs keep the terminal to themselves.
func (c *commandContext) logger() (*logger.Logger, error) {
	if c.log != nil {
		return c.log, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.Level()
	if c.verbose {
		level = logger.LevelVerbose
	}
	if c.quiet {
		level = logger.LevelOff
	}

	out := c.logOut
	if out == nil {
		out = os.Stderr
		if f := cfg.Logging.File; f != "" && f != config.LogToStderr {
			file, err := os.OpenFile(f, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", f, err)
			} else {
				out = file
				c.closers = append(c.closers, file)
			}
		}
	}

	c.log = logger.New(level, out, logger.WithFormat(cfg.Logging.Format))
	return c.log, nil
}

// openStore opens the configured backend and installs the seed catalog
// and demo recipes into it.
func (c *commandContext) openStore(ctx context.Context) (store, error) {
	if c.store != nil {
		return c.store, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	log, err := c.logger()
	if err != nil {
		return nil, err
	}

	var s store
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		s = storage.NewMemoryStore(log)
	default:
		db, err := storage.OpenSQLite(cfg.Storage.Path, log)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db)
		s = db
	}

	seed, err := recipe.LoadSeed()
	if err != nil {
		return nil, err
	}
	n, err := recipe.Install(ctx, s, seed, log)
	if err != nil {
		return nil, fmt.Errorf("install demo recipes: %w", err)
	}
	if n > 0 {
		log.Info("installed %d demo recipes", n)
	}

	c.store = s
	return s, nil
}

func (c *commandContext) identity() domain.Identity {
	if c.cfg == nil {
		return domain.Anonymous
	}
	return domain.Identity{UserID: c.cfg.User.ID}
}

func (c *commandContext) close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
