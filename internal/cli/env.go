package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/streaklog/internal/config"
	"github.com/streaklog/internal/db"
	"github.com/streaklog/internal/logging"
	"github.com/streaklog/internal/store"
	"github.com/streaklog/internal/streak"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// environment is what every command needs to talk to the database.
type environment struct {
	db     *gorm.DB
	store  *store.GormStore
	engine *streak.Engine
	epoch  time.Time
	log    *logrus.Logger
}

func (e *environment) Close() {
	if sqlDB, err := e.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func openEnvironment(opts *RootOptions, cmd *cobra.Command) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.DatabasePath != "" {
		cfg.DatabasePath = opts.DatabasePath
	}
	if opts.Timezone != "" {
		cfg.Timezone = opts.Timezone
	}
	if opts.Epoch != "" {
		cfg.StreakEpoch = opts.Epoch
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	epoch, err := cfg.Epoch()
	if err != nil {
		return nil, err
	}

	// Logs go to stderr so JSON output stays parseable.
	log := logrus.New()
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	logging.Configure(log, logging.SetupParams{LogLevel: level})
	log.SetOutput(cmd.ErrOrStderr())

	gdb, err := db.Open(cfg.DatabasePath, logger.Default.LogMode(logger.Silent))
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
	}

	st := store.New(gdb, loc, log)
	engine := streak.NewEngine(st, streak.Options{
		Location: loc,
		Epoch:    epoch,
		Logger:   log,
	})
	return &environment{db: gdb, store: st, engine: engine, epoch: epoch, log: log}, nil
}

func parseUserID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return uint(id), nil
}

// degradedNote turns an engine error into a warning line; other errors are returned.
func degradedNote(err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if errors.Is(err, streak.ErrDegraded) {
		return fmt.Sprintf("warning: store unavailable, showing safe defaults (%v)", err), nil
	}
	return "", err
}
