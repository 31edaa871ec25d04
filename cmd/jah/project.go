package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"jah/internal/compiler"
	"jah/internal/config"
	"jah/internal/errors"
	"jah/internal/slogutil"
)

// project is what every command needs: the loaded configuration, the
// project root and a logger configured from both.
type project struct {
	cfg      *config.Config
	root     string
	logger   *slog.Logger
	closeLog func()
}

// loadProject reads and validates the configuration at configPath.
// The project root is the directory holding the configuration file.
func loadProject(configPath string, logOut io.Writer) (*project, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, errors.NewJahError(errors.ConfigInvalid, "cannot load "+configPath, err,
			errors.GetSuggestedFixes(errors.ConfigInvalid))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewJahError(errors.ConfigInvalid, "invalid "+configPath, err,
			errors.GetSuggestedFixes(errors.ConfigInvalid))
	}

	root, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.Logging, logOut)
	if err != nil {
		return nil, err
	}

	return &project{cfg: cfg, root: root, logger: logger, closeLog: closeLog}, nil
}

// compiler returns an esbuild-backed compiler for the project.
func (p *project) compiler() (*compiler.Compiler, error) {
	return compiler.New(p.cfg, p.root, p.logger)
}

// newLogger builds the command logger. Precedence: -q/-v flags, then
// logging.level from the configuration (or JAH_LOG_LEVEL). The --log-file
// copy filters at the same level as the terminal.
func newLogger(cfg config.LoggingConfig, out io.Writer) (*slog.Logger, func(), error) {
	level := slogutil.LevelFromVerbosity(slogutil.LevelFromString(cfg.Level), verboseFlag, quietFlag)
	logger := slogutil.New(out, cfg.Format, level)

	if logFileFlag == "" {
		return logger, func() {}, nil
	}

	fileLogger, f, err := slogutil.NewFileLogger(logFileFlag, level)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	tee := slog.New(slogutil.NewTeeHandler(logger.Handler(), fileLogger.Handler()))
	return tee, func() { _ = f.Close() }, nil
}

// staticRoot is <cwd>/public, fixed when the server starts.
func staticRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, "public"), nil
}
