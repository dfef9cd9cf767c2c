package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// consoleOut receives the console writer's output
var consoleOut io.Writer = os.Stderr

// LogFileName is the name of the install log inside the state directory
const LogFileName = "install.log"

// Options controls where log output goes
type Options struct {
	// Verbosity maps 0 to warn, 1 to info, 2 to debug and anything higher to trace
	Verbosity int

	// Console enables the pretty stderr writer. It must stay off while the
	// live progress view owns the terminal.
	Console bool

	// File overrides the log file location. Empty means DefaultLogFilePath().
	File string
}

// SetupLogger configures the global logger.
// It returns the path of the log file actually in use, or "" when the file
// could not be opened.
func SetupLogger(opts Options) string {
	zerolog.SetGlobalLevel(levelFor(opts.Verbosity))

	var writers []io.Writer
	if opts.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        consoleOut,
			TimeFormat: time.Kitchen,
		})
	}

	logFile := opts.File
	if logFile == "" {
		logFile = DefaultLogFilePath()
	}
	fileHandle, err := setupLogFile(logFile)
	if err == nil {
		writers = append(writers, fileHandle)
	} else {
		logFile = ""
	}

	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()

	// without the console writer a failed file leaves nowhere to report to
	if err != nil && opts.Console {
		log.Warn().Err(err).Msg("Failed to create log file, logging to console only")
	}

	if opts.Verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", opts.Verbosity).Str("logFile", logFile).Msg("Logger initialized")
	return logFile
}

func levelFor(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// DefaultLogFilePath returns $XDG_STATE_HOME/bootstrap/install.log
func DefaultLogFilePath() string {
	return filepath.Join(xdg.StateHome, "bootstrap", LogFileName)
}

// setupLogFile creates the log file and its parent directories
func setupLogFile(logPath string) (*os.File, error) {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return file, nil
}

// LogCommand logs a command execution
func LogCommand(logger zerolog.Logger, cmd string, dryRun bool) {
	logger.Debug().
		Str("command", cmd).
		Bool("dryRun", dryRun).
		Msg("Executing command")
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Info().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Info().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
