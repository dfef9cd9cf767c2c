package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logPath := filepath.Join(t.TempDir(), "state", LogFileName)

			got := SetupLogger(Options{Verbosity: tt.verbosity, File: logPath})

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
			assert.Equal(t, logPath, got)
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should be created")
		})
	}
}

func TestSetupLoggerWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), LogFileName)
	SetupLogger(Options{Verbosity: 1, File: logPath})

	logger := GetLogger("renderer")
	logger.Info().Msg("frame drawn")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"renderer"`)
	assert.Contains(t, string(data), "frame drawn")
}

func TestSetupLoggerUnwritableFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	// a regular file where a directory is expected
	got := SetupLogger(Options{File: filepath.Join(blocker, "install.log")})
	assert.Empty(t, got)
}

func TestSetupLoggerFileFailureReport(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	badPath := filepath.Join(blocker, "install.log")

	var console bytes.Buffer
	previous := consoleOut
	consoleOut = &console
	t.Cleanup(func() { consoleOut = previous })

	tests := []struct {
		name    string
		console bool
		want    string
	}{
		{"console on reports the fallback", true, "logging to console only"},
		{"console off stays silent", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console.Reset()
			SetupLogger(Options{Console: tt.console, File: badPath})
			if tt.want == "" {
				assert.Empty(t, console.String())
				return
			}
			assert.Contains(t, console.String(), tt.want)
		})
	}
}

func TestDefaultLogFilePath(t *testing.T) {
	got := DefaultLogFilePath()
	assert.True(t, strings.HasSuffix(filepath.ToSlash(got), "bootstrap/install.log"), got)
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(&buf)

	done := LogOperationStart(logger, "install formulae")
	done()

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, `"operation":"install formulae"`))
	assert.Contains(t, out, `"duration"`)
	log.Logger = zerolog.Nop()
}
