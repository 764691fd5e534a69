// Package logging builds the zap diagnostic logger used by nsip commands.
// Diagnostics go to stderr (and optionally a file under the logs dir) so
// that hook stdout stays pure envelope JSON for the host to parse.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DiagnosticFile is the file name for on-disk diagnostics under logs/.
const DiagnosticFile = "nsip.log"

// New builds the process logger. verbose lowers the stderr level to debug;
// logsDir, when non-empty, adds a JSON file sink (failures to open the file
// fall back to stderr only — diagnostics must never break a hook).
func New(verbose bool, logsDir string) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			level,
		),
	}

	if logsDir != "" {
		if f, err := os.OpenFile(
			filepath.Join(logsDir, DiagnosticFile),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0o600,
		); err == nil {
			cores = append(cores, zapcore.NewCore(
				zapcore.NewJSONEncoder(encCfg),
				zapcore.Lock(f),
				zapcore.DebugLevel,
			))
		}
	}

	return zap.New(zapcore.NewTee(cores...))
}

// Nop returns a logger that discards everything. Used by tests and by
// hooks before configuration has resolved.
func Nop() *zap.Logger {
	return zap.NewNop()
}
