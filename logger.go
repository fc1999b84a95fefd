package wsi

import (
	"log/slog"

	"github.com/gogpu/wsi/internal/logger"
)

// SetLogger configures the logger for wsi and all its sub-packages.
// By default, wsi produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by wsi:
//   - [slog.LevelDebug]: lifecycle of instances, devices, surfaces and
//     swapchains, and each converted frame
//   - [slog.LevelWarn]: missing optional hooks, failed best-effort cleanup,
//     fence timeouts
//   - [slog.LevelError]: entry points that are not implemented
//
// Example:
//
//	// Enable info-level logging to stderr:
//	wsi.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	wsi.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logger.Set(l)
}

// Logger returns the current logger used by wsi.
// Sub-packages share it through internal/logger, so one call configures the
// whole module.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logger.L()
}
