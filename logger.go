package canopy

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with canopy-specific helpers so that every
// diagnostic uses the same field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, warnings and above go to stderr as text.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable text to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// LogThresholds records the radii a clusterer resolved to.
func (l *Logger) LogThresholds(t1, t2 float64, heuristic bool) {
	l.Debug("thresholds resolved",
		"t1", t1,
		"t2", t2,
		"heuristic", heuristic,
	)
}

// LogDefaultT2 warns that the T2 heuristic could not run.
func (l *Logger) LogDefaultT2(t2 float64) {
	l.Warn("the heuristic for setting T2 based on std. dev. can't be used when running in incremental mode",
		"t2", t2,
	)
}

// LogFit records a completed batch fit.
func (l *Logger) LogFit(records, canopies int, t1, t2 float64) {
	l.Info("fit completed",
		"records", records,
		"canopies", canopies,
		"t1", t1,
		"t2", t2,
	)
}

// LogFinalize records the outcome of a finalize pass.
func (l *Logger) LogFinalize(natural, final, requested int) {
	switch {
	case requested >= 0 && final < requested:
		l.Debug("finalize produced fewer canopies than requested",
			"natural", natural,
			"final", final,
			"requested", requested,
		)
	default:
		l.Debug("finalize completed",
			"natural", natural,
			"final", final,
			"requested", requested,
		)
	}
}
