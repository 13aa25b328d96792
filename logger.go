package circpack

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with the field names used across the packer and
// the optimizer.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.  A nil handler logs
// text to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger writing human-readable text to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger writing JSON records to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithRun tags every record with a run id.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{Logger: l.Logger.With("run", id)}
}

// WithCircles tags every record with the number of circles.
func (l *Logger) WithCircles(n int) *Logger {
	return &Logger{Logger: l.Logger.With("circles", n)}
}

// LogRound logs the outcome of one bisection round of the packing search.
func (l *Logger) LogRound(ctx context.Context, round int, radius float64, feasible, improved bool) {
	if improved {
		l.InfoContext(ctx, "packing improved",
			"round", round,
			"radius", radius,
		)
		return
	}
	l.DebugContext(ctx, "packing round",
		"round", round,
		"radius", radius,
		"feasible", feasible,
	)
}

// LogStep logs one optimizer call made by the step-size controller.
func (l *Logger) LogStep(ctx context.Context, step, radius, candidate float64, accepted bool, iterations, evals int) {
	l.DebugContext(ctx, "ralgo step",
		"step", step,
		"radius", radius,
		"candidate", candidate,
		"accepted", accepted,
		"iterations", iterations,
		"evals", evals,
	)
}

// LogError logs a non-fatal failure, such as a trace write that did not go
// through.
func (l *Logger) LogError(ctx context.Context, msg string, err error) {
	l.ErrorContext(ctx, msg, "error", err)
}
