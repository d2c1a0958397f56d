package runtime

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
)

// engineLogWriter redirects the engine's stderr to the slog.Logger, one record per line.
// The engine reports progress there, so lines are logged at debug level.
type engineLogWriter struct {
	logger  *slog.Logger
	prefix  string
	pending []byte
}

func newEngineLogWriter(logger *slog.Logger, prefix string) *engineLogWriter {
	return &engineLogWriter{logger: logger, prefix: prefix}
}

// Write implements io.Writer. Incomplete lines are held until the next write or Flush.
func (w *engineLogWriter) Write(p []byte) (n int, err error) {
	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		w.emit(w.pending[:i])
		w.pending = w.pending[i+1:]
	}
	return len(p), nil
}

// Flush logs a trailing line that had no newline.
func (w *engineLogWriter) Flush() {
	if len(w.pending) > 0 {
		w.emit(w.pending)
		w.pending = nil
	}
}

func (w *engineLogWriter) emit(line []byte) {
	msg := strings.TrimRight(string(line), "\r")
	if strings.TrimSpace(msg) == "" {
		return
	}
	w.logger.Log(context.Background(), slog.LevelDebug, msg, "engine", w.prefix)
}
