package sentry

import (
	"io"
	"strings"

	gosentry "github.com/getsentry/sentry-go"
)

// Level represents the severity level for the sentry writer.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) sentryLevel() gosentry.Level {
	switch l {
	case LevelError:
		return gosentry.LevelError
	case LevelWarning:
		return gosentry.LevelWarning
	default:
		return gosentry.LevelInfo
	}
}

// Writer tees log output to an inner writer and forwards it to Sentry.
// Error lines become events; warning and info lines become breadcrumbs so
// they show up as the trail leading to the next captured event.
type Writer struct {
	inner io.Writer
	level Level
}

// NewWriter creates a Writer that tees to inner and forwards to Sentry.
func NewWriter(inner io.Writer, level Level) *Writer {
	return &Writer{inner: inner, level: level}
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.inner.Write(p)
	if !enabled {
		return n, err
	}

	for _, line := range strings.Split(string(p), "\n") {
		msg := strings.TrimSpace(line)
		if msg == "" {
			continue
		}
		if w.level == LevelError {
			gosentry.CaptureMessage(msg)
			continue
		}
		gosentry.AddBreadcrumb(&gosentry.Breadcrumb{
			Level:    w.level.sentryLevel(),
			Category: "tabtray.log",
			Message:  msg,
		})
	}
	return n, err
}
