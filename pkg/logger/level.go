package logger

import "log/slog"

// Level represents the log level.
type Level int

const (
	// LevelDebug logs every transcoding stage in detail.
	LevelDebug Level = iota

	// LevelInfo logs one line per transcoding stage.
	LevelInfo

	// LevelError logs failures only.
	LevelError
)

// String returns the upper-case level name.
func (l Level) String() string {
	return l.ToSlogLevel().String()
}

// ToSlogLevel converts Level to slog.Level.
func (l Level) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromFlags determines the log level from debug and trace flags.
func LevelFromFlags(debug, trace bool) Level {
	switch {
	case trace:
		return LevelDebug
	case debug:
		return LevelInfo
	default:
		return LevelError
	}
}
