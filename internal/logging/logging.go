package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup configures the global structured logger for the given environment
// and returns it. LOG_LEVEL, LOG_FORMAT and LOG_SOURCE override the defaults.
func Setup(environment string) *slog.Logger {
	logger := New(os.Stdout, environment)
	slog.SetDefault(logger)
	return logger
}

// New builds a logger writing to w without touching the global default
func New(w io.Writer, environment string) *slog.Logger {
	return slog.New(determineHandler(w, environment))
}

func determineHandler(w io.Writer, environment string) slog.Handler {
	prod := isProduction(environment)
	opts := &slog.HandlerOptions{
		Level:     getLogLevel(prod),
		AddSource: os.Getenv("LOG_SOURCE") == "true",
	}

	switch getLogFormat(prod) {
	case "json":
		return slog.NewJSONHandler(w, opts)
	case "pretty":
		opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("time", a.Value.Time().Format("15:04:05.000"))
			}
			return a
		}
		return slog.NewTextHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

func getLogLevel(prod bool) slog.Level {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		if prod {
			return slog.LevelInfo
		}
		return slog.LevelDebug
	}
	return ParseLevel(level)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getLogFormat(prod bool) string {
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		return strings.ToLower(format)
	}
	if prod {
		return "json"
	}
	return "pretty"
}

func isProduction(environment string) bool {
	env := strings.ToLower(environment)
	return strings.HasPrefix(env, "prod") || os.Getenv("KUBERNETES_SERVICE_HOST") != ""
}
