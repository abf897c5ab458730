package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/grafana/loki-client-go/loki"
	slogloki "github.com/samber/slog-loki/v3"

	"invoice-gateway/internal/config"
)

const serviceName = "invoice-gateway"

func GetLogger(cfg config.Logs) *slog.Logger {
	level := parseLevel(cfg.Level)

	if cfg.URL == "" {
		return localLogger(level)
	}

	logger, err := remoteLogger(cfg.URL, level)
	if err != nil {
		fallback := localLogger(level)
		fallback.Error("Error creating loki client, logging to stdout", "error", err)
		return fallback
	}
	return logger
}

func localLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(&ContextHandler{Handler: handler}).With("service", serviceName)
}

func remoteLogger(url string, level slog.Level) (*slog.Logger, error) {
	lokiConfig, err := loki.NewDefaultConfig(url)
	if err != nil {
		return nil, err
	}
	client, err := loki.New(lokiConfig)
	if err != nil {
		return nil, err
	}

	return slog.New(slogloki.Option{
		Level:  level,
		Client: client,
		AttrFromContext: []func(ctx context.Context) []slog.Attr{
			attrsFromContext,
		},
	}.NewLokiHandler()).With("service", serviceName), nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
