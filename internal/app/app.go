package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/time/rate"

	"github.com/Afrawles/dataproc/internal/bfhl"
	"github.com/Afrawles/dataproc/internal/config"
	"github.com/Afrawles/dataproc/internal/coordinator"
	"github.com/Afrawles/dataproc/internal/report"
)

type Application struct {
	Config      *config.Config
	Logger      *slog.Logger
	Client      *bfhl.Client
	Coordinator *coordinator.Coordinator
	Exporter    *report.Exporter

	logFile *os.File
}

// New wires the application. Logs go to logOut unless the config names a
// log file.
func New(cfg *config.Config, logOut io.Writer) (*Application, error) {
	var logFile *os.File
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		logOut = f
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: ParseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	client := bfhl.NewClient(cfg.API.Endpoint, cfg.API.Timeout, bfhl.WithLogger(logger))

	opts := []coordinator.Option{coordinator.WithLogger(logger)}
	if cfg.API.Rate > 0 {
		opts = append(opts, coordinator.WithLimiter(rate.NewLimiter(rate.Limit(cfg.API.Rate), 1)))
	}

	if cfg.SuspiciousEndpoint() {
		logger.Warn("endpoint does not look like the processing API", "endpoint", cfg.API.Endpoint)
	}

	logger.Info("client initialized",
		"endpoint", cfg.API.Endpoint,
		"timeout", cfg.API.Timeout.String(),
		"rate", cfg.API.Rate,
	)

	return &Application{
		Config:      cfg,
		Logger:      logger,
		Client:      client,
		Coordinator: coordinator.New(client, opts...),
		Exporter:    report.NewExporter(cfg.Output.Directory),
		logFile:     logFile,
	}, nil
}

// Submit runs one submission and, on success, exports the result in the
// configured formats.
func (app *Application) Submit(ctx context.Context, raw string) (coordinator.State, []string, error) {
	st, err := app.Coordinator.Submit(ctx, raw)
	if err != nil {
		return st, nil, err
	}

	if st.Status != coordinator.StatusSuccess || len(app.Config.Output.Format) == 0 {
		return st, nil, nil
	}

	paths, err := app.Exporter.Export(st.Result, app.Config.Output.Format)
	if err != nil {
		app.Logger.Error("failed to export result", "error", err)
		return st, paths, err
	}

	app.Logger.Info("result exported", "files", paths)
	return st, paths, nil
}

func (app *Application) Close() error {
	app.Coordinator.Close()
	if app.logFile != nil {
		return app.logFile.Close()
	}
	return nil
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
