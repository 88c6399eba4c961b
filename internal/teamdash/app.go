package teamdash

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Afrawles/teamdash/internal/config"
	"github.com/Afrawles/teamdash/internal/dashboard"
	"github.com/Afrawles/teamdash/internal/notify"
	"github.com/Afrawles/teamdash/internal/report"
	"github.com/Afrawles/teamdash/internal/teamactivity"
)

type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Engine    *report.Engine
	Generator *report.Generator
	Roster    *report.Roster
}

func New(cfg *config.Config) *Application {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	roster := report.NewRoster(cfg.Roster.Members, cfg.Roster.MailDomain, cfg.Roster.EmailOverrides)
	engine := report.NewEngine(report.DefaultClassifier(), roster, cfg.Target)

	source := teamactivity.NewSource(teamactivity.Config{
		Host:               cfg.API.Host,
		FallbackIP:         cfg.API.FallbackIP,
		BasePath:           cfg.API.BasePath,
		Timeout:            cfg.API.Timeout,
		InsecureSkipVerify: cfg.API.InsecureSkipVerify,
		RequestsPerSecond:  2,
	})
	logger.Info("activity source initialized", "host", cfg.API.Host, "fallback", cfg.API.FallbackIP)

	return &Application{
		Config:    cfg,
		Logger:    logger,
		Engine:    engine,
		Generator: report.NewGenerator(logger, source),
		Roster:    roster,
	}
}

// Fetch pulls the configured month window and builds a fresh snapshot.
// Partial success keeps whatever months came back; the error is non-nil only
// when every unit failed.
func (app *Application) Fetch(ctx context.Context) (report.Dataset, error) {
	months := report.LastMonths(time.Now().UTC(), app.Config.MonthsBack)
	records, failures := app.Generator.Generate(ctx, months)

	if len(records) == 0 && len(failures) > 0 {
		return report.Dataset{}, fmt.Errorf("all fetch units failed: %v", failures)
	}

	ds := report.NewDataset(records)
	app.Logger.Info("snapshot built", "records", ds.Len(), "failed_units", len(failures))
	return ds, nil
}

// BuildLatestReport derives the report for the newest week and month in the
// snapshot.
func (app *Application) BuildLatestReport(ds report.Dataset) (report.Report, error) {
	weeks := ds.Weeks()
	months := ds.Months()
	if len(weeks) == 0 || len(months) == 0 {
		return report.Report{}, fmt.Errorf("snapshot holds no bucketed records")
	}
	return app.Engine.BuildReport(ds, weeks[0], months[0]), nil
}

// Export writes the report in every configured format.
func (app *Application) Export(rep report.Report) error {
	outDir := app.Config.Output.Directory
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")

	for _, format := range app.Config.Output.Formats {
		switch format {
		case "json":
			filename := fmt.Sprintf("dashboard_%s.json", timestamp)
			if err := report.NewExporter(outDir).ExportJSON(rep, filename); err != nil {
				app.Logger.Error("failed to export JSON", "error", err)
			} else {
				app.Logger.Info("report exported", "format", "json", "file", filename)
			}

		case "html":
			exporter := report.NewExporter(outDir)
			chartsFile := fmt.Sprintf("charts_%s.html", timestamp)
			htmlFile := fmt.Sprintf("dashboard_%s.html", timestamp)
			if err := exporter.ExportCharts(rep, chartsFile); err != nil {
				app.Logger.Error("failed to export charts", "error", err)
				chartsFile = ""
			}
			if err := exporter.ExportHTML(rep, htmlFile, chartsFile); err != nil {
				app.Logger.Error("failed to export HTML", "error", err)
			} else {
				app.Logger.Info("report exported", "format", "html", "file", htmlFile)
			}

		case "csv":
			if err := report.NewCSVExporter(outDir).Export(rep); err != nil {
				app.Logger.Error("failed to export CSV", "error", err)
			} else {
				app.Logger.Info("report exported", "format", "csv")
			}

		case "excel":
			if err := report.NewExcelExporter(outDir).Export(rep); err != nil {
				app.Logger.Error("failed to export Excel", "error", err)
			} else {
				app.Logger.Info("report exported", "format", "excel")
			}
		}
	}

	return nil
}

// Serve runs the dashboard HTTP server until the context is cancelled. When
// prefetch is set the snapshot is loaded before the server starts listening.
func (app *Application) Serve(ctx context.Context, prefetch bool) error {
	srv := dashboard.NewServer(app.Logger, app.Engine, app.Generator, app.Config.MonthsBack, app.Config.CacheTTL)

	if prefetch {
		ds, err := app.Fetch(ctx)
		if err != nil {
			app.Logger.Warn("initial fetch failed, starting empty", "error", err)
		} else {
			srv.Load(ds)
		}
	}

	httpSrv := &http.Server{
		Addr:    app.Config.ListenAddr,
		Handler: srv.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	app.Logger.Info("dashboard listening", "addr", app.Config.ListenAddr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Notify fetches the latest snapshot and mails each selected roster member
// their summary for the newest week. An empty recipient list means everyone.
func (app *Application) Notify(ctx context.Context, recipients []string) error {
	if app.Config.SMTP.Host == "" {
		return fmt.Errorf("TEAMDASH_SMTP_HOST is required for notifications")
	}

	ds, err := app.Fetch(ctx)
	if err != nil {
		return err
	}
	weeks := ds.Weeks()
	if len(weeks) == 0 {
		return fmt.Errorf("snapshot holds no bucketed records")
	}

	week := weeks[0]
	summary := app.Engine.SummarizeWeek(ds, week)

	mailer := notify.NewMailer(
		app.Config.SMTP.Host,
		app.Config.SMTP.Port,
		app.Config.SMTP.Username,
		app.Config.SMTP.Password,
		app.Config.SMTP.Sender,
		app.Logger,
	)

	failures := mailer.SendSummaries(week, summary, app.Roster, app.Config.Target, recipients)
	if len(failures) > 0 {
		return fmt.Errorf("%d notification(s) failed: %v", len(failures), failures)
	}
	return nil
}
