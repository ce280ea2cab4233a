package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kingpin"

	"shoppingstats/internal/backend"
	"shoppingstats/internal/cli"
	"shoppingstats/internal/config"
	"shoppingstats/internal/log"
	"shoppingstats/internal/prompt"
	"shoppingstats/internal/services"
	"shoppingstats/internal/settings"
	"shoppingstats/internal/stats"
)

var (
	ledgerPath   = kingpin.Flag("ledger", "Ledger JSON file (overrides LEDGER_PATH)").String()
	settingsPath = kingpin.Flag("settings", "Settings JSON file (overrides SETTINGS_PATH)").String()
	dataBackend  = kingpin.Flag("backend", "Ledger store (overrides DATA_BACKEND)").Enum(backend.GetBackendTypeStrings()...)
	chartPath    = kingpin.Flag("chart", "Write the four-month chart to this .xlsx file (overrides CHART_PATH)").String()
	logLevel     = kingpin.Flag("log-level", "debug, info, warn or error (overrides LOG_LEVEL)").String()

	cmdRecord = kingpin.Command("record", "Record today's shopping and report on a closed month").Default()
	cmdReport = kingpin.Command("report", "Print the report for the month before a date")
	reportDay = cmdReport.Flag("today", "Date to report from (YYYY-MM-DD), defaults to today").String()
	cmdGoal   = kingpin.Command("goal", "Review the monthly spending goal")
)

func main() {
	cli.LoadEnvFile()

	kingpin.CommandLine.Help = "Household shopping expense tracker."
	cmd := kingpin.Parse()

	level := *logLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	logger := cli.SetupLogger(os.Stderr, level, log.ComponentApp)

	cfg := cli.LoadAndValidateConfig(logger, applyFlags)
	ctx := log.NewContext(context.Background(), logger)

	var err error
	switch cmd {
	case cmdRecord.FullCommand():
		err = runRecord(ctx, cfg)
	case cmdReport.FullCommand():
		err = runReport(ctx, cfg)
	case cmdGoal.FullCommand():
		err = runGoal(cfg)
	}
	if err != nil {
		logger.Error("Run failed", log.FieldOperation, cmd, log.FieldError, err)
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config) {
	if *ledgerPath != "" {
		cfg.LedgerPath = *ledgerPath
	}
	if *settingsPath != "" {
		cfg.SettingsPath = *settingsPath
	}
	if *dataBackend != "" {
		cfg.DataBackend = *dataBackend
	}
	if *chartPath != "" {
		cfg.ChartPath = *chartPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
}

// runRecord is the interactive run: settings, today's amounts, the report
// when a month just closed, then the goal review.
func runRecord(ctx context.Context, cfg *config.Config) error {
	p := prompt.New(os.Stdin, os.Stdout)
	p.Say(prompt.Welcome)

	s, err := loadOrSetupSettings(p, cfg.SettingsPath)
	if err != nil {
		return err
	}
	params, err := paramsFrom(s)
	if err != nil {
		return err
	}

	entry, err := p.CollectEntry(s)
	if err != nil {
		return fmt.Errorf("collect entry: %w", err)
	}

	tracker, cleanup, err := newTracker(ctx, cfg, s.Currency)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := tracker.Record(ctx, time.Now(), entry, params)
	if err != nil {
		return err
	}
	if report != nil {
		p.Say("%s", report.Text)
	}

	if err := reviewGoal(p, cfg.SettingsPath, &s); err != nil {
		return err
	}
	p.WaitForExit()
	return nil
}

func runReport(ctx context.Context, cfg *config.Config) error {
	today := time.Now()
	if *reportDay != "" {
		d, err := time.ParseInLocation("2006-01-02", *reportDay, time.Local)
		if err != nil {
			return fmt.Errorf("parse --today: %w", err)
		}
		today = d
	}

	s, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	params, err := paramsFrom(s)
	if err != nil {
		return err
	}

	tracker, cleanup, err := newTracker(ctx, cfg, s.Currency)
	if err != nil {
		return err
	}
	defer cleanup()

	r, err := tracker.Report(ctx, today, params)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, r.Text)
	return nil
}

func runGoal(cfg *config.Config) error {
	p := prompt.New(os.Stdin, os.Stdout)
	s, err := loadOrSetupSettings(p, cfg.SettingsPath)
	if err != nil {
		return err
	}
	return reviewGoal(p, cfg.SettingsPath, &s)
}

func loadOrSetupSettings(p *prompt.Prompter, path string) (settings.Settings, error) {
	s, err := settings.Load(path)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, settings.ErrNotFound) {
		return s, fmt.Errorf("load settings: %w", err)
	}

	if s, err = p.SetupSettings(); err != nil {
		return s, fmt.Errorf("setup settings: %w", err)
	}
	if err := settings.Save(path, s); err != nil {
		return s, fmt.Errorf("save settings: %w", err)
	}
	return s, nil
}

func reviewGoal(p *prompt.Prompter, path string, s *settings.Settings) error {
	changed, err := p.ChangeGoal(s)
	if err != nil {
		return fmt.Errorf("review goal: %w", err)
	}
	if !changed {
		return nil
	}
	if err := settings.Save(path, *s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func paramsFrom(s settings.Settings) (stats.Params, error) {
	goal, err := s.GoalAmount()
	if err != nil {
		return stats.Params{}, err
	}
	return stats.Params{Currency: s.Currency, Goal: goal}, nil
}

func newTracker(ctx context.Context, cfg *config.Config, currency string) (*services.Tracker, func(), error) {
	factory := backend.NewFactory(log.FromContext(ctx))

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := factory.CreateStore(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}

	dispatcher, closeSinks := factory.CreateDispatcher(ctx, cfg, currency)
	tracker := services.NewTracker(store, dispatcher)

	return tracker, func() {
		logger := log.FromContext(ctx)
		if err := closeSinks(); err != nil {
			logger.Warn("Failed to close report sinks", log.FieldError, err)
		}
		if err := tracker.Close(); err != nil {
			logger.Warn("Failed to close ledger store", log.FieldError, err)
		}
	}, nil
}
