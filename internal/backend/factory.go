package backend

import (
	"context"
	"errors"
	"fmt"

	"shoppingstats/internal/amqp"
	"shoppingstats/internal/config"
	"shoppingstats/internal/log"
	"shoppingstats/internal/mail"
	"shoppingstats/internal/services"
	gsheet "shoppingstats/internal/sheets/google"
	"shoppingstats/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (storage.LedgerStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite ledger store", log.FieldPath, config.SQLiteDBPath)
		return repo, nil
	default:
		f.logger.InfoContext(ctx, "Initialized JSON ledger store", log.FieldPath, config.LedgerPath)
		return storage.NewFileStore(config.LedgerPath), nil
	}
}

// CreateDispatcher implements Factory.CreateDispatcher. A sink that cannot
// be initialised is logged and left out; the ledger is never at stake.
func (f *DefaultFactory) CreateDispatcher(ctx context.Context, appConfig *config.Config, currency string) (*services.Dispatcher, CleanupFunc) {
	var (
		sinks    []services.Sink
		cleanups []func() error
	)

	if appConfig.ChartPath != "" {
		sinks = append(sinks, services.NewChartSink(appConfig.ChartPath, currency))
	}

	if appConfig.SheetsEnabled() {
		client, err := gsheet.NewClient(ctx, gsheet.Config{
			SpreadsheetID:   appConfig.GoogleSpreadsheetID,
			SheetName:       appConfig.GoogleSheetName,
			CredentialsJSON: appConfig.GoogleServiceAccountJSON,
			CredentialsFile: appConfig.GoogleServiceAccountFile,
		})
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize Google Sheets client, continuing without export", log.FieldError, err)
		} else {
			sinks = append(sinks, services.NewSheetsSink(client))
		}
	}

	switch {
	case appConfig.QueueEnabled():
		client, err := amqp.NewClient(appConfig.AMQPURL, appConfig.AMQPExchange, appConfig.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without report queue", log.FieldError, err)
			break
		}
		f.logger.InfoContext(ctx, "Initialized AMQP client",
			"exchange", appConfig.AMQPExchange,
			"queue", appConfig.AMQPQueue)
		sinks = append(sinks, services.NewQueueSink(client))
		cleanups = append(cleanups, client.Close)
	case appConfig.EmailEnabled():
		sender, err := mail.NewSender(mail.Config{
			Host:     appConfig.SMTPHost,
			Port:     appConfig.SMTPPort,
			User:     appConfig.EmailUser,
			Password: appConfig.EmailPass,
		})
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize mail sender", log.FieldError, err)
			break
		}
		sinks = append(sinks, services.NewMailSink(sender))
	}

	dispatcher := services.NewDispatcher(appConfig.DeliveryTimeout, sinks...)
	f.logger.DebugContext(ctx, "Configured report sinks", "sinks", dispatcher.Sinks())

	return dispatcher, func() error {
		var errs []error
		for _, c := range cleanups {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}
}
