package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"shoppingstats/internal/amqp"
	"shoppingstats/internal/chart"
	"shoppingstats/internal/ledger"
	"shoppingstats/internal/log"
	"shoppingstats/internal/mail"
	"shoppingstats/internal/sheets"
	"shoppingstats/internal/stats"
)

// Mailer sends a plain-text message.
type Mailer interface {
	Send(ctx context.Context, subject, body string) error
}

// ReportPublisher queues a report for asynchronous mailing.
type ReportPublisher interface {
	PublishReport(ctx context.Context, msg *amqp.ReportMessage) error
}

// ChartSink writes the four-month chart workbook to a file.
type ChartSink struct {
	path     string
	currency string
}

func NewChartSink(path, currency string) *ChartSink {
	return &ChartSink{path: path, currency: currency}
}

func (s *ChartSink) Name() string { return "chart" }

// Deliver skips silently when fewer than four months are memoised.
func (s *ChartSink) Deliver(ctx context.Context, l *ledger.Ledger, r stats.Report) error {
	data, err := chart.Workbook(l, r, s.currency)
	if errors.Is(err, chart.ErrInsufficientHistory) {
		log.FromContext(ctx).WithComponent(log.ComponentChart).InfoContext(ctx, "Skipping chart",
			log.FieldReportMonth, r.Month.String(), log.FieldError, err)
		return nil
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create chart directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// SheetsSink mirrors the report month's AverageRecord into a spreadsheet.
type SheetsSink struct {
	exporter sheets.AverageExporter
}

func NewSheetsSink(exporter sheets.AverageExporter) *SheetsSink {
	return &SheetsSink{exporter: exporter}
}

func (s *SheetsSink) Name() string { return "sheets" }

func (s *SheetsSink) Deliver(ctx context.Context, _ *ledger.Ledger, r stats.Report) error {
	ref, err := s.exporter.ExportAverage(ctx, r.Month, r.Average)
	if err != nil {
		return err
	}
	log.FromContext(ctx).WithComponent(log.ComponentSheets).InfoContext(ctx, "Exported average",
		log.FieldReportMonth, r.Month.String(), "row", ref)
	return nil
}

// MailSink mails the report text directly.
type MailSink struct {
	mailer Mailer
}

func NewMailSink(mailer Mailer) *MailSink {
	return &MailSink{mailer: mailer}
}

func (s *MailSink) Name() string { return "mail" }

func (s *MailSink) Deliver(ctx context.Context, _ *ledger.Ledger, r stats.Report) error {
	return s.mailer.Send(ctx, mail.Subject, r.Text)
}

// QueueSink hands the report to the mailer worker through the broker.
type QueueSink struct {
	publisher ReportPublisher
}

func NewQueueSink(publisher ReportPublisher) *QueueSink {
	return &QueueSink{publisher: publisher}
}

func (s *QueueSink) Name() string { return "queue" }

func (s *QueueSink) Deliver(ctx context.Context, _ *ledger.Ledger, r stats.Report) error {
	msg := amqp.NewReportMessage(r.Month.String(), string(r.Kind), mail.Subject, r.Text)
	return s.publisher.PublishReport(ctx, msg)
}
