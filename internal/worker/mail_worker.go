package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shoppingstats/internal/amqp"
	"shoppingstats/internal/log"
	"shoppingstats/internal/mail"
)

// Mailer sends a plain-text message.
type Mailer interface {
	Send(ctx context.Context, subject, body string) error
}

// MailWorker mails reports taken off the queue
type MailWorker struct {
	mailer  Mailer
	timeout time.Duration
}

func NewMailWorker(mailer Mailer, timeout time.Duration) *MailWorker {
	return &MailWorker{mailer: mailer, timeout: timeout}
}

// HandleReportMessage mails a single queued report. A returned error makes
// the consumer requeue the message.
func (w *MailWorker) HandleReportMessage(ctx context.Context, msg *amqp.ReportMessage) error {
	logger := log.FromContext(ctx).WithComponent(log.ComponentWorker)
	logger.InfoContext(ctx, "Processing report message",
		log.FieldMessageID, msg.ID.String(),
		log.FieldReportMonth, msg.ReportMonth,
		log.FieldReportKind, msg.Kind)

	subject := strings.TrimSpace(msg.Subject)
	if subject == "" {
		subject = mail.Subject
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := w.mailer.Send(ctx, subject, msg.Body); err != nil {
		return fmt.Errorf("mail report %s: %w", msg.ReportMonth, err)
	}

	logger.InfoContext(ctx, "Mailed report",
		log.FieldMessageID, msg.ID.String(),
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}
