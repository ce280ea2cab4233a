package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var errIncompleteMessage = errors.New("report message is incomplete")

// ReportMessage carries a rendered monthly report to the mailer.
// The body is already rendered so the consumer never needs the ledger.
type ReportMessage struct {
	ID          uuid.UUID `json:"id"`
	ReportMonth string    `json:"report_month"`
	Kind        string    `json:"kind"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewReportMessage stamps a report with a fresh id and the current time
func NewReportMessage(reportMonth, kind, subject, body string) *ReportMessage {
	return &ReportMessage{
		ID:          uuid.New(),
		ReportMonth: reportMonth,
		Kind:        kind,
		Subject:     subject,
		Body:        body,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportMessageFromJSON decodes a message and rejects one without id or body.
func ReportMessageFromJSON(data []byte) (*ReportMessage, error) {
	var msg ReportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == uuid.Nil || msg.Body == "" {
		return nil, errIncompleteMessage
	}
	return &msg, nil
}
