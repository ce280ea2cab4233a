package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRunID       = "run_id"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldPath        = "path"
	FieldBackend     = "backend"
	FieldMonth       = "month"
	FieldReportMonth = "report_month"
	FieldReportKind  = "report_kind"
	FieldEntries     = "entries"
	FieldMonths      = "months"
	FieldTotal       = "total"
	FieldMeat        = "meat"
	FieldExtra       = "extra"
	FieldGoal        = "goal"
	FieldGoalMet     = "goal_met"
	FieldSink        = "sink"
	FieldMessageID   = "message_id"
	FieldDuration    = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentLedger   = "ledger"
	ComponentStorage  = "storage"
	ComponentStats    = "stats"
	ComponentSettings = "settings"
	ComponentChart    = "chart"
	ComponentMail     = "mail"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSheets   = "sheets"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpAppend   = "append"
	OpReport   = "report"
	OpDeliver  = "deliver"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpExport   = "export"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithEntry adds the amounts of a recorded day
func (f LogFields) WithEntry(month string, total, meat, extra int64) LogFields {
	f[FieldMonth] = month
	f[FieldTotal] = total
	f[FieldMeat] = meat
	f[FieldExtra] = extra
	return f
}

// WithReport adds the headline values of a monthly report
func (f LogFields) WithReport(month, kind string, entries int, total, goal int64, goalMet bool) LogFields {
	f[FieldReportMonth] = month
	f[FieldReportKind] = kind
	f[FieldEntries] = entries
	f[FieldTotal] = total
	f[FieldGoal] = goal
	f[FieldGoalMet] = goalMet
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
