package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldClientIP   = "client_ip"

	FieldProjectID   = "project_id"
	FieldBatchID     = "batch_id"
	FieldMonth       = "month"
	FieldYear        = "year"
	FieldEmployee    = "employee"
	FieldRowCount    = "row_count"
	FieldRowsSkipped = "rows_skipped"
	FieldParseErrors = "parse_errors"
	FieldFilename    = "filename"
)

// Standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentImport  = "import"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
)
