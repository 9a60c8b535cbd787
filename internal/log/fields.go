package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldClientIP   = "client_ip"
	FieldError      = "error"

	FieldReportID      = "report_id"
	FieldSpreadsheetID = "spreadsheet_id"
	FieldChurchID      = "church_id"
	FieldRowCount      = "rows"
	FieldRecordCount   = "records"
)

// Standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentReports = "reports"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
	ComponentBackend = "backend"
)
