package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldAccountID   = "account_id"
	FieldEntityID    = "entity_id"
	FieldTargetKind  = "target_kind"
	FieldAmountCents = "amount_cents"
	FieldConcept     = "concept"
	FieldFortnight   = "fortnight"
	FieldGasPolicy   = "gas_policy"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpTransfer = "transfer"
	OpFund     = "fund"
	OpReset    = "reset"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
