package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Tracing Fields (Context level)
// Propagated through the call chain of one view action
// ============================================

const (
	// FieldRequestID is the gateway request ID (UUID)
	FieldRequestID = "request_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldUserID is the authenticated dashboard user
	FieldUserID = "user_id"

	// FieldArquivoID is the uploaded batch ("arquivo") being viewed
	FieldArquivoID = "arquivo_id"

	// FieldTarefaID is the scrape task an action targets
	FieldTarefaID = "tarefa_id"

	// FieldAction is the review action name (approve, choose_candidate, ...)
	FieldAction = "action"
)

// ============================================
// Metric Fields (Entry level)
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation or HTTP status
	FieldStatus = "status"
)
