package logging

import "log/slog"

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldOperation is the standardized key for the synchronizer operation (add, remove, keep).
	FieldOperation = "operation"
	// FieldRunID is the standardized key correlating every line of one operation call.
	FieldRunID = "run_id"
	// FieldZip is the standardized key for the archive filename being processed.
	FieldZip = "zip"
	// FieldPath is the standardized key for a filesystem path.
	FieldPath = "path"
	// FieldIndex is the 1-based position of the current item.
	FieldIndex = "index"
	// FieldTotal is the number of items in the current operation.
	FieldTotal = "total"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// WithRun returns a logger tagged with the operation name and run ID.
func WithRun(logger *slog.Logger, operation, runID string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldOperation, operation), String(FieldRunID, runID))
}
