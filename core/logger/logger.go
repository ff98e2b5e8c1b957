package logger

// Logger is the leveled logging contract the pipeline components write to.
// Adapters live in infra/logger.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw attaches structured fields to a debug entry.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// StructuredLogger is the structured-field subset, for call sites that only
// emit keyed debug data.
type StructuredLogger interface {
	Debugw(msg string, fields map[string]any)
}
