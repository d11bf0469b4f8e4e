package port

// Fields carries structured data attached to a log entry.
type Fields map[string]interface{}

// LoggerPort is the contract every log sink implements.
type LoggerPort interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)

	// WithFields returns a logger with the given fields attached to every entry.
	WithFields(fields Fields) LoggerPort
}

// NoopLogger returns a logger that discards everything. Used as a fallback
// and in tests that do not assert on log output.
func NoopLogger() LoggerPort { return noopLogger{} }

type noopLogger struct{}

func (noopLogger) Debug(msg string, fields Fields)            {}
func (noopLogger) Info(msg string, fields Fields)             {}
func (noopLogger) Warn(msg string, fields Fields)             {}
func (noopLogger) Error(msg string, err error, fields Fields) {}
func (noopLogger) WithFields(fields Fields) LoggerPort        { return noopLogger{} }
