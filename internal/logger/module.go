package logger

// ModuleLogger tags every line with a fixed "[name]" prefix and gates
// Trace output behind a verbosity flag.
type ModuleLogger struct {
	prefix  string
	verbose bool
}

// ForModule returns a logger for the named component.
func ForModule(name string, verbose bool) *ModuleLogger {
	return &ModuleLogger{prefix: "[" + name + "] ", verbose: verbose}
}

func (m *ModuleLogger) Info(msg string, args ...any) {
	Info(m.prefix+msg, args...)
}

func (m *ModuleLogger) Warning(msg string, args ...any) {
	Warning(m.prefix+msg, args...)
}

func (m *ModuleLogger) Error(msg string, args ...any) {
	Error(m.prefix+msg, args...)
}

// Trace logs step-by-step detail at INFO, only when verbose.
func (m *ModuleLogger) Trace(msg string, args ...any) {
	if m.verbose {
		Info(m.prefix+msg, args...)
	}
}
