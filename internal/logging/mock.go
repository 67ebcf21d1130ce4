package logging

// MockLogger captures log entries for verification in tests.
type MockLogger struct {
	Entries       []LogEntry
	pendingError  error
	pendingFields []Field
}

// LogEntry is a single entry captured by MockLogger.
type LogEntry struct {
	Level   string
	Message string
	Fields  []Field
	Error   error
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	allFields := append(append([]Field{}, m.pendingFields...), fields...)
	m.Entries = append(m.Entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  allFields,
		Error:   m.pendingError,
	})
}

func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("DEBUG", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...Field)  { m.record("INFO", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...Field)  { m.record("WARN", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("ERROR", msg, fields) }

// WithError returns a logger that shares the entry slice and carries the error.
func (m *MockLogger) WithError(err error) Logger {
	return &chainedMock{parent: m, err: err, fields: m.pendingFields}
}

// WithField returns a logger that shares the entry slice and carries the field.
func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return m.WithFields(Field{Key: key, Value: value})
}

// WithFields returns a logger that shares the entry slice and carries the fields.
func (m *MockLogger) WithFields(fields ...Field) Logger {
	combined := append(append([]Field{}, m.pendingFields...), fields...)
	return &chainedMock{parent: m, err: m.pendingError, fields: combined}
}

// HasEntry reports whether an entry with the given level and message was logged.
func (m *MockLogger) HasEntry(level, msg string) bool {
	for _, e := range m.Entries {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}

// chainedMock forwards entries to the root MockLogger so tests see everything
// logged through derived loggers.
type chainedMock struct {
	parent *MockLogger
	err    error
	fields []Field
}

func (c *chainedMock) record(level, msg string, fields []Field) {
	allFields := append(append([]Field{}, c.fields...), fields...)
	c.parent.Entries = append(c.parent.Entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  allFields,
		Error:   c.err,
	})
}

func (c *chainedMock) Debug(msg string, fields ...Field) { c.record("DEBUG", msg, fields) }
func (c *chainedMock) Info(msg string, fields ...Field)  { c.record("INFO", msg, fields) }
func (c *chainedMock) Warn(msg string, fields ...Field)  { c.record("WARN", msg, fields) }
func (c *chainedMock) Error(msg string, fields ...Field) { c.record("ERROR", msg, fields) }

func (c *chainedMock) WithError(err error) Logger {
	return &chainedMock{parent: c.parent, err: err, fields: c.fields}
}

func (c *chainedMock) WithField(key string, value interface{}) Logger {
	return c.WithFields(Field{Key: key, Value: value})
}

func (c *chainedMock) WithFields(fields ...Field) Logger {
	combined := append(append([]Field{}, c.fields...), fields...)
	return &chainedMock{parent: c.parent, err: c.err, fields: combined}
}
