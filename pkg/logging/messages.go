package logging

import "fmt"

// Message is a diagnostic collected during a load. Callers decide whether
// to show it (usually only in verbose mode).
type Message struct {
	Level     LogLevel
	Subsystem string
	Text      string
}

func (m Message) String() string {
	return fmt.Sprintf("[%s] %s: %s", m.Level, m.Subsystem, m.Text)
}

// Messages accumulates diagnostics. Every added message is also sent to the
// logger at debug level so `--verbose` runs keep a trace.
type Messages []Message

func (m *Messages) add(level LogLevel, subsystem, format string, args ...interface{}) {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	*m = append(*m, Message{Level: level, Subsystem: subsystem, Text: text})
	Debug(subsystem, "%s", text)
}

func (m *Messages) Debug(subsystem, format string, args ...interface{}) {
	m.add(LevelDebug, subsystem, format, args...)
}

func (m *Messages) Info(subsystem, format string, args ...interface{}) {
	m.add(LevelInfo, subsystem, format, args...)
}

func (m *Messages) Warn(subsystem, format string, args ...interface{}) {
	m.add(LevelWarn, subsystem, format, args...)
}

func (m *Messages) Error(subsystem, format string, args ...interface{}) {
	m.add(LevelError, subsystem, format, args...)
}

// Append adds all messages of other.
func (m *Messages) Append(other Messages) {
	*m = append(*m, other...)
}

// AtLeast returns the messages whose level is level or higher.
func (m Messages) AtLeast(level LogLevel) Messages {
	var out Messages
	for _, msg := range m {
		if msg.Level >= level {
			out = append(out, msg)
		}
	}
	return out
}

// HasErrors reports whether any error level message was recorded.
func (m Messages) HasErrors() bool {
	return len(m.AtLeast(LevelError)) > 0
}
