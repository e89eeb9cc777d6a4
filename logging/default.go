package logging

import (
	"fmt"
	"log"
	"maps"
	"os"
)

// DefaultLogger is a leveled logger built on Go's standard log package.
// Debug/Info go to stdout uncolored; Warn/Error/Fatal go to stderr with
// ANSI colors when attached to a terminal.
type DefaultLogger struct {
	stdout    *log.Logger
	stderr    *log.Logger
	level     Level
	fields    Fields
	useColors bool
}

// NewDefaultLogger creates a new default logger, coloring output when
// stdout is a terminal
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{
		stdout:    log.New(os.Stdout, "", log.LstdFlags),
		stderr:    log.New(os.Stderr, "", log.LstdFlags),
		level:     InfoLevel,
		fields:    make(Fields),
		useColors: isTerminal(),
	}
}

func isTerminal() bool {
	if fileInfo, _ := os.Stdout.Stat(); fileInfo != nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func (d *DefaultLogger) format(level Level, err error, msg string, fields ...Fields) string {
	allFields := make(Fields)
	maps.Copy(allFields, d.fields)
	for _, f := range fields {
		maps.Copy(allFields, f)
	}

	line := fmt.Sprintf("[%s] %s", level.String(), msg)
	if err != nil {
		line += fmt.Sprintf(": %v", err)
	}
	if len(allFields) > 0 {
		line += fmt.Sprintf(" %+v", allFields)
	}

	if d.useColors {
		switch level {
		case WarnLevel:
			line = colorYellow + line + colorReset
		case ErrorLevel:
			line = colorRed + line + colorReset
		case FatalLevel:
			line = colorBold + colorRed + line + colorReset
		}
	}

	return line
}

func (d *DefaultLogger) log(level Level, err error, msg string, fields ...Fields) {
	if level < d.level {
		return
	}

	line := d.format(level, err, msg, fields...)

	switch level {
	case DebugLevel, InfoLevel:
		d.stdout.Println(line)
	default:
		d.stderr.Println(line)
	}
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	d.log(DebugLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	d.log(InfoLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	d.log(WarnLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.log(ErrorLevel, err, msg, fields...)
}

// Fatal logs at fatal level and exits the process
func (d *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	d.log(FatalLevel, err, msg, fields...)
	os.Exit(1)
}

// WithFields returns a logger carrying the merged preset fields
func (d *DefaultLogger) WithFields(fields Fields) Logger {
	merged := make(Fields)
	maps.Copy(merged, d.fields)
	maps.Copy(merged, fields)

	return &DefaultLogger{
		stdout:    d.stdout,
		stderr:    d.stderr,
		level:     d.level,
		fields:    merged,
		useColors: d.useColors,
	}
}

// SetLevel sets the minimum log level
func (d *DefaultLogger) SetLevel(level Level) {
	d.level = level
}
