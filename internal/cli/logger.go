package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
)

// Logger provides levelled logging for the command line tools. Everything
// goes to Out (stderr by default) so program output stays clean.
type Logger struct {
	Verbose   bool
	DebugMode bool
	Out       io.Writer

	now func() time.Time
}

// NewLogger creates a new logger writing to stderr
func NewLogger(verbose, debug bool) *Logger {
	return &Logger{
		Verbose:   verbose,
		DebugMode: debug,
		Out:       os.Stderr,
		now:       time.Now,
	}
}

var (
	infoLabel  = color.New(color.FgCyan).SprintFunc()
	debugLabel = color.New(color.FgMagenta).SprintFunc()
	warnLabel  = color.New(color.FgYellow, color.Bold).SprintFunc()
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
)

func (l *Logger) log(label func(a ...interface{}) string, level, format string, args ...interface{}) {
	out := l.Out
	if out == nil {
		out = os.Stderr
	}
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	fmt.Fprintf(out, "%s %s: %s\n", label("["+level+"]"), now().Format("15:04:05"), fmt.Sprintf(format, args...))
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.Verbose {
		l.log(infoLabel, "INFO", format, args...)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.DebugMode {
		l.log(debugLabel, "DEBUG", format, args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(warnLabel, "WARN", format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(errorLabel, "ERROR", format, args...)
}

// SetColor forces coloured output on or off for every logger and
// diagnostic. "auto" leaves the decision to fatih/color's terminal check.
func SetColor(mode string) error {
	switch mode {
	case "", "auto":
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", mode)
	}
	return nil
}
