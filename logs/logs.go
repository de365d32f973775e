// Package logs is the logging collaborator used by every other package.
// Messages carry a severity and a short tag naming the subsystem that
// produced them; the tag is attached as a structured logrus field.
package logs

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// DefaultTag is used by callers that have no more specific subsystem tag.
const DefaultTag = "JNK"

// Severity of a log message.
type Severity int

const (
	Error Severity = iota
	Warning
	Verbose
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Verbose:
		return "verbose"
	case Info:
		return "info"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Logger is the only logging surface the core depends on.
type Logger interface {
	Emit(sev Severity, tag string, format string, args ...any)
}

// Options configure a logrus-backed Logger.
type Options struct {
	// Level is a logrus level name ("debug", "info", ...). Empty means debug,
	// so verbose messages are shown.
	Level string
	// Debug disables everything but errors when false.
	Debug bool
	// Out defaults to stderr.
	Out io.Writer
	// JSON switches the formatter from text to JSON.
	JSON bool
}

// ParseLevel resolves Level, defaulting to debug.
func (o Options) ParseLevel() (logrus.Level, error) {
	if o.Level == "" {
		return logrus.DebugLevel, nil
	}
	level, err := logrus.ParseLevel(strings.ToLower(o.Level))
	if err != nil {
		return 0, errors.Wrapf(err, "parse log level %q", o.Level)
	}
	return level, nil
}

// Logrus adapts a logrus logger to Logger.
type Logrus struct {
	entry *logrus.Entry
	debug bool
}

// New builds a logrus-backed Logger from opts.
func New(opts Options) (*Logrus, error) {
	l := logrus.New()
	l.Out = os.Stderr
	if opts.Out != nil {
		l.Out = opts.Out
	}
	if opts.JSON {
		l.Formatter = &logrus.JSONFormatter{}
	} else {
		l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}

	level, err := opts.ParseLevel()
	if err != nil {
		return nil, err
	}
	l.SetLevel(level)

	return Wrap(l, opts.Debug), nil
}

// Wrap adapts an existing logrus logger, e.g. one built with
// logrus/hooks/test in tests.
func Wrap(l *logrus.Logger, debug bool) *Logrus {
	return &Logrus{entry: logrus.NewEntry(l), debug: debug}
}

// Emit implements Logger.
func (l *Logrus) Emit(sev Severity, tag string, format string, args ...any) {
	if sev != Error && !l.debug {
		return
	}
	if tag == "" {
		tag = DefaultTag
	}
	l.entry.WithField("tag", tag).Log(level(sev), fmt.Sprintf(format, args...))
}

func level(sev Severity) logrus.Level {
	switch sev {
	case Error:
		return logrus.ErrorLevel
	case Warning:
		return logrus.WarnLevel
	case Verbose:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// Discard drops every message.
var Discard Logger = discard{}

type discard struct{}

func (discard) Emit(Severity, string, string, ...any) {}

// Tagged binds a tag to a Logger so call sites only pass severity and text.
type Tagged struct {
	Logger Logger
	Tag    string
}

func (t Tagged) E(format string, args ...any) { t.Logger.Emit(Error, t.Tag, format, args...) }
func (t Tagged) W(format string, args ...any) { t.Logger.Emit(Warning, t.Tag, format, args...) }
func (t Tagged) V(format string, args ...any) { t.Logger.Emit(Verbose, t.Tag, format, args...) }
func (t Tagged) I(format string, args ...any) { t.Logger.Emit(Info, t.Tag, format, args...) }
