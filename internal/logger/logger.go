package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/powar/pkg/module"
)

const depthField = "depth"

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         module.LogLevel
	Depth         int
	HumanReadable bool
	Writer        io.Writer
	// Exit terminates the process after Fatal. Defaults to os.Exit.
	Exit func(code int)
}

// Logger wraps zerolog with powar's indentation and display presets.
type Logger struct {
	base  zerolog.Logger
	fatal zerolog.Logger
	sink  io.Writer
	color bool
	opts  Options
}

// New creates a configured Logger instance based on Options.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}
	if _, err := zerologLevel(opts.Level); err != nil {
		return nil, err
	}

	return build(opts, zerolog.SyncWriter(writer), isTerminal(writer)), nil
}

func build(opts Options, sink io.Writer, color bool) *Logger {
	level, _ := zerologLevel(opts.Level)

	var output io.Writer = sink
	if opts.HumanReadable {
		prefix := strings.Repeat("  ", opts.Depth)
		output = zerolog.ConsoleWriter{
			Out:           sink,
			NoColor:       !color,
			PartsOrder:    []string{zerolog.MessageFieldName},
			FieldsExclude: []string{depthField},
			FormatMessage: func(i any) string {
				if i == nil {
					return prefix
				}
				return prefix + fmt.Sprint(i)
			},
		}
	}

	base := zerolog.New(output).Level(level).With().Int(depthField, opts.Depth).Logger()
	fatal := zerolog.New(output).With().Int(depthField, opts.Depth).Logger()
	return &Logger{base: base, fatal: fatal, sink: sink, color: color, opts: opts}
}

// WithDepth returns a logger writing to the same sink at another indentation depth.
func (l *Logger) WithDepth(depth int) *Logger {
	if l == nil {
		return nil
	}
	opts := l.opts
	opts.Depth = depth
	return build(opts, l.sink, l.color)
}

// WithFields returns a derived logger that always writes the supplied fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}

	builder := l.base.With()
	fatalBuilder := l.fatal.With()
	for key, value := range fields {
		builder = builder.Interface(key, value)
		fatalBuilder = fatalBuilder.Interface(key, value)
	}

	derived := *l
	derived.base = builder.Logger()
	derived.fatal = fatalBuilder.Logger()
	return &derived
}

// Depth reports the indentation depth.
func (l *Logger) Depth() int {
	if l == nil {
		return 0
	}
	return l.opts.Depth
}

// Info writes an informational log entry.
func (l *Logger) Info(msg string) {
	if l == nil {
		return
	}
	l.base.Info().Msg(msg)
}

// Warn writes a warning level log entry.
func (l *Logger) Warn(msg string) {
	if l == nil {
		return
	}
	l.base.Warn().Msg(msg)
}

// Error writes an error log entry including the supplied error context.
func (l *Logger) Error(err error, msg string) {
	if l == nil {
		return
	}
	event := l.base.Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(msg)
}

// Fatal prints msg regardless of level and exits with status 1.
func (l *Logger) Fatal(msg string) {
	if l == nil {
		fmt.Fprintln(os.Stderr, "ERROR: "+msg)
		os.Exit(1)
		return
	}
	l.fatal.Log().Msg("ERROR: " + msg)
	l.opts.Exit(1)
}

func zerologLevel(level module.LogLevel) (zerolog.Level, error) {
	switch level {
	case module.LogLevelInfo, "":
		return zerolog.InfoLevel, nil
	case module.LogLevelWarn:
		return zerolog.WarnLevel, nil
	case module.LogLevelNone:
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
