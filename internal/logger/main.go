// Package logger initialises the global zerolog logger used by every package.
package logger

import (
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const dirPerm = 0o750

// LevelWriter routes events by level: trace, debug and info, warn, and error or worse.
// A nil target drops the event.
type LevelWriter struct {
	io.Writer
	Trace io.Writer
	Info  io.Writer
	Warn  io.Writer
	Error io.Writer
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	var w io.Writer

	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.TraceLevel:
		w = lw.Trace
	case l == zerolog.WarnLevel:
		w = lw.Warn
	case l > zerolog.WarnLevel:
		w = lw.Error
	default:
		w = lw.Info
	}

	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init configures the global logger. Without an enabled console or file output every event is dropped.
func Init(cfg Log) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "loglevel %s is not supported", cfg.LogLevel)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	zerolog.SetGlobalLevel(level)
	zerolog.ErrorHandler = ErrorHandler //nolint:reassign

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg.Console))
	}

	if cfg.File.Enabled {
		if fw := newFileWriter(cfg.File); fw != nil {
			writers = append(writers, fw)
		}
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewMetricsHook(cfg.ServiceName)).
		With().
		Timestamp().
		Str("service", cfg.ServiceName)

	if cfg.LogEnv != "" {
		ctx = ctx.Str("env", cfg.LogEnv)
	}

	if cfg.ReportCaller {
		ctx = ctx.Caller()

		// stacks are only marshalled at trace level
		if level == zerolog.TraceLevel {
			zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
			ctx = ctx.Stack()
		}
	}

	log.Logger = ctx.Logger()

	return nil
}

// NewConsoleWriter writes info and below to stdout, everything else to stderr.
func NewConsoleWriter(cfg Console) io.Writer {
	out := func(w io.Writer) io.Writer {
		if !cfg.Pretty {
			return w
		}

		return zerolog.ConsoleWriter{Out: w, TimeFormat: zerolog.TimeFieldFormat}
	}

	return &LevelWriter{
		Trace: out(os.Stderr),
		Info:  out(os.Stdout),
		Warn:  out(os.Stderr),
		Error: out(os.Stderr),
	}
}

// RotatingWriter returns a lumberjack logger for f inside dir, creating dir if needed.
func RotatingWriter(dir string, f RotatedFile) (io.Writer, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, errors.Wrapf(err, "can't create log directory %s", dir)
		}
	}

	return &lumberjack.Logger{
		Filename:   path.Join(dir, f.Name),
		MaxSize:    f.MaxSize,
		MaxAge:     f.MaxAge,
		MaxBackups: f.MaxBackups,
		Compress:   f.Compress,
	}, nil
}

func newFileWriter(cfg LogFile) io.Writer {
	open := func(f RotatedFile) io.Writer {
		if f.Name == "" {
			return nil
		}

		w, err := RotatingWriter(cfg.Path, f)
		if err != nil {
			log.Error().Err(err).Msg("file logging disabled")
			return nil
		}

		return w
	}

	lw := &LevelWriter{
		Trace: open(cfg.Trace),
		Info:  open(cfg.Info),
		Warn:  open(cfg.Warn),
		Error: open(cfg.Error),
	}

	if lw.Trace == nil && lw.Info == nil && lw.Warn == nil && lw.Error == nil {
		return nil
	}

	return lw
}
