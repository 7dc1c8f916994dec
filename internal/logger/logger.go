// Package logger provides configured zerolog loggers.
package logger

import (
	"io"
	"os"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// installStackMarshalers makes .Stack() work with std errors as well as
// github.com/pkg/errors ones.
func installStackMarshalers() {
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		if _, ok := err.(stackTracer); ok {
			return err
		}
		return pkgerrors.WithStack(err)
	}
}

// New returns a JSON logger writing to stdout, used by the long-running
// processes. Call sites should use .Stack() on error events to include
// stacks.
func New(serviceName string) zerolog.Logger {
	return NewWithWriter(os.Stdout, serviceName)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(w io.Writer, serviceName string) zerolog.Logger {
	installStackMarshalers()
	return zerolog.New(w).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// NewConsole returns a human readable logger on stderr for interactive
// commands. Stdout stays free for command output.
func NewConsole(level zerolog.Level) zerolog.Logger {
	installStackMarshalers()
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
