// Package logging provides the opinionated slog configuration shared by
// codegen and cmd/ts2wasm.
package logging

import (
	"context"
	"io"
	"log/slog"
)

// Logger returns a text-handler [slog.Logger] writing to out at the given level.
func Logger(out io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

// DiscardLogger returns a [slog.Logger] that discards all output.
// codegen.Generator uses this as its default logger so callers are not
// forced to configure logging to use the compiler.
func DiscardLogger() *slog.Logger {
	return slog.New(DiscardHandler())
}

// DiscardHandler returns a [slog.Handler] that discards all output.
func DiscardHandler() slog.Handler {
	return (*discardHandler)(nil)
}

type discardHandler struct {
	slog.Handler
}

func (*discardHandler) Enabled(context.Context, slog.Level) bool { return false }
