// Package log holds slog helpers shared by the publisher and the CLI.
package log

import (
	"context"
	"log/slog"
	"strings"
)

// Redacted replaces the value of any sensitive attribute.
const Redacted = "[REDACTED]"

// sensitiveKeys are matched case-insensitively as substrings of attribute keys.
var sensitiveKeys = []string{
	"password",
	"pass",
	"secret",
	"token",
	"authorization",
	"cred",
	"ntlm",
}

// RedactingHandler is a slog.Handler that blanks credential attributes
// before they reach the wrapped handler.
type RedactingHandler struct {
	next slog.Handler
}

// NewRedactingHandler wraps next. Wrapping a RedactingHandler again is a no-op.
func NewRedactingHandler(next slog.Handler) *RedactingHandler {
	if h, ok := next.(*RedactingHandler); ok {
		return h
	}
	return &RedactingHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redact(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redact(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(clean)}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

// IsSensitive reports whether an attribute key names a credential.
func IsSensitive(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

func redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		clean := make([]any, len(group))
		for i, g := range group {
			clean[i] = redact(g)
		}
		return slog.Group(a.Key, clean...)
	}
	if IsSensitive(a.Key) {
		return slog.String(a.Key, Redacted)
	}
	return a
}
