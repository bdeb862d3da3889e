package slog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Handler formats logs like the default slog output: "YYYY/MM/DD HH:MM:SS LEVEL Message key=value ..."
type Handler struct {
	out    io.Writer
	mu     *sync.Mutex
	opts   *slog.HandlerOptions
	attrs  string // attributes added through WithAttrs, already formatted
	groups []string
}

func NewHandler(out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	return &Handler{out: out, mu: &sync.Mutex{}, opts: opts}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.opts != nil && h.opts.Level != nil {
		return level >= h.opts.Level.Level()
	}

	return level >= slog.LevelInfo
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Time.Format("2006/01/02 15:04:05"))
	sb.WriteByte(' ')
	sb.WriteString(strings.ToUpper(r.Level.String()))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	sb.WriteString(h.attrs)

	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(attr slog.Attr) bool {
		writeAttr(&sb, prefix, attr)

		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := io.WriteString(h.out, sb.String()); err != nil {
		return fmt.Errorf("unable to write log record: %w", err)
	}

	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.attrs)

	prefix := strings.Join(h.groups, ".")
	for _, attr := range attrs {
		writeAttr(&sb, prefix, attr)
	}

	copyLogger := *h
	copyLogger.attrs = sb.String()

	return &copyLogger
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	copyLogger := *h
	copyLogger.groups = append(append([]string(nil), h.groups...), name)

	return &copyLogger
}

func writeAttr(sb *strings.Builder, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	key := attr.Key
	if prefix != "" {
		key = prefix + "." + key
	}

	if attr.Value.Kind() == slog.KindGroup {
		for _, member := range attr.Value.Group() {
			writeAttr(sb, key, member)
		}

		return
	}

	value := attr.Value.String()
	if strings.ContainsAny(value, " \t\n\"=") {
		value = fmt.Sprintf("%q", value)
	}

	fmt.Fprintf(sb, " %s=%s", key, value)
}
