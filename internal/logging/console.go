package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler writes one line per record:
//
//	2024-05-01T09:00:00Z WARN  [compress 1a2b3c4d] batch: file failed (trip/a.jpg) error=...
//
// The operation and run ID form the bracketed tag, the component prefixes
// the message and the file path follows it. Remaining attributes are
// key=value pairs.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool
	group     string
	fields    []field
}

type field struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = appendFields(slices.Clip(h.fields), h.group, attrs)
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = h.group + name + "."
	return &clone
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	fields := slices.Clone(h.fields)
	r.Attrs(func(a slog.Attr) bool {
		fields = appendFields(fields, h.group, []slog.Attr{a})
		return true
	})

	var subject lineSubject
	rest := fields[:0]
	for _, f := range fields {
		if !subject.take(f) {
			rest = append(rest, f)
		}
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		msg = "(no message)"
	}

	var b strings.Builder
	b.WriteString(ts.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, " %-5s ", r.Level.String())
	if tag := subject.tag(); tag != "" {
		b.WriteString("[" + tag + "] ")
	}
	if subject.component != "" {
		b.WriteString(subject.component + ": ")
	}
	b.WriteString(msg)
	if subject.path != "" {
		b.WriteString(" (" + subject.path + ")")
	}
	if h.addSource {
		if src := r.Source(); src != nil {
			fmt.Fprintf(&b, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range rest {
		b.WriteString(" " + f.key + "=" + formatValue(f.value))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// lineSubject collects the fields promoted out of the key=value tail. The
// first occurrence of each wins.
type lineSubject struct {
	component string
	op        string
	runID     string
	path      string
}

func (s *lineSubject) take(f field) bool {
	var dst *string
	switch f.key {
	case FieldComponent:
		dst = &s.component
	case FieldOperation:
		dst = &s.op
	case FieldRunID:
		dst = &s.runID
	case FieldPath:
		dst = &s.path
	default:
		return false
	}
	if *dst == "" {
		*dst = f.value.String()
	}
	return true
}

func (s lineSubject) tag() string {
	id := s.runID
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.TrimSpace(s.op + " " + id)
}

func appendFields(dst []field, group string, attrs []slog.Attr) []field {
	for _, a := range attrs {
		v := a.Value.Resolve()
		if v.Kind() == slog.KindGroup {
			prefix := group
			if a.Key != "" {
				prefix += a.Key + "."
			}
			dst = appendFields(dst, prefix, v.Group())
			continue
		}
		if a.Key == "" {
			continue
		}
		dst = append(dst, field{key: group + a.Key, value: v})
	}
	return dst
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		s = fmt.Sprint(v.Any())
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.Quote(s)
	}
	return s
}
