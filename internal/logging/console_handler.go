package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

const consoleTimeLayout = "2006-01-02 15:04:05.000"

// consoleHandler writes one line per record:
//
//	<time> <LEVEL> [run] <component>.<method> [call]: <message> key=value ...
//
// component, method, correlation_id and run_id are folded into the prefix
// and never repeated as attributes.
type consoleHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// linePrefix holds the attributes promoted out of the key=value tail.
type linePrefix struct {
	component   string
	method      string
	correlation string
	run         string
}

func (p *linePrefix) take(key string, v slog.Value) bool {
	var slot *string
	switch key {
	case FieldComponent:
		slot = &p.component
	case FieldMethod:
		slot = &p.method
	case FieldCorrelationID:
		slot = &p.correlation
	case FieldRunID:
		slot = &p.run
	default:
		return false
	}
	if *slot == "" {
		*slot = plainValue(v)
	}
	return true
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	var fields []field
	collectAttrs(&fields, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		collectAttr(&fields, h.groups, attr)
		return true
	})

	var prefix linePrefix
	tail := fields[:0]
	for _, f := range fields {
		if !prefix.take(f.key, f.value) {
			tail = append(tail, f)
		}
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var buf bytes.Buffer
	buf.WriteString(ts.Local().Format(consoleTimeLayout))
	fmt.Fprintf(&buf, " %-5s ", levelLabel(record.Level))
	if prefix.run != "" {
		buf.WriteString(shortID(prefix.run))
		buf.WriteByte(' ')
	}
	if prefix.component != "" || prefix.method != "" {
		buf.WriteString(strings.Trim(prefix.component+"."+prefix.method, "."))
		if prefix.correlation != "" {
			buf.WriteString(" [" + shortID(prefix.correlation) + "]")
		}
		buf.WriteString(": ")
	}

	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	buf.WriteString(msg)

	if h.addSource {
		if record.PC != 0 {
			src, _ := runtime.CallersFrames([]uintptr{record.PC}).Next()
			fmt.Fprintf(&buf, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range tail {
		if f.key == "" {
			continue
		}
		buf.WriteByte(' ')
		buf.WriteString(f.key)
		buf.WriteByte('=')
		buf.WriteString(quotedValue(f.value))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}

type field struct {
	key   string
	value slog.Value
}

func collectAttrs(dst *[]field, groups []string, attrs []slog.Attr) {
	for _, attr := range attrs {
		collectAttr(dst, groups, attr)
	}
}

// collectAttr flattens groups into dotted keys.
func collectAttr(dst *[]field, groups []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		inner := groups
		if attr.Key != "" {
			inner = append(append([]string(nil), groups...), attr.Key)
		}
		collectAttrs(dst, inner, value.Group())
		return
	}
	key := attr.Key
	if len(groups) > 0 {
		key = strings.Trim(strings.Join(groups, ".")+"."+key, ".")
	}
	*dst = append(*dst, field{key: key, value: value})
}

// plainValue renders v without quoting, for prefix slots.
func plainValue(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}
	if v.Kind() == slog.KindTime {
		return v.Time().Local().Format(consoleTimeLayout)
	}
	return v.String()
}

// quotedValue renders v for the key=value tail, quoting anything that would
// not survive a whitespace split.
func quotedValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindFloat64:
		s = strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		s = v.Duration().Round(time.Microsecond).String()
	default:
		s = plainValue(v)
	}
	if s == "" || strings.ContainsAny(s, " \t\r\n=\"") {
		return strconv.Quote(s)
	}
	return s
}

// shortID trims UUID-style identifiers to their first block.
func shortID(id string) string {
	if idx := strings.IndexByte(id, '-'); idx > 0 {
		return id[:idx]
	}
	return id
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
