package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// jsonTimeLayout keeps millisecond precision so calls within one search
// sort correctly when several runs share a log file.
const jsonTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FieldCaller holds file:line of the logging call in JSON records.
const FieldCaller = "caller"

// newJSONHandler writes one object per line with the same level names the
// console format prints, lowercased.
func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: shapeJSONAttr,
	})
}

func shapeJSONAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return attr
	}
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() != slog.KindTime {
			return attr
		}
		return slog.String("ts", attr.Value.Time().UTC().Format(jsonTimeLayout))
	case slog.LevelKey:
		level, ok := attr.Value.Any().(slog.Level)
		if !ok {
			return attr
		}
		return slog.String(slog.LevelKey, strings.ToLower(levelLabel(level)))
	case slog.SourceKey:
		src, ok := attr.Value.Any().(*slog.Source)
		if !ok || src == nil || src.File == "" {
			return slog.Attr{}
		}
		return slog.String(FieldCaller, fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
	}
	return attr
}
