package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyLayout     = "layout"
	KeyPermalink  = "permalink"
	KeyKind       = "kind"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
	KeyCount      = "count"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func Layout(name string) slog.Attr    { return slog.String(KeyLayout, name) }
func Permalink(p string) slog.Attr    { return slog.String(KeyPermalink, p) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
