package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyTemplate   = "template"
	KeyTitle      = "title"
	KeyCount      = "count"
	KeyPattern    = "pattern"
	KeyURL        = "url"
	KeyPort       = "port"
	KeyOutcome    = "outcome"
	KeyError      = "error"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Template(name string) slog.Attr  { return slog.String(KeyTemplate, name) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Pattern(p string) slog.Attr      { return slog.String(KeyPattern, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Port(p int) slog.Attr            { return slog.Int(KeyPort, p) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
