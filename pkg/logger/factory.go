package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog handler New builds.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ErrInvalidFormat is returned by ParseFormat for unknown format names.
var ErrInvalidFormat = errors.New("logger: invalid format")

// ParseFormat accepts "json" and "text" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidFormat, s)
	}
}

// preset is the level and format an environment starts from.
type preset struct {
	level  slog.Level
	format Format
}

var presets = map[Environment]preset{
	Development: {level: slog.LevelDebug, format: FormatText},
	Staging:     {level: slog.LevelInfo, format: FormatJSON},
	Production:  {level: slog.LevelInfo, format: FormatJSON},
}

type settings struct {
	level      slog.Level
	format     Format
	out        io.Writer
	source     bool
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// Option adjusts the logger built by New.
type Option func(*settings)

// WithLevel sets the minimum level.
func WithLevel(lvl slog.Level) Option {
	return func(s *settings) { s.level = lvl }
}

// WithFormat selects the handler. Unknown formats leave the current one in place.
func WithFormat(f Format) Option {
	return func(s *settings) {
		if f == FormatJSON || f == FormatText {
			s.format = f
		}
	}
}

// WithOutput redirects records to w. A nil writer is ignored.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.out = w
		}
	}
}

// WithSource adds the caller's file and line to records.
func WithSource() Option {
	return func(s *settings) { s.source = true }
}

// WithAttr attaches attrs to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(s *settings) { s.attrs = append(s.attrs, attrs...) }
}

// WithContextExtractors adds extractors that run on every record logged with a context.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(s *settings) { s.extractors = append(s.extractors, extractors...) }
}

// WithEnvironment applies the preset for env and tags records with the
// service and environment names. An empty service name is not logged.
func WithEnvironment(env Environment, service string) Option {
	return func(s *settings) {
		p, ok := presets[env]
		if !ok {
			env, p = Development, presets[Development]
		}
		s.level, s.format = p.level, p.format
		if service != "" {
			s.attrs = append(s.attrs, slog.String("service", service))
		}
		s.attrs = append(s.attrs, slog.String("env", string(env)))
	}
}

// New builds a logger writing JSON to stdout at info level unless opts say otherwise.
// The session id stored with WithSessionID is always extracted.
func New(opts ...Option) *slog.Logger {
	s := &settings{level: slog.LevelInfo, format: FormatJSON, out: os.Stdout}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	hopts := &slog.HandlerOptions{Level: s.level, AddSource: s.source}
	var h slog.Handler = slog.NewJSONHandler(s.out, hopts)
	if s.format == FormatText {
		h = slog.NewTextHandler(s.out, hopts)
	}
	if len(s.attrs) > 0 {
		h = h.WithAttrs(s.attrs)
	}

	return slog.New(newExtractingHandler(h, append([]ContextExtractor{SessionExtractor()}, s.extractors...)))
}

// SetAsDefault installs l as the slog package default.
func SetAsDefault(l *slog.Logger) {
	if l != nil {
		slog.SetDefault(l)
	}
}
