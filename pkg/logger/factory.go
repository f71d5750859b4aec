package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Environment names understood by WithEnvironment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

type preset struct {
	level  slog.Level
	format Format
}

var presets = map[string]preset{
	EnvDevelopment: {slog.LevelDebug, FormatText},
	EnvStaging:     {slog.LevelInfo, FormatJSON},
	EnvProduction:  {slog.LevelInfo, FormatJSON},
}

var envAliases = map[string]string{
	"dev":   EnvDevelopment,
	"local": EnvDevelopment,
	"stage": EnvStaging,
	"prod":  EnvProduction,
}

type config struct {
	level          slog.Level
	format         Format
	output         io.Writer
	attrs          []slog.Attr
	handlerOptions *slog.HandlerOptions
	extractors     []ContextExtractor
}

type Option func(*config)

func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithFormat panics on anything but FormatJSON or FormatText.
func WithFormat(f Format) Option {
	if f != FormatJSON && f != FormatText {
		panic(fmt.Errorf("logger: unknown format %q", f))
	}
	return func(c *config) { c.format = f }
}

func WithTextFormatter() Option { return WithFormat(FormatText) }

func WithJSONFormatter() Option { return WithFormat(FormatJSON) }

// WithOutput sets the destination writer. Nil is ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithHandlerOptions replaces the handler options, including the level.
func WithHandlerOptions(opts *slog.HandlerOptions) Option {
	return func(c *config) {
		if opts != nil {
			c.handlerOptions = opts
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) { c.attrs = append(c.attrs, attrs...) }
}

// WithContextExtractors registers functions that read request-scoped
// attributes from the logging context. Nil extractors are skipped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		for _, ex := range extractors {
			if ex != nil {
				c.extractors = append(c.extractors, ex)
			}
		}
	}
}

// WithContextValue logs ctx.Value(key) under name whenever it is set.
func WithContextValue(name string, key any) Option {
	if name == "" || key == nil {
		return func(*config) {}
	}
	return WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
		if v := ctx.Value(key); v != nil {
			return slog.Any(name, v), true
		}
		return slog.Attr{}, false
	})
}

// WithEnvironment applies the level and format preset for env and tags
// every record with service and env. Unknown names fall back to
// development.
func WithEnvironment(env, service string) Option {
	if alias, ok := envAliases[env]; ok {
		env = alias
	}
	p, ok := presets[env]
	if !ok {
		env = EnvDevelopment
		p = presets[env]
	}
	return func(c *config) {
		c.level = p.level
		c.format = p.format
		if service != "" {
			c.attrs = append(c.attrs, slog.String("service", service))
		}
		c.attrs = append(c.attrs, slog.String("env", env))
	}
}

func WithDevelopment(service string) Option { return WithEnvironment(EnvDevelopment, service) }

func WithStaging(service string) Option { return WithEnvironment(EnvStaging, service) }

func WithProduction(service string) Option { return WithEnvironment(EnvProduction, service) }

// New builds a logger. Without options it writes JSON at info level to
// stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	handlerOpts := c.handlerOptions
	if handlerOpts == nil {
		handlerOpts = &slog.HandlerOptions{Level: c.level}
	}

	var h slog.Handler
	switch c.format {
	case FormatText:
		h = slog.NewTextHandler(c.output, handlerOpts)
	default:
		h = slog.NewJSONHandler(c.output, handlerOpts)
	}
	if len(c.attrs) > 0 {
		h = h.WithAttrs(c.attrs)
	}

	return slog.New(NewContextHandler(h, c.extractors...))
}

func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}
