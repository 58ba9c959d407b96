package loader

import (
	"time"

	"github.com/goliatone/go-serverconf/logger"
	"github.com/goliatone/go-serverconf/serverconf"
)

// Option configures a Loader in New.
type Option func(*Loader)

// WithLogger replaces the default stderr logger. nil is ignored.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithTimeout bounds each Load. Non-positive values keep DefaultLoadTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		if timeout > 0 {
			l.loadTimeout = timeout
		}
	}
}

// WithStrictMerge makes koanf reject sources that disagree on a key's type.
// Off by default since flags carry typed values while env carries strings.
func WithStrictMerge() Option {
	return func(l *Loader) {
		l.strictMerge = true
	}
}

// WithDecodeOptions forwards options to serverconf.Parse, e.g. serverconf.WithStrictKeys.
func WithDecodeOptions(opts ...serverconf.DecodeOption) Option {
	return func(l *Loader) {
		l.decodeOpts = append(l.decodeOpts, opts...)
	}
}

// WithEnviron replaces os.Environ for env sources.
func WithEnviron(fn func() []string) Option {
	return func(l *Loader) {
		l.environ = fn
	}
}

// WithSources is the option form of Loader.WithSource.
func WithSources(builders ...SourceBuilder) Option {
	return func(l *Loader) {
		l.WithSource(builders...)
	}
}
