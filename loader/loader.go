package loader

import (
	"context"
	goerrors "errors"
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-serverconf/logger"
	"github.com/goliatone/go-serverconf/serverconf"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/copystructure"
)

var (
	DefaultDelimiter   = "."
	DefaultLoadTimeout = 30 * time.Second
)

// Loader merges prioritised sources into a raw record and converts it with
// serverconf.Convert. Sources with a higher priority override lower ones key by key.
type Loader struct {
	K            *koanf.Koanf
	sources      []Source
	builders     []SourceBuilder
	decodeOpts   []serverconf.DecodeOption
	strictMerge  bool
	loadTimeout  time.Duration
	delimiter    string
	environ      func() []string
	logger       logger.Logger
	lastSnapshot map[string]any
}

// New returns a Loader with no sources, logging to stderr, and a 30s load timeout.
func New(opts ...Option) *Loader {
	l := &Loader{
		delimiter:   DefaultDelimiter,
		loadTimeout: DefaultLoadTimeout,
		logger:      logger.NewDefaultLogger("serverconf"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	l.newKoanf()
	return l
}

// WithSource appends source builders, which run on every Load.
func (l *Loader) WithSource(builders ...SourceBuilder) *Loader {
	for _, b := range builders {
		if b != nil {
			l.builders = append(l.builders, b)
		}
	}
	return l
}

func (l *Loader) newKoanf() {
	l.K = koanf.NewWithConf(koanf.Conf{
		Delim:       l.delimiter,
		StrictMerge: l.strictMerge,
	})
}

func (l *Loader) MustLoad(ctx context.Context) serverconf.ServerConfig {
	cfg, err := l.Load(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to load server configuration: %v", err))
	}
	return cfg
}

// Load reads every source in priority order, then decodes and converts the merged values.
// A rejected record is returned as a go-errors error wrapping the *serverconf.ConversionError.
func (l *Loader) Load(ctx context.Context) (serverconf.ServerConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, l.loadTimeout)
	defer cancel()

	// start from scratch so removed keys do not linger between loads
	l.newKoanf()

	if err := l.buildSources(); err != nil {
		return serverconf.ServerConfig{}, err
	}

	for i, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return serverconf.ServerConfig{}, errors.Wrap(err, errors.CategoryOperation, "configuration load interrupted").
				WithTextCode("LOAD_CANCELLED").
				WithMetadata(map[string]any{
					"source_index": i,
				})
		}
		l.logger.Debug("= loading source %s", src.Type())
		if err := src.Load(ctx, l.K); err != nil {
			return serverconf.ServerConfig{}, errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from source").
				WithTextCode("SOURCE_LOAD_FAILED").
				WithMetadata(map[string]any{
					"source_type":   string(src.Type()),
					"source_index":  i,
					"total_sources": len(l.sources),
				})
		}
	}

	raw := l.K.Raw()
	l.lastSnapshot = l.snapshot(raw)

	cfg, err := serverconf.Parse(raw, l.decodeOpts...)
	if err != nil {
		return serverconf.ServerConfig{}, l.rejected(err)
	}

	l.logger.Info("server configuration loaded: %s", cfg)
	return cfg, nil
}

func (l *Loader) buildSources() error {
	l.sources = nil
	for i, build := range l.builders {
		src, err := build(l)
		if err != nil {
			var rich *errors.Error
			if goerrors.As(err, &rich) {
				// builders report their own text code, e.g. NIL_FLAGSET
				return rich.WithMetadata(map[string]any{
					"builder_index":  i,
					"total_builders": len(l.builders),
				})
			}
			return errors.Wrap(err, errors.CategoryOperation, "failed to create source").
				WithTextCode("SOURCE_CREATION_FAILED").
				WithMetadata(map[string]any{
					"builder_index":  i,
					"total_builders": len(l.builders),
				})
		}
		if err := src.Validate(); err != nil {
			var rich *errors.Error
			if goerrors.As(err, &rich) && rich.TextCode == "INVALID_SOURCE_TYPE" {
				return rich.WithMetadata(map[string]any{
					"source_type":  string(src.Type()),
					"source_index": i,
				})
			}
			return errors.Wrap(err, errors.CategoryValidation, "invalid source type").
				WithTextCode("INVALID_SOURCE_TYPE").
				WithMetadata(map[string]any{
					"source_type":  string(src.Type()),
					"source_index": i,
				})
		}
		l.sources = append(l.sources, src)
	}

	sort.SliceStable(l.sources, func(i, j int) bool {
		return l.sources[i].Priority() < l.sources[j].Priority()
	})
	return nil
}

func (l *Loader) rejected(err error) error {
	var convErr *serverconf.ConversionError
	if !goerrors.As(err, &convErr) {
		return errors.Wrap(err, errors.CategoryOperation, "failed to decode server configuration").
			WithTextCode("SERVER_CONFIG_DECODE_FAILED")
	}

	meta := map[string]any{
		"kind": convErr.Kind.String(),
	}
	if convErr.Field != "" {
		meta["field"] = convErr.Field
	}
	switch convErr.Kind {
	case serverconf.KindRange:
		meta["value"] = convErr.Value
	case serverconf.KindInvalidType:
		meta["detail"] = convErr.Detail
	}

	l.logger.Error("server configuration rejected: %v", convErr)
	return errors.Wrap(err, errors.CategoryValidation, "server configuration rejected").
		WithTextCode("SERVER_CONFIG_" + convErr.Kind.TextCode()).
		WithMetadata(meta)
}

// copyValue is swapped in tests to exercise copy failures.
var copyValue = copystructure.Copy

// Snapshot returns a deep copy of the values merged by the last Load, or nil
// when nothing was loaded or the copy failed.
func (l *Loader) Snapshot() map[string]any {
	return l.snapshot(l.lastSnapshot)
}

func (l *Loader) snapshot(raw map[string]any) map[string]any {
	if raw == nil {
		return nil
	}
	cloned, err := copyValue(raw)
	if err != nil {
		l.logger.Error("failed to copy configuration snapshot: %v", err)
		return nil
	}
	out, ok := cloned.(map[string]any)
	if !ok {
		l.logger.Error("unexpected snapshot type %T", cloned)
		return nil
	}
	return out
}
