package loader

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-serverconf/koanf/providers/env"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

type SourceBuilder func(*Loader) (Source, error)

type SourceType string

// Source feeds raw values into the koanf instance backing a Loader.
type Source interface {
	Type() SourceType
	Priority() int
	Validate() error
	Load(context.Context, *koanf.Koanf) error
}

type source struct {
	order      int
	sourceType SourceType
	load       func(context.Context, *koanf.Koanf) error
}

func (s *source) Priority() int {
	return s.order
}

func (s *source) Type() SourceType {
	return s.sourceType
}

func (s *source) Load(ctx context.Context, k *koanf.Koanf) error {
	return s.load(ctx, k)
}

func (s *source) Validate() error {
	return s.sourceType.validate()
}

const (
	SourceTypeMap    SourceType = "map"
	SourceTypeStruct SourceType = "struct"
	SourceTypeEnv    SourceType = "env"
	SourceTypeFlag   SourceType = "pflag"
)

type Priority int

func (p Priority) WithOffset(offset int) Priority {
	return Priority(int(p) + offset)
}

var (
	PriorityMap    Priority = 0
	PriorityStruct Priority = 10
	PriorityEnv    Priority = 30
	PriorityFlags  Priority = 40
)

var (
	DefaultEnvPrefix    = "APP_"
	DefaultEnvDelimiter = "__"
)

func (s SourceType) String() string {
	return string(s)
}

func (s SourceType) validate() error {
	switch s {
	case SourceTypeMap, SourceTypeStruct, SourceTypeEnv, SourceTypeFlag:
		return nil
	default:
		return errors.New("invalid source type", errors.CategoryValidation).
			WithTextCode("INVALID_SOURCE_TYPE").
			WithMetadata(map[string]any{
				"source_type": string(s),
				"valid_types": []string{
					string(SourceTypeMap),
					string(SourceTypeStruct),
					string(SourceTypeEnv),
					string(SourceTypeFlag),
				},
			})
	}
}

// MapSource loads raw values from a map keyed by server_name, port_number and worker_threads.
// A nil value counts as absent.
func MapSource(values map[string]any, order ...int) SourceBuilder {
	return func(l *Loader) (Source, error) {
		return &source{
			sourceType: SourceTypeMap,
			order:      getOrder(PriorityMap, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				l.logger.Debug("map source")
				if err := k.Load(confmap.Provider(values, l.delimiter), nil); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load map values").
						WithTextCode("MAP_LOAD_FAILED").
						WithMetadata(map[string]any{
							"values_count": len(values),
						})
				}
				return nil
			},
		}, nil
	}
}

// StructSource loads a struct tagged with `koanf`. Fields tagged omitempty are
// treated as absent when they hold their zero value.
func StructSource(v any, order ...int) SourceBuilder {
	return func(l *Loader) (Source, error) {
		if v == nil {
			return nil, errors.New("struct cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_STRUCT")
		}
		kprv := structs.Provider(v, "koanf")
		return &source{
			sourceType: SourceTypeStruct,
			order:      getOrder(PriorityStruct, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				l.logger.Debug("struct source")
				if err := k.Load(kprv, nil); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from struct").
						WithTextCode("STRUCT_LOAD_FAILED")
				}
				return nil
			},
		}, nil
	}
}

// EnvSource loads variables such as APP_PORT_NUMBER. The prefix is stripped,
// names are lower cased and delim marks nesting.
func EnvSource(prefix, delim string, order ...int) SourceBuilder {
	return func(l *Loader) (Source, error) {
		return &source{
			sourceType: SourceTypeEnv,
			order:      getOrder(PriorityEnv, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				kprv := env.Provider(prefix, l.delimiter, func(s string) string {
					return strings.ReplaceAll(strings.ToLower(
						strings.TrimPrefix(s, prefix)), strings.ToLower(delim), l.delimiter)
				})
				kprv.SetLogger(l.logger)
				if l.environ != nil {
					kprv.SetEnviron(l.environ)
				}

				l.logger.Debug("env source")
				if err := k.Load(kprv, json.Parser()); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load environment variables").
						WithTextCode("ENV_LOAD_FAILED").
						WithMetadata(map[string]any{
							"prefix":    prefix,
							"delimiter": delim,
						})
				}
				return nil
			},
		}, nil
	}
}

// FlagsSource loads flags explicitly set on the command line. Flags left at
// their default are absent so a default can never stand in for a missing value.
// Dashes in flag names map to underscores, e.g. --port-number -> port_number.
func FlagsSource(flagset *pflag.FlagSet, order ...int) SourceBuilder {
	return func(l *Loader) (Source, error) {
		if flagset == nil {
			return nil, errors.New("flagset cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_FLAGSET")
		}
		return &source{
			sourceType: SourceTypeFlag,
			order:      getOrder(PriorityFlags, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				l.logger.Debug("flags source")
				prv := posflag.ProviderWithFlag(flagset, l.delimiter, nil, func(f *pflag.Flag) (string, any) {
					if !f.Changed {
						return "", nil
					}
					return FlagKey(f.Name), posflag.FlagVal(flagset, f)
				})
				if err := k.Load(prv, nil); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from posix flags").
						WithTextCode("FLAGS_LOAD_FAILED").
						WithMetadata(map[string]any{
							"delimiter": l.delimiter,
						})
				}
				return nil
			},
		}, nil
	}
}

// FlagKey maps a flag name to its config key.
func FlagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func getOrder(defaultOrder Priority, orders ...int) int {
	if len(orders) > 0 {
		return orders[0]
	}
	return int(defaultOrder)
}
