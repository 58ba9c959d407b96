package serverconf

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

type decodeSettings struct {
	tagName    string
	strictKeys bool
}

// DecodeOption tweaks how Decode and Parse match input keys.
type DecodeOption func(*decodeSettings)

// WithStrictKeys rejects input keys that do not map to a RawConfig field.
func WithStrictKeys() DecodeOption {
	return func(s *decodeSettings) {
		s.strictKeys = true
	}
}

// WithTagName overrides the struct tag key used to match input keys.
func WithTagName(tag string) DecodeOption {
	return func(s *decodeSettings) {
		if tag == "" {
			return
		}
		s.tagName = tag
	}
}

// Decode lifts loosely typed input (typically map[string]any) into a RawConfig.
//
// Fields are decoded one at a time in RawConfig order and the first failure is
// returned as an InvalidType *ConversionError naming the field. Missing keys and
// nil values stay unset. Key matching falls back to a case-insensitive lookup.
func Decode(input any, opts ...DecodeOption) (RawConfig, error) {
	var raw RawConfig
	if input == nil {
		return raw, nil
	}

	settings := decodeSettings{tagName: "mapstructure"}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	values, err := inputMap(input)
	if err != nil {
		return RawConfig{}, InvalidType(fmt.Sprintf("decode raw config: %v", err))
	}

	used := make(map[string]bool, len(values))
	rv := reflect.ValueOf(&raw).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name := tagKey(field, "mapstructure")
		key, ok := lookupKey(values, tagKey(field, settings.tagName))
		if !ok {
			continue
		}
		used[key] = true

		target := rv.Field(i).Addr().Interface().(decodable)
		if err := target.decodeFrom(values[key]); err != nil {
			return RawConfig{}, &ConversionError{
				Kind:   KindInvalidType,
				Field:  name,
				Detail: fmt.Sprintf("%s: %v", name, err),
			}
		}
	}

	if settings.strictKeys {
		var unknown []string
		for key := range values {
			if !used[key] {
				unknown = append(unknown, key)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return RawConfig{}, &ConversionError{
				Kind:   KindInvalidType,
				Field:  unknown[0],
				Detail: fmt.Sprintf("unknown key %q", unknown[0]),
			}
		}
	}

	return raw, nil
}

// Parse decodes input and converts the result.
func Parse(input any, opts ...DecodeOption) (ServerConfig, error) {
	raw, err := Decode(input, opts...)
	if err != nil {
		return ServerConfig{}, err
	}
	return Convert(raw)
}

// inputMap normalises maps and structs into map[string]any.
func inputMap(input any) (map[string]any, error) {
	if m, ok := input.(map[string]any); ok {
		return m, nil
	}
	var m map[string]any
	if err := mapstructure.Decode(input, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func tagKey(field reflect.StructField, tag string) string {
	name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
	if name == "" {
		return field.Name
	}
	return name
}

func lookupKey(values map[string]any, key string) (string, bool) {
	if _, ok := values[key]; ok {
		return key, true
	}
	candidates := make([]string, 0, len(values))
	for k := range values {
		if strings.EqualFold(k, key) {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates)
	return candidates[0], true
}
