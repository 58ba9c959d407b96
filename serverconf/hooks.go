package serverconf

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// decodable is satisfied by *Optional[T].
type decodable interface {
	decodeFrom(any) error
}

var decodableType = reflect.TypeOf((*decodable)(nil)).Elem()

// OptionalHook lifts scalar input into Optional fields while keeping the
// distinction between a missing key and a present value.
func OptionalHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to == nil || !reflect.PointerTo(to).Implements(decodableType) {
			return data, nil
		}
		if data != nil && reflect.TypeOf(data) == to {
			return data, nil
		}
		ptr := reflect.New(to)
		if err := ptr.Interface().(decodable).decodeFrom(data); err != nil {
			return nil, err
		}
		return ptr.Elem().Interface(), nil
	}
}

// toInt64 accepts Go integer kinds, integral floats, decimal strings and json.Number.
func toInt64(data any) (int64, error) {
	switch v := data.(type) {
	case json.Number:
		return parseInt64(v.String())
	case string:
		return parseInt64(v)
	}

	val := reflect.ValueOf(data)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return val.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := val.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("integer %d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := val.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, fmt.Errorf("expected integer, got %v", f)
		}
		// 2^63 is the first float64 past MaxInt64
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("number %v overflows int64", f)
		}
		return int64(f), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T (%v)", data, data)
	}
}

func parseInt64(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected integer, got %q", s)
	}
	return n, nil
}
