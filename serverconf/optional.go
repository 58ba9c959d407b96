package serverconf

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Optional carries two states: unset, or set to a value.
// The zero value is unset so a missing field is distinct from a present zero.
type Optional[T string | int64] struct {
	set   bool
	value T
}

// NewOptional constructs an Optional that is explicitly set.
func NewOptional[T string | int64](value T) Optional[T] {
	return Optional[T]{set: true, value: value}
}

// Set updates the value and marks it as present.
func (o *Optional[T]) Set(v T) {
	o.value = v
	o.set = true
}

// Unset clears the value so callers can detect omission again.
func (o *Optional[T]) Unset() {
	var zero T
	o.value = zero
	o.set = false
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

// Value returns the stored value, or the zero value of T when unset.
func (o Optional[T]) Value() T {
	return o.value
}

// ValueOK returns the stored value along with the IsSet flag.
func (o Optional[T]) ValueOK() (T, bool) {
	return o.value, o.set
}

// Or returns the stored value when set, otherwise def.
func (o Optional[T]) Or(def T) T {
	if o.set {
		return o.value
	}
	return def
}

func (o Optional[T]) String() string {
	if !o.set {
		return "<unset>"
	}
	return fmt.Sprintf("%v", o.value)
}

// MarshalJSON encodes an unset value as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON treats null as unset.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if o == nil {
		return fmt.Errorf("optional: nil receiver")
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		o.Unset()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("optional: unsupported json payload %s: %w", trimmed, err)
	}
	o.Set(v)
	return nil
}

// decodeFrom sets the value from loosely typed input. nil input leaves it unset.
func (o *Optional[T]) decodeFrom(data any) error {
	if data == nil {
		o.Unset()
		return nil
	}
	if same, ok := data.(Optional[T]); ok {
		*o = same
		return nil
	}
	switch target := any(&o.value).(type) {
	case *string:
		s, ok := data.(string)
		if !ok {
			return fmt.Errorf("expected text, got %T (%v)", data, data)
		}
		*target = s
	case *int64:
		n, err := toInt64(data)
		if err != nil {
			return err
		}
		*target = n
	}
	o.set = true
	return nil
}
