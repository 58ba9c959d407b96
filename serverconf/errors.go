package serverconf

import (
	"errors"
	"fmt"
)

// ErrorKind identifies which rule rejected a RawConfig.
type ErrorKind int

const (
	KindMissingField ErrorKind = iota + 1
	KindInvalidType
	KindRange
)

var (
	// ErrMissingField matches conversion errors for absent required fields.
	ErrMissingField = errors.New("serverconf: missing field")
	// ErrInvalidType matches conversion errors for values that cannot be narrowed.
	ErrInvalidType = errors.New("serverconf: invalid type")
	// ErrRange matches conversion errors for representable values outside their domain.
	ErrRange = errors.New("serverconf: value out of range")
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingField:
		return "missing_field"
	case KindInvalidType:
		return "invalid_type"
	case KindRange:
		return "range"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// TextCode returns the upper case code used when the error is wrapped for reporting.
func (k ErrorKind) TextCode() string {
	switch k {
	case KindMissingField:
		return "MISSING_FIELD"
	case KindInvalidType:
		return "INVALID_TYPE"
	case KindRange:
		return "RANGE_ERROR"
	default:
		return "UNKNOWN"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMissingField:
		return ErrMissingField
	case KindInvalidType:
		return ErrInvalidType
	case KindRange:
		return ErrRange
	default:
		return nil
	}
}

// ConversionError describes the first rule a RawConfig failed.
//
// Field is set for MissingField and RangeError, and for InvalidType when the
// failing field is known. Value holds the raw wide value for RangeError and for
// narrowing failures. Detail is the human readable InvalidType payload.
type ConversionError struct {
	Kind   ErrorKind
	Field  string
	Value  int64
	Detail string
}

// MissingField reports an absent required field.
func MissingField(field string) *ConversionError {
	return &ConversionError{Kind: KindMissingField, Field: field}
}

// InvalidType reports a value that could not be narrowed into its target representation.
func InvalidType(detail string) *ConversionError {
	return &ConversionError{Kind: KindInvalidType, Detail: detail}
}

// RangeError reports a representable value outside its allowed domain.
func RangeError(field string, value int64) *ConversionError {
	return &ConversionError{Kind: KindRange, Field: field, Value: value}
}

func narrowingError(field string, value int64, format string) *ConversionError {
	return &ConversionError{
		Kind:   KindInvalidType,
		Field:  field,
		Value:  value,
		Detail: fmt.Sprintf(format, value),
	}
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("missing field %q", e.Field)
	case KindInvalidType:
		return fmt.Sprintf("invalid type: %s", e.Detail)
	case KindRange:
		return fmt.Sprintf("%s out of range: %d", e.Field, e.Value)
	default:
		return fmt.Sprintf("conversion error (%s)", e.Kind)
	}
}

// Is reports whether target is the sentinel for this error's kind.
func (e *ConversionError) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if t, ok := target.(*ConversionError); ok && t != nil {
		return *e == *t
	}
	sentinel := e.Kind.sentinel()
	return sentinel != nil && target == sentinel
}
