package serverconf

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversionErrorMessages(t *testing.T) {
	cases := []struct {
		err  *ConversionError
		want string
	}{
		{MissingField(FieldServerName), `missing field "server_name"`},
		{InvalidType("worker_threads value: 300"), "invalid type: worker_threads value: 300"},
		{RangeError(FieldPortNumber, 80), "port_number out of range: 80"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.EqualError(t, tc.err, tc.want)
		})
	}
}

func TestConversionErrorSentinels(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", RangeError(FieldWorkerThreads, 0))

	assert.ErrorIs(t, wrapped, ErrRange)
	assert.NotErrorIs(t, wrapped, ErrMissingField)
	assert.NotErrorIs(t, wrapped, ErrInvalidType)
	assert.ErrorIs(t, wrapped, RangeError(FieldWorkerThreads, 0))
	assert.NotErrorIs(t, wrapped, RangeError(FieldWorkerThreads, 1))

	assert.ErrorIs(t, MissingField(FieldPortNumber), ErrMissingField)
	assert.ErrorIs(t, InvalidType("x"), ErrInvalidType)
}

func TestConversionErrorAs(t *testing.T) {
	err := fmt.Errorf("outer: %w", MissingField(FieldWorkerThreads))

	var convErr *ConversionError
	assert.True(t, errors.As(err, &convErr))
	assert.Equal(t, KindMissingField, convErr.Kind)
	assert.Equal(t, FieldWorkerThreads, convErr.Field)
}

func TestErrorKindNames(t *testing.T) {
	assert.Equal(t, "missing_field", KindMissingField.String())
	assert.Equal(t, "invalid_type", KindInvalidType.String())
	assert.Equal(t, "range", KindRange.String())
	assert.Equal(t, "unknown(9)", ErrorKind(9).String())

	assert.Equal(t, "MISSING_FIELD", KindMissingField.TextCode())
	assert.Equal(t, "INVALID_TYPE", KindInvalidType.TextCode())
	assert.Equal(t, "RANGE_ERROR", KindRange.TextCode())
}

func TestNilConversionError(t *testing.T) {
	var convErr *ConversionError
	assert.Equal(t, "", convErr.Error())
	assert.False(t, convErr.Is(ErrRange))
}
