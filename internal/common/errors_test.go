package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewUserError("classification failed", cause)

	assert.Equal(t, "classification failed: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "classification failed", userErr.UserMessage)
}

func TestUserErrorWithoutCause(t *testing.T) {
	err := NewUserError("nothing to do", nil)
	assert.Equal(t, "nothing to do", err.Error())
	assert.NoError(t, errors.Unwrap(err))
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "defaults", level: "", format: ""},
		{name: "debug json", level: "debug", format: "json"},
		{name: "warn console", level: "warn", format: "console"},
		{name: "error text", level: "error", format: "text"},
		{name: "level case insensitive", level: "INFO", format: "console"},
		{name: "unknown level", level: "verbose", format: "console", wantErr: true},
		{name: "unknown format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SetupLogger(tt.level, tt.format)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
