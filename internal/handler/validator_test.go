package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	UserID string `json:"user_id" validate:"userid"`
	Label  string `json:"label" validate:"notblank,max=10"`
}

func TestValidator_UserID(t *testing.T) {
	InitValidator()
	v := GetValidator()

	tests := []struct {
		name    string
		userID  string
		wantErr bool
	}{
		{"snowflake", "123456789012345678", false},
		{"opaque text", "twitch:alice", false},
		{"max length", strings.Repeat("a", MaxUserIDLength), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxUserIDLength+1), true},
		{"inner space", "al ice", true},
		{"control char", "alice\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(testStruct{UserID: tt.userID, Label: "ok"})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatValidationError_UsesJSONNames(t *testing.T) {
	err := GetValidator().ValidateStruct(testStruct{UserID: "u", Label: "   "})
	require.Error(t, err)

	fields := FormatValidationError(err)

	assert.Equal(t, map[string]string{"label": "This field is required"}, fields)
}

func TestFormatValidationError_NonValidationError(t *testing.T) {
	fields := FormatValidationError(assert.AnError)
	assert.Equal(t, "Invalid request format", fields["error"])
	assert.Nil(t, FormatValidationError(nil))
}
