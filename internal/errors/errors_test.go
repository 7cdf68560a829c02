package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewValidationError("output path is empty"),
			want: "[VALIDATION] output path is empty",
		},
		{
			name: "with cause",
			err:  NewExtractionError("failed to open archive", os.ErrNotExist),
			want: "[EXTRACTION] failed to open archive: file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := os.ErrPermission
	err := NewWriteError("failed to create workbook", cause)

	assert.True(t, stderrors.Is(err, os.ErrPermission))

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypeWrite, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("unreadable sheet", nil).
		WithContext("file", "report.xlsx").
		WithContext("row", 7)

	assert.Equal(t, "report.xlsx", err.Context["file"])
	assert.Equal(t, 7, err.Context["row"])
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"extraction", NewExtractionError("bad zip", nil), ErrTypeExtraction},
		{"registry", NewRegistryError("bad columns", nil), ErrTypeRegistry},
		{"parsing", NewParsingError("bad sheet", nil), ErrTypeParsing},
		{"write", NewWriteError("bad path", nil), ErrTypeWrite},
		{"config", NewConfigError("bad level", nil), ErrTypeConfig},
		{"wrapped", fmt.Errorf("run failed: %w", NewExtractionError("bad zip", nil)), ErrTypeExtraction},
		{"plain error", stderrors.New("plain"), ErrorType("")},
		{"nil", nil, ErrorType("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}

func TestIsType(t *testing.T) {
	err := NewRegistryError("missing email column", nil)

	assert.True(t, IsType(err, ErrTypeRegistry))
	assert.False(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(stderrors.New("plain"), ErrTypeRegistry))
}
