package errors

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		want    string
		wantTyp ErrorType
	}{
		{
			name:    "config error with cause",
			err:     NewConfigError("invalid configuration", errors.New("port out of range")),
			want:    "[CONFIG] invalid configuration: port out of range",
			wantTyp: ErrTypeConfig,
		},
		{
			name:    "dataset error",
			err:     NewDatasetError("data/trips.csv", fs.ErrNotExist),
			want:    "[DATASET] load dataset: file does not exist",
			wantTyp: ErrTypeDataset,
		},
		{
			name:    "startup error without cause",
			err:     NewStartupError("listener closed", nil),
			want:    "[STARTUP] listener closed",
			wantTyp: ErrTypeStartup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.wantTyp, tt.err.Type)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := NewDatasetError("trips.csv", fs.ErrNotExist)

	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, "trips.csv", err.Context["path"])

	var appErr *AppError
	wrapped := NewExportError("write summary", err)
	assert.True(t, errors.As(wrapped, &appErr))
	assert.ErrorIs(t, wrapped, fs.ErrNotExist)
}

func TestAppError_WithContextOnLiteral(t *testing.T) {
	err := (&AppError{Type: ErrTypeValidation, Message: "bad"}).WithContext("field", "month")
	assert.Equal(t, "month", err.Context["field"])
}
