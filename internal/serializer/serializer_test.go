package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inscode/internal/apperror"
)

type samplePayload struct {
	Name   string   `json:"name" validate:"required,min=1,max=10"`
	TagIDs []string `json:"tag_ids" validate:"omitempty,dive,uuid4"`
}

func TestDecodeBytes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid body", body: `{"name":"demo"}`},
		{name: "unknown key rejected", body: `{"name":"demo","bogus":1}`, wantErr: true},
		{name: "broken json", body: `{"name":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst samplePayload
			err := DecodeBytes([]byte(tt.body), &dst)
			if tt.wantErr {
				var apiErr *apperror.Error
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, 400, apiErr.Status)
				assert.Equal(t, "malformed request body", apiErr.Message)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "demo", dst.Name)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("passes clean payload", func(t *testing.T) {
		assert.NoError(t, Validate(&samplePayload{Name: "demo"}))
	})

	t.Run("reports json field names", func(t *testing.T) {
		err := Validate(&samplePayload{TagIDs: []string{"not-a-uuid"}})

		var apiErr *apperror.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.Status)
		require.NotEmpty(t, apiErr.Fields)
		assert.Equal(t, "name", apiErr.Fields[0].Field)
		assert.Equal(t, "this field is required", apiErr.Fields[0].Message)
	})

	t.Run("uuid message", func(t *testing.T) {
		err := Validate(&samplePayload{Name: "demo", TagIDs: []string{"not-a-uuid"}})

		var apiErr *apperror.Error
		require.ErrorAs(t, err, &apiErr)
		require.Len(t, apiErr.Fields, 1)
		assert.Equal(t, "must be a valid UUID", apiErr.Fields[0].Message)
	})

	t.Run("max length message carries the bound", func(t *testing.T) {
		err := Validate(&samplePayload{Name: "way too long name"})

		var apiErr *apperror.Error
		require.ErrorAs(t, err, &apiErr)
		require.Len(t, apiErr.Fields, 1)
		assert.Equal(t, "must be at most 10 characters", apiErr.Fields[0].Message)
	})
}

func TestDecodeValid(t *testing.T) {
	var dst samplePayload
	err := DecodeValid([]byte(`{"name":""}`), &dst)

	var apiErr *apperror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "validation failed", apiErr.Message)
}

func TestVerifyRequired(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		data := map[string]any{"name": "demo", "owner_id": "u-1"}
		assert.NoError(t, VerifyRequired(data, "name", "owner_id"))
	})

	t.Run("missing and empty fields listed sorted", func(t *testing.T) {
		data := map[string]any{"name": ""}
		err := VerifyRequired(data, "owner_id", "name")

		var apiErr *apperror.Error
		require.ErrorAs(t, err, &apiErr)
		require.Len(t, apiErr.Fields, 2)
		assert.Equal(t, "name", apiErr.Fields[0].Field)
		assert.Equal(t, "owner_id", apiErr.Fields[1].Field)
		assert.Equal(t, "this field is required", apiErr.Fields[0].Message)
	})
}
