package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CVSuggestion(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "valid",
			doc:  `{"skills":["Go"],"keywords":["gRPC"],"improvements":["Quantify impact"],"matchScore":82}`,
		},
		{
			name: "empty lists allowed",
			doc:  `{"skills":[],"keywords":[],"improvements":[],"matchScore":0}`,
		},
		{
			name:    "missing match score",
			doc:     `{"skills":[],"keywords":[],"improvements":[]}`,
			wantErr: true,
		},
		{
			name:    "score is a string",
			doc:     `{"skills":[],"keywords":[],"improvements":[],"matchScore":"high"}`,
			wantErr: true,
		},
		{
			name:    "skills not strings",
			doc:     `{"skills":[1,2],"keywords":[],"improvements":[],"matchScore":50}`,
			wantErr: true,
		},
		{
			name:    "array root",
			doc:     `[]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(CVSuggestion, []byte(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "error should be ValidationError type")
			assert.Greater(t, len(validationErr.Errors), 0)
		})
	}
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(CVSuggestion, []byte(`{"skills": [`))
	require.Error(t, err)

	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "nope.schema.json")
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{{Field: "matchScore", Message: "Invalid type"}}}
	assert.Equal(t, "validation failed:\n  1. matchScore: Invalid type\n", err.Error())
}
