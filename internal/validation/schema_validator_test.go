package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer", "minimum": 0}
	},
	"required": ["name"]
}`

func TestSchemaValidator_ValidateBytes(t *testing.T) {
	v := NewSchemaValidator()
	require.NoError(t, v.RegisterSchema("test.schema.json", []byte(testSchema)))

	tests := []struct {
		name      string
		data      string
		wantError bool
		errorMsg  string
	}{
		{name: "valid data", data: `{"name": "John", "age": 30}`},
		{name: "valid data without optional field", data: `{"name": "Jane"}`},
		{name: "missing required field", data: `{"age": 25}`, wantError: true, errorMsg: "required"},
		{name: "wrong type for field", data: `{"name": "John", "age": "thirty"}`, wantError: true, errorMsg: "/age"},
		{name: "negative value", data: `{"name": "John", "age": -1}`, wantError: true, errorMsg: "minimum"},
		{name: "invalid JSON", data: `{"name": `, wantError: true, errorMsg: "failed to parse JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateBytes([]byte(tt.data), "test.schema.json")
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestSchemaValidator_ValidateFile(t *testing.T) {
	v := NewSchemaValidator()
	require.NoError(t, v.RegisterSchema("test.schema.json", []byte(testSchema)))

	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "x"}`), 0o644))

	assert.NoError(t, v.ValidateFile(path, "test.schema.json"))

	err := v.ValidateFile(filepath.Join(t.TempDir(), "missing.json"), "test.schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read data file")
}

func TestSchemaValidator_UnknownSchema(t *testing.T) {
	v := NewSchemaValidator()
	err := v.ValidateBytes([]byte(`{}`), "nope.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestSchemaValidator_RegisterInvalidSchema(t *testing.T) {
	v := NewSchemaValidator()
	assert.Error(t, v.RegisterSchema("bad.json", []byte(`{not json`)))
	assert.NoError(t, v.RegisterSchema("ok.json", []byte(testSchema)))
	assert.NoError(t, v.RegisterSchema("ok.json", []byte(testSchema)))
}
