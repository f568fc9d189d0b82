package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/natefinch/atomic"
)

// Schema returns the JSON schema describing config.toml.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{FieldNameTag: "toml"}
	schema := r.Reflect(&Config{})

	schema.ID = "https://github.com/bnema/siteshell/config.schema.json"
	schema.Title = "siteshell configuration"
	schema.Description = "Configuration schema for siteshell, a single-site workspace shell"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// WriteSchemaFile writes the schema to path.
func WriteSchemaFile(path string) error {
	data, err := Schema()
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	return nil
}
