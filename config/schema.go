package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "hotload.json"

// GenerateSchema generates the JSON Schema for the hotload configuration.
// Extension sections are allowed as additional properties.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		DoNotReference:            true,
	}

	schema := r.Reflect(&Config{})
	schema.Title = "Hotload Configuration"
	schema.Description = "Settings for the hotload watcher, asset conventions and compiler."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}

// SchemaValidator validates configuration against the generated JSON Schema.
type SchemaValidator struct {
	schema *santhosh.Schema
}

// NewSchemaValidator compiles the configuration schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	data, err := GenerateSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}

	compiler := santhosh.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &SchemaValidator{schema: schema}, nil
}

// Validate validates configuration data against the schema.
// It expects configData to be any value that can be marshaled to JSON.
func (v *SchemaValidator) Validate(configData interface{}) error {
	jsonData, err := json.Marshal(configData)
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON for validation: %w", err)
	}

	var dataToValidate interface{}
	if err := json.Unmarshal(jsonData, &dataToValidate); err != nil {
		return fmt.Errorf("failed to unmarshal JSON for validation: %w", err)
	}

	if err := v.schema.Validate(dataToValidate); err != nil {
		if validationErr, ok := err.(*santhosh.ValidationError); ok {
			var errorMessages []string
			collectErrors(validationErr, &errorMessages)
			return fmt.Errorf("schema validation failed:\n%s", strings.Join(errorMessages, "\n"))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

// collectErrors recursively collects all validation errors into a slice
func collectErrors(err *santhosh.ValidationError, messages *[]string) {
	if err.InstanceLocation != "" {
		*messages = append(*messages, fmt.Sprintf("- %s: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}
