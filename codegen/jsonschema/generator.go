// Package jsonschema provides a Go code generator for JSON Schema definitions
package jsonschema

import (
	"fmt"

	"github.com/inference-gateway/dapgen/codegen"
	"github.com/inference-gateway/dapgen/internal/dialect"
)

// JSONSchemaGenerator implements the Generator interface for plain JSON Schema files
type JSONSchemaGenerator struct{}

// Name returns the unique identifier for this generator
func (g *JSONSchemaGenerator) Name() string {
	return "jsonschema"
}

// Description returns a human-readable description
func (g *JSONSchemaGenerator) Description() string {
	return "Generates Go data types from the definitions of a JSON Schema file"
}

// SupportedFormats returns the file extensions this generator can process
func (g *JSONSchemaGenerator) SupportedFormats() []string {
	return []string{".json", ".yaml", ".yml"}
}

// Options for the JSON Schema generator
type Options struct {
	*GeneratorOptions
}

// Generate processes the schema and writes the data types file
func (g *JSONSchemaGenerator) Generate(config codegen.GenerateConfig) error {
	return GenerateTypes(config, dialect.Plain())
}

// ValidateSchema validates the input schema
func (g *JSONSchemaGenerator) ValidateSchema(schemaPath string) error {
	return ValidateSchema(schemaPath)
}

// NewJSONSchemaGenerator creates a new instance of the JSON Schema generator
func NewJSONSchemaGenerator() *JSONSchemaGenerator {
	return &JSONSchemaGenerator{}
}

// Register automatically registers the JSON Schema generator with the default registry
func init() {
	generator := NewJSONSchemaGenerator()
	if err := codegen.Register(generator); err != nil {
		panic(fmt.Sprintf("Failed to register JSON Schema generator: %v", err))
	}
}
