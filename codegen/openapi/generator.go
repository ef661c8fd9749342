// Package openapi provides a Go code generator for OpenAPI specifications
package openapi

import (
	"fmt"
	"os"
	"strings"

	"github.com/inference-gateway/dapgen/codegen"
	"github.com/inference-gateway/dapgen/codegen/jsonschema"
	"github.com/inference-gateway/dapgen/internal/dialect"
)

// OpenAPIGenerator implements the Generator interface for OpenAPI schemas
type OpenAPIGenerator struct{}

// Name returns the unique identifier for this generator
func (g *OpenAPIGenerator) Name() string {
	return "openapi"
}

// Description returns a human-readable description
func (g *OpenAPIGenerator) Description() string {
	return "Generates Go data types from the components.schemas section of OpenAPI 3.x specifications"
}

// SupportedFormats returns the file extensions this generator can process
func (g *OpenAPIGenerator) SupportedFormats() []string {
	return []string{".json", ".yaml", ".yml"}
}

// Options for the OpenAPI generator
type Options struct {
	*jsonschema.GeneratorOptions
}

// Generate processes the OpenAPI schema and generates Go code
func (g *OpenAPIGenerator) Generate(config codegen.GenerateConfig) error {
	if opts, ok := config.Options.(*Options); ok {
		config.Options = opts.GeneratorOptions
	}

	// OpenAPI component schemas are JSON Schema, so the JSON Schema pipeline
	// applies once it reads from components.schemas
	return jsonschema.GenerateTypes(config, dialect.OpenAPI())
}

// ValidateSchema validates the OpenAPI schema
func (g *OpenAPIGenerator) ValidateSchema(schemaPath string) error {
	data, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	content := string(data)
	if !strings.Contains(content, "openapi") && !strings.Contains(content, "swagger") {
		return fmt.Errorf("file does not appear to be an OpenAPI specification")
	}

	return jsonschema.ValidateSchema(schemaPath)
}

// NewOpenAPIGenerator creates a new instance of the OpenAPI generator
func NewOpenAPIGenerator() *OpenAPIGenerator {
	return &OpenAPIGenerator{}
}

// Register automatically registers the OpenAPI generator with the default registry
func init() {
	generator := NewOpenAPIGenerator()
	if err := codegen.Register(generator); err != nil {
		panic(fmt.Sprintf("Failed to register OpenAPI generator: %v", err))
	}
}
