// Package dap provides a Go code generator for the debug adapter protocol
// schema: data types plus request and event bindings
package dap

import (
	"fmt"

	"github.com/inference-gateway/dapgen/codegen"
	"github.com/inference-gateway/dapgen/codegen/jsonschema"
	"github.com/inference-gateway/dapgen/internal/dialect"
	"github.com/inference-gateway/dapgen/internal/ir"
	"github.com/inference-gateway/dapgen/internal/protocol"
	"github.com/inference-gateway/dapgen/internal/schema"
	"github.com/inference-gateway/dapgen/internal/snapshot"
)

// Generated files, relative to the output directory.
const (
	RequestsFile = "requests/requests.go"
	EventsFile   = "events/events.go"
)

// DAPGenerator implements the Generator interface for protocol schemas made
// of requests, responses and events
type DAPGenerator struct{}

// Name returns the unique identifier for this generator
func (g *DAPGenerator) Name() string {
	return "dap"
}

// Description returns a human-readable description
func (g *DAPGenerator) Description() string {
	return "Generates Go data types, request bindings and event bindings from a debug adapter protocol schema"
}

// SupportedFormats returns the file extensions this generator can process
func (g *DAPGenerator) SupportedFormats() []string {
	return []string{".json", ".yaml", ".yml"}
}

// Options for the DAP generator
type Options struct {
	*jsonschema.GeneratorOptions
}

// Generate processes the protocol schema and writes, or checks, all three
// generated files
func (g *DAPGenerator) Generate(config codegen.GenerateConfig) error {
	if config.TypesImport == "" {
		return fmt.Errorf("the dap generator needs the import path of the generated types package")
	}
	if opts, ok := config.Options.(*Options); ok {
		config.Options = opts.GeneratorOptions
	}

	p, err := jsonschema.Prepare(config, dialect.Default())
	if err != nil {
		return err
	}

	types, err := p.Types(true)
	if err != nil {
		return err
	}

	requests, err := protocol.Requests(p.Definitions)
	if err != nil {
		return fmt.Errorf("failed to recognize requests: %w", err)
	}
	events, err := protocol.Events(p.Definitions, p.Dialect)
	if err != nil {
		return fmt.Errorf("failed to recognize events: %w", err)
	}
	if p.Dialect.Capabilities != "" {
		if _, ok := ir.Find(p.Definitions, p.Dialect.Capabilities); !ok {
			return fmt.Errorf("schema has no %q definition", p.Dialect.Capabilities)
		}
	}

	requestsSrc, err := p.Go.Requests(requests)
	if err != nil {
		return fmt.Errorf("failed to render requests: %w", err)
	}
	eventsSrc, err := p.Go.Events(events)
	if err != nil {
		return fmt.Errorf("failed to render events: %w", err)
	}

	return jsonschema.Output(config, []snapshot.File{
		types,
		{Path: RequestsFile, Contents: snapshot.WithDisclaimer(requestsSrc)},
		{Path: EventsFile, Contents: snapshot.WithDisclaimer(eventsSrc)},
	})
}

// ValidateSchema validates the protocol schema
func (g *DAPGenerator) ValidateSchema(schemaPath string) error {
	if err := jsonschema.ValidateSchema(schemaPath); err != nil {
		return err
	}

	root, err := schema.Load(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}

	d := dialect.Default()
	defs, ok := root.Lookup(d.DefinitionsPath...)
	if !ok || !defs.Has("ProtocolMessage") {
		return fmt.Errorf("file does not appear to be a debug adapter protocol schema")
	}

	return nil
}

// NewDAPGenerator creates a new instance of the DAP generator
func NewDAPGenerator() *DAPGenerator {
	return &DAPGenerator{}
}

// Register automatically registers the DAP generator with the default registry
func init() {
	generator := NewDAPGenerator()
	if err := codegen.Register(generator); err != nil {
		panic(fmt.Sprintf("Failed to register DAP generator: %v", err))
	}
}
