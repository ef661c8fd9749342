package jsonschema

import (
	"fmt"

	"github.com/inference-gateway/dapgen/codegen"
	"github.com/inference-gateway/dapgen/internal/casing"
	"github.com/inference-gateway/dapgen/internal/dialect"
	"github.com/inference-gateway/dapgen/internal/emit"
	"github.com/inference-gateway/dapgen/internal/ir"
	"github.com/inference-gateway/dapgen/internal/schema"
	"github.com/inference-gateway/dapgen/internal/snapshot"
	"github.com/inference-gateway/dapgen/internal/translate"
)

// TypesFile is the data types file, relative to the output directory.
const TypesFile = "types.go"

// GeneratorOptions holds the options shared by every generator built on
// this package
type GeneratorOptions struct {
	// PackageName is the package clause of the data types file
	PackageName string

	// IncludeComments determines whether to generate comments from descriptions
	IncludeComments bool

	// FormatOutput determines whether to run gofmt on the output
	FormatOutput bool

	// CustomAcronyms are added to, or with a false value removed from, the
	// default acronyms
	CustomAcronyms map[string]bool

	// DialectPath is a TOML file overriding the generator's default dialect
	DialectPath string
}

// OptionsFrom returns the options carried by config, or defaults when it
// carries none. A package name set on config wins without changing the
// caller's options.
func OptionsFrom(config codegen.GenerateConfig) *GeneratorOptions {
	var options *GeneratorOptions

	if config.Options != nil {
		if opts, ok := config.Options.(*Options); ok && opts.GeneratorOptions != nil {
			options = opts.GeneratorOptions
		} else if opts, ok := config.Options.(*GeneratorOptions); ok {
			options = opts
		}
	}

	if options == nil {
		options = &GeneratorOptions{
			PackageName:     config.PackageName,
			IncludeComments: true,
			FormatOutput:    true,
		}
	}

	if config.PackageName != "" && options.PackageName != config.PackageName {
		copied := *options
		copied.PackageName = config.PackageName
		options = &copied
	}

	return options
}

// Pipeline is a loaded and translated schema ready to be rendered.
type Pipeline struct {
	Dialect     *dialect.Dialect
	Definitions []ir.Definition
	Go          *emit.Go
}

// Prepare loads the dialect and the schema named by config and translates
// the schema definitions. base is the dialect used when no override file is
// given.
func Prepare(config codegen.GenerateConfig, base *dialect.Dialect) (*Pipeline, error) {
	options := OptionsFrom(config)

	d, err := dialect.Load(options.DialectPath, base)
	if err != nil {
		return nil, fmt.Errorf("failed to load dialect: %w", err)
	}

	root, err := schema.Load(config.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	defs, err := translate.Translate(root, d)
	if err != nil {
		return nil, fmt.Errorf("failed to translate schema: %w", err)
	}

	return &Pipeline{
		Dialect:     d,
		Definitions: defs,
		Go: emit.NewGo(emit.Options{
			Package:         options.PackageName,
			TypesImport:     config.TypesImport,
			Namer:           casing.NewNamer(options.CustomAcronyms),
			Dialect:         d,
			IncludeComments: options.IncludeComments,
			FormatOutput:    options.FormatOutput,
		}),
	}, nil
}

// Types renders the data types file. With protocolEnvelopes set, request
// definitions are left to the bindings and responses and events contribute
// their bodies only.
func (p *Pipeline) Types(protocolEnvelopes bool) (snapshot.File, error) {
	decls, err := emit.DataTypes(p.Definitions, protocolEnvelopes)
	if err != nil {
		return snapshot.File{}, fmt.Errorf("failed to collect data types: %w", err)
	}

	src, err := p.Go.Types(decls)
	if err != nil {
		return snapshot.File{}, fmt.Errorf("failed to render data types: %w", err)
	}

	return snapshot.File{Path: TypesFile, Contents: snapshot.WithDisclaimer(src)}, nil
}

// Output writes files to the configured output directory, or checks them
// against it when config asks for a check.
func Output(config codegen.GenerateConfig, files []snapshot.File) error {
	if config.Check {
		return snapshot.Check(config.OutputDir, files)
	}
	return snapshot.Write(config.OutputDir, files)
}

// GenerateTypes generates the data types file only
func GenerateTypes(config codegen.GenerateConfig, base *dialect.Dialect) error {
	p, err := Prepare(config, base)
	if err != nil {
		return err
	}

	types, err := p.Types(false)
	if err != nil {
		return err
	}

	return Output(config, []snapshot.File{types})
}

// ValidateSchema checks that the file at schemaPath parses and is itself a
// valid JSON Schema document
func ValidateSchema(schemaPath string) error {
	root, err := schema.Load(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}

	if err := schema.Validate(root); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	return nil
}
