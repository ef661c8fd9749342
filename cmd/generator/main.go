package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/inference-gateway/dapgen/codegen"
	"github.com/inference-gateway/dapgen/internal/config"

	"github.com/inference-gateway/dapgen/codegen/dap"
	"github.com/inference-gateway/dapgen/codegen/jsonschema"
	"github.com/inference-gateway/dapgen/codegen/openapi"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	var (
		generatorName  = flag.String("generator", cfg.Generator, "Generator to use (dap, jsonschema, openapi)")
		packageName    = flag.String("package", cfg.Package, "Go package name of the generated data types")
		typesImport    = flag.String("types-import", cfg.TypesImport, "Import path of the generated data types package (required by the dap generator)")
		listGens       = flag.Bool("list", false, "List available generators")
		showHelp       = flag.Bool("help", false, "Show detailed help")
		customAcronyms = flag.String("acronyms", cfg.Acronyms, "JSON object of custom acronyms (e.g., '{\"api\":true,\"jwt\":true}')")
		dialectPath    = flag.String("dialect", cfg.Dialect, "TOML file overriding the generator's schema dialect")
		noComments     = flag.Bool("no-comments", false, "Disable generation of comments from descriptions")
		noFormat       = flag.Bool("no-format", false, "Disable gofmt formatting of the output")
		check          = flag.Bool("check", false, "Check that the files in the output directory are up to date instead of writing them")
		verbose        = flag.Bool("v", cfg.Verbose, "Log every translated definition")
	)

	flag.Parse()

	if *showHelp {
		showDetailedHelp()
		return
	}

	if *listGens {
		listGenerators()
		return
	}

	if *verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	schemaFile, outputDir := cfg.Schema, cfg.OutputDir
	args := flag.Args()
	if len(args) > 0 {
		schemaFile = args[0]
	}
	if len(args) > 1 {
		outputDir = args[1]
	}
	if schemaFile == "" || outputDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <schema-file> <output-dir>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Use -help for detailed usage information\n")
		os.Exit(1)
	}

	generator, err := codegen.Get(*generatorName)
	if err != nil {
		log.Fatalf("Generator not found: %v", err)
	}

	if err := generator.ValidateSchema(schemaFile); err != nil {
		log.Fatalf("Schema validation failed: %v", err)
	}

	genOptions := &jsonschema.GeneratorOptions{
		PackageName:     *packageName,
		IncludeComments: !*noComments,
		FormatOutput:    !*noFormat,
		DialectPath:     *dialectPath,
	}

	if *customAcronyms != "" {
		var acronyms map[string]bool
		if err := json.Unmarshal([]byte(*customAcronyms), &acronyms); err != nil {
			log.Fatalf("Failed to parse custom acronyms JSON: %v", err)
		}
		genOptions.CustomAcronyms = acronyms
	}

	var options interface{}

	switch generator.Name() {
	case "dap":
		options = &dap.Options{GeneratorOptions: genOptions}
	case "openapi":
		options = &openapi.Options{GeneratorOptions: genOptions}
	default:
		options = &jsonschema.Options{GeneratorOptions: genOptions}
	}

	genConfig := codegen.GenerateConfig{
		SchemaPath:  schemaFile,
		OutputDir:   outputDir,
		PackageName: *packageName,
		TypesImport: *typesImport,
		Check:       *check,
		Options:     options,
	}

	if err := generator.Generate(genConfig); err != nil {
		if *check {
			log.Fatalf("Generated code is out of date: %v", err)
		}
		log.Fatalf("Failed to generate code: %v", err)
	}

	if *check {
		fmt.Printf("Generated code in %s is up to date\n", outputDir)
		return
	}
	fmt.Printf("Successfully generated Go code using '%s' generator in %s\n", generator.Name(), outputDir)
}

func showDetailedHelp() {
	fmt.Printf(`Protocol Code Generator

USAGE:
    %s [flags] <schema-file> <output-dir>

ARGUMENTS:
    <schema-file>   Path to the input schema file (JSON, YAML, or YML)
    <output-dir>    Directory the generated Go files are written to

FLAGS:
    -generator string
        Generator to use (default: "dap"). The dap generator writes types.go,
        requests/requests.go and events/events.go; jsonschema and openapi
        write types.go only.

    -package string
        Go package name of the generated data types (default: "dap")

    -types-import string
        Import path of the generated data types package. The request and
        event bindings import it. Required by the dap generator.

    -acronyms string
        JSON object defining custom acronyms that should be capitalized in
        generated Go names. A false value disables a default acronym.
        Example: '{"jwt":true,"id":false}'

    -dialect string
        TOML file overriding the generator's schema dialect: excluded and
        opaque definitions, type union rules and scalar mappings.

    -no-comments
        Disable generation of Go comments from schema descriptions

    -no-format
        Disable gofmt formatting of the output files

    -check
        Compare the generated files with those in <output-dir> and fail with
        a diff when they differ. Nothing is written.

    -v
        Log every translated definition to stderr

    -list
        List all available generators and their descriptions

    -help
        Show this detailed help message

ENVIRONMENT:
    DAPGEN_SCHEMA, DAPGEN_OUTPUT_DIR, DAPGEN_GENERATOR, DAPGEN_PACKAGE,
    DAPGEN_TYPES_IMPORT, DAPGEN_DIALECT, DAPGEN_ACRONYMS and DAPGEN_VERBOSE
    provide defaults for the arguments and flags above.

EXAMPLES:
    # Generate the protocol package
    %s -types-import github.com/acme/debugger/dap debugProtocol.json ./dap

    # Fail in CI when the checked-in code is stale
    %s -check -types-import github.com/acme/debugger/dap debugProtocol.json ./dap

    # Generate data types from a plain JSON Schema
    %s -generator jsonschema -package models schema.yaml ./models

    # List available generators
    %s -list

`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func listGenerators() {
	fmt.Println("Available Generators:")
	fmt.Println()

	infos := codegen.ListGeneratorInfo()
	if len(infos) == 0 {
		fmt.Println("No generators registered.")
		return
	}

	for _, info := range infos {
		fmt.Printf("  %s\n", info.Name)
		fmt.Printf("    Description: %s\n", info.Description)
		fmt.Printf("    Supported formats: %s\n", strings.Join(info.SupportedFormats, ", "))
		fmt.Println()
	}
}
