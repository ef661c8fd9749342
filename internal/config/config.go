package config

import (
	env "github.com/caarlos0/env/v11"
)

// Config holds the generator defaults read from the environment. Command
// line flags take precedence over every field.
type Config struct {
	Schema      string `env:"SCHEMA" envDefault:""`
	OutputDir   string `env:"OUTPUT_DIR" envDefault:""`
	Generator   string `env:"GENERATOR" envDefault:"dap"`
	Package     string `env:"PACKAGE" envDefault:"dap"`
	TypesImport string `env:"TYPES_IMPORT" envDefault:""`
	Dialect     string `env:"DIALECT" envDefault:""`
	Acronyms    string `env:"ACRONYMS" envDefault:""`
	Verbose     bool   `env:"VERBOSE" envDefault:"false"`
}

// NewConfig reads the configuration from DAPGEN_ prefixed variables.
func NewConfig() (*Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{
		Prefix: "DAPGEN_",
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
