// Package dialect describes the protocol-specific quirks of an input schema
// as data: which definitions are skipped, how multi-type unions translate,
// how scalar types map to builtin names, and which types are hand-written.
package dialect

import (
	"maps"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Union rule kinds.
const (
	KindAny      = "any"      // the node is an opaque value
	KindRef      = "ref"      // the node is a reference to Ref
	KindOptional = "optional" // the node is an optional reference to Ref
)

// Rule translates a node whose "type" keyword is exactly Types.
type Rule struct {
	Types []string `toml:"types"`
	Kind  string   `toml:"kind"`
	Ref   string   `toml:"ref"`
}

// Dialect is the rule table consulted by the translator, the recognizers
// and the emitter.
type Dialect struct {
	// DefinitionsPath locates the definitions map from the document root.
	DefinitionsPath []string `toml:"definitions_path"`
	// RefPrefix is stripped from local "$ref" values.
	RefPrefix string `toml:"ref_prefix"`
	// Exclude lists envelope definitions that are never translated.
	Exclude []string `toml:"exclude"`
	// Opaque lists definitions that are not translated and are emitted as
	// raw JSON wrappers instead.
	Opaque []string `toml:"opaque"`
	// Custom lists hand-written types the emitter appends to the data types.
	Custom []string `toml:"custom"`
	// Unions are checked in order against array-valued "type" keywords.
	Unions []Rule `toml:"unions"`
	// Scalars maps scalar "type" keywords to builtin reference names.
	Scalars map[string]string `toml:"scalars"`
	// Capabilities is the type bound to the body of InitializedEvent when
	// the schema leaves that body untyped.
	Capabilities     string `toml:"capabilities"`
	InitializedEvent string `toml:"initialized_event"`
}

func anyTypes() []string {
	return []string{"array", "boolean", "integer", "null", "number", "object", "string"}
}

// Default returns the rule table for the debug adapter protocol schema.
func Default() *Dialect {
	return &Dialect{
		DefinitionsPath: []string{"definitions"},
		RefPrefix:       "#/definitions/",
		Exclude: []string{
			"ProtocolMessage",
			"Request",
			"Event",
			"Response",
			"ErrorResponse",
		},
		Opaque: []string{
			"RestartArguments",
			"LaunchRequestArguments",
			"AttachRequestArguments",
		},
		Custom: []string{"ModuleId"},
		Unions: []Rule{
			{Types: anyTypes(), Kind: KindAny},
			{Types: []string{"string", "null"}, Kind: KindOptional, Ref: "string"},
			{Types: []string{"integer", "string"}, Kind: KindRef, Ref: "ModuleId"},
		},
		Scalars: map[string]string{
			"integer": "uint64",
			"number":  "uint64",
			"boolean": "bool",
			"string":  "string",
		},
		Capabilities:     "Capabilities",
		InitializedEvent: "initialized",
	}
}

// Plain returns a rule table for an arbitrary definitions-based schema with
// no protocol envelopes.
func Plain() *Dialect {
	return &Dialect{
		DefinitionsPath: []string{"definitions"},
		RefPrefix:       "#/definitions/",
		Unions: []Rule{
			{Types: anyTypes(), Kind: KindAny},
			{Types: []string{"string", "null"}, Kind: KindOptional, Ref: "string"},
		},
		Scalars: map[string]string{
			"integer": "int64",
			"number":  "float64",
			"boolean": "bool",
			"string":  "string",
		},
	}
}

// OpenAPI returns Plain adjusted to read schemas from components.schemas.
func OpenAPI() *Dialect {
	d := Plain()
	d.DefinitionsPath = []string{"components", "schemas"}
	d.RefPrefix = "#/components/schemas/"
	return d
}

// Load overlays the TOML file at path onto base. An empty path returns base
// unchanged.
func Load(path string, base *Dialect) (*Dialect, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading dialect")
	}

	d := base.clone()
	if err := toml.Unmarshal(data, d); err != nil {
		return nil, errors.Wrapf(err, "parsing dialect %s", path)
	}
	if err := d.Validate(); err != nil {
		return nil, errors.Wrapf(err, "dialect %s", path)
	}
	return d, nil
}

func (d *Dialect) clone() *Dialect {
	c := *d
	c.DefinitionsPath = slices.Clone(d.DefinitionsPath)
	c.Exclude = slices.Clone(d.Exclude)
	c.Opaque = slices.Clone(d.Opaque)
	c.Custom = slices.Clone(d.Custom)
	c.Unions = make([]Rule, len(d.Unions))
	for i, r := range d.Unions {
		r.Types = slices.Clone(r.Types)
		c.Unions[i] = r
	}
	c.Scalars = maps.Clone(d.Scalars)
	return &c
}

// Validate checks the table is usable.
func (d *Dialect) Validate() error {
	if len(d.DefinitionsPath) == 0 {
		return errors.New("definitions_path must not be empty")
	}
	if d.RefPrefix == "" {
		return errors.New("ref_prefix must not be empty")
	}
	for i, r := range d.Unions {
		if len(r.Types) == 0 {
			return errors.Errorf("union rule %d: types must not be empty", i)
		}
		switch r.Kind {
		case KindAny:
		case KindRef, KindOptional:
			if r.Ref == "" {
				return errors.Errorf("union rule %d: kind %q needs a ref", i, r.Kind)
			}
		default:
			return errors.Errorf("union rule %d: unknown kind %q", i, r.Kind)
		}
	}
	return nil
}

// Excluded reports whether the named definition is skipped by the translator.
func (d *Dialect) Excluded(name string) bool {
	return slices.Contains(d.Exclude, name) || slices.Contains(d.Opaque, name)
}

// IsOpaque reports whether name is emitted as a raw JSON wrapper.
func (d *Dialect) IsOpaque(name string) bool {
	return slices.Contains(d.Opaque, name)
}

// IsCustom reports whether name is a hand-written type.
func (d *Dialect) IsCustom(name string) bool {
	return slices.Contains(d.Custom, name)
}

// MatchUnion returns the first rule whose Types equal types exactly,
// including order.
func (d *Dialect) MatchUnion(types []string) (Rule, bool) {
	for _, r := range d.Unions {
		if slices.Equal(r.Types, types) {
			return r, true
		}
	}
	return Rule{}, false
}

// Scalar maps a scalar "type" keyword to a builtin reference name.
func (d *Dialect) Scalar(typ string) (string, bool) {
	name, ok := d.Scalars[typ]
	return name, ok
}
