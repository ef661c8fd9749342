// Package ir defines the intermediate representation produced by the schema
// translator and consumed by the protocol recognizers and the emitter. It is
// independent of any output syntax.
package ir

// Kind identifies an IR type shape.
type Kind int

const (
	KindAny Kind = iota
	KindRef
	KindEnum
	KindObject
	KindList
	KindOptional
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindRef:
		return "ref"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	case KindOptional:
		return "optional"
	}
	return "unknown"
}

// Builtin scalar reference names.
const (
	String = "string"
	Uint64 = "uint64"
	Bool   = "bool"
)

var builtins = map[string]bool{
	"string":  true,
	"bool":    true,
	"int":     true,
	"int32":   true,
	"int64":   true,
	"uint32":  true,
	"uint64":  true,
	"float32": true,
	"float64": true,
}

// IsBuiltin reports whether name is a builtin scalar rather than a declared
// type.
func IsBuiltin(name string) bool {
	return builtins[name]
}

// Type is the root IR node interface. The set of implementations is closed.
type Type interface {
	Kind() Kind
}

// Any is an opaque JSON value.
type Any struct{}

func (*Any) Kind() Kind { return KindAny }

// Ref names a type declared elsewhere: a definition, a builtin scalar or a
// dialect custom type.
type Ref struct {
	Name string
}

func (*Ref) Kind() Kind { return KindRef }

// Enum is a string enumeration. A non-exhaustive enum accepts values outside
// Variants.
type Enum struct {
	Doc         string
	Variants    []string
	Exhaustive  bool
	VariantDocs []string // nil, or parallel to Variants
}

func (*Enum) Kind() Kind { return KindEnum }

// SingleValue returns the only variant of an exhaustive single-variant enum.
func (e *Enum) SingleValue() (string, bool) {
	if !e.Exhaustive || len(e.Variants) != 1 {
		return "", false
	}
	return e.Variants[0], true
}

// Clone returns a copy that shares no slices with e.
func (e *Enum) Clone() *Enum {
	c := *e
	c.Variants = append([]string(nil), e.Variants...)
	if e.VariantDocs != nil {
		c.VariantDocs = append([]string(nil), e.VariantDocs...)
	}
	return &c
}

// Object is a record type. Field order is declaration order.
type Object struct {
	Doc    string
	Fields []Field
}

func (*Object) Kind() Kind { return KindObject }

// Field returns the field with the given schema key.
func (o *Object) Field(name string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Clone returns a copy whose field slice is not shared with o. Field types
// are shared; they are never mutated.
func (o *Object) Clone() *Object {
	c := *o
	c.Fields = append([]Field(nil), o.Fields...)
	return &c
}

// List is a homogeneous sequence.
type List struct {
	Elem Type
}

func (*List) Kind() Kind { return KindList }

// Optional marks a value that may be absent.
type Optional struct {
	Elem Type
}

func (*Optional) Kind() Kind { return KindOptional }

// Field is one member of an Object. Name is the original schema key.
type Field struct {
	Doc      string
	Name     string
	Type     Type
	Required bool
}

// Definition is a named top-level type.
type Definition struct {
	Name string
	Type Type
}

// Doc returns the documentation attached to t, if any.
func Doc(t Type) string {
	switch v := t.(type) {
	case *Enum:
		return v.Doc
	case *Object:
		return v.Doc
	}
	return ""
}

// Find returns the definition with the given name.
func Find(defs []Definition, name string) (Definition, bool) {
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}
