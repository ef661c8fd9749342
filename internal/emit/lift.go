// Package emit turns IR definitions and protocol bindings into Go source:
// the data types file, the request bindings and the event bindings.
package emit

import (
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/inference-gateway/dapgen/internal/casing"
	"github.com/inference-gateway/dapgen/internal/ir"
)

var (
	// ErrShape reports a type the emitter cannot render.
	ErrShape = errors.New("unsupported type shape")
	// ErrNaming reports a schema name that does not give a unique Go
	// identifier.
	ErrNaming = errors.New("invalid identifier")
)

// Decl is one named declaration of the data types file. Object fields and
// list or optional elements never hold an inline enum or object; those are
// lifted into declarations of their own.
type Decl struct {
	Name string
	Type ir.Type
}

const itemSuffix = "Item"

// DataTypes selects the definitions that become data types and lifts their
// inline shapes. With protocolEnvelopes set, request definitions are skipped
// and response and event definitions contribute their inline body only.
func DataTypes(defs []ir.Definition, protocolEnvelopes bool) ([]Decl, error) {
	var out []Decl
	for _, def := range defs {
		root, ok, err := rootDecl(def, protocolEnvelopes)
		if err != nil {
			return nil, errors.Wrapf(err, "definition %q", def.Name)
		}
		if !ok {
			slog.Debug("no data type for definition", "name", def.Name)
			continue
		}
		out = append(out, lift(root)...)
	}
	return out, nil
}

func rootDecl(def ir.Definition, protocolEnvelopes bool) (Decl, bool, error) {
	if !protocolEnvelopes {
		return Decl(def), true, nil
	}
	switch {
	case strings.HasSuffix(def.Name, "Request"):
		return Decl{}, false, nil
	case strings.HasSuffix(def.Name, "Response"), strings.HasSuffix(def.Name, "Event"):
	default:
		return Decl(def), true, nil
	}

	obj, ok := def.Type.(*ir.Object)
	if !ok {
		return Decl{}, false, errors.Wrapf(ErrShape, "expected an object, found %s", def.Type.Kind())
	}
	body, ok := obj.Field("body")
	if !ok {
		return Decl{}, false, errors.Wrap(ErrShape, "missing field \"body\"")
	}
	switch b := body.Type.(type) {
	case *ir.Any, *ir.Ref:
		return Decl{}, false, nil
	case *ir.Object:
		c := b.Clone()
		if c.Doc == "" {
			c.Doc = obj.Doc
		}
		return Decl{Name: def.Name, Type: c}, true, nil
	}
	return Decl{}, false, errors.Wrapf(ErrShape, "body is a %s", body.Type.Kind())
}

// lift returns root followed by the declarations lifted out of it, depth
// first in order of discovery.
func lift(root Decl) []Decl {
	var out []Decl
	pending := []Decl{root}
	for len(pending) > 0 {
		d := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		var children []Decl
		switch t := d.Type.(type) {
		case *ir.Enum:
		case *ir.Object:
			obj := t.Clone()
			for i, f := range obj.Fields {
				obj.Fields[i].Type = inline(f.Type, d.Name+casing.PascalCase(f.Name), &children)
			}
			d.Type = obj
		default:
			d.Type = inline(t, d.Name+itemSuffix, &children)
		}
		out = append(out, d)

		// reversed so the first child is taken next
		for i := len(children) - 1; i >= 0; i-- {
			pending = append(pending, children[i])
		}
	}
	return out
}

func inline(t ir.Type, name string, children *[]Decl) ir.Type {
	switch v := t.(type) {
	case *ir.Enum, *ir.Object:
		*children = append(*children, Decl{Name: name, Type: v})
		return &ir.Ref{Name: name}
	case *ir.List:
		return &ir.List{Elem: inline(v.Elem, name, children)}
	case *ir.Optional:
		return &ir.Optional{Elem: inline(v.Elem, name, children)}
	}
	return t
}
