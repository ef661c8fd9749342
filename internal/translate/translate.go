// Package translate turns schema definitions into IR definitions.
package translate

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/inference-gateway/dapgen/internal/dialect"
	"github.com/inference-gateway/dapgen/internal/ir"
	"github.com/inference-gateway/dapgen/internal/schema"
)

var (
	// ErrShape reports a schema node that matches no translation rule.
	ErrShape = errors.New("unsupported schema shape")
	// ErrUnresolved reports a reference to a type that is never declared.
	ErrUnresolved = errors.New("unresolved reference")
	// ErrAllOf reports an allOf node that cannot be merged.
	ErrAllOf = errors.New("invalid allOf")
	// ErrCycle reports an allOf member that refers back to itself.
	ErrCycle = errors.New("reference cycle")
)

// structural keywords; a node carrying none of them is unconstrained.
var structural = []string{"type", "$ref", "allOf", "properties", "items", "enum", "_enum", "additionalProperties"}

// Translator translates the definitions of one schema document.
type Translator struct {
	dialect   *dialect.Dialect
	defs      *schema.Node
	resolving []string
}

// New locates the definitions of doc according to d.
func New(doc *schema.Node, d *dialect.Dialect) (*Translator, error) {
	defs, ok := doc.Lookup(d.DefinitionsPath...)
	if !ok || defs.Kind() != schema.Object {
		return nil, errors.Wrapf(ErrShape, "schema does not contain %s", strings.Join(d.DefinitionsPath, "."))
	}
	return &Translator{dialect: d, defs: defs}, nil
}

// Translate translates every definition of doc that the dialect does not
// exclude, in document order, and checks that all references resolve.
func Translate(doc *schema.Node, d *dialect.Dialect) ([]ir.Definition, error) {
	t, err := New(doc, d)
	if err != nil {
		return nil, err
	}
	return t.Definitions()
}

// Definitions translates all definitions.
func (t *Translator) Definitions() ([]ir.Definition, error) {
	var out []ir.Definition
	err := t.defs.Each(func(name string, node *schema.Node) error {
		if t.dialect.Excluded(name) {
			slog.Debug("skipping excluded definition", "name", name)
			return nil
		}
		slog.Debug("translating definition", "name", name)
		typ, err := t.TranslateType(node)
		if err != nil {
			return errors.Wrapf(err, "definition %q", name)
		}
		out = append(out, ir.Definition{Name: name, Type: typ})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := t.checkRefs(out); err != nil {
		return nil, err
	}
	return out, nil
}

// TranslateType translates one schema node. The first matching rule wins:
// dialect unions, $ref, allOf, then the scalar "type" keyword.
func (t *Translator) TranslateType(n *schema.Node) (ir.Type, error) {
	if n.Kind() != schema.Object {
		return nil, errors.Wrapf(ErrShape, "expected a schema object, found %s", n.Kind())
	}
	for _, kw := range []string{"oneOf", "anyOf"} {
		if n.Has(kw) {
			return nil, errors.Wrapf(ErrShape, "%s is not supported", kw)
		}
	}

	if typ, ok := n.Get("type"); ok && typ.Kind() == schema.Array {
		return t.union(typ)
	}
	if ref, ok := n.Get("$ref"); ok {
		name, err := t.refName(ref)
		if err != nil {
			return nil, err
		}
		return &ir.Ref{Name: name}, nil
	}
	if n.Has("allOf") {
		obj, err := t.allOf(n)
		if err != nil {
			return nil, err
		}
		return obj, nil
	}

	typ, ok := n.Get("type")
	if !ok {
		if !hasStructure(n) {
			return &ir.Any{}, nil
		}
		return nil, errors.Wrapf(ErrShape, "missing type in %s", n)
	}
	name, ok := typ.Str()
	if !ok {
		return nil, errors.Wrapf(ErrShape, "type must be a string or an array, found %s", typ.Kind())
	}

	switch name {
	case "string":
		return t.str(n)
	case "object":
		if !n.Has("properties") && n.Has("additionalProperties") {
			return &ir.Any{}, nil
		}
		obj, err := t.object(n)
		if err != nil {
			return nil, err
		}
		return obj, nil
	case "array":
		items, ok := n.Get("items")
		if !ok {
			return nil, errors.Wrap(ErrShape, "array without items")
		}
		elem, err := t.TranslateType(items)
		if err != nil {
			return nil, errors.Wrap(err, "items")
		}
		return &ir.List{Elem: elem}, nil
	}
	if scalar, ok := t.dialect.Scalar(name); ok {
		return &ir.Ref{Name: scalar}, nil
	}
	return &ir.Ref{Name: name}, nil
}

func (t *Translator) union(typ *schema.Node) (ir.Type, error) {
	types, err := typ.Strings()
	if err != nil {
		return nil, errors.Wrapf(ErrShape, "type: %v", err)
	}
	rule, ok := t.dialect.MatchUnion(types)
	if !ok {
		return nil, errors.Wrapf(ErrShape, "no rule for type union [%s]", strings.Join(types, ", "))
	}
	switch rule.Kind {
	case dialect.KindRef:
		return &ir.Ref{Name: rule.Ref}, nil
	case dialect.KindOptional:
		return &ir.Optional{Elem: &ir.Ref{Name: rule.Ref}}, nil
	}
	return &ir.Any{}, nil
}

func (t *Translator) refName(ref *schema.Node) (string, error) {
	s, ok := ref.Str()
	if !ok {
		return "", errors.Wrap(ErrShape, "$ref must be a string")
	}
	name, ok := strings.CutPrefix(s, t.dialect.RefPrefix)
	if !ok || name == "" {
		return "", errors.Wrapf(ErrShape, "$ref %q does not start with %q", s, t.dialect.RefPrefix)
	}
	return name, nil
}

// allOf merges the members of n left to right. A later field replaces an
// earlier one of the same name in place; the last non-empty doc wins.
func (t *Translator) allOf(n *schema.Node) (*ir.Object, error) {
	if n.Len() != 1 {
		return nil, errors.Wrapf(ErrAllOf, "allOf must be the only keyword, found %s", strings.Join(n.Keys(), ", "))
	}
	members, _ := n.Get("allOf")
	if members.Kind() != schema.Array {
		return nil, errors.Wrapf(ErrAllOf, "allOf must be an array, found %s", members.Kind())
	}

	fields := orderedmap.New[string, ir.Field]()
	var doc string
	for i, m := range members.Items() {
		obj, err := t.allOfMember(m)
		if err != nil {
			return nil, errors.Wrapf(err, "allOf[%d]", i)
		}
		for _, f := range obj.Fields {
			fields.Set(f.Name, f)
		}
		if obj.Doc != "" {
			doc = obj.Doc
		}
	}

	out := &ir.Object{Doc: doc, Fields: make([]ir.Field, 0, fields.Len())}
	for p := fields.Oldest(); p != nil; p = p.Next() {
		out.Fields = append(out.Fields, p.Value)
	}
	return out, nil
}

func (t *Translator) allOfMember(m *schema.Node) (*ir.Object, error) {
	ref, ok := m.Get("$ref")
	if !ok {
		if typ, _ := m.Get("type"); typ == nil || !isString(typ, "object") {
			return nil, errors.Wrap(ErrAllOf, "inline member must be an object schema")
		}
		return t.object(m)
	}

	name, err := t.refName(ref)
	if err != nil {
		return nil, err
	}
	target, ok := t.defs.Get(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnresolved, "%q", name)
	}
	if slices.Contains(t.resolving, name) {
		return nil, errors.Wrapf(ErrCycle, "%s -> %s", strings.Join(t.resolving, " -> "), name)
	}
	t.resolving = append(t.resolving, name)
	defer func() { t.resolving = t.resolving[:len(t.resolving)-1] }()

	typ, err := t.TranslateType(target)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %q", name)
	}
	obj, ok := typ.(*ir.Object)
	if !ok {
		return nil, errors.Wrapf(ErrAllOf, "%q is a %s, not an object", name, typ.Kind())
	}
	return obj, nil
}

func (t *Translator) object(n *schema.Node) (*ir.Object, error) {
	doc, err := description(n)
	if err != nil {
		return nil, err
	}
	required := map[string]bool{}
	if req, ok := n.Get("required"); ok {
		names, err := req.Strings()
		if err != nil {
			return nil, errors.Wrapf(ErrShape, "required: %v", err)
		}
		for _, name := range names {
			required[name] = true
		}
	}

	obj := &ir.Object{Doc: doc}
	props, ok := n.Get("properties")
	if !ok {
		return obj, nil
	}
	if props.Kind() != schema.Object {
		return nil, errors.Wrapf(ErrShape, "properties must be an object, found %s", props.Kind())
	}
	err = props.Each(func(key string, p *schema.Node) error {
		typ, err := t.TranslateType(p)
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		fdoc, err := description(p)
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		obj.Fields = append(obj.Fields, ir.Field{Doc: fdoc, Name: key, Type: typ, Required: required[key]})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (t *Translator) str(n *schema.Node) (ir.Type, error) {
	doc, err := description(n)
	if err != nil {
		return nil, err
	}
	var docs []string
	if ed, ok := n.Get("enumDescriptions"); ok {
		if docs, err = ed.Strings(); err != nil {
			return nil, errors.Wrapf(ErrShape, "enumDescriptions: %v", err)
		}
	}

	for _, kw := range []struct {
		key        string
		exhaustive bool
	}{{"enum", true}, {"_enum", false}} {
		v, ok := n.Get(kw.key)
		if !ok {
			continue
		}
		variants, err := v.Strings()
		if err != nil {
			return nil, errors.Wrapf(ErrShape, "%s: %v", kw.key, err)
		}
		if len(variants) == 0 {
			return nil, errors.Wrapf(ErrShape, "%s has no variants", kw.key)
		}
		if docs != nil && len(docs) != len(variants) {
			return nil, errors.Wrapf(ErrShape, "enumDescriptions has %d entries for %d variants", len(docs), len(variants))
		}
		seen := make(map[string]bool, len(variants))
		for _, v := range variants {
			if seen[v] {
				return nil, errors.Wrapf(ErrShape, "%s lists %q twice", kw.key, v)
			}
			seen[v] = true
		}
		return &ir.Enum{Doc: doc, Variants: variants, Exhaustive: kw.exhaustive, VariantDocs: docs}, nil
	}

	name, ok := t.dialect.Scalar("string")
	if !ok {
		name = ir.String
	}
	return &ir.Ref{Name: name}, nil
}

// checkRefs verifies every reference names a definition, a builtin scalar or
// a type the dialect supplies.
func (t *Translator) checkRefs(defs []ir.Definition) error {
	known := make(map[string]bool, len(defs))
	for _, d := range defs {
		known[d.Name] = true
	}
	for _, d := range defs {
		err := ir.Refs(d.Type, func(path string, r *ir.Ref) error {
			if known[r.Name] || ir.IsBuiltin(r.Name) || t.dialect.IsCustom(r.Name) || t.dialect.IsOpaque(r.Name) {
				return nil
			}
			loc := d.Name
			if path != "" {
				loc += "." + path
			}
			return errors.Wrapf(ErrUnresolved, "%s refers to %q", loc, r.Name)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func description(n *schema.Node) (string, error) {
	d, ok := n.Get("description")
	if !ok {
		return "", nil
	}
	s, ok := d.Str()
	if !ok {
		return "", errors.Wrapf(ErrShape, "description must be a string, found %s", d.Kind())
	}
	return s, nil
}

func hasStructure(n *schema.Node) bool {
	for _, kw := range structural {
		if n.Has(kw) {
			return true
		}
	}
	return false
}

func isString(n *schema.Node, want string) bool {
	s, ok := n.Str()
	return ok && s == want
}
