package emit

import (
	"bytes"
	"fmt"
	"go/format"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/inference-gateway/dapgen/internal/casing"
	"github.com/inference-gateway/dapgen/internal/dialect"
	"github.com/inference-gateway/dapgen/internal/ir"
	"github.com/inference-gateway/dapgen/internal/protocol"
)

// Package names of the generated files.
const (
	DefaultPackage  = "dap"
	RequestsPackage = "requests"
	EventsPackage   = "events"
)

// Options configures Go rendering.
type Options struct {
	// Package is the package clause of the data types file.
	Package string
	// TypesImport is the import path of the data types package. The request
	// and event bindings refer to data types through it.
	TypesImport     string
	Namer           *casing.Namer
	Dialect         *dialect.Dialect
	IncludeComments bool
	FormatOutput    bool
}

// Go renders Go source files.
type Go struct {
	opts Options
}

// NewGo returns a renderer, filling unset options with defaults.
func NewGo(opts Options) *Go {
	if opts.Package == "" {
		opts.Package = DefaultPackage
	}
	if opts.Namer == nil {
		opts.Namer = casing.NewNamer(nil)
	}
	if opts.Dialect == nil {
		opts.Dialect = dialect.Plain()
	}
	return &Go{opts: opts}
}

// Types renders the data types file: one Go declaration per Decl followed by
// the dialect's custom and opaque types.
func (g *Go) Types(decls []Decl) ([]byte, error) {
	f := newFile(g.opts.Package)
	s := &scope{names: map[string]string{}, nilable: map[string]bool{}}

	declare := func(name string) error {
		id, err := g.ident(name)
		if err != nil {
			return err
		}
		if err := f.declare(id, name); err != nil {
			return err
		}
		s.names[name] = id
		return nil
	}
	for _, d := range decls {
		if err := declare(d.Name); err != nil {
			return nil, errors.Wrapf(err, "type %q", d.Name)
		}
	}
	s.resolveNilable(decls)
	extra := slices.Concat(g.opts.Dialect.Custom, g.opts.Dialect.Opaque)
	for _, name := range extra {
		if err := declare(name); err != nil {
			return nil, errors.Wrapf(err, "type %q", name)
		}
	}

	for _, d := range decls {
		if err := g.decl(f, s, d); err != nil {
			return nil, errors.Wrapf(err, "type %q", d.Name)
		}
	}

	for _, name := range g.opts.Dialect.Custom {
		f.use("encoding/json")
		f.use("fmt")
		if err := snippets.ExecuteTemplate(&f.body, "numberOrString", s.names[name]); err != nil {
			return nil, errors.Wrapf(err, "type %q", name)
		}
	}
	for _, name := range g.opts.Dialect.Opaque {
		f.use("encoding/json")
		if err := snippets.ExecuteTemplate(&f.body, "opaque", s.names[name]); err != nil {
			return nil, errors.Wrapf(err, "type %q", name)
		}
	}
	return f.render(g.opts.FormatOutput)
}

func (g *Go) decl(f *file, s *scope, d Decl) error {
	id := s.names[d.Name]
	g.comment(f, ir.Doc(d.Type), "")

	switch t := d.Type.(type) {
	case *ir.Object:
		return g.object(f, s, id, t)
	case *ir.Enum:
		return g.enum(f, id, d.Name, t)
	}
	typ, err := g.expr(f, s, d.Type)
	if err != nil {
		return err
	}
	if s.isAlias(d.Type) {
		// A defined type drops the methods of its underlying type, and with
		// them the JSON behaviour of json.RawMessage, enums and custom types.
		f.printf("type %s = %s\n\n", id, typ)
		return nil
	}
	f.printf("type %s %s\n\n", id, typ)
	return nil
}

func (g *Go) object(f *file, s *scope, id string, obj *ir.Object) error {
	if len(obj.Fields) == 0 {
		f.printf("type %s struct{}\n\n", id)
		return nil
	}

	f.printf("type %s struct {\n", id)
	members := map[string]string{}
	for _, field := range obj.Fields {
		name, err := g.ident(field.Name)
		if err != nil {
			return errors.Wrapf(err, "field %q", field.Name)
		}
		if prev, ok := members[name]; ok {
			return errors.Wrapf(ErrNaming, "fields %q and %q both render as %s", prev, field.Name, name)
		}
		members[name] = field.Name

		typ := field.Type
		tag := field.Name
		if !field.Required {
			typ = &ir.Optional{Elem: typ}
			tag += ",omitempty"
		}
		expr, err := g.expr(f, s, typ)
		if err != nil {
			return errors.Wrapf(err, "field %q", field.Name)
		}
		g.comment(f, field.Doc, "\t")
		f.printf("\t%s %s `json:%q`\n", name, expr, tag)
	}
	f.printf("}\n\n")
	return nil
}

func (g *Go) enum(f *file, id, name string, e *ir.Enum) error {
	f.printf("type %s string\n\n", id)

	consts := make([]string, 0, len(e.Variants))
	f.printf("const (\n")
	for i, v := range e.Variants {
		c, err := g.ident(name, v)
		if err != nil {
			return errors.Wrapf(err, "variant %q", v)
		}
		if err := f.declare(c, name+"."+v); err != nil {
			return err
		}
		consts = append(consts, c)
		if e.VariantDocs != nil {
			g.comment(f, e.VariantDocs[i], "\t")
		}
		f.printf("\t%s %s = %q\n", c, id, v)
	}
	f.printf(")\n")

	if e.Exhaustive {
		f.use("encoding/json")
		f.use("fmt")
	}
	return snippets.ExecuteTemplate(&f.body, "enumMethods", enumData{Type: id, Consts: consts, Exhaustive: e.Exhaustive})
}

// expr renders a type expression. An optional value type becomes a pointer;
// types that already have a nil value are left as they are.
func (g *Go) expr(f *file, s *scope, t ir.Type) (string, error) {
	switch v := t.(type) {
	case *ir.Any:
		f.use("encoding/json")
		return "json.RawMessage", nil
	case *ir.Ref:
		return s.ref(v.Name)
	case *ir.List:
		elem, err := g.expr(f, s, v.Elem)
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil
	case *ir.Optional:
		elem, err := g.expr(f, s, v.Elem)
		if err != nil {
			return "", err
		}
		if s.isNilable(v.Elem) {
			return elem, nil
		}
		return "*" + elem, nil
	}
	return "", errors.Wrapf(ErrShape, "inline %s was not lifted", t.Kind())
}

// Requests renders the request bindings file.
func (g *Go) Requests(reqs []protocol.Request) ([]byte, error) {
	f := newFile(RequestsPackage)
	for _, id := range []string{"Request", "Commands"} {
		_ = f.declare(id, id)
	}
	if err := snippets.ExecuteTemplate(&f.body, "requestType", nil); err != nil {
		return nil, err
	}

	var ids []string
	for _, r := range reqs {
		id, err := g.binding(f, r.Name, r.Name+"Request")
		if err != nil {
			return nil, err
		}
		args, err := g.body(f, r.Arguments)
		if err != nil {
			return nil, errors.Wrapf(err, "request %q arguments", r.Name)
		}
		resp, err := g.body(f, r.Response)
		if err != nil {
			return nil, errors.Wrapf(err, "request %q response", r.Name)
		}
		f.printf("\n")
		g.comment(f, r.Doc, "")
		f.printf("var %s = Request[%s, %s]{Command: %q}\n", id, args, resp, r.Command)
		ids = append(ids, id)
	}

	f.printf("\n// Commands lists every command in schema order.\nvar Commands = []string{\n")
	for _, id := range ids {
		f.printf("\t%s.Command,\n", id)
	}
	f.printf("}\n")
	return f.render(g.opts.FormatOutput)
}

// Events renders the event bindings file.
func (g *Go) Events(events []protocol.Event) ([]byte, error) {
	f := newFile(EventsPackage)
	for _, id := range []string{"Event", "Names"} {
		_ = f.declare(id, id)
	}
	if err := snippets.ExecuteTemplate(&f.body, "eventType", nil); err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range events {
		id, err := g.binding(f, e.Name, e.Name+"Event")
		if err != nil {
			return nil, err
		}
		body, err := g.body(f, e.Body)
		if err != nil {
			return nil, errors.Wrapf(err, "event %q body", e.Name)
		}
		f.printf("\n")
		g.comment(f, e.Doc, "")
		f.printf("var %s = Event[%s]{Name: %q}\n", id, body, e.Event)
		ids = append(ids, id)
	}

	f.printf("\n// Names lists every event name in schema order.\nvar Names = []string{\n")
	for _, id := range ids {
		f.printf("\t%s.Name,\n", id)
	}
	f.printf("}\n")
	return f.render(g.opts.FormatOutput)
}

func (g *Go) binding(f *file, name, origin string) (string, error) {
	id, err := g.ident(name)
	if err != nil {
		return "", errors.Wrapf(err, "binding %q", origin)
	}
	if err := f.declare(id, origin); err != nil {
		return "", err
	}
	return id, nil
}

// body renders a binding payload, qualifying data types with the types
// package.
func (g *Go) body(f *file, b protocol.Body) (string, error) {
	if b.Kind == protocol.Unit {
		return "struct{}", nil
	}
	name := b.Name
	if !ir.IsBuiltin(name) {
		if g.opts.TypesImport == "" {
			return "", errors.New("bindings refer to data types but no types import path is set")
		}
		id, err := g.ident(name)
		if err != nil {
			return "", err
		}
		alias := ""
		if path.Base(g.opts.TypesImport) != g.opts.Package {
			alias = g.opts.Package
		}
		f.useAs(g.opts.TypesImport, alias)
		name = g.opts.Package + "." + id
	}
	if b.Kind == protocol.OptionalRef {
		return "*" + name, nil
	}
	return name, nil
}

func (g *Go) ident(parts ...string) (string, error) {
	id, err := g.opts.Namer.Ident(parts...)
	if err != nil {
		return "", errors.Wrap(ErrNaming, err.Error())
	}
	return id, nil
}

func (g *Go) comment(f *file, doc, indent string) {
	if !g.opts.IncludeComments || doc == "" {
		return
	}
	text := formatDescription(doc)
	f.printf("%s%s\n", indent, strings.ReplaceAll(text, "\n", "\n"+indent))
}

// scope resolves references within the data types file.
type scope struct {
	names   map[string]string // schema name to Go identifier
	nilable map[string]bool
}

func (s *scope) ref(name string) (string, error) {
	if ir.IsBuiltin(name) {
		return name, nil
	}
	id, ok := s.names[name]
	if !ok {
		return "", errors.Wrapf(ErrShape, "reference to undeclared type %q", name)
	}
	return id, nil
}

// resolveNilable marks every declaration whose Go type has a nil value.
// References and optionals take the nilability of their target, following
// chains of references until nothing changes.
func (s *scope) resolveNilable(decls []Decl) {
	for changed := true; changed; {
		changed = false
		for _, d := range decls {
			if s.nilable[d.Name] {
				continue
			}
			switch t := d.Type.(type) {
			case *ir.Any, *ir.List, *ir.Optional:
				s.nilable[d.Name] = true
			case *ir.Ref:
				s.nilable[d.Name] = s.nilable[t.Name]
			}
			changed = changed || s.nilable[d.Name]
		}
	}
}

// isAlias reports whether a top-level declaration of t must be a type alias
// to keep the methods of the type it names.
func (s *scope) isAlias(t ir.Type) bool {
	if o, ok := t.(*ir.Optional); ok && s.isNilable(o.Elem) {
		t = o.Elem
	}
	switch v := t.(type) {
	case *ir.Any:
		return true
	case *ir.Ref:
		return !ir.IsBuiltin(v.Name)
	}
	return false
}

func (s *scope) isNilable(t ir.Type) bool {
	switch v := t.(type) {
	case *ir.Any, *ir.List, *ir.Optional:
		return true
	case *ir.Ref:
		return s.nilable[v.Name]
	}
	return false
}

// file accumulates the declarations of one Go source file.
type file struct {
	pkg     string
	imports map[string]string // import path to alias
	idents  map[string]string // package-level identifier to its origin
	body    bytes.Buffer
}

func newFile(pkg string) *file {
	return &file{pkg: pkg, imports: map[string]string{}, idents: map[string]string{}}
}

func (f *file) use(path string) {
	f.useAs(path, "")
}

func (f *file) useAs(path, alias string) {
	f.imports[path] = alias
}

func (f *file) declare(id, origin string) error {
	if prev, ok := f.idents[id]; ok {
		return errors.Wrapf(ErrNaming, "%s and %s both render as %s", prev, origin, id)
	}
	f.idents[id] = origin
	return nil
}

func (f *file) printf(format string, args ...any) {
	fmt.Fprintf(&f.body, format, args...)
}

func (f *file) render(gofmt bool) ([]byte, error) {
	var out bytes.Buffer
	fmt.Fprintf(&out, "package %s\n\n", f.pkg)
	if len(f.imports) > 0 {
		out.WriteString("import (\n")
		for _, p := range slices.Sorted(maps.Keys(f.imports)) {
			if alias := f.imports[p]; alias != "" {
				fmt.Fprintf(&out, "\t%s %q\n", alias, p)
			} else {
				fmt.Fprintf(&out, "\t%q\n", p)
			}
		}
		out.WriteString(")\n\n")
	}
	out.Write(f.body.Bytes())

	if !gofmt {
		return out.Bytes(), nil
	}
	src, err := format.Source(out.Bytes())
	if err != nil {
		return nil, errors.Wrapf(err, "formatting package %s", f.pkg)
	}
	return src, nil
}

// formatDescription formats a description string as Go comment lines, each
// prefixed by "// ".
func formatDescription(description string) string {
	lines := strings.Split(strings.TrimSpace(description), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			lines[i] = "// " + line
		} else {
			lines[i] = "//"
		}
	}
	return strings.Join(lines, "\n")
}
