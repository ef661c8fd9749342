package emit

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-gateway/dapgen/internal/dialect"
	"github.com/inference-gateway/dapgen/internal/ir"
	"github.com/inference-gateway/dapgen/internal/protocol"
	"github.com/inference-gateway/dapgen/internal/schema"
	"github.com/inference-gateway/dapgen/internal/translate"
)

const typesImport = "example.com/debugger/dap"

func fixture(t *testing.T) []ir.Definition {
	t.Helper()
	root, err := schema.Load(filepath.Join("..", "..", "testdata", "debugProtocol.json"))
	require.NoError(t, err)
	defs, err := translate.Translate(root, dialect.Default())
	require.NoError(t, err)
	return defs
}

func declNames(decls []Decl) []string {
	var names []string
	for _, d := range decls {
		names = append(names, d.Name)
	}
	return names
}

func renderer(format bool) *Go {
	return NewGo(Options{
		TypesImport:     typesImport,
		Dialect:         dialect.Default(),
		IncludeComments: true,
		FormatOutput:    format,
	})
}

func enumOf(variants ...string) *ir.Enum {
	return &ir.Enum{Variants: variants, Exhaustive: true}
}

func TestLiftingOrder(t *testing.T) {
	decls, err := DataTypes([]ir.Definition{
		{Name: "A", Type: &ir.Object{Fields: []ir.Field{
			{Name: "x", Type: &ir.Object{Fields: []ir.Field{
				{Name: "p", Type: enumOf("one")},
				{Name: "q", Type: &ir.List{Elem: &ir.Object{Fields: []ir.Field{
					{Name: "r", Type: &ir.Optional{Elem: enumOf("two")}},
				}}}},
			}}},
			{Name: "y", Type: enumOf("three")},
		}}},
		{Name: "B", Type: enumOf("four")},
	}, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "AX", "AXP", "AXQ", "AXQR", "AY", "B"}, declNames(decls))

	axq := decls[3].Type.(*ir.Object)
	r, _ := axq.Field("r")
	assert.Equal(t, &ir.Optional{Elem: &ir.Ref{Name: "AXQR"}}, r.Type)

	ax := decls[1].Type.(*ir.Object)
	q, _ := ax.Field("q")
	assert.Equal(t, &ir.List{Elem: &ir.Ref{Name: "AXQ"}}, q.Type)
}

func TestLiftingDoesNotMutateInput(t *testing.T) {
	inner := &ir.Object{Fields: []ir.Field{{Name: "n", Type: &ir.Ref{Name: "string"}}}}
	outer := &ir.Object{Fields: []ir.Field{{Name: "inner", Type: inner}}}

	_, err := DataTypes([]ir.Definition{{Name: "Outer", Type: outer}}, false)
	require.NoError(t, err)
	assert.Same(t, inner, outer.Fields[0].Type)
}

func TestTopLevelShapes(t *testing.T) {
	decls, err := DataTypes([]ir.Definition{
		{Name: "Rows", Type: &ir.List{Elem: &ir.Object{}}},
		{Name: "Blob", Type: &ir.Any{}},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rows", "RowsItem", "Blob"}, declNames(decls))
	assert.Equal(t, &ir.List{Elem: &ir.Ref{Name: "RowsItem"}}, decls[0].Type)
}

func TestDataTypesFromFixture(t *testing.T) {
	decls, err := DataTypes(fixture(t), true)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"StoppedEvent", "StoppedEventReason",
		"ModuleEvent", "ModuleEventReason",
		"InitializeRequestArguments", "InitializeRequestArgumentsPathFormat",
		"ConfigurationDoneArguments",
		"StackTraceArguments",
		"StackTraceResponse",
		"Capabilities", "ExceptionBreakpointsFilter", "ChecksumAlgorithm",
		"Module",
		"StackFrame", "StackFramePresentationHint",
		"Source", "SourcePresentationHint",
		"Message",
	}, declNames(decls))

	stopped := decls[0].Type.(*ir.Object)
	assert.Equal(t, "The event indicates that the execution of the debuggee has stopped due to some condition.", stopped.Doc,
		"an undocumented body takes the event's doc")
	assert.Equal(t, []string{"reason", "threadId", "hitBreakpointIds"}, []string{
		stopped.Fields[0].Name, stopped.Fields[1].Name, stopped.Fields[2].Name,
	})
}

func TestEnvelopeWithoutBody(t *testing.T) {
	_, err := DataTypes([]ir.Definition{
		{Name: "ThingEvent", Type: &ir.Object{}},
	}, true)
	assert.True(t, errors.Is(err, ErrShape), "got %v", err)

	decls, err := DataTypes([]ir.Definition{
		{Name: "ThingEvent", Type: &ir.Object{}},
		{Name: "ThingRequest", Type: &ir.Any{}},
	}, false)
	require.NoError(t, err)
	assert.Len(t, decls, 2)
}

func TestRenderTypes(t *testing.T) {
	decls, err := DataTypes(fixture(t), true)
	require.NoError(t, err)

	src, err := renderer(false).Types(decls)
	require.NoError(t, err)
	out := string(src)

	for _, want := range []string{
		"package dap\n",
		"type StoppedEvent struct {\n",
		"\tReason StoppedEventReason `json:\"reason\"`\n",
		"\tThreadID *uint64 `json:\"threadId,omitempty\"`\n",
		"\tHitBreakpointIds []uint64 `json:\"hitBreakpointIds,omitempty\"`\n",
		"type StoppedEventReason string\n",
		"\tStoppedEventReasonStep StoppedEventReason = \"step\"\n",
		"\tChecksumAlgorithmSha256 ChecksumAlgorithm = \"SHA256\"\n",
		"type ConfigurationDoneArguments struct{}\n",
		"\tClientID *string `json:\"clientID,omitempty\"`\n",
		"\tAdapterID string `json:\"adapterID\"`\n",
		"\tID ModuleID `json:\"id\"`\n",
		"\tModuleID *ModuleID `json:\"moduleId,omitempty\"`\n",
		"\tSource *Source `json:\"source,omitempty\"`\n",
		"\tPresentationHint *StackFramePresentationHint `json:\"presentationHint,omitempty\"`\n",
		"\tAdapterData json.RawMessage `json:\"adapterData,omitempty\"`\n",
		"\tStackFrames []StackFrame `json:\"stackFrames\"`\n",
		"\tExceptionBreakpointFilters []ExceptionBreakpointsFilter `json:\"exceptionBreakpointFilters,omitempty\"`\n",
		"// The event indicates that the execution of the debuggee has stopped due to some condition.\ntype StoppedEvent struct",
		"\t// The thread which was stopped.\n\tThreadID",
		"type ModuleID struct {\n",
		"type RestartArguments struct {\n",
		"type LaunchRequestArguments struct {\n",
		"\"encoding/json\"",
		"\"fmt\"",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderedEnumsOpenAndClosed(t *testing.T) {
	decls, err := DataTypes(fixture(t), true)
	require.NoError(t, err)
	src, err := renderer(true).Types(decls)
	require.NoError(t, err)

	file, err := parser.ParseFile(token.NewFileSet(), "types.go", src, 0)
	require.NoError(t, err)

	methods := map[string][]string{}
	for _, d := range file.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok || fn.Recv == nil {
			continue
		}
		recv := fn.Recv.List[0].Type
		if star, ok := recv.(*ast.StarExpr); ok {
			recv = star.X
		}
		methods[recv.(*ast.Ident).Name] = append(methods[recv.(*ast.Ident).Name], fn.Name.Name)
	}

	// _enum values stay open
	assert.Equal(t, []string{"IsKnown"}, methods["StoppedEventReason"])
	assert.Equal(t, []string{"IsKnown"}, methods["InitializeRequestArgumentsPathFormat"])
	// enum values are checked on decode
	assert.Equal(t, []string{"IsKnown", "UnmarshalJSON"}, methods["ModuleEventReason"])
	assert.Equal(t, []string{"IsKnown", "UnmarshalJSON"}, methods["ChecksumAlgorithm"])
	assert.Equal(t, []string{"MarshalJSON", "UnmarshalJSON"}, methods["ModuleID"])
	assert.Equal(t, []string{"MarshalJSON", "UnmarshalJSON"}, methods["RestartArguments"])
}

func TestRenderIsIdempotent(t *testing.T) {
	decls, err := DataTypes(fixture(t), true)
	require.NoError(t, err)

	first, err := renderer(true).Types(decls)
	require.NoError(t, err)
	second, err := renderer(true).Types(decls)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCommentsCanBeOmitted(t *testing.T) {
	decls, err := DataTypes(fixture(t), true)
	require.NoError(t, err)

	src, err := NewGo(Options{Dialect: dialect.Default()}).Types(decls)
	require.NoError(t, err)
	assert.NotContains(t, string(src), "The event indicates")
	assert.Contains(t, string(src), "// IsKnown reports", "generated method docs are kept")
}

func TestOptionalWrapping(t *testing.T) {
	decls := []Decl{
		{Name: "Names", Type: &ir.List{Elem: &ir.Ref{Name: "string"}}},
		{Name: "Holder", Type: &ir.Object{Fields: []ir.Field{
			{Name: "label", Type: &ir.Optional{Elem: &ir.Ref{Name: "string"}}},
			{Name: "nullable", Type: &ir.Optional{Elem: &ir.Ref{Name: "string"}}, Required: true},
			{Name: "names", Type: &ir.Ref{Name: "Names"}},
			{Name: "count", Type: &ir.Ref{Name: "int64"}},
			{Name: "raw", Type: &ir.Any{}},
		}}},
	}
	src, err := NewGo(Options{}).Types(decls)
	require.NoError(t, err)
	out := string(src)

	assert.Contains(t, out, "type Names []string\n")
	assert.Contains(t, out, "\tLabel *string `json:\"label,omitempty\"`\n")
	assert.Contains(t, out, "\tNullable *string `json:\"nullable\"`\n")
	assert.Contains(t, out, "\tNames Names `json:\"names,omitempty\"`\n")
	assert.Contains(t, out, "\tCount *int64 `json:\"count,omitempty\"`\n")
	assert.Contains(t, out, "\tRaw json.RawMessage `json:\"raw,omitempty\"`\n")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "\"fmt\"")
}

func TestNamedReferencesKeepTheirTarget(t *testing.T) {
	decls := []Decl{
		{Name: "Names", Type: &ir.List{Elem: &ir.Ref{Name: "string"}}},
		{Name: "Alias", Type: &ir.Ref{Name: "Names"}},
		{Name: "Maybe", Type: &ir.Optional{Elem: &ir.Ref{Name: "Alias"}}},
		{Name: "Blob", Type: &ir.Any{}},
		{Name: "Kind", Type: enumOf("a")},
		{Name: "KindRef", Type: &ir.Ref{Name: "Kind"}},
		{Name: "Label", Type: &ir.Ref{Name: "string"}},
		{Name: "Holder", Type: &ir.Object{Fields: []ir.Field{
			{Name: "alias", Type: &ir.Optional{Elem: &ir.Ref{Name: "Alias"}}},
			{Name: "maybe", Type: &ir.Optional{Elem: &ir.Ref{Name: "Maybe"}}},
			{Name: "blob", Type: &ir.Optional{Elem: &ir.Ref{Name: "Blob"}}},
			{Name: "kind", Type: &ir.Optional{Elem: &ir.Ref{Name: "KindRef"}}},
			{Name: "label", Type: &ir.Optional{Elem: &ir.Ref{Name: "Label"}}},
		}}},
	}
	src, err := NewGo(Options{}).Types(decls)
	require.NoError(t, err)
	out := string(src)

	for _, want := range []string{
		"type Names []string\n",
		"type Alias = Names\n",
		"type Maybe = Alias\n",
		"type Blob = json.RawMessage\n",
		"type KindRef = Kind\n",
		"type Label string\n",
		"\tAlias Alias `json:\"alias,omitempty\"`\n",
		"\tMaybe Maybe `json:\"maybe,omitempty\"`\n",
		"\tBlob Blob `json:\"blob,omitempty\"`\n",
		"\tKind *KindRef `json:\"kind,omitempty\"`\n",
		"\tLabel *Label `json:\"label,omitempty\"`\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "*Alias")
	assert.NotContains(t, out, "*Maybe")
	assert.NotContains(t, out, "*Blob")
}

func TestNamingErrors(t *testing.T) {
	tests := []struct {
		name  string
		decls []Decl
	}{
		{"colliding types", []Decl{
			{Name: "foo_bar", Type: &ir.Object{}},
			{Name: "FooBar", Type: &ir.Object{}},
		}},
		{"colliding fields", []Decl{
			{Name: "Thing", Type: &ir.Object{Fields: []ir.Field{
				{Name: "foo_bar", Type: &ir.Ref{Name: "string"}},
				{Name: "fooBar", Type: &ir.Ref{Name: "string"}},
			}}},
		}},
		{"variant that is not an identifier", []Decl{
			{Name: "Mime", Type: enumOf("text/plain")},
		}},
		{"variant colliding with a type", []Decl{
			{Name: "Level", Type: enumOf("high")},
			{Name: "LevelHigh", Type: &ir.Object{}},
		}},
		{"leading digit", []Decl{
			{Name: "1st", Type: &ir.Object{}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGo(Options{}).Types(tt.decls)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNaming), "got %v", err)
		})
	}
}

func TestUnliftedShapeIsRejected(t *testing.T) {
	_, err := NewGo(Options{}).Types([]Decl{
		{Name: "Thing", Type: &ir.Object{Fields: []ir.Field{{Name: "kind", Type: enumOf("a")}}}},
	})
	assert.True(t, errors.Is(err, ErrShape), "got %v", err)

	_, err = NewGo(Options{}).Types([]Decl{
		{Name: "Thing", Type: &ir.Object{Fields: []ir.Field{{Name: "other", Type: &ir.Ref{Name: "Missing"}}}}},
	})
	assert.True(t, errors.Is(err, ErrShape), "got %v", err)
}

func TestRenderRequests(t *testing.T) {
	reqs, err := protocol.Requests(fixture(t))
	require.NoError(t, err)

	src, err := renderer(false).Requests(reqs)
	require.NoError(t, err)
	out := string(src)

	for _, want := range []string{
		"package requests\n",
		"\t\"example.com/debugger/dap\"\n",
		"type Request[Arguments, Response any] struct {",
		"var Initialize = Request[dap.InitializeRequestArguments, dap.Capabilities]{Command: \"initialize\"}\n",
		"var ConfigurationDone = Request[dap.ConfigurationDoneArguments, struct{}]{Command: \"configurationDone\"}\n",
		"var StackTrace = Request[dap.StackTraceArguments, dap.StackTraceResponse]{Command: \"stackTrace\"}\n",
		"var Restart = Request[dap.RestartArguments, struct{}]{Command: \"restart\"}\n",
		"// Restarts a debug session.\nvar Restart",
		"\tStackTrace.Command,\n",
	} {
		assert.Contains(t, out, want)
	}

	formatted, err := renderer(true).Requests(reqs)
	require.NoError(t, err)
	_, err = parser.ParseFile(token.NewFileSet(), "requests.go", formatted, 0)
	require.NoError(t, err)
}

func TestRenderEvents(t *testing.T) {
	events, err := protocol.Events(fixture(t), dialect.Default())
	require.NoError(t, err)

	src, err := renderer(false).Events(events)
	require.NoError(t, err)
	out := string(src)

	for _, want := range []string{
		"package events\n",
		"type Event[Body any] struct {",
		"var Initialized = Event[*dap.Capabilities]{Name: \"initialized\"}\n",
		"var Stopped = Event[dap.StoppedEvent]{Name: \"stopped\"}\n",
		"var Module = Event[dap.ModuleEvent]{Name: \"module\"}\n",
		"\tInitialized.Name,\n",
	} {
		assert.Contains(t, out, want)
	}
}

func TestBindingsImportAlias(t *testing.T) {
	g := NewGo(Options{Package: "proto", TypesImport: "example.com/debugger/v2"})
	src, err := g.Events([]protocol.Event{
		{Name: "Output", Event: "output", Body: protocol.Body{Kind: protocol.Ref, Name: "OutputEvent"}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(src), "\tproto \"example.com/debugger/v2\"\n")
	assert.Contains(t, string(src), "Event[proto.OutputEvent]")
}

func TestBindingsWithoutDataTypes(t *testing.T) {
	src, err := NewGo(Options{}).Requests([]protocol.Request{
		{Name: "Ping", Command: "ping", Arguments: protocol.Body{Kind: protocol.Unit}, Response: protocol.Body{Kind: protocol.Unit}},
	})
	require.NoError(t, err)
	assert.NotContains(t, string(src), "import")

	_, err = NewGo(Options{}).Requests([]protocol.Request{
		{Name: "Ping", Command: "ping", Arguments: protocol.Body{Kind: protocol.Ref, Name: "PingArguments"}},
	})
	assert.Error(t, err, "a type reference needs the types import path")

	_, err = NewGo(Options{}).Requests([]protocol.Request{
		{Name: "Commands", Command: "commands"},
	})
	assert.True(t, errors.Is(err, ErrNaming), "got %v", err)
}
