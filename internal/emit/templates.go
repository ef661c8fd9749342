package emit

import (
	"strings"
	"text/template"
)

var snippets = template.Must(template.New("snippets").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`
{{- define "enumMethods"}}
// IsKnown reports whether v is one of the declared {{.Type}} values.
func (v {{.Type}}) IsKnown() bool {
	switch v {
	case {{join .Consts ", "}}:
		return true
	}
	return false
}
{{if .Exhaustive}}
// UnmarshalJSON rejects values that are not declared {{.Type}} values.
func (v *{{.Type}}) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !{{.Type}}(s).IsKnown() {
		return fmt.Errorf("invalid {{.Type}} %q", s)
	}
	*v = {{.Type}}(s)
	return nil
}
{{end}}
{{end}}

{{- define "numberOrString"}}
// {{.}} holds either a number or a string.
type {{.}} struct {
	Number *uint32
	String *string
}

// MarshalJSON encodes whichever alternative is set.
func (v {{.}}) MarshalJSON() ([]byte, error) {
	switch {
	case v.Number != nil:
		return json.Marshal(*v.Number)
	case v.String != nil:
		return json.Marshal(*v.String)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a JSON number or a JSON string.
func (v *{{.}}) UnmarshalJSON(data []byte) error {
	var n uint32
	if err := json.Unmarshal(data, &n); err == nil {
		*v = {{.}}{Number: &n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("{{.}}: expected a number or a string: %w", err)
	}
	*v = {{.}}{String: &s}
	return nil
}
{{end}}

{{- define "opaque"}}
// {{.}} is carried as raw JSON.
type {{.}} struct {
	Raw json.RawMessage
}

// MarshalJSON writes the raw value unchanged.
func (v {{.}}) MarshalJSON() ([]byte, error) {
	if v.Raw == nil {
		return []byte("null"), nil
	}
	return v.Raw, nil
}

// UnmarshalJSON keeps a copy of data.
func (v *{{.}}) UnmarshalJSON(data []byte) error {
	v.Raw = append(v.Raw[:0], data...)
	return nil
}
{{end}}

{{- define "requestType"}}
// Request binds a command to its argument and response types.
type Request[Arguments, Response any] struct {
	Command string
}
{{end}}

{{- define "eventType"}}
// Event binds an event name to its body type.
type Event[Body any] struct {
	Name string
}
{{end}}
`))

type enumData struct {
	Type       string
	Consts     []string
	Exhaustive bool
}
