// Package protocol recognizes request and event definitions among translated
// IR definitions and pairs each request with its response.
package protocol

import (
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/inference-gateway/dapgen/internal/dialect"
	"github.com/inference-gateway/dapgen/internal/ir"
)

// ErrProtocol reports a request or event definition that does not have the
// expected shape.
var ErrProtocol = errors.New("malformed protocol definition")

// BodyKind says what a binding's payload is.
type BodyKind int

const (
	// Unit is an empty payload.
	Unit BodyKind = iota
	// Ref is a payload of the named type.
	Ref
	// OptionalRef is a payload of the named type that may be absent.
	OptionalRef
)

func (k BodyKind) String() string {
	switch k {
	case Unit:
		return "unit"
	case Ref:
		return "ref"
	case OptionalRef:
		return "optional ref"
	}
	return "unknown"
}

// Body is the payload type of a request, response or event.
type Body struct {
	Kind BodyKind
	Name string // set unless Kind is Unit
}

// Request binds a command to its argument and response types.
type Request struct {
	Name      string // definition name without the "Request" suffix
	Command   string
	Doc       string
	Arguments Body
	Response  Body
}

// Event binds an event name to its body type.
type Event struct {
	Name  string // definition name without the "Event" suffix
	Event string
	Doc   string
	Body  Body
}

const (
	requestSuffix  = "Request"
	responseSuffix = "Response"
	eventSuffix    = "Event"
)

// Requests returns a binding for every request definition, in definition
// order.
func Requests(defs []ir.Definition) ([]Request, error) {
	var out []Request
	seen := map[string]string{}
	for _, def := range defs {
		obj, ok := discriminated(def, "request")
		if !ok {
			continue
		}
		req, err := request(defs, def.Name, obj)
		if err != nil {
			return nil, errors.Wrapf(err, "request %q", def.Name)
		}
		if prev, dup := seen[req.Command]; dup {
			return nil, errors.Wrapf(ErrProtocol, "command %q is used by %s and %s", req.Command, prev, def.Name)
		}
		seen[req.Command] = def.Name
		slog.Debug("recognized request", "name", def.Name, "command", req.Command)
		out = append(out, req)
	}
	return out, nil
}

// Events returns a binding for every event definition, in definition order.
// The dialect names the event whose untyped body carries the capabilities.
func Events(defs []ir.Definition, d *dialect.Dialect) ([]Event, error) {
	var out []Event
	seen := map[string]string{}
	for _, def := range defs {
		obj, ok := discriminated(def, "event")
		if !ok {
			continue
		}
		ev, err := event(defs, d, def.Name, obj)
		if err != nil {
			return nil, errors.Wrapf(err, "event %q", def.Name)
		}
		if prev, dup := seen[ev.Event]; dup {
			return nil, errors.Wrapf(ErrProtocol, "event %q is used by %s and %s", ev.Event, prev, def.Name)
		}
		seen[ev.Event] = def.Name
		slog.Debug("recognized event", "name", def.Name, "event", ev.Event)
		out = append(out, ev)
	}
	return out, nil
}

// discriminated reports whether def is an object whose "type" field is the
// closed single-value enum want.
func discriminated(def ir.Definition, want string) (*ir.Object, bool) {
	obj, ok := def.Type.(*ir.Object)
	if !ok {
		return nil, false
	}
	f, ok := obj.Field("type")
	if !ok {
		return nil, false
	}
	e, ok := f.Type.(*ir.Enum)
	if !ok {
		return nil, false
	}
	v, ok := e.SingleValue()
	return obj, ok && v == want
}

func request(defs []ir.Definition, name string, obj *ir.Object) (Request, error) {
	logical, ok := strings.CutSuffix(name, requestSuffix)
	if !ok || logical == "" {
		return Request{}, errors.Wrapf(ErrProtocol, "name does not end in %q", requestSuffix)
	}
	command, err := singleValue(obj, "command")
	if err != nil {
		return Request{}, err
	}

	args, ok := obj.Field("arguments")
	if !ok {
		return Request{}, errors.Wrap(ErrProtocol, "missing field \"arguments\"")
	}
	var arguments Body
	switch t := args.Type.(type) {
	case *ir.Any:
		arguments = Body{Kind: Unit}
	case *ir.Ref:
		arguments = Body{Kind: Ref, Name: t.Name}
	default:
		return Request{}, errors.Wrapf(ErrProtocol, "arguments must be untyped or a reference, found %s", t.Kind())
	}

	respName := logical + responseSuffix
	resp, ok := ir.Find(defs, respName)
	if !ok {
		return Request{}, errors.Wrapf(ErrProtocol, "no response definition %q", respName)
	}
	respObj, ok := resp.Type.(*ir.Object)
	if !ok {
		return Request{}, errors.Wrapf(ErrProtocol, "%s is a %s, not an object", respName, resp.Type.Kind())
	}
	body, ok := respObj.Field("body")
	if !ok {
		return Request{}, errors.Wrapf(ErrProtocol, "%s has no field \"body\"", respName)
	}
	var response Body
	switch t := body.Type.(type) {
	case *ir.Any:
		response = Body{Kind: Unit}
	case *ir.Ref:
		response = Body{Kind: Ref, Name: t.Name}
	case *ir.Object:
		response = Body{Kind: Ref, Name: respName}
	default:
		return Request{}, errors.Wrapf(ErrProtocol, "%s.body is a %s", respName, t.Kind())
	}

	return Request{
		Name:      logical,
		Command:   command,
		Doc:       obj.Doc,
		Arguments: arguments,
		Response:  response,
	}, nil
}

func event(defs []ir.Definition, d *dialect.Dialect, name string, obj *ir.Object) (Event, error) {
	logical, ok := strings.CutSuffix(name, eventSuffix)
	if !ok || logical == "" {
		return Event{}, errors.Wrapf(ErrProtocol, "name does not end in %q", eventSuffix)
	}
	ev, err := singleValue(obj, "event")
	if err != nil {
		return Event{}, err
	}

	f, ok := obj.Field("body")
	if !ok {
		return Event{}, errors.Wrap(ErrProtocol, "missing field \"body\"")
	}
	var body Body
	switch t := f.Type.(type) {
	case *ir.Any:
		body = Body{Kind: Unit}
		if d.InitializedEvent != "" && ev == d.InitializedEvent {
			if _, ok := ir.Find(defs, d.Capabilities); !ok {
				return Event{}, errors.Wrapf(ErrProtocol, "no capabilities definition %q", d.Capabilities)
			}
			body = Body{Kind: OptionalRef, Name: d.Capabilities}
		}
	case *ir.Ref:
		body = Body{Kind: Ref, Name: t.Name}
	case *ir.Object:
		body = Body{Kind: Ref, Name: name}
	default:
		return Event{}, errors.Wrapf(ErrProtocol, "body is a %s", t.Kind())
	}

	return Event{Name: logical, Event: ev, Doc: obj.Doc, Body: body}, nil
}

func singleValue(obj *ir.Object, field string) (string, error) {
	f, ok := obj.Field(field)
	if !ok {
		return "", errors.Wrapf(ErrProtocol, "missing field %q", field)
	}
	e, ok := f.Type.(*ir.Enum)
	if !ok {
		return "", errors.Wrapf(ErrProtocol, "%s must be a single-value enum, found %s", field, f.Type.Kind())
	}
	v, ok := e.SingleValue()
	if !ok {
		return "", errors.Wrapf(ErrProtocol, "%s must be a closed enum with one value", field)
	}
	return v, nil
}
