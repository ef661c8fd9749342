// Package schema holds the in-memory schema document: an order-preserving
// JSON tree that can be read from JSON or YAML.
package schema

import (
	"bytes"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind is the JSON kind of a Node.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Node is one JSON value. Object members keep the order in which they were
// read.
type Node struct {
	kind    Kind
	scalar  string // string value, or the literal text of a number
	boolean bool
	items   []*Node
	members *orderedmap.OrderedMap[string, *Node]
}

// NewObject returns an empty object node.
func NewObject() *Node {
	return &Node{kind: Object, members: orderedmap.New[string, *Node]()}
}

// NewString returns a string node.
func NewString(s string) *Node {
	return &Node{kind: String, scalar: s}
}

// NewArray returns an array node holding items.
func NewArray(items ...*Node) *Node {
	return &Node{kind: Array, items: items}
}

// Kind returns the JSON kind of n.
func (n *Node) Kind() Kind { return n.kind }

// Set adds or replaces an object member. A replaced member keeps its position.
func (n *Node) Set(key string, v *Node) {
	n.members.Set(key, v)
}

// Get returns the member named key. It reports false for non-objects.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.kind != Object {
		return nil, false
	}
	return n.members.Get(key)
}

// Has reports whether n is an object with a member named key.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Lookup follows a chain of member names from n.
func (n *Node) Lookup(path ...string) (*Node, bool) {
	cur := n
	for _, key := range path {
		next, ok := cur.Get(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Len returns the number of members or items; zero for scalars.
func (n *Node) Len() int {
	switch n.kind {
	case Object:
		return n.members.Len()
	case Array:
		return len(n.items)
	}
	return 0
}

// Keys returns the member names of an object in document order.
func (n *Node) Keys() []string {
	if n.kind != Object {
		return nil
	}
	keys := make([]string, 0, n.members.Len())
	for p := n.members.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Each calls fn for every object member in document order and stops at the
// first error.
func (n *Node) Each(fn func(key string, v *Node) error) error {
	if n.kind != Object {
		return errors.Errorf("expected object, found %s", n.kind)
	}
	for p := n.members.Oldest(); p != nil; p = p.Next() {
		if err := fn(p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// Items returns the elements of an array node.
func (n *Node) Items() []*Node {
	return n.items
}

// Str returns the value of a string node.
func (n *Node) Str() (string, bool) {
	if n == nil || n.kind != String {
		return "", false
	}
	return n.scalar, true
}

// Strings returns the values of an array whose elements are all strings.
func (n *Node) Strings() ([]string, error) {
	if n.kind != Array {
		return nil, errors.Errorf("expected array of strings, found %s", n.kind)
	}
	out := make([]string, 0, len(n.items))
	for i, it := range n.items {
		s, ok := it.Str()
		if !ok {
			return nil, errors.Errorf("element %d: expected string, found %s", i, it.kind)
		}
		out = append(out, s)
	}
	return out, nil
}

// MarshalJSON renders n as compact JSON, preserving member order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String renders n as compact JSON for diagnostics.
func (n *Node) String() string {
	b, err := n.MarshalJSON()
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return string(b)
}

func (n *Node) encode(buf *bytes.Buffer) error {
	switch n.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		if n.boolean {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		buf.WriteString(n.scalar)
	case String:
		b, err := json.Marshal(n.scalar)
		if err != nil {
			return err
		}
		buf.Write(b)
	case Array:
		buf.WriteByte('[')
		for i, it := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		first := true
		for p := n.members.Oldest(); p != nil; p = p.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			k, err := json.Marshal(p.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := p.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}
