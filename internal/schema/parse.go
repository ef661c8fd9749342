package schema

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Load reads a schema document from path. The format is chosen by file
// extension: .json, .yaml or .yml.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read schema")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	}
	return nil, errors.Errorf("unsupported schema format %q: must be .json, .yaml, or .yml", filepath.Ext(path))
}

// ParseJSON reads a JSON document from a token stream so that object member
// order survives.
func ParseJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := readValue(dec)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse JSON schema")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("failed to parse JSON schema: trailing data after document")
	}
	return root, nil
}

func readValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			members := orderedmap.New[string, *Node]()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, errors.Errorf("expected object key, found %v", kt)
				}
				val, err := readValue(dec)
				if err != nil {
					return nil, errors.Wrapf(err, "member %q", key)
				}
				members.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return &Node{kind: Object, members: members}, nil
		case '[':
			items := []*Node{}
			for dec.More() {
				val, err := readValue(dec)
				if err != nil {
					return nil, errors.Wrapf(err, "element %d", len(items))
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return &Node{kind: Array, items: items}, nil
		}
		return nil, errors.Errorf("unexpected delimiter %q", rune(v))
	case string:
		return &Node{kind: String, scalar: v}, nil
	case json.Number:
		return &Node{kind: Number, scalar: v.String()}, nil
	case float64:
		return &Node{kind: Number, scalar: strconv.FormatFloat(v, 'g', -1, 64)}, nil
	case bool:
		return &Node{kind: Bool, boolean: v}, nil
	case nil:
		return &Node{kind: Null}, nil
	}
	return nil, errors.Errorf("unexpected token %v", tok)
}

// ParseYAML reads a YAML document. Mapping order is preserved.
func ParseYAML(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML schema")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("failed to parse YAML schema: empty document")
	}
	return fromYAML(doc.Content[0])
}

func fromYAML(y *yaml.Node) (*Node, error) {
	switch y.Kind {
	case yaml.MappingNode:
		members := orderedmap.New[string, *Node]()
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, errors.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			val, err := fromYAML(v)
			if err != nil {
				return nil, errors.Wrapf(err, "member %q", k.Value)
			}
			members.Set(k.Value, val)
		}
		return &Node{kind: Object, members: members}, nil
	case yaml.SequenceNode:
		items := make([]*Node, 0, len(y.Content))
		for _, c := range y.Content {
			val, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		return &Node{kind: Array, items: items}, nil
	case yaml.AliasNode:
		return fromYAML(y.Alias)
	case yaml.ScalarNode:
		return yamlScalar(y)
	}
	return nil, errors.Errorf("line %d: unsupported YAML node", y.Line)
}

func yamlScalar(y *yaml.Node) (*Node, error) {
	switch y.ShortTag() {
	case "!!null":
		return &Node{kind: Null}, nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, errors.Wrapf(err, "line %d", y.Line)
		}
		return &Node{kind: Bool, boolean: b}, nil
	case "!!int":
		var i int64
		if err := y.Decode(&i); err != nil {
			return nil, errors.Wrapf(err, "line %d", y.Line)
		}
		return &Node{kind: Number, scalar: strconv.FormatInt(i, 10)}, nil
	case "!!float":
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, errors.Wrapf(err, "line %d", y.Line)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, errors.Errorf("line %d: %s has no JSON representation", y.Line, y.Value)
		}
		return &Node{kind: Number, scalar: strconv.FormatFloat(f, 'g', -1, 64)}, nil
	}
	return &Node{kind: String, scalar: y.Value}, nil
}
