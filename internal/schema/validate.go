package schema

import (
	"bytes"

	"github.com/pkg/errors"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceURL = "file:///schema.json"

// Validate checks that root is a well-formed JSON Schema document. Documents
// without a $schema keyword are checked as draft 7.
func Validate(root *Node) error {
	if root.Kind() != Object {
		return errors.Errorf("schema document must be an object, found %s", root.Kind())
	}

	data, err := root.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "failed to encode schema")
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	if err := compiler.AddResource(resourceURL, bytes.NewReader(data)); err != nil {
		return errors.Wrap(err, "failed to add schema resource")
	}
	if _, err := compiler.Compile(resourceURL); err != nil {
		return errors.Wrap(err, "invalid schema")
	}
	return nil
}
