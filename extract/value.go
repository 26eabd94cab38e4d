package extract

import "gopkg.in/yaml.v3"

// Value is the generic tree produced by one extraction. It is either a
// JSONValue or a YAMLValue; callers switch on the concrete type to pick the
// matching typed decoding path.
type Value interface {
	Format() Format
	// Tree returns a JSON-compatible view of the value (map[string]any,
	// []any, scalars).
	Tree() (any, error)

	isValue()
}

// JSONValue holds the go-json decoder's native tree. Numbers are json.Number.
type JSONValue struct {
	Data any
}

// YAMLValue holds the yaml.v3 document root content node. Node is nil for an
// empty document.
type YAMLValue struct {
	Node *yaml.Node
}

func (JSONValue) Format() Format { return JSON }
func (YAMLValue) Format() Format { return YAML }

func (v JSONValue) Tree() (any, error) { return v.Data, nil }

func (v YAMLValue) Tree() (any, error) {
	if v.Node == nil {
		return nil, nil
	}
	return nodeToInterface(v.Node)
}

func (JSONValue) isValue() {}
func (YAMLValue) isValue() {}
