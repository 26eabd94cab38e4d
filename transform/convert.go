package transform

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/agegroup/extract"
)

// errNotSequence is the cause used when the top-level value is null, which
// neither decoding library reports as a mismatch for a slice target.
var errNotSequence = errors.New("expected a sequence of objects, got null")

// wireRecord is the schema-decoded shape. Pointer fields let a missing or null
// field be told apart from a zero value.
type wireRecord struct {
	Name *string `json:"name" yaml:"name"`
	Age  *uint8  `json:"age" yaml:"age"`
}

func (w wireRecord) record() (Record, string, error) {
	if w.Name == nil {
		return Record{}, "name", &MissingFieldError{Field: "name"}
	}
	if w.Age == nil {
		return Record{}, "age", &MissingFieldError{Field: "age"}
	}
	return Record{Name: *w.Name, Age: *w.Age}, "", nil
}

// convertValue binds a Value to a record list, one arm per variant.
func convertValue(v extract.Value) ([]Record, error) {
	switch v := v.(type) {
	case extract.JSONValue:
		return convertJSON(v.Data)
	case extract.YAMLValue:
		return convertYAML(v.Node)
	case nil:
		return nil, &ConversionError{Code: CodeInvalidType, Err: errNotSequence}
	default:
		return nil, &ConversionError{Format: v.Format(), Code: CodeInvalidType, Err: fmt.Errorf("%w: %T", extract.ErrUnknownFormat, v)}
	}
}

func convertJSON(tree any) ([]Record, error) {
	items, ok := tree.([]any)
	if !ok {
		// Let go-json describe the mismatch against the target type.
		var all []wireRecord
		err := rebindJSON(tree, &all)
		if err == nil {
			err = errNotSequence
		}
		return nil, &ConversionError{Format: extract.JSON, Code: CodeInvalidType, Err: err}
	}

	out := make([]Record, 0, len(items))
	for i, item := range items {
		if obj, ok := item.(map[string]any); ok {
			if field, err := checkJSONFields(obj); err != nil {
				return nil, &ConversionError{Format: extract.JSON, Path: pointer(i, field), Code: CodeInvalidType, Err: err}
			}
		}
		var w wireRecord
		if err := rebindJSON(item, &w); err != nil {
			return nil, &ConversionError{Format: extract.JSON, Path: pointer(i, ""), Code: CodeInvalidType, Err: err}
		}
		r, field, err := w.record()
		if err != nil {
			return nil, &ConversionError{Format: extract.JSON, Path: pointer(i, field), Code: CodeRequired, Err: err}
		}
		out = append(out, r)
	}
	return out, nil
}

// checkJSONFields checks the kinds of name and age before binding. Absent and
// null fields pass; they are reported as missing afterwards.
func checkJSONFields(obj map[string]any) (string, error) {
	if v := obj["name"]; v != nil {
		if _, ok := v.(string); !ok {
			return "name", jsonTypeError(v, reflect.TypeOf(""), "name")
		}
	}
	if v := obj["age"]; v != nil && !isJSONAge(v) {
		return "age", jsonTypeError(v, reflect.TypeOf(uint8(0)), "age")
	}
	return "", nil
}

// isJSONAge reports whether v is an integer literal that fits a uint8.
// 10.0 and 1e1 are not.
func isJSONAge(v any) bool {
	switch n := v.(type) {
	case j.Number:
		_, err := strconv.ParseUint(n.String(), 10, 8)
		return err == nil
	case float64:
		return n >= 0 && n <= math.MaxUint8 && n == math.Trunc(n)
	}
	return false
}

func jsonTypeError(v any, typ reflect.Type, field string) error {
	return &j.UnmarshalTypeError{Value: jsonKind(v), Type: typ, Struct: "wireRecord", Field: field}
}

// jsonKind describes a tree value the way go-json does in its type errors.
func jsonKind(v any) string {
	switch v := v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case j.Number:
		return "number " + v.String()
	case float64:
		return "number " + strconv.FormatFloat(v, 'g', -1, 64)
	}
	return fmt.Sprintf("%T", v)
}

// rebindJSON re-encodes a generic tree and decodes it into dst.
func rebindJSON(tree any, dst any) error {
	b, err := j.Marshal(tree)
	if err != nil {
		return err
	}
	return j.Unmarshal(b, dst)
}

func convertYAML(node *yaml.Node) ([]Record, error) {
	if node == nil {
		return nil, &ConversionError{Format: extract.YAML, Code: CodeInvalidType, Err: errNotSequence}
	}
	node = resolveAlias(node)
	if node.Kind != yaml.SequenceNode {
		var all []wireRecord
		err := node.Decode(&all)
		if err == nil {
			err = errNotSequence
		}
		return nil, &ConversionError{Format: extract.YAML, Code: CodeInvalidType, Err: err}
	}

	out := make([]Record, 0, len(node.Content))
	for i, item := range node.Content {
		if field, err := checkYAMLFields(item); err != nil {
			return nil, &ConversionError{Format: extract.YAML, Path: pointer(i, field), Code: CodeInvalidType, Err: err}
		}
		var w wireRecord
		if err := item.Decode(&w); err != nil {
			return nil, &ConversionError{Format: extract.YAML, Path: pointer(i, ""), Code: CodeInvalidType, Err: err}
		}
		r, field, err := w.record()
		if err != nil {
			return nil, &ConversionError{Format: extract.YAML, Path: pointer(i, field), Code: CodeRequired, Err: err}
		}
		out = append(out, r)
	}
	return out, nil
}

// checkYAMLFields checks the resolved tags of name and age before binding.
// yaml.v3 would otherwise decode 123 or true into a string and 10.0 into a
// uint8. Null or absent fields pass; they are reported as missing afterwards.
func checkYAMLFields(item *yaml.Node) (string, error) {
	item = resolveAlias(item)
	if item.Kind != yaml.MappingNode {
		return "", nil
	}
	for i := 0; i+1 < len(item.Content); i += 2 {
		key, v := item.Content[i], resolveAlias(item.Content[i+1])
		tag := v.ShortTag()
		if tag == "!!null" {
			continue
		}
		switch key.Value {
		case "name":
			if tag != "!!str" {
				return "name", yamlTypeError(v, "string")
			}
		case "age":
			if tag != "!!int" {
				return "age", yamlTypeError(v, "uint8")
			}
			var age uint8
			if err := v.Decode(&age); err != nil {
				return "age", err
			}
		}
	}
	return "", nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// yamlTypeError builds the error yaml.v3 reports for a scalar of the wrong
// kind.
func yamlTypeError(v *yaml.Node, into string) error {
	msg := fmt.Sprintf("line %d: cannot unmarshal %s into %s", v.Line, v.ShortTag(), into)
	if v.Kind == yaml.ScalarNode {
		msg = fmt.Sprintf("line %d: cannot unmarshal %s `%s` into %s", v.Line, v.ShortTag(), v.Value, into)
	}
	return &yaml.TypeError{Errors: []string{msg}}
}

// pointer renders a JSON Pointer to item i, or to one of its fields.
func pointer(i int, field string) string {
	if field == "" {
		return fmt.Sprintf("/%d", i)
	}
	return fmt.Sprintf("/%d/%s", i, field)
}
