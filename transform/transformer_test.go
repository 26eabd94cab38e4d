package transform_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	j "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/reoring/agegroup/extract"
	"github.com/reoring/agegroup/transform"
)

const (
	validPeopleJSON   = `[{"name":"John","age":10},{"name":"Jane","age":65}]`
	invalidPeopleJSON = `
        [
            {
                "name": "John",
                "age": 10
            },
            {
                "name": "Jane",
                "age": 200
            }
        ]
        `
	validPeopleYAML = `
- name: John
  age: 10
- name: Jane
  age: 65
  age_group: Child
`
)

var wantPeople = []transform.Person{
	{Name: "John", Age: 10, AgeGroup: transform.Child},
	{Name: "Jane", Age: 65, AgeGroup: transform.Senior},
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestTransformString_HappyPath(t *testing.T) {
	tr := transform.New(transform.WithLogger(zaptest.NewLogger(t)))
	tests := []struct {
		name    string
		content string
		format  extract.Format
	}{
		{"json", validPeopleJSON, extract.JSON},
		{"yaml ignores input age_group", validPeopleYAML, extract.YAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.TransformString(tt.content, tt.format)
			require.NoError(t, err)
			if diff := cmp.Diff(wantPeople, got); diff != "" {
				t.Fatalf("people mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransformFile_HappyPath(t *testing.T) {
	tr := transform.New()
	got, err := tr.TransformFile(writeFile(t, "people.yaml", validPeopleYAML), extract.YAML)
	require.NoError(t, err)
	assert.Equal(t, wantPeople, got)
}

func TestTransformString_InvalidAge(t *testing.T) {
	got, err := transform.New().TransformString(invalidPeopleJSON, extract.JSON)
	require.Error(t, err)
	assert.Nil(t, got)

	var se *transform.TransformStringError
	require.ErrorAs(t, err, &se)
	var ae *transform.AddClassificationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, transform.Record{Name: "Jane", Age: 200}, ae.Record)
	var ie *transform.InvalidAgeError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, uint8(200), ie.Age)

	// The chain is exactly three layers deep.
	assert.Same(t, ae, se.Err)
	assert.Same(t, ie, ae.Err)
}

func TestTransformFile_InvalidAgeNamesOperation(t *testing.T) {
	path := writeFile(t, "people.json", invalidPeopleJSON)
	_, err := transform.New().TransformFile(path, extract.JSON)

	var fe *transform.TransformFileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, path, fe.Path)
	var ie *transform.InvalidAgeError
	require.ErrorAs(t, err, &ie)
}

func TestTransform_FailFastReferencesFirstInvalid(t *testing.T) {
	content := `[
		{"name":"a","age":1},
		{"name":"b","age":150},
		{"name":"c","age":-1},
		{"name":"d","age":101}
	]`
	_, err := transform.New().TransformString(content, extract.JSON)
	require.Error(t, err)
	// Record c is not even a valid uint8, so conversion fails before
	// classification runs.
	var ce *transform.ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "/2/age", ce.Path)

	content = `[
		{"name":"a","age":1},
		{"name":"b","age":150},
		{"name":"d","age":101}
	]`
	_, err = transform.New().TransformString(content, extract.JSON)
	var ae *transform.AddClassificationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "b", ae.Record.Name)
}

func TestClassifyAll_FailFast(t *testing.T) {
	records := []transform.Record{{Name: "a", Age: 1}, {Name: "b", Age: 101}, {Name: "c", Age: 102}}
	people, err := transform.ClassifyAll(records)
	assert.Nil(t, people)
	var ae *transform.AddClassificationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "b", ae.Record.Name)
	// input records are left untouched
	assert.Equal(t, []transform.Record{{Name: "a", Age: 1}, {Name: "b", Age: 101}, {Name: "c", Age: 102}}, records)
}

func TestTransformString_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		format   extract.Format
		path     string
		code     string
		checkErr func(t *testing.T, err error)
	}{
		{
			name: "json object at top level", content: `{"name":"John","age":10}`, format: extract.JSON,
			code: transform.CodeInvalidType,
		},
		{
			name: "yaml mapping at top level", content: "name: John\nage: 10\n", format: extract.YAML,
			code: transform.CodeInvalidType,
			checkErr: func(t *testing.T, err error) {
				var te *yaml.TypeError
				assert.ErrorAs(t, err, &te)
			},
		},
		{
			name: "json missing age", content: `[{"name":"John","age":10},{"name":"Jane"}]`, format: extract.JSON,
			path: "/1/age", code: transform.CodeRequired,
			checkErr: func(t *testing.T, err error) {
				var me *transform.MissingFieldError
				require.ErrorAs(t, err, &me)
				assert.Equal(t, "age", me.Field)
			},
		},
		{
			name: "yaml missing age", content: "- name: John\n", format: extract.YAML,
			path: "/0/age", code: transform.CodeRequired,
		},
		{
			name: "json null age", content: `[{"name":"John","age":null}]`, format: extract.JSON,
			path: "/0/age", code: transform.CodeRequired,
		},
		{
			name: "json mistyped age", content: `[{"name":"John","age":"ten"}]`, format: extract.JSON,
			path: "/0/age", code: transform.CodeInvalidType,
		},
		{
			name: "json age overflows", content: `[{"name":"John","age":256}]`, format: extract.JSON,
			path: "/0/age", code: transform.CodeInvalidType,
		},
		{
			name: "yaml age overflows", content: "- name: John\n  age: 300\n", format: extract.YAML,
			path: "/0/age", code: transform.CodeInvalidType, checkErr: wantYAMLTypeError,
		},
		{
			name: "yaml negative age", content: "- name: John\n  age: -1\n", format: extract.YAML,
			path: "/0/age", code: transform.CodeInvalidType, checkErr: wantYAMLTypeError,
		},
		{
			name: "yaml numeric name", content: "- name: 123\n  age: 10\n", format: extract.YAML,
			path: "/0/name", code: transform.CodeInvalidType, checkErr: wantYAMLTypeError,
		},
		{
			name: "yaml bool name", content: "- name: true\n  age: 10\n", format: extract.YAML,
			path: "/0/name", code: transform.CodeInvalidType, checkErr: wantYAMLTypeError,
		},
		{
			name: "yaml mapping name", content: "- name: {first: John}\n  age: 10\n", format: extract.YAML,
			path: "/0/name", code: transform.CodeInvalidType, checkErr: wantYAMLTypeError,
		},
		{
			name: "yaml float age", content: "- name: a\n  age: 10.0\n", format: extract.YAML,
			path: "/0/age", code: transform.CodeInvalidType, checkErr: wantYAMLTypeError,
		},
		{
			name: "yaml quoted age", content: "- name: a\n  age: \"10\"\n", format: extract.YAML,
			path: "/0/age", code: transform.CodeInvalidType, checkErr: wantYAMLTypeError,
		},
		{
			name: "yaml mistyped age in second record", content: "- name: a\n  age: 1\n- name: b\n  age: ten\n", format: extract.YAML,
			path: "/1/age", code: transform.CodeInvalidType, checkErr: wantYAMLTypeError,
		},
		{
			name: "json numeric name", content: `[{"name":123,"age":10}]`, format: extract.JSON,
			path: "/0/name", code: transform.CodeInvalidType, checkErr: wantJSONTypeError("number 123"),
		},
		{
			name: "json fractional age", content: `[{"name":"a","age":10.0}]`, format: extract.JSON,
			path: "/0/age", code: transform.CodeInvalidType, checkErr: wantJSONTypeError("number 10.0"),
		},
		{
			name: "json exponent age", content: `[{"name":"a","age":1e1}]`, format: extract.JSON,
			path: "/0/age", code: transform.CodeInvalidType, checkErr: wantJSONTypeError("number 1e1"),
		},
		{
			name: "json null document", content: `null`, format: extract.JSON,
			code: transform.CodeInvalidType,
		},
		{
			name: "yaml empty document", content: "", format: extract.YAML,
			code: transform.CodeInvalidType,
		},
		{
			name: "json scalar element", content: `[1]`, format: extract.JSON,
			path: "/0", code: transform.CodeInvalidType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transform.New().TransformString(tt.content, tt.format)
			var se *transform.TransformStringError
			require.ErrorAs(t, err, &se)
			var ce *transform.ConversionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.format, ce.Format)
			assert.Equal(t, tt.code, ce.Code)
			assert.Equal(t, tt.path, ce.Path)
			require.NotNil(t, errors.Unwrap(ce), "conversion error must chain to a structural cause")
			if tt.checkErr != nil {
				tt.checkErr(t, err)
			}
		})
	}
}

func wantYAMLTypeError(t *testing.T, err error) {
	t.Helper()
	var te *yaml.TypeError
	assert.ErrorAs(t, err, &te)
}

func wantJSONTypeError(value string) func(t *testing.T, err error) {
	return func(t *testing.T, err error) {
		t.Helper()
		var te *j.UnmarshalTypeError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, value, te.Value)
	}
}

// The same logical input must fail the same way in both formats.
func TestTransformString_FormatParity(t *testing.T) {
	tests := []struct {
		name string
		json string
		yaml string
	}{
		{name: "numeric name", json: `[{"name":123,"age":10}]`, yaml: "- name: 123\n  age: 10\n"},
		{name: "bool name", json: `[{"name":true,"age":10}]`, yaml: "- name: true\n  age: 10\n"},
		{name: "fractional age", json: `[{"name":"a","age":10.5}]`, yaml: "- name: a\n  age: 10.5\n"},
		{name: "string age", json: `[{"name":"a","age":"10"}]`, yaml: "- name: a\n  age: \"10\"\n"},
		{name: "age overflows", json: `[{"name":"a","age":300}]`, yaml: "- name: a\n  age: 300\n"},
		{name: "negative age", json: `[{"name":"a","age":-1}]`, yaml: "- name: a\n  age: -1\n"},
		{name: "missing name", json: `[{"age":1}]`, yaml: "- age: 1\n"},
		{name: "null age", json: `[{"name":"a","age":null}]`, yaml: "- name: a\n  age: null\n"},
		{name: "scalar element", json: `[1]`, yaml: "- 1\n"},
	}
	tr := transform.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, jerr := tr.TransformString(tt.json, extract.JSON)
			_, yerr := tr.TransformString(tt.yaml, extract.YAML)
			var jce, yce *transform.ConversionError
			require.ErrorAs(t, jerr, &jce)
			require.ErrorAs(t, yerr, &yce)
			assert.Equal(t, jce.Path, yce.Path)
			assert.Equal(t, jce.Code, yce.Code)
		})
	}
}

func TestTransformString_YAMLTypedScalars(t *testing.T) {
	got, err := transform.New().TransformString("- name: !!str 123\n  age: 0x0A\n- name: Ann\n  age: &a 15\n- name: Bo\n  age: *a\n", extract.YAML)
	require.NoError(t, err)
	want := []transform.Person{
		{Name: "123", Age: 10, AgeGroup: transform.Child},
		{Name: "Ann", Age: 15, AgeGroup: transform.Teen},
		{Name: "Bo", Age: 15, AgeGroup: transform.Teen},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("people mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_ExtractFailures(t *testing.T) {
	tr := transform.New()

	_, err := tr.TransformString("[ {,} ]", extract.JSON)
	var se *transform.TransformStringError
	require.ErrorAs(t, err, &se)
	var de *extract.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "[ {,} ]", de.Input)

	missing := filepath.Join(t.TempDir(), "missing.yaml")
	_, err = tr.TransformFile(missing, extract.YAML)
	var tfe *transform.TransformFileError
	require.ErrorAs(t, err, &tfe)
	var fe *extract.FileExtractionError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, extract.StepRead, fe.Step)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStrictShape(t *testing.T) {
	strict := transform.New(transform.WithStrictShape(true))
	loose := transform.New()

	extra := `[{"name":"John","age":10,"nickname":"JJ"}]`
	got, err := loose.TransformString(extra, extract.JSON)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = strict.TransformString(extra, extract.JSON)
	var ce *transform.ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, transform.CodeSchema, ce.Code)
	var ve *jsonschema.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = strict.TransformString("- name: John\n  age: 10\n  nickname: JJ\n", extract.YAML)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, transform.CodeSchema, ce.Code)

	// Ages above 100 pass the schema and fail classification.
	_, err = strict.TransformString(`[{"name":"Old","age":120}]`, extract.JSON)
	var ie *transform.InvalidAgeError
	require.ErrorAs(t, err, &ie)

	got, err = strict.TransformString(validPeopleYAML, extract.YAML)
	require.NoError(t, err)
	assert.Equal(t, wantPeople, got)
}

func TestTransform_DebugLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tr := transform.New(transform.WithLogger(zap.New(core)))

	_, err := tr.TransformString(validPeopleJSON, extract.JSON)
	require.NoError(t, err)
	_, err = tr.TransformString(invalidPeopleJSON, extract.JSON)
	require.Error(t, err)

	assert.Equal(t, 1, logs.FilterMessage("transformed string").Len())
	assert.Equal(t, 1, logs.FilterMessage("classification failed").Len())
}

func TestSchema_IsValidJSONSchema(t *testing.T) {
	s := transform.Schema()
	assert.Equal(t, "array", s.Type)
	require.NotNil(t, s.Items)
	assert.ElementsMatch(t, []string{"name", "age"}, s.Items.Required)
	assert.Equal(t, 255, *s.Items.Properties["age"].Maximum)
}
