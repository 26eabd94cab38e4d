package render

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/agegroup/extract"
	"github.com/reoring/agegroup/transform"
)

var people = []transform.Person{
	{Name: "John", Age: 10, AgeGroup: transform.Child},
	{Name: "Jane", Age: 65, AgeGroup: transform.Senior},
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, people, extract.JSON))
	assert.JSONEq(t, `[
		{"name":"John","age":10,"age_group":"Child"},
		{"name":"Jane","age":65,"age_group":"Senior"}
	]`, buf.String())
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, people, extract.YAML))
	want := "- name: John\n  age: 10\n  age_group: Child\n- name: Jane\n  age: 65\n  age_group: Senior\n"
	assert.Equal(t, want, buf.String())
}

// Rendered output is valid input again and classifies to the same people.
func TestWrite_RoundTrip(t *testing.T) {
	tr := transform.New()
	for _, f := range []extract.Format{extract.JSON, extract.YAML} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, people, f))
		got, err := tr.TransformString(buf.String(), f)
		require.NoError(t, err, f)
		if diff := cmp.Diff(people, got); diff != "" {
			t.Errorf("%s round trip mismatch (-want +got):\n%s", f, diff)
		}
	}
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, extract.JSON))
	assert.JSONEq(t, `[]`, buf.String())
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, people, extract.Format(42))
	assert.ErrorIs(t, err, extract.ErrUnknownFormat)
}
