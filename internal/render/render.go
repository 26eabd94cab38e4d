// Package render writes classified people back out as JSON or YAML.
package render

import (
	"fmt"
	"io"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/agegroup/extract"
	"github.com/reoring/agegroup/transform"
)

// Write encodes people to w in format f with two-space indentation. A nil
// slice is written as an empty list.
func Write(w io.Writer, people []transform.Person, f extract.Format) error {
	if people == nil {
		people = []transform.Person{}
	}
	switch f {
	case extract.JSON:
		enc := j.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(people)
	case extract.YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(people); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("render: %w: %d", extract.ErrUnknownFormat, int(f))
	}
}
