package extract

import (
	"errors"
	"io"
	"strings"

	j "github.com/goccy/go-json"
)

// errTrailingData is returned when a second value follows the first document.
var errTrailingData = errors.New("unexpected data after top-level value")

// decodeJSON decodes exactly one JSON document into go-json's generic tree.
// Numbers stay json.Number so re-encoding reproduces them exactly.
func decodeJSON(content string) (any, error) {
	dec := j.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, errTrailingData
	}
	return v, nil
}
