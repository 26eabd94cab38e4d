package transform

import (
	"fmt"

	"github.com/reoring/agegroup/extract"
)

// Codes carried by ConversionError.Code. They follow the issue codes of the
// goskema error model.
const (
	CodeInvalidType = "invalid_type"
	CodeRequired    = "required"
	CodeSchema      = "schema"
)

// InvalidAgeError reports an age outside 0..100.
type InvalidAgeError struct {
	Age uint8
}

func (e *InvalidAgeError) Error() string {
	return fmt.Sprintf("invalid age: %d", e.Age)
}

// AddClassificationError carries the record whose classification failed.
type AddClassificationError struct {
	Record Record
	Err    error
}

func (e *AddClassificationError) Error() string {
	return fmt.Sprintf("add age group to person {name: %q, age: %d}: %v", e.Record.Name, e.Record.Age, e.Err)
}

func (e *AddClassificationError) Unwrap() error { return e.Err }

// ConversionError reports a decoded value that is not a list of
// {name, age} objects. Path is a JSON Pointer to the offending location
// when known. Err is the structural error of the decoding library, or a
// *MissingFieldError.
type ConversionError struct {
	Format extract.Format
	Path   string
	Code   string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("convert %s value: %s at %s: %v", e.Format, e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("convert %s value: %s: %v", e.Format, e.Code, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// MissingFieldError reports a required field that is absent or null.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

// TransformFileError is the outcome of a failed TransformFile call.
type TransformFileError struct {
	Path string
	Err  error
}

func (e *TransformFileError) Error() string {
	return fmt.Sprintf("transform file %q: %v", e.Path, e.Err)
}

func (e *TransformFileError) Unwrap() error { return e.Err }

// TransformStringError is the outcome of a failed TransformString call.
type TransformStringError struct {
	Err error
}

func (e *TransformStringError) Error() string {
	return fmt.Sprintf("transform string: %v", e.Err)
}

func (e *TransformStringError) Unwrap() error { return e.Err }
