// Package extract decodes JSON or YAML text into a generic Value without any
// knowledge of the domain schema. The caller selects the format explicitly;
// content is never sniffed.
//
//	e := extract.New()
//	v, err := e.FromFile("people.yaml", extract.YAML)
//
// Errors are *DecodeError for malformed text and *FileExtractionError for
// FromFile, whose Step tells a failed read from a failed decode.
package extract
