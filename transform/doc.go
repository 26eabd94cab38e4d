// Package transform binds extracted JSON or YAML values to a list of people
// and derives each person's AgeGroup.
//
// A failed TransformFile or TransformString call returns no people. The error
// is a chain that errors.As can search at any layer:
//
//	*TransformStringError
//	  -> *AddClassificationError (the offending Record)
//	    -> *InvalidAgeError (the offending age)
//
// or, for earlier stages, *ConversionError and the extract package's
// *FileExtractionError and *DecodeError.
package transform
