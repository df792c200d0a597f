package gsidem

import "fmt"

// MalformedDocumentError indicates that the input is not well-formed XML or
// that a required element's content could not be interpreted.
type MalformedDocumentError struct {
	Reason string
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed document: %s", e.Reason)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// UnsupportedSchemaError indicates that the document is well-formed XML but
// does not use the expected FGD dataset namespace.
type UnsupportedSchemaError struct {
	Element   string
	Namespace string
}

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("unsupported schema: element %q in namespace %q", e.Element, e.Namespace)
}

// MissingFieldError indicates that a required element or attribute is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %s", e.Field)
}

// MalformedSampleError indicates that a tuple-list token could not be decoded.
// Index is the zero-based position of the token within the tuple list.
type MalformedSampleError struct {
	Token string
	Index int
}

func (e *MalformedSampleError) Error() string {
	return fmt.Sprintf("malformed sample %q at index %d", e.Token, e.Index)
}

// GridOverflowError indicates that the tuple list contains more samples than
// fit in the declared grid given the start point and sequence rule.
type GridOverflowError struct {
	Rows     int
	Cols     int
	Capacity int
	Samples  int
}

func (e *GridOverflowError) Error() string {
	return fmt.Sprintf("grid overflow: %d samples do not fit in %dx%d grid (capacity %d from start point)",
		e.Samples, e.Rows, e.Cols, e.Capacity)
}
