package store

import "fmt"

// ValidationError is returned when a create operation gets unusable input, e.g. an empty title.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidOperationError is returned for disallowed structural changes such as deleting the default list.
type InvalidOperationError struct {
	Op     string
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Op, e.Reason)
}
