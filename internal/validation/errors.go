package validation

import "fmt"

// MissingFieldError reports a required field that was absent or blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field '%s'", e.Field)
}

// InvalidFormatError reports a field whose value has the wrong type or format
// (not a string, bad email syntax, unparseable date, non-integer number).
type InvalidFormatError struct {
	Field  string
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format for field '%s': %s", e.Field, e.Reason)
}

// InvalidValueError reports a well-formed value that violates a rule
// (pattern, enum, length, numeric range).
type InvalidValueError struct {
	Field  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for field '%s': %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is one of the three validation error
// types, so the handler layer can map it to a 400 without listing each type.
func IsValidationError(err error) bool {
	switch err.(type) {
	case *MissingFieldError, *InvalidFormatError, *InvalidValueError:
		return true
	}
	return false
}
