package content

import "fmt"

// ConfigurationError reports that a pipeline stage has no handler for a
// category. It is never retryable.
type ConfigurationError struct {
	Stage    string
	Category Category
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no %s handler registered for category %q", e.Stage, e.Category)
}

// MalformedInputError reports an input value that cannot be interpreted,
// such as an unparseable date or a duration without a leading integer.
type MalformedInputError struct {
	Field string
	Value string
	Err   error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("malformed %s %q", e.Field, e.Value)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}
