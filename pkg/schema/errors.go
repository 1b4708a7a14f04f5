package schema

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// InvalidSchemaError reports a syntax error in an SDL input, with its
// source position when one is available.
type InvalidSchemaError struct {
	Source  string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *InvalidSchemaError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid schema %s:%d:%d: %s", e.Source, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("invalid schema: %s", e.Message)
}

func (e *InvalidSchemaError) Unwrap() error { return e.Err }

// invalidSchema lifts position information out of a parser error.
func invalidSchema(defaultSource string, err error) error {
	ise := &InvalidSchemaError{Source: defaultSource, Message: err.Error(), Err: err}
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		ise.Message = gqlErr.Message
		if file, ok := gqlErr.Extensions["file"].(string); ok && file != "" {
			ise.Source = file
		}
		if len(gqlErr.Locations) > 0 {
			ise.Line = gqlErr.Locations[0].Line
			ise.Column = gqlErr.Locations[0].Column
		}
	}
	return ise
}
