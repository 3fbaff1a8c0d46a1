// pkg/calculator/errors.go
package calculator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBusinessType is matched by every *UnknownBusinessTypeError.
var ErrUnknownBusinessType = errors.New("unknown business type")

// UnknownBusinessTypeError carries the rejected input exactly as supplied and
// the valid identifiers in table order.
type UnknownBusinessTypeError struct {
	Input      string
	ValidTypes []string
}

func (e *UnknownBusinessTypeError) Error() string {
	return fmt.Sprintf("unknown business type %q: valid types are %s",
		e.Input, strings.Join(e.ValidTypes, ", "))
}

func (e *UnknownBusinessTypeError) Is(target error) bool {
	return target == ErrUnknownBusinessType
}

// AsUnknownBusinessType unwraps err into an *UnknownBusinessTypeError.
func AsUnknownBusinessType(err error) (*UnknownBusinessTypeError, bool) {
	var ute *UnknownBusinessTypeError
	if errors.As(err, &ute) {
		return ute, true
	}
	return nil, false
}
