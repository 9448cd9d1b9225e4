package model

import (
	"errors"
	"fmt"
	"sort"
)

// Returned (wrapped) by data sources when a reference does not resolve.
var ErrNotFound = errors.New("not found")

// InputError is a fatal, caller-facing problem with the request or the
// objects it points at. The message is surfaced verbatim.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string {
	return e.Msg
}

func NewInputError(format string, args ...any) *InputError {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
