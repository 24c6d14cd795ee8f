package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no non-nil error is given, nil is returned. A single non-nil error is
// returned as it is.
func Append(errs ...error) error {
	var collected []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			collected = append(collected, m...)
		} else {
			collected = append(collected, e)
		}
	}

	switch len(collected) {
	case 0:
		return nil
	case 1:
		return collected[0]
	default:
		return multiErr(collected)
	}
}

type multiErr []error

func (errs multiErr) Error() string {
	points := make([]string, len(errs))
	for i, err := range errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(errs), strings.Join(points, "\n\t"))
}

// Unpack returns all clubbed errors.
func (errs multiErr) Unpack() []error {
	return errs
}

// Code returns the code of the first error, consistent with the fail-fast
// handling of a multi error.
func (errs multiErr) Code() uint32 {
	return code(errs[0])
}
