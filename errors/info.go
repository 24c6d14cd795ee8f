package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessCode declares a response use 0 to signal that the processing
	// was successful and no error is returned.
	SuccessCode = 0

	// All unclassified errors that do not provide a code are clubbed under
	// an internal error code and a generic message instead of detailed
	// error string.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Info returns the code and the log message of an error as consumed by a
// client. Any error that does not provide a registered code is categorized
// as an internal error.
// When not running in a debug mode all messages of internal errors are
// replaced with a generic "internal error".
func Info(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessCode, ""
	}

	if c := code(err); c != internalCode {
		if debug {
			return c, fmt.Sprintf("%+v", err)
		}
		return c, err.Error()
	}

	if debug {
		return internalCode, fmt.Sprintf("%+v", err)
	}
	return internalCode, internalLog
}

type coder interface {
	Code() uint32
}

// code tests if given error contains a registered code and returns its value.
func code(err error) uint32 {
	if isNilErr(err) {
		return SuccessCode
	}

	for {
		if c, ok := err.(coder); ok {
			return c.Code()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalCode
		}
	}
}

// Redact replaces all errors that do not carry a registered code with a
// generic internal error instance.
//
// This is a no-operation function when running in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) {
		return errors.New(internalLog)
	}
	if code(err) == internalCode {
		return errors.New(internalLog)
	}
	return err
}
