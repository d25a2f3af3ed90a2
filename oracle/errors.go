package oracle

import (
	"fmt"
)

type ErrorKind int

const (
	ConnectError ErrorKind = iota
	MetadataError
	PrepareError
	ExecuteError
	FetchError
	BindError
	NotImplemented
)

func (k ErrorKind) String() string {
	switch k {
	case ConnectError:
		return "connect"
	case MetadataError:
		return "metadata"
	case PrepareError:
		return "prepare"
	case ExecuteError:
		return "execute"
	case FetchError:
		return "fetch"
	case BindError:
		return "bind"
	case NotImplemented:
		return "not implemented"
	}
	return "unknown"
}

// Error carries a driver-facing failure: the operation context (e.g.
// "GetColumns::execute") and the driver's message. Driver errors are
// converted at their immediate call site; there is no retry.
type Error struct {
	Kind    ErrorKind
	Context string
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Oracle %s error in %s: %s", e.Kind, e.Context, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind ErrorKind, context string, cause error) *Error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Kind: kind, Context: context, Message: msg, cause: cause}
}

func errorf(kind ErrorKind, context, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Context: context, Message: fmt.Sprintf(format, args...)}
}
