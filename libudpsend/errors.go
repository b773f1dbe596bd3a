package udpsend

import (
	"errors"
	"fmt"
	"syscall"
)

// Kind classifies a failure of one invocation. Every kind is terminal.
type Kind int

const (
	UsageError Kind = iota + 1
	ArgumentTooLong
	CopyError
	ResolutionFailed
	SocketCreateError
	BindError
	EncodingFailed
	SendError
)

func (k Kind) String() string {
	switch k {
	case UsageError:
		return "usage error"
	case ArgumentTooLong:
		return "argument too long"
	case CopyError:
		return "copy error"
	case ResolutionFailed:
		return "resolution error"
	case SocketCreateError:
		return "socket create error"
	case BindError:
		return "bind error"
	case EncodingFailed:
		return "encoding error"
	case SendError:
		return "send error"
	default:
		return "unknown error kind " + fmt.Sprint(int(k))
	}
}

// ErrMissingRequired is returned by ParseArgs when -addr or -port was not given.
var ErrMissingRequired = errors.New("missing required argument: -addr and -port are mandatory")

// ErrNoStdin is returned when the payload should come from STDIN but STDIN is a terminal.
var ErrNoStdin = errors.New("nothing piped on STDIN")

// ArgError is a parse failure bound to one flag.
type ArgError struct {
	Kind Kind
	Flag string
	Max  int
}

func (e *ArgError) Error() string {
	switch e.Kind {
	case ArgumentTooLong:
		return fmt.Sprintf("argval for %s is too long (maximum %d characters)", e.Flag, e.Max)
	case CopyError:
		return "Invalid input for " + e.Flag
	default:
		return e.Kind.String() + " for " + e.Flag
	}
}

// Winsock-compatible resolution status values, as reported by getaddrinfo.
const (
	StatusFamilyNotSupported = 10047 // WSAEAFNOSUPPORT
	StatusServiceNotFound    = 10109 // WSATYPE_NOT_FOUND
	StatusHostNotFound       = 11001 // WSAHOST_NOT_FOUND
	StatusTryAgain           = 11002 // WSATRY_AGAIN
	StatusNoRecovery         = 11003 // WSANO_RECOVERY
)

// ResolutionError means a host/port pair could not be turned into an IPv4 UDP endpoint.
type ResolutionError struct {
	Host   string
	Port   string
	Status int
	Err    error
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("resolving %q port %q: status %d", e.Host, e.Port, e.Status)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// SocketError is a failure of the socket itself: creation, bind or send.
// Code holds the OS error number, or -1 when the cause carries none.
type SocketError struct {
	Kind Kind
	Code int
	Err  error
}

func (e *SocketError) Error() string {
	return fmt.Sprintf("%s (code %d): %v", e.Kind, e.Code, e.Err)
}

func (e *SocketError) Unwrap() error { return e.Err }

// Windows error codes reported for a failed UTF-8 conversion.
const (
	CodeInsufficientBuffer   = 122  // ERROR_INSUFFICIENT_BUFFER
	CodeNoUnicodeTranslation = 1113 // ERROR_NO_UNICODE_TRANSLATION
)

// EncodingError means the payload could not be converted to UTF-8 faithfully.
type EncodingError struct {
	Code int
	Err  error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("UTF-8 conversion error code %d: %s", e.Code, e.Reason())
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Reason names which of the two conversion failures happened.
func (e *EncodingError) Reason() string {
	switch e.Code {
	case CodeNoUnicodeTranslation:
		return "Invalid user input"
	case CodeInsufficientBuffer:
		return "Buffer size too small"
	default:
		return "unknown conversion failure"
	}
}

// KindOf returns the Kind carried by err, or 0 if err is not one of ours.
func KindOf(err error) Kind {
	var argErr *ArgError
	var resErr *ResolutionError
	var sockErr *SocketError
	var encErr *EncodingError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrMissingRequired):
		return UsageError
	case errors.As(err, &argErr):
		return argErr.Kind
	case errors.As(err, &resErr):
		return ResolutionFailed
	case errors.As(err, &sockErr):
		return sockErr.Kind
	case errors.As(err, &encErr):
		return EncodingFailed
	default:
		return 0
	}
}

// errnoOf digs the OS error number out of err.
func errnoOf(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return -1
}
