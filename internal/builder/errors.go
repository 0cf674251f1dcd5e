package builder

import "github.com/cockroachdb/errors"

// Errors returned on builder protocol violations.
// They are returned by the call breaking the protocol.
var (
	ErrTooManyElements  = errors.New("too many elements")
	ErrMissingElements  = errors.New("missing elements")
	ErrEntryKeyNotSet   = errors.New("entry key not set")
	ErrEntryValueNotSet = errors.New("entry value not set")
	ErrEntryComplete    = errors.New("entry already has a key and a value")
	ErrUnsupportedValue = errors.New("unsupported value")
	ErrNonASCII         = errors.New("byte string chunks must be ascii")
	ErrInvalidText      = errors.New("text is not valid utf-8")
	ErrBuilderClosed    = errors.New("builder closed")
	ErrChildOpen        = errors.New("nested builder still open")
)
