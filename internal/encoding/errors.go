package encoding

import "github.com/cockroachdb/errors"

var (
	// ErrNoSuchByte is returned when reading outside of the available data.
	ErrNoSuchByte = errors.New("offset outside of available data")

	// ErrMalformed is returned when the bytes at an offset are not a valid CBOR item.
	ErrMalformed = errors.New("malformed cbor item")

	// ErrOutputOverflow is returned when an output cannot take the bytes being written.
	ErrOutputOverflow = errors.New("output capacity exceeded")
)

func noSuchByte(offset int64) error {
	return errorsWithOffset(ErrNoSuchByte, offset)
}

func errorsWithOffset(err error, offset int64) error {
	return errors.Wrapf(err, "offset %d", offset)
}

func malformed(offset int64, format string, args ...any) error {
	return errors.Wrapf(ErrMalformed, "offset %d: "+format, append([]any{offset}, args...)...)
}
