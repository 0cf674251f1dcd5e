package tag

import (
	"math/big"
	"net/url"
	"time"

	"github.com/chaisql/borabora/internal/builder"
	"github.com/chaisql/borabora/internal/encoding"
)

// Timestamp is a number of seconds since the Unix epoch,
// encoded as tag 1.
type Timestamp int64

// EncodedCBOR is an encoded CBOR item, embedded as tag 24.
type EncodedCBOR []byte

// DefaultEncoders returns the encoders of the built-in tags.
func DefaultEncoders() builder.Encoders {
	return builder.Encoders{
		DateTimeEncoder{},
		TimestampEncoder{},
		BigNumEncoder{},
		EncodedCBOREncoder{},
		URIEncoder{},
	}
}

// DateTimeEncoder writes time.Time values as tag 0.
type DateTimeEncoder struct{}

func (DateTimeEncoder) Handles(v any) bool {
	switch v.(type) {
	case time.Time, *time.Time:
		return true
	}
	return false
}

func (DateTimeEncoder) Encode(out encoding.Output, offset int64, v any) (int64, error) {
	switch t := v.(type) {
	case *time.Time:
		if t == nil {
			return encoding.PutNull(out, offset)
		}
		return encoding.PutDateTime(out, offset, *t)
	default:
		return encoding.PutDateTime(out, offset, v.(time.Time))
	}
}

// TimestampEncoder writes Timestamp values as tag 1.
type TimestampEncoder struct{}

func (TimestampEncoder) Handles(v any) bool {
	_, ok := v.(Timestamp)
	return ok
}

func (TimestampEncoder) Encode(out encoding.Output, offset int64, v any) (int64, error) {
	return encoding.PutTimestamp(out, offset, int64(v.(Timestamp)))
}

// BigNumEncoder writes big.Int values as tag 2 or 3.
type BigNumEncoder struct{}

func (BigNumEncoder) Handles(v any) bool {
	switch v.(type) {
	case big.Int, *big.Int:
		return true
	}
	return false
}

func (BigNumEncoder) Encode(out encoding.Output, offset int64, v any) (int64, error) {
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return encoding.PutNull(out, offset)
		}
		return encoding.PutBigInt(out, offset, x)
	default:
		b := v.(big.Int)
		return encoding.PutBigInt(out, offset, &b)
	}
}

// EncodedCBOREncoder writes EncodedCBOR values as tag 24.
type EncodedCBOREncoder struct{}

func (EncodedCBOREncoder) Handles(v any) bool {
	_, ok := v.(EncodedCBOR)
	return ok
}

func (EncodedCBOREncoder) Encode(out encoding.Output, offset int64, v any) (int64, error) {
	return encoding.PutEncodedCBOR(out, offset, v.(EncodedCBOR))
}

// URIEncoder writes URLs as tag 32.
type URIEncoder struct{}

func (URIEncoder) Handles(v any) bool {
	switch v.(type) {
	case url.URL, *url.URL:
		return true
	}
	return false
}

func (URIEncoder) Encode(out encoding.Output, offset int64, v any) (int64, error) {
	switch u := v.(type) {
	case *url.URL:
		if u == nil {
			return encoding.PutNull(out, offset)
		}
		return encoding.PutURI(out, offset, u)
	default:
		x := v.(url.URL)
		return encoding.PutURI(out, offset, &x)
	}
}
