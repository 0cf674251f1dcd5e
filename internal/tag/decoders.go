// Package tag implements the built-in semantic tags.
//
// Decoders turn tagged items into Go values and plug into a types.Decoders
// registry. Encoders do the opposite and plug into a builder.Encoders registry.
//
//	tag  payload                 Go value
//	0    text string             time.Time, in UTC
//	1    integer or float        int64, uint64, float32 or float64 seconds
//	2    byte string             *big.Int
//	3    byte string             *big.Int, negative
//	24   byte string             *types.Value of the embedded item
//	32   text string             *url.URL
//
// Any other tag decodes to the raw bytes of the complete tagged item.
package tag

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/chaisql/borabora/internal/encoding"
	"github.com/chaisql/borabora/internal/types"
	"github.com/cockroachdb/errors"
	"github.com/dromara/carbon/v2"
	"github.com/fredbi/uri"
)

// KnownDecoders returns the decoders of the built-in tags.
func KnownDecoders() types.Decoders {
	return types.Decoders{
		DateTimeDecoder{},
		TimestampDecoder{},
		BigNumDecoder{},
		EncodedCBORDecoder{},
		URIDecoder{},
	}
}

// DefaultDecoders returns the decoders of the built-in tags
// followed by the fallback for unknown tags.
func DefaultDecoders() types.Decoders {
	return append(KnownDecoders(), UnknownDecoder{})
}

func handles(in encoding.Input, offset int64, ids ...uint64) bool {
	id, _, err := encoding.ReadTagHead(in, offset)
	if err != nil {
		return false
	}
	for _, x := range ids {
		if id == x {
			return true
		}
	}
	return false
}

// DateTimeDecoder decodes tag 0.
// RFC 3339 is expected but any layout the date parser understands is accepted.
type DateTimeDecoder struct{}

func (DateTimeDecoder) Handles(in encoding.Input, offset int64) bool {
	return handles(in, offset, encoding.TagDateTime)
}

func (DateTimeDecoder) Decode(in encoding.Input, offset, _ int64, _ types.Decoders) (any, error) {
	_, content, err := encoding.ReadTagHead(in, offset)
	if err != nil {
		return nil, err
	}
	s, err := encoding.ReadText(in, content)
	if err != nil {
		return nil, err
	}

	return ParseDateTime(s)
}

// ParseDateTime parses s as a date and time, in UTC unless s says otherwise.
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if s == "" {
		return time.Time{}, errors.New("empty date/time")
	}

	c := carbon.Parse(s, "UTC")
	if c.Error != nil {
		return time.Time{}, errors.Wrapf(c.Error, "invalid date/time %q", s)
	}
	return c.StdTime().UTC(), nil
}

// TimestampDecoder decodes tag 1 into its number of seconds.
type TimestampDecoder struct{}

func (TimestampDecoder) Handles(in encoding.Input, offset int64) bool {
	return handles(in, offset, encoding.TagTimestamp)
}

func (TimestampDecoder) Decode(in encoding.Input, offset, _ int64, _ types.Decoders) (any, error) {
	_, content, err := encoding.ReadTagHead(in, offset)
	if err != nil {
		return nil, err
	}

	return encoding.ReadNumber(in, content)
}

// BigNumDecoder decodes tags 2 and 3.
type BigNumDecoder struct{}

func (BigNumDecoder) Handles(in encoding.Input, offset int64) bool {
	return handles(in, offset, encoding.TagUBigNum, encoding.TagNBigNum)
}

func (BigNumDecoder) Decode(in encoding.Input, offset, _ int64, _ types.Decoders) (any, error) {
	return encoding.ReadBigInt(in, offset)
}

// EncodedCBORDecoder decodes tag 24 into a value reading the embedded item.
// Definite length byte strings are read in place.
type EncodedCBORDecoder struct{}

func (EncodedCBORDecoder) Handles(in encoding.Input, offset int64) bool {
	return handles(in, offset, encoding.TagEncodedCBOR)
}

func (EncodedCBORDecoder) Decode(in encoding.Input, offset, _ int64, decoders types.Decoders) (any, error) {
	_, content, err := encoding.ReadTagHead(in, offset)
	if err != nil {
		return nil, err
	}

	head, err := in.Read(content)
	if err != nil {
		return nil, err
	}
	if encoding.MajorTypeOf(head) != encoding.ByteString {
		return nil, errors.Wrapf(encoding.ErrMalformed, "offset %d: embedded item must be a byte string", content)
	}

	if encoding.AdditionalInfo(head) == encoding.AdditionalInfoIndef {
		b, err := encoding.ReadString(in, content)
		if err != nil {
			return nil, err
		}
		embedded := encoding.WithMaxNestedLevels(encoding.NewByteArrayInput(b), encoding.MaxNestedLevelsOf(in))
		return embeddedValue(embedded, 0, int64(len(b)), decoders)
	}

	start, n, err := encoding.StringContent(in, content)
	if err != nil {
		return nil, err
	}
	return embeddedValue(in, start, n, decoders)
}

func embeddedValue(in encoding.Input, start, n int64, decoders types.Decoders) (any, error) {
	v, err := types.NewValue(in, start, decoders)
	if err != nil {
		return nil, err
	}
	if v.Len() != n {
		return nil, errors.Wrapf(encoding.ErrMalformed, "offset %d: embedded item of %d bytes in a byte string of %d", start, v.Len(), n)
	}
	return v, nil
}

// URIDecoder decodes tag 32. The text must be an absolute RFC 3986 URI.
type URIDecoder struct{}

func (URIDecoder) Handles(in encoding.Input, offset int64) bool {
	return handles(in, offset, encoding.TagURI)
}

func (URIDecoder) Decode(in encoding.Input, offset, _ int64, _ types.Decoders) (any, error) {
	_, content, err := encoding.ReadTagHead(in, offset)
	if err != nil {
		return nil, err
	}
	s, err := encoding.ReadText(in, content)
	if err != nil {
		return nil, err
	}

	return ParseURI(s)
}

// ParseURI validates s against RFC 3986 and returns it as a URL.
func ParseURI(s string) (*url.URL, error) {
	if _, err := uri.Parse(s); err != nil {
		return nil, errors.Wrapf(err, "invalid uri %q", s)
	}

	return url.Parse(s)
}

// UnknownDecoder handles every tag and returns the raw bytes of the
// whole tagged item. It belongs at the end of a registry.
type UnknownDecoder struct {
	Logger *slog.Logger
}

func (UnknownDecoder) Handles(in encoding.Input, offset int64) bool {
	_, _, err := encoding.ReadTagHead(in, offset)
	return err == nil
}

func (d UnknownDecoder) Decode(in encoding.Input, offset, length int64, _ types.Decoders) (any, error) {
	if d.Logger != nil {
		id, _, _ := encoding.ReadTagHead(in, offset)
		d.Logger.LogAttrs(context.Background(), slog.LevelDebug, "unknown semantic tag",
			slog.Uint64("tag", id), slog.Int64("offset", offset), slog.Int64("length", length))
	}

	return encoding.ReadBytes(in, offset, length)
}
