package encoding

import (
	"net/url"
	"time"
)

// PutTagHead writes the head of a semantic tag. The tagged item must follow.
func PutTagHead(out Output, offset int64, id uint64) (int64, error) {
	return PutHead(out, offset, SemanticTag, id)
}

// ReadTagHead returns the identifier of the semantic tag at offset
// and the offset of the tagged item.
func ReadTagHead(in Input, offset int64) (id uint64, content int64, err error) {
	head, err := in.Read(offset)
	if err != nil {
		return 0, 0, err
	}
	if MajorTypeOf(head) != SemanticTag {
		return 0, 0, malformed(offset, "expected semantic tag, got %s", MajorTypeOf(head))
	}

	hs, err := HeadSize(in, offset)
	if err != nil {
		return 0, 0, err
	}
	id, err = ReadArgument(in, offset)
	if err != nil {
		return 0, 0, err
	}
	return id, offset + hs, nil
}

// PutDateTime writes t as a tag 0 holding its RFC 3339 representation in UTC.
func PutDateTime(out Output, offset int64, t time.Time) (int64, error) {
	offset, err := PutTagHead(out, offset, TagDateTime)
	if err != nil {
		return 0, err
	}
	return PutTextString(out, offset, t.UTC().Format(time.RFC3339Nano))
}

// PutTimestamp writes a tag 1 holding seconds since the epoch.
func PutTimestamp(out Output, offset int64, seconds int64) (int64, error) {
	offset, err := PutTagHead(out, offset, TagTimestamp)
	if err != nil {
		return 0, err
	}
	return PutInt(out, offset, seconds)
}

// PutURI writes u as a tag 32 holding its text representation.
func PutURI(out Output, offset int64, u *url.URL) (int64, error) {
	offset, err := PutTagHead(out, offset, TagURI)
	if err != nil {
		return 0, err
	}
	return PutTextString(out, offset, u.String())
}

// PutEncodedCBOR writes a tag 24 wrapping the already encoded item in a byte string.
func PutEncodedCBOR(out Output, offset int64, item []byte) (int64, error) {
	offset, err := PutTagHead(out, offset, TagEncodedCBOR)
	if err != nil {
		return 0, err
	}
	return PutByteString(out, offset, item)
}
