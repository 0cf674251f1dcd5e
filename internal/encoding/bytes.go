package encoding

import (
	"unicode/utf8"
)

// PutByteString writes b as a definite length byte string.
func PutByteString(out Output, offset int64, b []byte) (int64, error) {
	offset, err := PutHead(out, offset, ByteString, uint64(len(b)))
	if err != nil {
		return 0, err
	}
	return writeBytes(out, offset, b)
}

// PutTextString writes s as a definite length text string.
func PutTextString(out Output, offset int64, s string) (int64, error) {
	offset, err := PutHead(out, offset, TextString, uint64(len(s)))
	if err != nil {
		return 0, err
	}
	return writeBytes(out, offset, []byte(s))
}

// PutRaw copies an already encoded item.
func PutRaw(out Output, offset int64, b []byte) (int64, error) {
	return writeBytes(out, offset, b)
}

// ReadString returns the content of the byte or text string at offset.
// The chunks of indefinite length strings are concatenated.
func ReadString(in Input, offset int64) ([]byte, error) {
	var buf []byte
	err := IterateChunks(in, offset, func(content, length int64) error {
		b, err := ReadBytes(in, content, length)
		if err != nil {
			return err
		}
		if buf == nil {
			buf = b
		} else {
			buf = append(buf, b...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if buf == nil {
		buf = []byte{}
	}
	return buf, nil
}

// ReadText returns the content of the text string at offset.
func ReadText(in Input, offset int64) (string, error) {
	head, err := in.Read(offset)
	if err != nil {
		return "", err
	}
	if MajorTypeOf(head) != TextString {
		return "", malformed(offset, "expected text string, got %s", MajorTypeOf(head))
	}

	b, err := ReadString(in, offset)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", malformed(offset, "invalid utf-8 in text string")
	}
	return string(b), nil
}

// TextEquals reports whether the item at offset is a text string equal to s.
// Definite length strings are compared without being copied.
func TextEquals(in Input, offset int64, s string) (bool, error) {
	head, err := in.Read(offset)
	if err != nil {
		return false, err
	}
	if MajorTypeOf(head) != TextString {
		return false, nil
	}

	if AdditionalInfo(head) == AdditionalInfoIndef {
		t, err := ReadText(in, offset)
		if err != nil {
			return false, err
		}
		return t == s, nil
	}

	content, n, err := StringContent(in, offset)
	if err != nil {
		return false, err
	}
	if n != int64(len(s)) {
		return false, nil
	}
	for i := int64(0); i < n; i++ {
		b, err := in.Read(content + i)
		if err != nil {
			return false, err
		}
		if b != s[i] {
			return false, nil
		}
	}
	return true, nil
}
