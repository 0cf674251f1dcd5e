package query

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/chaisql/borabora/internal/encoding"
	"github.com/cockroachdb/errors"
)

func stepKind(s Step) string {
	return fmt.Sprintf("%T", s)
}

// Root returns a step moving to the first item of the input,
// whatever the current offset is.
func Root() Step { return rootStep{} }

type rootStep struct{}

func (rootStep) Access(_ Offset, qc *Context) (Offset, error) {
	if !qc.In.OffsetValid(0) {
		return NotFound, nil
	}
	return 0, nil
}

func (rootStep) String() string { return "$" }

// Self returns a step that stays on the current item.
func Self() Step { return selfStep{} }

type selfStep struct{}

func (selfStep) Access(offset Offset, qc *Context) (Offset, error) {
	if !qc.In.OffsetValid(int64(offset)) {
		return NotFound, nil
	}
	return offset, nil
}

func (selfStep) String() string { return "@" }

// Index returns a step moving to the nth element of a sequence.
// Indefinite length sequences are supported.
func Index(n int64) Step { return indexStep(n) }

type indexStep int64

func (s indexStep) Access(offset Offset, qc *Context) (Offset, error) {
	if s < 0 {
		return NotFound, nil
	}

	ok, err := isMajor(qc, offset, encoding.Sequence)
	if err != nil || !ok {
		return NotFound, err
	}

	found := NotFound
	err = encoding.IterateSequence(qc.In, int64(offset), func(i, elem int64) error {
		if i == int64(s) {
			found = Offset(elem)
			return encoding.ErrStopIteration
		}
		return nil
	})
	if err != nil {
		return NotFound, err
	}

	return found, nil
}

func (s indexStep) String() string {
	return "[" + strconv.FormatInt(int64(s), 10) + "]"
}

// A KeyPredicate selects dictionary entries by their key.
type KeyPredicate interface {
	Match(qc *Context, key Offset) (bool, error)
	String() string
}

// KeyMatching returns a step moving to the value of the first
// dictionary entry whose key matches the predicate.
func KeyMatching(p KeyPredicate) Step { return &keyStep{pred: p} }

// Key returns a step moving to the value of the first dictionary
// entry whose key equals the literal.
// Supported literals are strings, integers, floats, booleans and nil.
func Key(literal any) Step { return KeyMatching(Equals(literal)) }

// KeyFunc returns a step moving to the value of the first dictionary
// entry for which fn returns true. fn receives the decoded key.
// The name identifies fn when printing and comparing steps.
func KeyFunc(name string, fn func(key any) bool) Step {
	return KeyMatching(&funcPredicate{name: name, fn: fn})
}

type keyStep struct {
	pred KeyPredicate
}

func (s *keyStep) Access(offset Offset, qc *Context) (Offset, error) {
	ok, err := isMajor(qc, offset, encoding.Dictionary)
	if err != nil || !ok {
		return NotFound, err
	}

	found := NotFound
	err = encoding.IterateDictionary(qc.In, int64(offset), func(key, value int64) error {
		ok, err := s.pred.Match(qc, Offset(key))
		if err != nil {
			return err
		}
		if ok {
			found = Offset(value)
			return encoding.ErrStopIteration
		}
		return nil
	})
	if err != nil {
		return NotFound, err
	}

	return found, nil
}

func (s *keyStep) String() string {
	return "{" + s.pred.String() + "}"
}

// Unwrap returns a step moving from a semantic tag to the tagged item.
func Unwrap() Step { return unwrapStep{anyID: true} }

// UnwrapTag returns a step moving from a semantic tag with the given
// identifier to the tagged item.
func UnwrapTag(id uint64) Step { return unwrapStep{id: id} }

type unwrapStep struct {
	anyID bool
	id    uint64
}

func (s unwrapStep) Access(offset Offset, qc *Context) (Offset, error) {
	ok, err := isMajor(qc, offset, encoding.SemanticTag)
	if err != nil || !ok {
		return NotFound, err
	}

	id, content, err := encoding.ReadTagHead(qc.In, int64(offset))
	if err != nil {
		return NotFound, err
	}
	if !s.anyID && id != s.id {
		return NotFound, nil
	}

	return Offset(content), nil
}

func (s unwrapStep) String() string {
	if s.anyID {
		return "tag()"
	}
	return "tag(" + strconv.FormatUint(s.id, 10) + ")"
}

func isMajor(qc *Context, offset Offset, t encoding.MajorType) (bool, error) {
	head, err := qc.In.Read(int64(offset))
	if err != nil {
		return false, err
	}

	return encoding.MajorTypeOf(head) == t, nil
}

// Equals returns a predicate matching keys equal to the literal.
// Integer literals match unsigned and negative integer keys,
// float literals match float keys of any precision.
func Equals(literal any) KeyPredicate {
	switch x := literal.(type) {
	case int:
		return &equalsPredicate{literal: int64(x)}
	case int8:
		return &equalsPredicate{literal: int64(x)}
	case int16:
		return &equalsPredicate{literal: int64(x)}
	case int32:
		return &equalsPredicate{literal: int64(x)}
	case uint:
		return unsignedLiteral(uint64(x))
	case uint8:
		return &equalsPredicate{literal: int64(x)}
	case uint16:
		return &equalsPredicate{literal: int64(x)}
	case uint32:
		return &equalsPredicate{literal: int64(x)}
	case uint64:
		return unsignedLiteral(x)
	case float32:
		return &equalsPredicate{literal: float64(x)}
	}

	return &equalsPredicate{literal: literal}
}

func unsignedLiteral(x uint64) KeyPredicate {
	if x > math.MaxInt64 {
		return &equalsPredicate{literal: x}
	}
	return &equalsPredicate{literal: int64(x)}
}

type equalsPredicate struct {
	literal any
}

func (p *equalsPredicate) Match(qc *Context, key Offset) (bool, error) {
	if s, ok := p.literal.(string); ok {
		return encoding.TextEquals(qc.In, int64(key), s)
	}

	k, err := DecodeKey(qc, key)
	if err != nil {
		return false, err
	}

	switch x := k.(type) {
	case float32:
		k = float64(x)
	case *big.Int:
		return false, nil
	case []byte:
		b, ok := p.literal.([]byte)
		if !ok {
			return false, nil
		}
		isBytes, err := isMajor(qc, key, encoding.ByteString)
		if err != nil {
			return false, err
		}
		return isBytes && string(x) == string(b), nil
	}

	return k == p.literal, nil
}

func (p *equalsPredicate) String() string {
	switch x := p.literal.(type) {
	case string:
		return strconv.Quote(x)
	case []byte:
		return "h'" + fmt.Sprintf("%x", x) + "'"
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return strconv.FormatFloat(x, 'f', 1, 64)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case nil:
		return "null"
	}
	return fmt.Sprint(p.literal)
}

type funcPredicate struct {
	name string
	fn   func(key any) bool
}

func (p *funcPredicate) Match(qc *Context, key Offset) (bool, error) {
	k, err := DecodeKey(qc, key)
	if err != nil {
		return false, err
	}
	return p.fn(k), nil
}

func (p *funcPredicate) String() string {
	return p.name + "()"
}

// DecodeKey decodes a dictionary key into a Go value:
// string, []byte, int64, uint64, *big.Int, float32, float64, bool or nil.
// Any other key is returned as its raw encoded bytes.
func DecodeKey(qc *Context, key Offset) (any, error) {
	vt, err := encoding.ValueTypeOf(qc.In, int64(key))
	if err != nil {
		return nil, err
	}

	switch {
	case vt == encoding.TextStringValue:
		return encoding.ReadText(qc.In, int64(key))
	case vt == encoding.ByteStringValue:
		return encoding.ReadString(qc.In, int64(key))
	case vt == encoding.UInt || vt == encoding.NInt || vt.IsFloat():
		return encoding.ReadNumber(qc.In, int64(key))
	case vt == encoding.UBigNum || vt == encoding.NBigNum:
		return encoding.ReadBigInt(qc.In, int64(key))
	case vt == encoding.Bool:
		return encoding.ReadBool(qc.In, int64(key))
	case vt == encoding.Null || vt == encoding.Undefined:
		return nil, nil
	}

	raw, err := encoding.ReadRaw(qc.In, int64(key))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decode key at offset %d", key)
	}
	return raw, nil
}
