// Package query navigates CBOR items in place.
//
// A query is a chain of steps. Each step receives the offset of an item
// and returns the offset of another one, or NotFound when the navigation
// doesn't apply to the item: a missing key, an index out of range or a
// tag unwrap on an untagged value. Malformed data is reported as an error,
// never as NotFound.
package query

import (
	"strings"

	"github.com/chaisql/borabora/internal/encoding"
)

// Offset is the position of an item in an input, or NotFound.
type Offset int64

// NotFound is returned by steps that cannot navigate further.
const NotFound Offset = -1

// Found reports whether o denotes an item.
func (o Offset) Found() bool {
	return o >= 0
}

// Context is passed to every step of a query evaluation.
type Context struct {
	In encoding.Input
}

// NewContext returns a context reading from in.
func NewContext(in encoding.Input) *Context {
	return &Context{In: in}
}

// A Step navigates from one item to another.
// Steps are immutable and can be evaluated concurrently
// against different inputs.
type Step interface {
	Access(offset Offset, qc *Context) (Offset, error)
	String() string
}

// A Chain evaluates its steps one after the other, passing
// the offset returned by one step to the next.
// It stops at the first step returning NotFound or an error.
type Chain struct {
	Steps []Step
}

// Pipe creates a chain from the given steps.
// Chains passed as steps are flattened.
func Pipe(steps ...Step) *Chain {
	var c Chain

	for _, s := range steps {
		if s == nil {
			continue
		}
		if sub, ok := s.(*Chain); ok {
			c.Steps = append(c.Steps, sub.Steps...)
			continue
		}
		c.Steps = append(c.Steps, s)
	}

	return &c
}

// Access runs the steps of the chain, starting at offset.
func (c *Chain) Access(offset Offset, qc *Context) (Offset, error) {
	var err error

	for _, s := range c.Steps {
		if !offset.Found() {
			return NotFound, nil
		}

		offset, err = s.Access(offset, qc)
		if err != nil {
			return NotFound, err
		}
	}

	return offset, nil
}

func (c *Chain) String() string {
	var sb strings.Builder

	for _, s := range c.Steps {
		if sb.Len() != 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(s.String())
	}

	return sb.String()
}

// Equal reports whether other is a chain of equal steps.
func (c *Chain) Equal(other any) bool {
	o, ok := other.(*Chain)
	if !ok || len(c.Steps) != len(o.Steps) {
		return false
	}

	for i := range c.Steps {
		if !StepEqual(c.Steps[i], o.Steps[i]) {
			return false
		}
	}

	return true
}

// StepEqual reports whether two steps navigate the same way.
// Steps are compared by type and printed form.
func StepEqual(a, b Step) bool {
	if eq, ok := a.(interface{ Equal(any) bool }); ok {
		return eq.Equal(b)
	}

	return stepKind(a) == stepKind(b) && a.String() == b.String()
}
