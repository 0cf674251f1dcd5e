// Package tree implements the immutable binary tree used to represent
// compiled query plans.
// Trees are persistent: nodes are never modified once created and
// subtrees can be shared between trees. Two trees are equal when
// they have the same shape and the same payloads, regardless of
// which nodes they are made of.
package tree

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// NIL is the empty leaf. Every absent child is NIL.
var NIL = &Node{}

// A Node holds up to two children and an optional payload.
type Node struct {
	left, right *Node
	payload     any
}

// New creates a node. Nil children are replaced by NIL.
func New(left, right *Node, payload any) *Node {
	if left == nil {
		left = NIL
	}
	if right == nil {
		right = NIL
	}

	return &Node{left: left, right: right, payload: payload}
}

// Leaf creates a node without children.
func Leaf(payload any) *Node {
	return New(NIL, NIL, payload)
}

// Left returns the left child.
func (n *Node) Left() *Node {
	if n == nil || n.left == nil {
		return NIL
	}
	return n.left
}

// Right returns the right child.
func (n *Node) Right() *Node {
	if n == nil || n.right == nil {
		return NIL
	}
	return n.right
}

// Payload returns the value carried by the node, or nil.
func (n *Node) Payload() any {
	if n == nil {
		return nil
	}
	return n.payload
}

// IsNil reports whether n is the empty leaf.
func (n *Node) IsNil() bool {
	return n == nil || n == NIL
}

// IsLeaf reports whether both children of n are NIL.
func (n *Node) IsLeaf() bool {
	return n.Left().IsNil() && n.Right().IsNil()
}

// Size returns the number of nodes of the tree, NIL excluded.
func (n *Node) Size() int {
	if n.IsNil() {
		return 0
	}
	return 1 + n.Left().Size() + n.Right().Size()
}

// Walk calls fn with the payload of every node in order:
// left subtree, node, right subtree. Nodes without payload are skipped.
// Walking stops at the first error returned by fn.
func (n *Node) Walk(fn func(payload any) error) error {
	if n.IsNil() {
		return nil
	}

	if err := n.Left().Walk(fn); err != nil {
		return err
	}

	if n.payload != nil {
		if err := fn(n.payload); err != nil {
			return err
		}
	}

	return n.Right().Walk(fn)
}

// Equal reports whether other is a tree with the same shape and
// the same payloads as n.
func (n *Node) Equal(other any) bool {
	o, ok := other.(*Node)
	if !ok {
		return false
	}

	if n.IsNil() || o.IsNil() {
		return n.IsNil() && o.IsNil()
	}
	if n == o {
		return true
	}

	return payloadEqual(n.payload, o.payload) &&
		n.Left().Equal(o.Left()) &&
		n.Right().Equal(o.Right())
}

// Hash returns a structural hash of the tree.
// Equal trees have equal hashes.
func (n *Node) Hash() uint64 {
	d := xxhash.New()
	n.hash(d)
	return d.Sum64()
}

func (n *Node) hash(d *xxhash.Digest) {
	if n.IsNil() {
		_, _ = d.WriteString("nil;")
		return
	}

	_, _ = d.WriteString("(")
	n.Left().hash(d)
	if n.payload == nil {
		_, _ = d.WriteString("<null>")
	} else {
		s := payloadString(n.payload)
		_, _ = d.WriteString(reflect.TypeOf(n.payload).String())
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(strconv.Itoa(len(s)))
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(s)
	}
	n.Right().hash(d)
	_, _ = d.WriteString(")")
}

// String returns the printed form of the tree.
func (n *Node) String() string {
	return Print(n)
}

func payloadEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if eq, ok := a.(interface{ Equal(any) bool }); ok {
		return eq.Equal(b)
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	return payloadString(a) == payloadString(b)
}

func payloadString(p any) string {
	if p == nil {
		return "<null>"
	}
	return fmt.Sprint(p)
}
