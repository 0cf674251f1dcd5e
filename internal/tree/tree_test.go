package tree_test

import (
	"errors"
	"testing"

	"github.com/chaisql/borabora/internal/tree"
	"github.com/stretchr/testify/require"
)

type marker string

func (m marker) String() string { return string(m) }

const queryBase = marker("QUERY_BASE")

func TestEqual(t *testing.T) {
	t.Run("structural", func(t *testing.T) {
		a := tree.New(tree.NIL, tree.NIL, queryBase)
		b := tree.New(tree.NIL, tree.NIL, queryBase)
		require.True(t, a.Equal(b))
		require.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("same", func(t *testing.T) {
		a := tree.New(tree.NIL, tree.NIL, queryBase)
		require.True(t, a.Equal(a))
	})

	t.Run("not a tree", func(t *testing.T) {
		a := tree.New(tree.NIL, tree.NIL, queryBase)
		require.False(t, a.Equal(struct{}{}))
		require.False(t, a.Equal("QUERY_BASE"))
		require.False(t, a.Equal(nil))
	})

	t.Run("nested", func(t *testing.T) {
		build := func() *tree.Node {
			return tree.New(tree.Leaf("a"), tree.New(nil, tree.Leaf(1), "b"), nil)
		}
		require.True(t, build().Equal(build()))
		require.Equal(t, build().Hash(), build().Hash())
	})

	t.Run("different", func(t *testing.T) {
		tests := []struct {
			name string
			a, b *tree.Node
		}{
			{"payload", tree.Leaf("a"), tree.Leaf("b")},
			{"payload type", tree.Leaf("1"), tree.Leaf(1)},
			{"nil payload", tree.Leaf(nil), tree.Leaf("a")},
			{"shape", tree.New(tree.Leaf("a"), nil, nil), tree.New(nil, tree.Leaf("a"), nil)},
			{"nil leaf", tree.NIL, tree.Leaf(nil)},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				require.False(t, test.a.Equal(test.b))
				require.False(t, test.b.Equal(test.a))
				require.NotEqual(t, test.a.Hash(), test.b.Hash())
			})
		}
	})
}

func TestPrint(t *testing.T) {
	expected := " /----- <null>\n" +
		" |       \\----- QUERY_BASE\n" +
		"<null>\n" +
		" |       /----- QUERY_BASE\n" +
		" \\----- <null>\n"

	five := tree.New(tree.NIL, tree.NIL, queryBase)
	four := tree.New(tree.NIL, tree.NIL, queryBase)
	three := tree.New(four, tree.NIL, nil)
	two := tree.New(tree.NIL, five, nil)
	one := tree.New(two, three, nil)

	require.Equal(t, expected, tree.Print(one))
	require.Equal(t, expected, one.String())
	require.Equal(t, "", tree.Print(tree.NIL))
	require.Equal(t, "QUERY_BASE\n", tree.Print(five))
}

func TestWalk(t *testing.T) {
	root := tree.New(tree.New(tree.Leaf("a"), nil, "b"), tree.New(nil, tree.Leaf("e"), "d"), "c")

	var visited []any
	err := root.Walk(func(payload any) error {
		visited = append(visited, payload)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []any{"a", "b", "c", "d", "e"}, visited)
	require.Equal(t, 5, root.Size())

	stop := errors.New("stop")
	visited = nil
	err = root.Walk(func(payload any) error {
		visited = append(visited, payload)
		if payload == "b" {
			return stop
		}
		return nil
	})
	require.Equal(t, stop, err)
	require.Equal(t, []any{"a", "b"}, visited)
}

func TestAccessors(t *testing.T) {
	leaf := tree.Leaf("x")
	require.True(t, leaf.IsLeaf())
	require.False(t, leaf.IsNil())
	require.True(t, leaf.Left().IsNil())
	require.True(t, leaf.Right().IsNil())
	require.Equal(t, "x", leaf.Payload())

	n := tree.New(leaf, nil, nil)
	require.False(t, n.IsLeaf())
	require.Same(t, leaf, n.Left())
	require.Same(t, tree.NIL, n.Right())
	require.Nil(t, n.Payload())
}
