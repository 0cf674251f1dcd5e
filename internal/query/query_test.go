package query_test

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/chaisql/borabora/internal/encoding"
	"github.com/chaisql/borabora/internal/query"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// {"a": 1, "b": [2, 3]}
const document = "a2616101616282" + "0203"

func contextOf(t testing.TB, h string) *query.Context {
	t.Helper()

	b, err := hex.DecodeString(h)
	require.NoError(t, err)
	return query.NewContext(encoding.NewByteArrayInput(b))
}

type panicStep struct{}

func (panicStep) Access(query.Offset, *query.Context) (query.Offset, error) {
	panic("must not be called")
}

func (panicStep) String() string { return "panic" }

type errStep struct{}

func (errStep) Access(query.Offset, *query.Context) (query.Offset, error) {
	return query.NotFound, errors.New("boom")
}

func (errStep) String() string { return "err" }

func TestChainFailFast(t *testing.T) {
	qc := contextOf(t, document)

	c := query.Pipe(query.Key("missing"), panicStep{})
	off, err := c.Access(0, qc)
	require.NoError(t, err)
	require.Equal(t, query.NotFound, off)
	require.False(t, off.Found())

	c = query.Pipe(errStep{}, panicStep{})
	_, err = c.Access(0, qc)
	require.EqualError(t, err, "boom")

	p := query.NewPlan(query.Index(0), panicStep{})
	off, err = p.Evaluate(qc)
	require.NoError(t, err)
	require.Equal(t, query.NotFound, off)
}

func TestChain(t *testing.T) {
	qc := contextOf(t, document)

	c := query.Pipe(query.Root(), query.Pipe(query.Key("b"), query.Index(1)))
	require.Len(t, c.Steps, 3)
	require.Equal(t, `$ | {"b"} | [1]`, c.String())

	off, err := c.Access(0, qc)
	require.NoError(t, err)
	require.Equal(t, query.Offset(8), off)

	require.True(t, c.Equal(query.Pipe(query.Root(), query.Key("b"), query.Index(1))))
	require.False(t, c.Equal(query.Pipe(query.Root(), query.Key("b"), query.Index(0))))
	require.False(t, c.Equal(query.Pipe(query.Root(), query.Key(1), query.Index(1))))
}

func TestSteps(t *testing.T) {
	tests := []struct {
		name   string
		hex    string
		offset query.Offset
		step   query.Step
		want   query.Offset
	}{
		{"root", document, 7, query.Root(), 0},
		{"root of empty input", "", 0, query.Root(), query.NotFound},
		{"self", document, 7, query.Self(), 7},
		{"self out of range", document, 9, query.Self(), query.NotFound},
		{"index", "83010203", 0, query.Index(2), 3},
		{"index out of range", "83010203", 0, query.Index(3), query.NotFound},
		{"negative index", "83010203", 0, query.Index(-1), query.NotFound},
		{"index on dictionary", document, 0, query.Index(0), query.NotFound},
		{"index in indefinite sequence", "9f01820203f6ff", 0, query.Index(2), 5},
		{"index past indefinite sequence", "9f01ff", 0, query.Index(1), query.NotFound},
		{"index in nested sequence", "9f01820203f6ff", 2, query.Index(1), 4},
		{"text key", document, 0, query.Key("b"), 6},
		{"missing key", document, 0, query.Key("c"), query.NotFound},
		{"key on sequence", "83010203", 0, query.Key("a"), query.NotFound},
		{"integer key", "a2016178206179", 0, query.Key(-1), 5},
		{"unsigned key", "a2016178206179", 0, query.Key(uint8(1)), 2},
		{"bool key", "a2f40af50b", 0, query.Key(true), 4},
		{"null key", "a1f6182a", 0, query.Key(nil), 2},
		{"float key", "a1f93e0001", 0, query.Key(1.5), 4},
		{"bytes key", "a1420102f5", 0, query.Key([]byte{1, 2}), 4},
		{"indefinite text key", "a17f61616162ff01", 0, query.Key("ab"), 7},
		{"indefinite dictionary key", "bf616101616202ff", 0, query.Key("b"), 6},
		{"key func", document, 0, query.KeyFunc("isB", func(k any) bool { return k == "b" }), 6},
		{"unwrap", "c11a514b67b0", 0, query.Unwrap(), 1},
		{"unwrap tag", "d8184101", 0, query.UnwrapTag(24), 2},
		{"unwrap other tag", "d8184101", 0, query.UnwrapTag(1), query.NotFound},
		{"unwrap untagged", "01", 0, query.Unwrap(), query.NotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			off, err := test.step.Access(test.offset, contextOf(t, test.hex))
			require.NoError(t, err)
			require.Equal(t, test.want, off)
		})
	}
}

func TestStepsMalformed(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		step query.Step
	}{
		{"truncated sequence", "830102", query.Index(2)},
		{"unterminated sequence", "9f0102", query.Index(5)},
		{"reserved head in dictionary", "a2616101fc", query.Key("x")},
		{"unwrap out of range", "", query.Unwrap()},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			off, err := test.step.Access(0, contextOf(t, test.hex))
			require.Error(t, err)
			require.Equal(t, query.NotFound, off)
		})
	}
}

func TestCELPredicate(t *testing.T) {
	step, err := query.KeyCEL(`key.startsWith("b")`)
	require.NoError(t, err)
	require.Equal(t, `{cel(key.startsWith("b"))}`, step.String())

	off, err := step.Access(0, contextOf(t, document))
	require.NoError(t, err)
	require.Equal(t, query.Offset(6), off)

	// {1: "x", 2: "y"}
	step, err = query.KeyCEL(`key > 1`)
	require.NoError(t, err)
	off, err = step.Access(0, contextOf(t, "a2016178026179"))
	require.NoError(t, err)
	require.Equal(t, query.Offset(5), off)

	// keys of the wrong type don't match
	off, err = step.Access(0, contextOf(t, document))
	require.NoError(t, err)
	require.Equal(t, query.NotFound, off)

	_, err = query.CELPredicate(`key ==`)
	require.Error(t, err)
}

func TestPlan(t *testing.T) {
	a := query.NewPlan(query.Root(), query.Key("b"), query.Index(1))
	b := query.NewPlan(query.Pipe(query.Root(), query.Key("b")), query.Index(1))

	require.True(t, a.Equal(b))
	require.Equal(t, a.Hash(), b.Hash())
	require.False(t, a.Equal(query.NewPlan(query.Root(), query.Key("b"))))
	require.False(t, a.Equal(a.Tree()))
	require.Equal(t, `$ | {"b"} | [1]`, a.String())
	require.Len(t, a.Steps(), 3)

	// a chain is a right-leaning tree
	require.True(t, a.Tree().Left().IsNil())
	require.Equal(t, "$", fmt.Sprint(a.Tree().Payload()))
	require.Equal(t, `{"b"}`, fmt.Sprint(a.Tree().Right().Payload()))

	off, err := a.Evaluate(contextOf(t, document))
	require.NoError(t, err)
	require.Equal(t, query.Offset(8), off)

	printed := a.Print()
	require.True(t, strings.HasPrefix(printed, "         /----- [1]\n"), printed)
	require.True(t, strings.HasSuffix(printed, "$\n"), printed)

	p, err := query.PlanFromTree(a.Tree())
	require.NoError(t, err)
	require.True(t, p.Equal(a))
}

func TestCache(t *testing.T) {
	c := query.NewCache()

	a := query.NewPlan(query.Key("b"), query.Index(1))
	got, hit := c.Intern(a)
	require.False(t, hit)
	require.Same(t, a, got)

	got, hit = c.Intern(query.NewPlan(query.Key("b"), query.Index(1)))
	require.True(t, hit)
	require.Same(t, a, got)

	_, hit = c.Intern(query.NewPlan(query.Key("b"), query.Index(0)))
	require.False(t, hit)
	require.Equal(t, 2, c.Len())
}

func TestPlanConcurrentEvaluation(t *testing.T) {
	p := query.NewPlan(query.Key("b"), query.Index(1))
	data, err := hex.DecodeString(document)
	require.NoError(t, err)

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			off, err := p.Evaluate(query.NewContext(encoding.NewByteArrayInput(data)))
			if err != nil {
				return err
			}
			if off != 8 {
				return errors.Errorf("unexpected offset %d", off)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
