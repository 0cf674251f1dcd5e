package query

import (
	"strings"
	"sync"

	"github.com/chaisql/borabora/internal/tree"
	"github.com/cockroachdb/errors"
)

var errStopPlan = errors.New("stop plan")

// A Plan is a compiled query: a tree of steps evaluated in order,
// left subtree first, then the node, then the right subtree.
// A chain of steps compiles to a right-leaning tree.
// Plans are immutable and comparable: compiling the same
// steps twice yields equal plans with equal hashes.
type Plan struct {
	root *tree.Node
}

// NewPlan compiles the steps into a plan.
func NewPlan(steps ...Step) *Plan {
	c := Pipe(steps...)

	root := tree.NIL
	for i := len(c.Steps) - 1; i >= 0; i-- {
		root = tree.New(tree.NIL, root, c.Steps[i])
	}

	return &Plan{root: root}
}

// PlanFromTree creates a plan from a tree whose payloads are steps.
// Nodes without payload are structural and ignored during evaluation.
func PlanFromTree(root *tree.Node) (*Plan, error) {
	err := root.Walk(func(payload any) error {
		if _, ok := payload.(Step); !ok {
			return errors.Errorf("plan node payload %T is not a step", payload)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Plan{root: root}, nil
}

// Tree returns the tree of the plan.
func (p *Plan) Tree() *tree.Node {
	return p.root
}

// Steps returns the steps of the plan in evaluation order.
func (p *Plan) Steps() []Step {
	var steps []Step
	_ = p.root.Walk(func(payload any) error {
		steps = append(steps, payload.(Step))
		return nil
	})
	return steps
}

// Access evaluates the plan starting at offset.
func (p *Plan) Access(offset Offset, qc *Context) (Offset, error) {
	err := p.root.Walk(func(payload any) error {
		if !offset.Found() {
			return errStopPlan
		}

		var err error
		offset, err = payload.(Step).Access(offset, qc)
		return err
	})
	if errors.Is(err, errStopPlan) {
		return NotFound, nil
	}
	if err != nil {
		return NotFound, err
	}

	return offset, nil
}

// Evaluate evaluates the plan against the item at the start of the input.
func (p *Plan) Evaluate(qc *Context) (Offset, error) {
	return p.Access(0, qc)
}

// Equal reports whether other is a plan with an equal tree.
func (p *Plan) Equal(other any) bool {
	o, ok := other.(*Plan)
	if !ok {
		return false
	}
	return p.root.Equal(o.root)
}

// Hash returns the structural hash of the plan tree.
func (p *Plan) Hash() uint64 {
	return p.root.Hash()
}

// String returns the steps of the plan separated by pipes.
func (p *Plan) String() string {
	var sb strings.Builder

	for _, s := range p.Steps() {
		if sb.Len() != 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(s.String())
	}

	return sb.String()
}

// Print returns the printed form of the plan tree.
func (p *Plan) Print() string {
	return tree.Print(p.root)
}

// A Cache stores plans by structure, so that compiling the
// same query twice returns the same plan.
// It is safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	plans map[uint64][]*Plan
	size  int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{plans: make(map[uint64][]*Plan)}
}

// Intern returns the cached plan equal to p and true, or stores p
// and returns it with false.
func (c *Cache) Intern(p *Plan) (*Plan, bool) {
	h := p.Hash()

	c.mu.RLock()
	cached := lookup(c.plans[h], p)
	c.mu.RUnlock()
	if cached != nil {
		return cached, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached := lookup(c.plans[h], p); cached != nil {
		return cached, true
	}
	c.plans[h] = append(c.plans[h], p)
	c.size++
	return p, false
}

// Len returns the number of cached plans.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.size
}

func lookup(plans []*Plan, p *Plan) *Plan {
	for _, cached := range plans {
		if cached.Equal(p) {
			return cached
		}
	}
	return nil
}
