package borabora

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/chaisql/borabora/internal/encoding"
	"github.com/chaisql/borabora/internal/query"
	"github.com/chaisql/borabora/internal/tag"
	"github.com/chaisql/borabora/internal/types"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// Parser compiles queries into plans and evaluates them.
// It is safe for concurrent use.
type Parser struct {
	opts  *Options
	cache *query.Cache
}

// NewParser returns a parser configured with opts.
func NewParser(opts ...Option) *Parser {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.Decoders == nil {
		o.Decoders = append(tag.KnownDecoders(), tag.UnknownDecoder{Logger: o.Logger})
	}

	p := Parser{opts: o}
	if o.PlanCache {
		p.cache = query.NewCache()
	}
	return &p
}

// Prepare compiles the steps into a plan.
// With the plan cache enabled, a structurally equal plan prepared
// earlier is returned instead.
func (p *Parser) Prepare(steps ...Step) *Plan {
	plan := query.NewPlan(steps...)
	if p.cache == nil {
		return plan
	}

	cached, hit := p.cache.Intern(plan)
	p.opts.Logger.Debug("plan prepared", slog.String("plan", plan.String()), slog.Bool("cached", hit))
	return cached
}

// Read evaluates the plan against in, from offset 0, and returns the value
// it locates. It returns nil if the plan finds nothing.
func (p *Parser) Read(in Input, plan *Plan) (*Value, error) {
	in = p.input(in)
	off, err := plan.Evaluate(query.NewContext(in))
	if err != nil {
		return nil, err
	}
	if !off.Found() {
		return nil, nil
	}

	return p.ReadAt(in, int64(off))
}

// ReadAt returns the value at offset.
func (p *Parser) ReadAt(in Input, offset int64) (*Value, error) {
	return types.NewValue(p.input(in), offset, p.opts.Decoders)
}

// ReadFunc calls fn with the value the plan locates.
// fn is not called if the plan finds nothing.
func (p *Parser) ReadFunc(in Input, plan *Plan, fn func(v *Value) error) error {
	v, err := p.Read(in, plan)
	if err != nil || v == nil {
		return err
	}

	return fn(v)
}

// Extract returns a copy of the encoded bytes of the item the plan
// locates, or nil if it finds nothing.
func (p *Parser) Extract(in Input, plan *Plan) ([]byte, error) {
	in = p.input(in)
	off, err := plan.Evaluate(query.NewContext(in))
	if err != nil || !off.Found() {
		return nil, err
	}

	return encoding.ReadRaw(in, int64(off))
}

func (p *Parser) input(in Input) Input {
	if p.opts.MaxNestedLevels == 0 {
		return in
	}
	return encoding.WithMaxNestedLevels(in, p.opts.MaxNestedLevels)
}

// ReadAll evaluates the plan against every input concurrently.
// The value at index i is the one located in inputs[i], nil if none.
// The first error cancels the remaining evaluations.
func (p *Parser) ReadAll(ctx context.Context, inputs []Input, plan *Plan) ([]*Value, error) {
	values := make([]*Value, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			v, err := p.Read(in, plan)
			if err != nil {
				return errors.Wrapf(err, "input %d", i)
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return values, nil
}
