package query

import (
	"math/big"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/cel-go/cel"
)

// CEL key predicates see the decoded key as the variable "key".
const celKeyVariable = "key"

var celPrograms = celProgramPool{programs: make(map[string]cel.Program)}

// celProgramPool caches compiled programs by expression.
type celProgramPool struct {
	mu       sync.RWMutex
	env      *cel.Env
	programs map[string]cel.Program
}

func (p *celProgramPool) get(expr string) (cel.Program, error) {
	p.mu.RLock()
	prg, ok := p.programs[expr]
	p.mu.RUnlock()
	if ok {
		return prg, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if prg, ok := p.programs[expr]; ok {
		return prg, nil
	}

	if p.env == nil {
		env, err := cel.NewEnv(cel.Variable(celKeyVariable, cel.DynType))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create CEL environment")
		}
		p.env = env
	}

	ast, iss := p.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, errors.Wrapf(iss.Err(), "failed to compile key expression %q", expr)
	}

	prg, err := p.env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create program for key expression %q", expr)
	}

	p.programs[expr] = prg
	return prg, nil
}

// CELPredicate compiles a CEL expression into a key predicate.
// The expression sees the decoded key as "key" and must evaluate to a bool,
// for example `key.startsWith("user_")` or `key > 10`.
// Compiled programs are cached and shared.
func CELPredicate(expr string) (KeyPredicate, error) {
	prg, err := celPrograms.get(expr)
	if err != nil {
		return nil, err
	}

	return &celPredicate{expr: expr, prg: prg}, nil
}

// KeyCEL returns a step moving to the value of the first dictionary
// entry whose key satisfies the CEL expression.
func KeyCEL(expr string) (Step, error) {
	p, err := CELPredicate(expr)
	if err != nil {
		return nil, err
	}
	return KeyMatching(p), nil
}

type celPredicate struct {
	expr string
	prg  cel.Program
}

func (p *celPredicate) Match(qc *Context, key Offset) (bool, error) {
	k, err := DecodeKey(qc, key)
	if err != nil {
		return false, err
	}

	switch x := k.(type) {
	case float32:
		k = float64(x)
	case *big.Int:
		k = x.String()
	}

	out, _, err := p.prg.Eval(map[string]any{celKeyVariable: k})
	if err != nil {
		// keys of another type than the expression expects don't match
		return false, nil
	}

	b, ok := out.Value().(bool)
	return ok && b, nil
}

func (p *celPredicate) String() string {
	return "cel(" + p.expr + ")"
}
