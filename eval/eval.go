// Package eval provides the reusable post-order tree evaluator scaffold:
// it walks a genome and dispatches to host-supplied callbacks by arity,
// leaving all domain semantics (what a terminal or function actually
// computes) to the host.
package eval

import (
	"fmt"

	"github.com/nihei9/typedgp/grammar"
	"github.com/nihei9/typedgp/tree"
)

// Callbacks is the capability interface a host implements to give meaning
// to a grammar's definitions. Evaluator dispatches to exactly one of these
// per node, chosen by the node's arity.
type Callbacks[T any] interface {
	// EvaluateTerminal computes the value of a leaf node.
	EvaluateTerminal(definitionID int, n tree.Node) T
	// EvaluateUnary computes the value of a one-argument function node
	// given its already-evaluated argument.
	EvaluateUnary(definitionID int, n tree.Node, x T) T
	// EvaluateBinary computes the value of a two-argument function node
	// given its already-evaluated arguments.
	EvaluateBinary(definitionID int, n tree.Node, x, y T) T
	// EvaluateFunction computes the value of a three-or-more argument
	// function node given its already-evaluated arguments, in order.
	EvaluateFunction(definitionID int, n tree.Node, args []T) T
}

// Evaluator walks a genome post-order against a grammar, resolving each
// node's value to its definition and dispatching by arity.
type Evaluator[T any] struct {
	gram *grammar.Grammar
	cb   Callbacks[T]
}

// New returns an Evaluator dispatching to cb for every node resolved
// against gram.
func New[T any](gram *grammar.Grammar, cb Callbacks[T]) *Evaluator[T] {
	return &Evaluator[T]{gram: gram, cb: cb}
}

// Evaluate walks tr from its root and returns the resulting value.
func (e *Evaluator[T]) Evaluate(tr *tree.Tree) (T, error) {
	var zero T
	if tr.Empty() {
		return zero, fmt.Errorf("eval: cannot evaluate an empty tree")
	}
	return e.eval(tr.Root())
}

func (e *Evaluator[T]) eval(n tree.Node) (T, error) {
	var zero T

	def, err := e.gram.DefinitionForNodeValue(n.Value())
	if err != nil {
		return zero, err
	}

	if def.IsTerminal() {
		return e.cb.EvaluateTerminal(def.ID(), n), nil
	}

	args := make([]T, def.NumArguments())
	for i := range args {
		c, ok := n.Child(i)
		if !ok {
			return zero, fmt.Errorf("eval: node %q expects %d argument(s), child %d is missing", def.Name(), def.NumArguments(), i)
		}
		v, err := e.eval(c)
		if err != nil {
			return zero, err
		}
		args[i] = v
	}

	switch len(args) {
	case 1:
		return e.cb.EvaluateUnary(def.ID(), n, args[0]), nil
	case 2:
		return e.cb.EvaluateBinary(def.ID(), n, args[0], args[1]), nil
	default:
		return e.cb.EvaluateFunction(def.ID(), n, args), nil
	}
}

// DefaultCallbacks implements Callbacks[T] with zero-value returns
// everywhere, so a host can embed it and override only the methods it
// cares about.
type DefaultCallbacks[T any] struct{}

func (DefaultCallbacks[T]) EvaluateTerminal(int, tree.Node) T { var z T; return z }
func (DefaultCallbacks[T]) EvaluateUnary(int, tree.Node, T) T { var z T; return z }
func (DefaultCallbacks[T]) EvaluateBinary(int, tree.Node, T, T) T { var z T; return z }
func (DefaultCallbacks[T]) EvaluateFunction(int, tree.Node, []T) T { var z T; return z }

var _ Callbacks[float64] = DefaultCallbacks[float64]{}
