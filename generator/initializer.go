package generator

import (
	"fmt"

	"github.com/nihei9/typedgp/gperr"
	"github.com/nihei9/typedgp/grammar"
	"github.com/nihei9/typedgp/tree"
)

// Delegate lets a host override how the initializer emits a genome —
// typically to force a specific root function or root type. Returning
// handled=true means the delegate has fully populated b itself (including
// pushing/popping its own root); the initializer then just finishes the
// tree and hands it to the sink.
type Delegate interface {
	GenerateFull(gen *Generator, b *tree.Builder, maxDepth int) (handled bool, err error)
	GenerateGrow(gen *Generator, b *tree.Builder, maxDepth int) (handled bool, err error)
}

// Options configures a ramped half-and-half population initialization.
type Options struct {
	PopulationSize int
	MaxTreeDepth   int
	RootType       grammar.TypeId // grammar.InvalidType means any type.
}

// Sink receives each genome the initializer produces, in emission order
// (the Full half first, then the Grow half).
type Sink func(*tree.Tree) error

// Initialize emits PopulationSize genomes to sink: the first half built
// with the Full strategy, the second half with Grow, each half's target
// depth ramped linearly from 1 up to approximately MaxTreeDepth.
func Initialize(gen *Generator, opts Options, delegate Delegate, sink Sink) error {
	if opts.PopulationSize <= 0 {
		return gperr.ErrEmptyPopulation
	}

	half := opts.PopulationSize / 2
	otherHalf := opts.PopulationSize - half

	for k := 0; k < half; k++ {
		depth := rampDepth(opts.MaxTreeDepth, half, k)
		tr, err := buildOne(gen, delegate, true, depth, opts.RootType)
		if err != nil {
			return fmt.Errorf("initialize full half, index %d: %w", k, err)
		}
		if err := sink(tr); err != nil {
			return err
		}
	}
	for k := 0; k < otherHalf; k++ {
		depth := rampDepth(opts.MaxTreeDepth, otherHalf, k)
		tr, err := buildOne(gen, delegate, false, depth, opts.RootType)
		if err != nil {
			return fmt.Errorf("initialize grow half, index %d: %w", k, err)
		}
		if err := sink(tr); err != nil {
			return err
		}
	}
	return nil
}

// rampDepth implements depth_i = floor(1 + (D / halfSize) * k).
func rampDepth(maxDepth, halfSize, k int) int {
	if halfSize <= 0 {
		return maxDepth
	}
	return int(1 + (float64(maxDepth)/float64(halfSize))*float64(k))
}

func buildOne(gen *Generator, delegate Delegate, full bool, maxDepth int, ty grammar.TypeId) (*tree.Tree, error) {
	b := tree.NewBuilder()

	if delegate != nil {
		var handled bool
		var err error
		if full {
			handled, err = delegate.GenerateFull(gen, b, maxDepth)
		} else {
			handled, err = delegate.GenerateGrow(gen, b, maxDepth)
		}
		if err != nil {
			return nil, err
		}
		if handled {
			return b.Build()
		}
	}

	var err error
	if full {
		err = gen.GenerateFull(b, maxDepth, ty)
	} else {
		err = gen.GenerateGrow(b, maxDepth, ty)
	}
	if err != nil {
		return nil, err
	}
	return b.Build()
}
