// Package evolve runs the generational loop over a population of typed
// genomes: tournament selection with elitism, type-aware subtree crossover,
// subtree mutation, and per-generation fitness memoization. All domain
// specifics (what a fitness is, how a random replacement subtree is drawn)
// are left to a host Delegate; the loop itself only ever touches indices,
// fitness floats, and *tree.Tree values.
package evolve

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/nihei9/typedgp/gperr"
	"github.com/nihei9/typedgp/grammar"
	"github.com/nihei9/typedgp/tree"
)

// Delegate supplies the domain-specific operations the loop cannot provide
// itself: fitness evaluation, a replacement subtree for mutation, and the
// grammar genomes are drawn from (needed to type-check a mutation site).
type Delegate interface {
	// ComputeFitness fills fitnesses[i] for every individuals[i]. It is
	// called at most once per generation.
	ComputeFitness(individuals []*tree.Tree, fitnesses []float64) error
	// GenerateRandomTreeOfType returns a fresh tree rooted at t, used to
	// replace a mutated node's subtree.
	GenerateRandomTreeOfType(t grammar.TypeId) (*tree.Tree, error)
	// GenomeGrammar returns the grammar individuals are drawn from, used
	// to resolve a node's result type during mutation and crossover.
	GenomeGrammar() *grammar.Grammar
}

// Params configures the variation pass. MutationRate and CrossoverRate must
// each be >= 0 and sum to <= 1; the remainder is reproduction (the
// individual is cloned unchanged).
type Params struct {
	MutationRate  float64
	CrossoverRate float64
}

// Stats summarizes one generation's fitnesses.
type Stats struct {
	Average   float64
	Best      float64
	BestIndex int
}

// Population holds N genomes and their memoized fitnesses, and advances
// them one generation at a time via NextGeneration.
type Population struct {
	delegate Delegate
	params   Params
	rng      *rand.Rand

	individuals []*tree.Tree
	fitnesses   []float64

	generation         int
	lastEvaluatedGen   int
	haveEvaluatedAtAll bool
	bestIndex          int
}

// New constructs a Population from genomes already produced by a caller
// (typically generator.Initialize). Ownership of genomes passes to the
// Population.
func New(genomes []*tree.Tree, delegate Delegate, params Params, rng *rand.Rand) (*Population, error) {
	if len(genomes) == 0 {
		return nil, gperr.ErrEmptyPopulation
	}
	if len(genomes) < 3 {
		return nil, gperr.ErrPopulationTooSmall
	}
	if params.MutationRate < 0 || params.CrossoverRate < 0 || params.MutationRate+params.CrossoverRate > 1 {
		return nil, fmt.Errorf("%w: mutation_rate %v + crossover_rate %v must be in [0,1]", gperr.ErrGrammarMalformed, params.MutationRate, params.CrossoverRate)
	}
	return &Population{
		delegate:         delegate,
		params:           params,
		rng:              rng,
		individuals:      genomes,
		fitnesses:        make([]float64, len(genomes)),
		generation:       0,
		lastEvaluatedGen: -1,
	}, nil
}

// Len returns the population size N.
func (p *Population) Len() int { return len(p.individuals) }

// Generation returns the current generation counter, starting at 0.
func (p *Population) Generation() int { return p.generation }

// At returns a read-only view of individual i.
func (p *Population) At(i int) *tree.Tree { return p.individuals[i] }

// EvaluateGeneration populates fitnesses via the delegate if this
// generation hasn't been evaluated yet, then returns the best individual's
// index. Calling it more than once per generation is a no-op after the
// first call.
func (p *Population) EvaluateGeneration() (int, error) {
	if p.haveEvaluatedAtAll && p.lastEvaluatedGen == p.generation {
		return p.bestIndex, nil
	}
	if err := p.delegate.ComputeFitness(p.individuals, p.fitnesses); err != nil {
		return 0, gperr.Wrap(p.generation, "compute_fitness", err)
	}
	best := 0
	for i, f := range p.fitnesses {
		if f > p.fitnesses[best] {
			best = i
		}
	}
	p.bestIndex = best
	p.lastEvaluatedGen = p.generation
	p.haveEvaluatedAtAll = true
	return best, nil
}

// GetStats returns average/best/best_index computed from the current
// (already evaluated) fitnesses.
func (p *Population) GetStats() Stats {
	var sum float64
	best := 0
	for i, f := range p.fitnesses {
		sum += f
		if f > p.fitnesses[best] {
			best = i
		}
	}
	return Stats{
		Average:   sum / float64(len(p.fitnesses)),
		Best:      p.fitnesses[best],
		BestIndex: best,
	}
}

// NextGeneration advances the population by exactly one generation,
// following the canonical algorithm: evaluate, seed two elite copies,
// fill the remaining N-3 slots by tournament-3 selection, run the
// variation pass (mutation/crossover/reproduction) over everything but the
// final slot, then append a third untouched elite copy.
func (p *Population) NextGeneration() error {
	best, err := p.EvaluateGeneration()
	if err != nil {
		return err
	}
	n := len(p.individuals)

	newGen := make([]*tree.Tree, 0, n)
	newGen = append(newGen, p.individuals[best].Clone(), p.individuals[best].Clone())

	for len(newGen) < n-1 {
		newGen = append(newGen, p.tournamentSelect().Clone())
	}

	if err := p.vary(newGen); err != nil {
		return err
	}

	newGen = append(newGen, p.individuals[best].Clone())

	p.individuals = newGen
	p.fitnesses = make([]float64, n)
	p.generation++
	return nil
}

// tournamentSelect draws 3 indices uniformly with replacement and returns
// the fittest, first-seen on ties.
func (p *Population) tournamentSelect() *tree.Tree {
	n := len(p.individuals)
	bestIdx := p.rng.Intn(n)
	for k := 0; k < 2; k++ {
		c := p.rng.Intn(n)
		if p.fitnesses[c] > p.fitnesses[bestIdx] {
			bestIdx = c
		}
	}
	return p.individuals[bestIdx]
}

// vary walks gen by index, mutating, crossing over, or leaving each slot
// unchanged per Params. A successful crossover consumes two slots (i and
// its partner j) and advances the loop past both.
func (p *Population) vary(gen []*tree.Tree) error {
	for i := 0; i < len(gen); i++ {
		roll := p.rng.Float64()
		switch {
		case roll <= p.params.MutationRate:
			if err := p.mutate(gen, i); err != nil {
				return gperr.Wrap(p.generation, "mutate", err)
			}
		case roll <= p.params.MutationRate+p.params.CrossoverRate:
			j := i + 1
			if j >= len(gen) {
				j = p.rng.Intn(len(gen))
				if j == i {
					j = i - 1
				}
			}
			if j < 0 || j >= len(gen) {
				continue
			}
			if err := p.crossover(gen, i, j); err != nil {
				if err == gperr.ErrCrossoverTypeMismatch {
					log.Printf("generation %d: crossover: %v", p.generation, err)
					continue
				}
				return gperr.Wrap(p.generation, "crossover", err)
			}
			i++
		}
	}
	return nil
}

// mutate replaces the subtree at a uniformly chosen node index of gen[i]
// with a freshly generated tree of the same result type.
func (p *Population) mutate(gen []*tree.Tree, i int) error {
	target := gen[i]
	idx := p.rng.Intn(target.Len())
	n, err := target.NodeAt(idx)
	if err != nil {
		return err
	}
	def, err := p.delegate.GenomeGrammar().DefinitionForNodeValue(n.Value())
	if err != nil {
		return err
	}
	replacement, err := p.delegate.GenerateRandomTreeOfType(def.ResultType())
	if err != nil {
		return err
	}
	return target.Replace(idx, replacement)
}

// crossover performs type-aware subtree crossover between gen[i] and
// gen[j]: a random node of gen[i] is exchanged with a uniformly chosen,
// type-matching node of gen[j]. If gen[j] has no node of the required
// type, it returns gperr.ErrCrossoverTypeMismatch and leaves both trees
// unchanged.
func (p *Population) crossover(gen []*tree.Tree, i, j int) error {
	a, b := gen[i], gen[j]
	gram := p.delegate.GenomeGrammar()

	ai := p.rng.Intn(a.Len())
	aNode, err := a.NodeAt(ai)
	if err != nil {
		return err
	}
	aDef, err := gram.DefinitionForNodeValue(aNode.Value())
	if err != nil {
		return err
	}
	t := aDef.ResultType()

	var candidates []int
	for bi := 0; bi < b.Len(); bi++ {
		bNode, err := b.NodeAt(bi)
		if err != nil {
			return err
		}
		bDef, err := gram.DefinitionForNodeValue(bNode.Value())
		if err != nil {
			return err
		}
		if bDef.ResultType() == t {
			candidates = append(candidates, bi)
		}
	}
	if len(candidates) == 0 {
		return gperr.ErrCrossoverTypeMismatch
	}
	bi := candidates[p.rng.Intn(len(candidates))]

	sa, err := a.GetSubtree(ai)
	if err != nil {
		return err
	}
	sb, err := b.GetSubtree(bi)
	if err != nil {
		return err
	}
	if err := a.Replace(ai, sb); err != nil {
		return err
	}
	return b.Replace(bi, sa)
}
