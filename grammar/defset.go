package grammar

import "math/rand"

// DefinitionSet is the per-type (or global, for InvalidType) view the tree
// generator draws from: the terminals and functions whose result type
// matches, plus the weight totals that make a uniform draw over either
// bucket automatically weight-proportional.
type DefinitionSet struct {
	terminals []*Definition
	functions []*Definition

	terminalLimit uint32
	functionLimit uint32
}

func newDefinitionSet(defs []*Definition, match func(*Definition) bool) *DefinitionSet {
	s := &DefinitionSet{}
	for _, d := range defs {
		if !match(d) {
			continue
		}
		if d.kind == Terminal {
			s.terminals = append(s.terminals, d)
			s.terminalLimit += d.weight
		} else {
			s.functions = append(s.functions, d)
			s.functionLimit += d.weight
		}
	}
	return s
}

// HasTerminals reports whether the set has any terminal definition.
func (s *DefinitionSet) HasTerminals() bool { return len(s.terminals) > 0 }

// HasFunctions reports whether the set has any function definition.
func (s *DefinitionSet) HasFunctions() bool { return len(s.functions) > 0 }

// Terminals returns the set's terminal definitions, in canonical order.
func (s *DefinitionSet) Terminals() []*Definition { return s.terminals }

// Functions returns the set's function definitions, in canonical order.
func (s *DefinitionSet) Functions() []*Definition { return s.functions }

// TerminalLimit returns the type-constrained sum of terminal weights.
func (s *DefinitionSet) TerminalLimit() uint32 { return s.terminalLimit }

// FunctionLimit returns the type-constrained sum of function weights.
func (s *DefinitionSet) FunctionLimit() uint32 { return s.functionLimit }

// NodeLimit returns TerminalLimit() + FunctionLimit().
func (s *DefinitionSet) NodeLimit() uint32 { return s.terminalLimit + s.functionLimit }

// pickWeighted resolves a uniform draw v in [0, sum(weights)) to the
// definition whose weight range it falls in. Because each definition
// occupies a range proportional to its weight, a uniform v is
// automatically weight-proportional selection.
func pickWeighted(defs []*Definition, v uint32) *Definition {
	var acc uint32
	for _, d := range defs {
		acc += d.weight
		if v < acc {
			return d
		}
	}
	return defs[len(defs)-1]
}

// RandomTerminal draws a uniformly, weight-proportionally chosen terminal
// definition from the set. It panics if the set has no terminals; callers
// must check HasTerminals first.
func (s *DefinitionSet) RandomTerminal(rng *rand.Rand) *Definition {
	v := uint32(rng.Int63n(int64(s.terminalLimit)))
	return pickWeighted(s.terminals, v)
}

// RandomFunction draws a uniformly, weight-proportionally chosen function
// definition from the set. It panics if the set has no functions; callers
// must check HasFunctions first.
func (s *DefinitionSet) RandomFunction(rng *rand.Rand) *Definition {
	v := uint32(rng.Int63n(int64(s.functionLimit)))
	return pickWeighted(s.functions, v)
}

// RandomAny draws a uniformly, weight-proportionally chosen definition
// from the terminals and functions combined: the Grow strategy's
// whole-set range.
func (s *DefinitionSet) RandomAny(rng *rand.Rand) *Definition {
	v := uint32(rng.Int63n(int64(s.NodeLimit())))
	if v < s.terminalLimit {
		return pickWeighted(s.terminals, v)
	}
	return pickWeighted(s.functions, v-s.terminalLimit)
}
