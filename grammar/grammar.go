// Package grammar implements the typed, dense-coded grammar the evolutionary
// engine draws genomes from: a table of terminal and function definitions,
// each assigned a contiguous range of node-value codes, partitioned by
// result type so a tree generator can draw a type-constrained random node
// (a scan of that type's definitions) and resolve any code back to its
// definition in O(log k).
package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/typedgp/gperr"
	"github.com/nihei9/typedgp/tree"
)

// TypeId identifies a registered result/argument type.
type TypeId uint32

// InvalidType is the "any type" sentinel requesting the grammar's global
// definition set rather than a single type's.
const InvalidType = TypeId(^uint32(0))

// Kind distinguishes a leaf-producing Terminal definition from an
// internal-node-producing Function definition.
type Kind string

const (
	Terminal = Kind("terminal")
	Function = Kind("function")
)

// Spec is one grammar entry as supplied to New, named by type rather than
// by the dense TypeId the grammar assigns during construction.
type Spec struct {
	Name          string
	Kind          Kind
	ResultType    string
	ArgumentTypes []string
	Weight        uint32
}

// TerminalSpec declares a leaf definition of the given weight.
func TerminalSpec(name, resultType string, weight uint32) Spec {
	return Spec{Name: name, Kind: Terminal, ResultType: resultType, Weight: weight}
}

// UnarySpec declares a one-argument function definition.
func UnarySpec(name, resultType, argType string, weight uint32) Spec {
	return Spec{Name: name, Kind: Function, ResultType: resultType, ArgumentTypes: []string{argType}, Weight: weight}
}

// BinarySpec declares a two-argument function definition.
func BinarySpec(name, resultType string, argTypes [2]string, weight uint32) Spec {
	return Spec{Name: name, Kind: Function, ResultType: resultType, ArgumentTypes: argTypes[:], Weight: weight}
}

// TernarySpec declares a three-argument function definition.
func TernarySpec(name, resultType string, argTypes [3]string, weight uint32) Spec {
	return Spec{Name: name, Kind: Function, ResultType: resultType, ArgumentTypes: argTypes[:], Weight: weight}
}

// FunctionSpec declares a general n-ary (n >= 1) function definition.
func FunctionSpec(name, resultType string, argTypes []string, weight uint32) Spec {
	return Spec{Name: name, Kind: Function, ResultType: resultType, ArgumentTypes: argTypes, Weight: weight}
}

// Definition is one registered grammar entry: its dense id, its code range,
// and its typing.
type Definition struct {
	name          string
	id            int
	value         tree.NodeValue
	weight        uint32
	kind          Kind
	resultType    TypeId
	argumentTypes []TypeId
}

func (d *Definition) Name() string             { return d.name }
func (d *Definition) ID() int                   { return d.id }
func (d *Definition) NodeValue() tree.NodeValue { return d.value }
func (d *Definition) Weight() uint32            { return d.weight }
func (d *Definition) Kind() Kind                { return d.kind }
func (d *Definition) ResultType() TypeId        { return d.resultType }
func (d *Definition) ArgumentTypes() []TypeId   { return d.argumentTypes }
func (d *Definition) NumArguments() int         { return len(d.argumentTypes) }
func (d *Definition) IsTerminal() bool          { return d.kind == Terminal }
func (d *Definition) IsFunction() bool          { return d.kind == Function }

// contains reports whether v falls in this definition's [value, value+weight) range.
func (d *Definition) contains(v tree.NodeValue) bool {
	return v >= d.value && uint64(v) < uint64(d.value)+uint64(d.weight)
}

// Grammar is the immutable, constructed typed grammar: the canonical
// definition table plus the derived per-type indexes.
type Grammar struct {
	typeNames []string
	typeIDs   map[string]TypeId

	defs      []*Definition // canonical order; definitionId == index
	nameToDef map[string]int

	terminalLimit uint32
	functionLimit uint32

	byType map[TypeId]*DefinitionSet
	global *DefinitionSet
}

// New constructs a Grammar from a list of type names (registration order
// assigns each a dense TypeId) and a list of definition specs. Definitions
// are reordered internally into the canonical layout (every type's
// terminals, then every type's functions; see the comment in the body);
// node values are assigned by prefix-summing weights along that canonical
// order.
func New(types []string, specs []Spec) (*Grammar, error) {
	typeIDs := make(map[string]TypeId, len(types))
	typeNames := make([]string, len(types))
	for i, name := range types {
		if _, ok := typeIDs[name]; ok {
			return nil, fmt.Errorf("%w: duplicate type %q", gperr.ErrGrammarMalformed, name)
		}
		typeIDs[name] = TypeId(i)
		typeNames[i] = name
	}

	resolveType := func(name string) (TypeId, error) {
		id, ok := typeIDs[name]
		if !ok {
			return 0, fmt.Errorf("%w: undefined type %q", gperr.ErrGrammarMalformed, name)
		}
		return id, nil
	}

	seenNames := make(map[string]bool, len(specs))
	raw := make([]*Definition, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: definition %d has no name", gperr.ErrGrammarMalformed, i)
		}
		if seenNames[s.Name] {
			return nil, fmt.Errorf("%w: duplicate definition name %q", gperr.ErrGrammarMalformed, s.Name)
		}
		seenNames[s.Name] = true
		if s.Weight == 0 {
			return nil, fmt.Errorf("%w: definition %q has zero weight", gperr.ErrGrammarMalformed, s.Name)
		}
		resultType, err := resolveType(s.ResultType)
		if err != nil {
			return nil, fmt.Errorf("definition %q: %w", s.Name, err)
		}
		if s.Kind == Function && len(s.ArgumentTypes) == 0 {
			return nil, fmt.Errorf("%w: function %q has no arguments", gperr.ErrGrammarMalformed, s.Name)
		}
		if s.Kind == Terminal && len(s.ArgumentTypes) != 0 {
			return nil, fmt.Errorf("%w: terminal %q has arguments", gperr.ErrGrammarMalformed, s.Name)
		}
		argTypes := make([]TypeId, len(s.ArgumentTypes))
		for j, a := range s.ArgumentTypes {
			t, err := resolveType(a)
			if err != nil {
				return nil, fmt.Errorf("definition %q argument %d: %w", s.Name, j, err)
			}
			argTypes[j] = t
		}
		raw[i] = &Definition{
			name:          s.Name,
			weight:        s.Weight,
			kind:          s.Kind,
			resultType:    resultType,
			argumentTypes: argTypes,
		}
	}

	// Canonical order: for each type in registration order, all terminals
	// of that type (registration order preserved), then for each type in
	// registration order, all functions of that type (registration order
	// preserved).
	defs := make([]*Definition, 0, len(raw))
	for _, want := range []Kind{Terminal, Function} {
		for _, typeName := range types {
			tid := typeIDs[typeName]
			for _, d := range raw {
				if d.kind == want && d.resultType == tid {
					defs = append(defs, d)
				}
			}
		}
	}

	var value tree.NodeValue
	var terminalLimit, functionLimit uint32
	nameToDef := make(map[string]int, len(defs))
	for i, d := range defs {
		d.id = i
		d.value = value
		value += tree.NodeValue(d.weight)
		nameToDef[d.name] = i
		if d.kind == Terminal {
			terminalLimit += d.weight
		} else {
			functionLimit += d.weight
		}
	}

	g := &Grammar{
		typeNames:     typeNames,
		typeIDs:       typeIDs,
		defs:          defs,
		nameToDef:     nameToDef,
		terminalLimit: terminalLimit,
		functionLimit: functionLimit,
		byType:        make(map[TypeId]*DefinitionSet, len(types)),
	}

	for _, typeName := range types {
		tid := typeIDs[typeName]
		g.byType[tid] = newDefinitionSet(defs, func(d *Definition) bool { return d.resultType == tid })
	}
	g.global = newDefinitionSet(defs, func(*Definition) bool { return true })

	return g, nil
}

// TypeCount returns the number of registered types.
func (g *Grammar) TypeCount() int { return len(g.typeNames) }

// TypeName returns the registered name of t.
func (g *Grammar) TypeName(t TypeId) (string, bool) {
	if int(t) < 0 || int(t) >= len(g.typeNames) {
		return "", false
	}
	return g.typeNames[t], true
}

// TypeByName resolves a registered type name to its TypeId.
func (g *Grammar) TypeByName(name string) (TypeId, bool) {
	id, ok := g.typeIDs[name]
	return id, ok
}

// DefinitionCount returns the number of registered definitions.
func (g *Grammar) DefinitionCount() int { return len(g.defs) }

// DefinitionByID returns the definition with the given dense id.
func (g *Grammar) DefinitionByID(id int) (*Definition, bool) {
	if id < 0 || id >= len(g.defs) {
		return nil, false
	}
	return g.defs[id], true
}

// DefinitionByName resolves a definition by its registered name.
func (g *Grammar) DefinitionByName(name string) (*Definition, bool) {
	id, ok := g.nameToDef[name]
	if !ok {
		return nil, false
	}
	return g.defs[id], true
}

// TerminalLimit returns the sum of weights of every terminal definition.
func (g *Grammar) TerminalLimit() uint32 { return g.terminalLimit }

// FunctionLimit returns the sum of weights of every function definition.
func (g *Grammar) FunctionLimit() uint32 { return g.functionLimit }

// NodeLimit returns TerminalLimit() + FunctionLimit().
func (g *Grammar) NodeLimit() uint32 { return g.terminalLimit + g.functionLimit }

// DefinitionForNodeValue resolves a node value produced by this grammar
// back to its definition by binary search over the sorted node-value
// array: O(log k) in the number of definitions.
func (g *Grammar) DefinitionForNodeValue(v tree.NodeValue) (*Definition, error) {
	n := len(g.defs)
	idx := sort.Search(n, func(i int) bool { return g.defs[i].value > v }) - 1
	if idx < 0 {
		return nil, fmt.Errorf("%w: node value %v precedes the grammar's range", gperr.ErrGrammarMalformed, v)
	}
	d := g.defs[idx]
	if !d.contains(v) {
		return nil, fmt.Errorf("%w: node value %v is not covered by any definition", gperr.ErrGrammarMalformed, v)
	}
	return d, nil
}

// DefinitionSetForType returns the per-type view for t, or the global
// ("any type") view if t is InvalidType.
func (g *Grammar) DefinitionSetForType(t TypeId) *DefinitionSet {
	if t == InvalidType {
		return g.global
	}
	return g.byType[t]
}
