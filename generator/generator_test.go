package generator

import (
	"math/rand"
	"testing"

	"github.com/nihei9/typedgp/grammar"
	"github.com/nihei9/typedgp/tree"
)

func floatGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g, err := grammar.New([]string{"float"}, []grammar.Spec{
		grammar.TerminalSpec("x", "float", 10),
		grammar.TerminalSpec("1.0", "float", 10),
		grammar.BinarySpec("+", "float", [2]string{"float", "float"}, 5),
		grammar.BinarySpec("*", "float", [2]string{"float", "float"}, 5),
		grammar.UnarySpec("sin", "float", "float", 3),
	})
	if err != nil {
		t.Fatalf("grammar.New: %v", err)
	}
	return g
}

func TestGenerateFullReachesExactDepth(t *testing.T) {
	g := floatGrammar(t)
	rng := rand.New(rand.NewSource(1))
	gen := New(g, rng)
	floatType, _ := g.TypeByName("float")

	const depth = 4
	b := tree.NewBuilder()
	if err := gen.GenerateFull(b, depth, floatType); err != nil {
		t.Fatalf("GenerateFull: %v", err)
	}
	tr, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	checkFullDepth(t, tr, tr.Root(), depth)
}

func checkFullDepth(t *testing.T, tr *tree.Tree, n tree.Node, depth int) {
	t.Helper()
	if depth <= 1 {
		if !n.IsLeaf() {
			t.Errorf("full tree: node at depth-limit is not a leaf (child count %v)", n.ChildCount())
		}
		return
	}
	if n.IsLeaf() {
		t.Errorf("full tree: internal node at remaining depth %v is a leaf", depth)
		return
	}
	for _, c := range n.Children() {
		checkFullDepth(t, tr, c, depth-1)
	}
}

func TestGenerateGrowNeverExceedsMaxDepth(t *testing.T) {
	g := floatGrammar(t)
	rng := rand.New(rand.NewSource(2))
	gen := New(g, rng)
	floatType, _ := g.TypeByName("float")

	for trial := 0; trial < 50; trial++ {
		const depth = 5
		b := tree.NewBuilder()
		if err := gen.GenerateGrow(b, depth, floatType); err != nil {
			t.Fatalf("GenerateGrow: %v", err)
		}
		tr, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		checkGrowDepth(t, tr.Root(), depth)
	}
}

func checkGrowDepth(t *testing.T, n tree.Node, remaining int) {
	t.Helper()
	if remaining < 1 {
		t.Fatalf("grow tree descended past its depth budget")
	}
	for _, c := range n.Children() {
		checkGrowDepth(t, c, remaining-1)
	}
}

// forcedRGBDelegate forces a ternary root, matching spec.md §8 scenario 5.
type forcedRGBDelegate struct {
	rgb, r, g, b grammar.TypeId
	rootValue    tree.NodeValue
}

func (d *forcedRGBDelegate) GenerateFull(gen *Generator, b *tree.Builder, maxDepth int) (bool, error) {
	return d.force(gen, b, maxDepth)
}

func (d *forcedRGBDelegate) GenerateGrow(gen *Generator, b *tree.Builder, maxDepth int) (bool, error) {
	return d.force(gen, b, maxDepth)
}

func (d *forcedRGBDelegate) force(gen *Generator, b *tree.Builder, maxDepth int) (bool, error) {
	b.Push(d.rootValue)
	for _, argType := range []grammar.TypeId{d.r, d.g, d.b} {
		if err := gen.GenerateGrow(b, maxDepth-1, argType); err != nil {
			return false, err
		}
	}
	b.Pop()
	return true, nil
}

func TestRampedInitWithRootDelegate(t *testing.T) {
	g, err := grammar.New([]string{"float", "float3"}, []grammar.Spec{
		grammar.TerminalSpec("x", "float", 1),
		grammar.TerminalSpec("y", "float", 1),
		grammar.TernarySpec("rgb", "float3", [3]string{"float", "float", "float"}, 1),
	})
	if err != nil {
		t.Fatalf("grammar.New: %v", err)
	}
	floatType, _ := g.TypeByName("float")
	float3Type, _ := g.TypeByName("float3")
	rgbDef, _ := g.DefinitionByName("rgb")

	rng := rand.New(rand.NewSource(3))
	gen := New(g, rng)
	delegate := &forcedRGBDelegate{rgb: float3Type, r: floatType, g: floatType, b: floatType, rootValue: rgbDef.NodeValue()}

	var emitted []*tree.Tree
	err = Initialize(gen, Options{PopulationSize: 2, MaxTreeDepth: 1, RootType: float3Type}, delegate, func(tr *tree.Tree) error {
		emitted = append(emitted, tr)
		return nil
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got, want := len(emitted), 2; got != want {
		t.Fatalf("emitted genome count: got %v, want %v", got, want)
	}
	for i, tr := range emitted {
		root := tr.Root()
		if got := root.Value(); got != rgbDef.NodeValue() {
			t.Errorf("genome %v: root value = %v, want rgb (%v)", i, got, rgbDef.NodeValue())
		}
		if got, want := root.ChildCount(), 3; got != want {
			t.Errorf("genome %v: root.ChildCount = %v, want %v", i, got, want)
		}
		for _, c := range root.Children() {
			if !c.IsLeaf() {
				t.Errorf("genome %v: expected every child to be a terminal, got child count %v", i, c.ChildCount())
			}
		}
	}
}

func TestInitializeRejectsEmptyPopulation(t *testing.T) {
	g := floatGrammar(t)
	rng := rand.New(rand.NewSource(4))
	gen := New(g, rng)
	err := Initialize(gen, Options{PopulationSize: 0, MaxTreeDepth: 3}, nil, func(*tree.Tree) error { return nil })
	if err == nil {
		t.Fatal("expected an error for a zero-size population")
	}
}
