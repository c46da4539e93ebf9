package grammar

import (
	"testing"

	"github.com/nihei9/typedgp/tree"
)

func TestGrammarNodeValueCoding(t *testing.T) {
	g, err := New([]string{"int"}, []Spec{
		TerminalSpec("x", "int", 10),
		TerminalSpec("y", "int", 10),
		BinarySpec("+", "int", [2]string{"int", "int"}, 5),
		BinarySpec("*", "int", [2]string{"int", "int"}, 11),
		UnarySpec("sin", "int", "int", 3),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	wantValues := map[string]uint32{"x": 0, "y": 10, "+": 20, "*": 25, "sin": 36}
	for name, want := range wantValues {
		d, ok := g.DefinitionByName(name)
		if !ok {
			t.Fatalf("missing definition %q", name)
		}
		if got := uint32(d.NodeValue()); got != want {
			t.Errorf("node value of %q: got %v, want %v", name, got, want)
		}
	}

	if got, want := g.TerminalLimit(), uint32(20); got != want {
		t.Errorf("TerminalLimit: got %v, want %v", got, want)
	}
	if got, want := g.FunctionLimit(), uint32(19); got != want {
		t.Errorf("FunctionLimit: got %v, want %v", got, want)
	}
	if got, want := g.NodeLimit(), uint32(39); got != want {
		t.Errorf("NodeLimit: got %v, want %v", got, want)
	}
}

func TestGrammarTypedPartitionOrder(t *testing.T) {
	g, err := New([]string{"float", "float3"}, []Spec{
		TerminalSpec("x", "float", 10),
		TerminalSpec("y", "float", 10),
		TerminalSpec("randomColor", "float3", 3),
		TerminalSpec("orange", "float3", 3),
		BinarySpec("+", "float", [2]string{"float", "float"}, 15),
		BinarySpec("*", "float", [2]string{"float", "float"}, 15),
		UnarySpec("sin", "float", "float", 15),
		UnarySpec("cos", "float", "float", 5),
		TernarySpec("rgb", "float3", [3]string{"float", "float", "float"}, 6),
		UnarySpec("darker", "float3", "float3", 4),
		UnarySpec("lighter", "float3", "float3", 4),
		UnarySpec("grayscale", "float3", "float3", 4),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	wantOrder := []string{
		"x", "y", "randomColor", "orange",
		"+", "*", "sin", "cos",
		"rgb", "darker", "lighter", "grayscale",
	}
	for i, name := range wantOrder {
		d, ok := g.DefinitionByID(i)
		if !ok {
			t.Fatalf("no definition at id %v", i)
		}
		if got := d.Name(); got != name {
			t.Errorf("canonical order[%v]: got %q, want %q", i, got, name)
		}
	}

	if got, want := g.TerminalLimit(), uint32(26); got != want {
		t.Errorf("TerminalLimit: got %v, want %v", got, want)
	}
	if got, want := g.FunctionLimit(), uint32(68); got != want {
		t.Errorf("FunctionLimit: got %v, want %v", got, want)
	}
}

func TestGrammarResolveRoundTrip(t *testing.T) {
	g, err := New([]string{"int"}, []Spec{
		TerminalSpec("x", "int", 10),
		TerminalSpec("y", "int", 10),
		BinarySpec("+", "int", [2]string{"int", "int"}, 5),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < len(g.defs); i++ {
		d := g.defs[i]
		for v := d.value; v < d.value+tree.NodeValue(d.weight); v++ {
			got, err := g.DefinitionForNodeValue(v)
			if err != nil {
				t.Fatalf("DefinitionForNodeValue(%v): %v", v, err)
			}
			if got.ID() != d.ID() {
				t.Errorf("DefinitionForNodeValue(%v) = %q, want %q", v, got.Name(), d.Name())
			}
		}
	}
}

func TestGrammarMalformedConstructionFails(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		specs []Spec
	}{
		{
			name:  "duplicate name",
			types: []string{"int"},
			specs: []Spec{TerminalSpec("x", "int", 1), TerminalSpec("x", "int", 1)},
		},
		{
			name:  "zero weight",
			types: []string{"int"},
			specs: []Spec{TerminalSpec("x", "int", 0)},
		},
		{
			name:  "unknown result type",
			types: []string{"int"},
			specs: []Spec{TerminalSpec("x", "float", 1)},
		},
		{
			name:  "function with no arguments",
			types: []string{"int"},
			specs: []Spec{{Name: "f", Kind: Function, ResultType: "int", Weight: 1}},
		},
		{
			name:  "duplicate type",
			types: []string{"int", "int"},
			specs: []Spec{TerminalSpec("x", "int", 1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.types, tt.specs); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestDefinitionSetForType(t *testing.T) {
	g, err := New([]string{"float", "float3"}, []Spec{
		TerminalSpec("x", "float", 10),
		TerminalSpec("randomColor", "float3", 3),
		BinarySpec("+", "float", [2]string{"float", "float"}, 20),
		TernarySpec("rgb", "float3", [3]string{"float", "float", "float"}, 10),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	floatID, _ := g.TypeByName("float")
	set := g.DefinitionSetForType(floatID)
	if got, want := len(set.Terminals()), 1; got != want {
		t.Errorf("float terminals: got %v, want %v", got, want)
	}
	if got, want := len(set.Functions()), 1; got != want {
		t.Errorf("float functions: got %v, want %v", got, want)
	}

	global := g.DefinitionSetForType(InvalidType)
	if got, want := len(global.Terminals()), 2; got != want {
		t.Errorf("global terminals: got %v, want %v", got, want)
	}
	if got, want := len(global.Functions()), 2; got != want {
		t.Errorf("global functions: got %v, want %v", got, want)
	}
}
