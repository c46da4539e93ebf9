package gpspec

import (
	"fmt"
	"io"

	"github.com/nihei9/typedgp/grammar"
)

// Describe writes a human-readable dump of gram's canonical definition
// order, node-value ranges, and per-type limits, in the style of the
// teacher's grammar-table dump.
func Describe(w io.Writer, gram *grammar.Grammar) error {
	fmt.Fprintf(w, "types: %d\n", gram.TypeCount())
	for i := 0; i < gram.TypeCount(); i++ {
		name, _ := gram.TypeName(grammar.TypeId(i))
		set := gram.DefinitionSetForType(grammar.TypeId(i))
		fmt.Fprintf(w, "  [%d] %-12s terminals=%-4d functions=%-4d node_limit=%d\n",
			i, name, set.TerminalLimit(), set.FunctionLimit(), set.NodeLimit())
	}

	fmt.Fprintf(w, "definitions: %d (terminal_limit=%d function_limit=%d node_limit=%d)\n",
		gram.DefinitionCount(), gram.TerminalLimit(), gram.FunctionLimit(), gram.NodeLimit())
	for id := 0; id < gram.DefinitionCount(); id++ {
		d, _ := gram.DefinitionByID(id)
		resultName, _ := gram.TypeName(d.ResultType())
		fmt.Fprintf(w, "  [%3d] %-10s %-9s -> %-10s code=[%d,%d) weight=%d",
			d.ID(), d.Name(), d.Kind(), resultName, d.NodeValue(), uint64(d.NodeValue())+uint64(d.Weight()), d.Weight())
		if d.IsFunction() {
			fmt.Fprint(w, " args=(")
			for i, at := range d.ArgumentTypes() {
				if i > 0 {
					fmt.Fprint(w, ", ")
				}
				name, _ := gram.TypeName(at)
				fmt.Fprint(w, name)
			}
			fmt.Fprint(w, ")")
		}
		fmt.Fprintln(w)
	}
	return nil
}
