// Package printer renders a genome as an S-expression: a function node
// prints as "(" name child... ")", a terminal prints as its bare name.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/typedgp/grammar"
	"github.com/nihei9/typedgp/tree"
)

// Delegate lets a host override the rendering of specific nodes — for
// example printing a constant terminal's sampled value instead of its
// definition name.
type Delegate interface {
	// Print returns the text for n and true if it wants to override the
	// default rendering; false defers to the default (name, or a
	// parenthesized call for a function).
	Print(def *grammar.Definition, n tree.Node) (string, bool)
}

// Print writes tr to w as an S-expression.
func Print(w io.Writer, gram *grammar.Grammar, tr *tree.Tree, delegate Delegate) error {
	if tr.Empty() {
		return nil
	}
	s, err := render(gram, tr.Root(), delegate)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// Sprint renders tr to a string; it is a convenience wrapper around Print.
func Sprint(gram *grammar.Grammar, tr *tree.Tree, delegate Delegate) (string, error) {
	var sb strings.Builder
	if err := Print(&sb, gram, tr, delegate); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func render(gram *grammar.Grammar, n tree.Node, delegate Delegate) (string, error) {
	def, err := gram.DefinitionForNodeValue(n.Value())
	if err != nil {
		return "", err
	}

	if delegate != nil {
		if s, ok := delegate.Print(def, n); ok {
			return s, nil
		}
	}

	if def.IsTerminal() {
		return def.Name(), nil
	}

	parts := make([]string, 0, n.ChildCount()+1)
	parts = append(parts, def.Name())
	for _, c := range n.Children() {
		s, err := render(gram, c, delegate)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " ")), nil
}
