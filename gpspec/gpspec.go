// Package gpspec parses a small line-oriented textual grammar description
// into the (types, definitions) pair grammar.New accepts. It is a
// convenience front end only: the core grammar package never depends on
// it, and a caller may always build a grammar programmatically instead.
//
// Format, one declaration per line:
//
//	type <name>
//	terminal <name> : <resultType> weight <N>
//	unary <name> : <resultType> <argType> weight <N>
//	binary <name> : <resultType> <argType1> <argType2> weight <N>
//	ternary <name> : <resultType> <argType1> <argType2> <argType3> weight <N>
//	function <name> : <resultType> <argType>... weight <N>
//
// Blank lines and lines whose first non-space character is '#' are
// ignored. Type declarations may appear anywhere but are collected in the
// order they appear; declaring the same type twice is an error.
package gpspec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nihei9/typedgp/gperr"
	"github.com/nihei9/typedgp/grammar"
)

// Parse reads a textual grammar description from r and constructs a
// *grammar.Grammar from it.
func Parse(r io.Reader) (*grammar.Grammar, error) {
	var types []string
	var specs []grammar.Spec

	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		row++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "type":
			name, err := parseTypeDecl(fields)
			if err != nil {
				return nil, lineErr(row, err)
			}
			types = append(types, name)
		case "terminal", "unary", "binary", "ternary", "function":
			spec, err := parseDefDecl(fields)
			if err != nil {
				return nil, lineErr(row, err)
			}
			specs = append(specs, spec)
		default:
			return nil, lineErr(row, fmt.Errorf("unknown declaration keyword %q", fields[0]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("gpspec: reading input: %w", err)
	}

	return grammar.New(types, specs)
}

func lineErr(row int, cause error) error {
	return fmt.Errorf("%w: line %d: %v", gperr.ErrGrammarMalformed, row, cause)
}

func parseTypeDecl(fields []string) (string, error) {
	if len(fields) != 2 {
		return "", fmt.Errorf("expected 'type <name>', got %d field(s)", len(fields))
	}
	return fields[1], nil
}

// parseDefDecl handles every "<kind> <name> : <resultType> <argTypes...>
// weight <N>" shape; kind alone determines how many argument types are
// expected between the result type and the weight keyword.
func parseDefDecl(fields []string) (grammar.Spec, error) {
	kind := fields[0]
	if len(fields) < 3 || fields[2] != ":" {
		return grammar.Spec{}, fmt.Errorf("expected '%s <name> : <resultType> ... weight <N>'", kind)
	}
	name := fields[1]
	rest := fields[3:]

	weightIdx := -1
	for i, f := range rest {
		if f == "weight" {
			weightIdx = i
			break
		}
	}
	if weightIdx == -1 || weightIdx+1 >= len(rest) {
		return grammar.Spec{}, fmt.Errorf("definition %q has no 'weight <N>' clause", name)
	}
	weight, err := strconv.ParseUint(rest[weightIdx+1], 10, 32)
	if err != nil {
		return grammar.Spec{}, fmt.Errorf("definition %q: invalid weight %q: %w", name, rest[weightIdx+1], err)
	}

	typeFields := rest[:weightIdx]
	if len(typeFields) == 0 {
		return grammar.Spec{}, fmt.Errorf("definition %q has no result type", name)
	}
	resultType := typeFields[0]
	argTypes := typeFields[1:]

	switch kind {
	case "terminal":
		if len(argTypes) != 0 {
			return grammar.Spec{}, fmt.Errorf("terminal %q must not declare argument types", name)
		}
		return grammar.TerminalSpec(name, resultType, uint32(weight)), nil
	case "unary":
		if len(argTypes) != 1 {
			return grammar.Spec{}, fmt.Errorf("unary %q needs exactly 1 argument type, got %d", name, len(argTypes))
		}
		return grammar.UnarySpec(name, resultType, argTypes[0], uint32(weight)), nil
	case "binary":
		if len(argTypes) != 2 {
			return grammar.Spec{}, fmt.Errorf("binary %q needs exactly 2 argument types, got %d", name, len(argTypes))
		}
		return grammar.BinarySpec(name, resultType, [2]string{argTypes[0], argTypes[1]}, uint32(weight)), nil
	case "ternary":
		if len(argTypes) != 3 {
			return grammar.Spec{}, fmt.Errorf("ternary %q needs exactly 3 argument types, got %d", name, len(argTypes))
		}
		return grammar.TernarySpec(name, resultType, [3]string{argTypes[0], argTypes[1], argTypes[2]}, uint32(weight)), nil
	case "function":
		if len(argTypes) == 0 {
			return grammar.Spec{}, fmt.Errorf("function %q needs at least 1 argument type", name)
		}
		return grammar.FunctionSpec(name, resultType, argTypes, uint32(weight)), nil
	default:
		return grammar.Spec{}, fmt.Errorf("unknown definition keyword %q", kind)
	}
}
