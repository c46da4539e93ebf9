package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/nihei9/typedgp/gpspec"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print a grammar description file's canonical layout",
		Example: `  tgp describe grammar.gpspec`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(error)
		if !ok {
			retErr = fmt.Errorf("an unexpected error occurred: %v", v)
		} else {
			retErr = err
		}
		fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
	}()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("cannot open the grammar file %s: %w", args[0], err)
	}
	defer f.Close()

	gram, err := gpspec.Parse(f)
	if err != nil {
		return err
	}

	return gpspec.Describe(os.Stdout, gram)
}
