/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utilities.go
Description: Utility commands for Relish. Provides list-benchmarks and check-grammar.
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kleascm/relish/pkg/lifting"
)

// ListBenchmarks lists the benchmark catalogue
func ListBenchmarks(cmd *cobra.Command, args []string) {
	fmt.Println("Relish - Available Benchmarks")
	fmt.Println("=============================")
	fmt.Println()

	for i, name := range lifting.Names() {
		b, _ := lifting.Lookup(name)
		extras := ""
		if b.Extras != nil {
			for j, e := range b.Extras() {
				if j > 0 {
					extras += ", "
				}
				extras += e.Semantics.Name()
			}
		}
		fmt.Printf("%2d. %-12s %-5s %s\n", i+1, b.Name, b.Kind, b.Description)
		if extras != "" {
			fmt.Printf("    extra operators: %s\n", extras)
		}
	}

	fmt.Println()
	fmt.Println("Use 'relish synth <name>' to run one benchmark or 'relish synth all' for every one")
}

// CheckGrammar validates grammar names or files and prints them
func CheckGrammar(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, name := range args {
		g, err := loadGrammar(name)
		if err == nil {
			err = g.Validate()
		}
		if err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", name, err)
			continue
		}
		fmt.Printf("OK   %s (%d symbols, start %s)\n", name, len(g.Symbols), g.StartSymbol().Name)
		fmt.Println(g.String())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d grammars are invalid", failed, len(args))
	}
	return nil
}
