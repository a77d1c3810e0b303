/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: enumerate.go
Description: Enumerate command. Lists programs of a grammar in size order, or searches
for the smallest program consistent with input/output examples using observational
equivalence pruning.
*/

package commands

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/relish/pkg/config"
	"github.com/kleascm/relish/pkg/enumerator"
	"github.com/kleascm/relish/pkg/interfaces"
	"github.com/kleascm/relish/pkg/program"
	"github.com/kleascm/relish/pkg/value"
)

// RunEnumerate executes the enumerate command
func RunEnumerate(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	logger, err := SetupLogging(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	name := viper.GetString("enumerate.grammar")
	g, err := loadGrammar(name)
	if err != nil {
		return err
	}
	types, err := parseTypes(viper.GetStringSlice("enumerate.params"))
	if err != nil {
		return err
	}
	g.AddParam(types...)
	if err := g.Validate(); err != nil {
		return fmt.Errorf("grammar %s: %w", name, err)
	}

	inputs, _ := cmd.Flags().GetStringArray("input")
	expected, _ := cmd.Flags().GetStringArray("expect")
	opts := []enumerator.Option{
		enumerator.WithConfig(cfg),
		enumerator.WithLogger(logger.GetLogger()),
		enumerator.WithSizeUpperBound(viper.GetInt("enumerate.max_size")),
	}

	started := time.Now()
	if len(expected) > 0 {
		examples, err := parseExamples(inputs, expected, len(types))
		if err != nil {
			return err
		}
		if viper.GetInt("enumerate.max_size") == 0 {
			logger.GetLogger().Warn("No --max-size given, the search does not stop without a match")
		}
		oe := enumerator.NewOE(g, matchExamples(examples, cfg), exampleInputs(examples), opts...)
		p, err := oe.Synthesize()
		logger.LogEnumeration(name, viper.GetInt("enumerate.max_size"), boolCount(p != nil), time.Since(started))
		if err != nil {
			return err
		}
		logger.GetLogger().WithFields(logrus.Fields{"program": p.String(), "pruned": oe.Pruned()}).Debug("Program found")
		fmt.Printf("%s (size %d)\n", p, p.Size())
		return nil
	}

	if len(inputs) > 0 {
		return fmt.Errorf("--input requires --expect")
	}
	if viper.GetInt("enumerate.max_size") == 0 && cfg.EnumerateLimit == 0 {
		return fmt.Errorf("either --limit or --max-size must be positive")
	}
	programs := enumerator.New(g, opts...).Enumerate(cfg.EnumerateLimit)
	logger.LogEnumeration(name, viper.GetInt("enumerate.max_size"), len(programs), time.Since(started))
	for _, p := range programs {
		fmt.Printf("%3d  %s\n", p.Size(), p)
	}
	return nil
}

type example struct {
	args   []value.Value
	output value.Value
}

// parseExamples pairs every --input with its --expect value
func parseExamples(inputs, expected []string, params int) ([]example, error) {
	if len(inputs) != len(expected) {
		return nil, fmt.Errorf("got %d inputs but %d expected outputs", len(inputs), len(expected))
	}
	examples := make([]example, len(inputs))
	for i := range inputs {
		args, err := parseArguments(inputs[i])
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		if len(args) != params {
			return nil, fmt.Errorf("input %d: got %d arguments, grammar has %d parameters", i, len(args), params)
		}
		out, ok := parseLiteral(expected[i])
		if !ok {
			return nil, fmt.Errorf("expected output %d: invalid literal %q", i, expected[i])
		}
		examples[i] = example{args: args, output: out}
	}
	return examples, nil
}

func exampleInputs(examples []example) [][]value.Value {
	inputs := make([][]value.Value, len(examples))
	for i, ex := range examples {
		inputs[i] = ex.args
	}
	return inputs
}

// matchExamples accepts programs producing every expected output
func matchExamples(examples []example, cfg *config.Config) interfaces.Verifier {
	return interfaces.VerifierFunc(func(p *program.Program) bool {
		for _, ex := range examples {
			if !p.Run(ex.args, cfg).Equal(ex.output) {
				return false
			}
		}
		return true
	})
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
