/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Command-line interface for Relish. Runs lifting benchmarks through the
automaton based synthesizer, enumerates grammars and validates grammar files. Options
come from flags, an optional config file and RELISH_ environment variables.
*/

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/relish/cmd/relish/commands"
	"github.com/kleascm/relish/pkg/config"
)

func main() {
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:   "relish",
		Short: "Relish - divide-and-conquer lifting synthesizer",
		Long: `Relish synthesizes the auxiliary functions that make a list function liftable
into a divide-and-conquer program. Candidates are searched with finite tree automata
and refined by counterexamples from the lifting oracle.`,
		Version:       commands.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global configuration
	rootCmd.PersistentFlags().String("config", "", "Configuration file path")
	rootCmd.PersistentFlags().String("log-level", defaults.LogLevel, "Logging level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().String("log-dir", "", "Directory for log files (empty disables file logging)")
	rootCmd.PersistentFlags().Int("log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().Bool("log-compress", false, "Compress old log files")
	rootCmd.PersistentFlags().Bool("log-caller", false, "Include caller locations in logs")
	rootCmd.PersistentFlags().BoolP("verbose", "v", defaults.Verbose, "Log every candidate and counterexample")

	// Value model and search limits
	rootCmd.PersistentFlags().Int("int-max", defaults.IntMax, "Saturation bound for integer arithmetic")
	rootCmd.PersistentFlags().Int("default-value", defaults.DefaultValue, "Result of empty reductions")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("log_compress", rootCmd.PersistentFlags().Lookup("log-compress"))
	viper.BindPFlag("log_caller", rootCmd.PersistentFlags().Lookup("log-caller"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("int_max", rootCmd.PersistentFlags().Lookup("int-max"))
	viper.BindPFlag("default_value", rootCmd.PersistentFlags().Lookup("default-value"))

	// synth
	synthCmd := &cobra.Command{
		Use:   "synth [benchmark...]",
		Short: "Synthesize lifting functions for benchmarks",
		Long: `Synthesize the auxiliary functions of one or more benchmarks. Without arguments
or with "all" every benchmark of the catalogue is run. Benchmarks run in parallel on
independent solvers.`,
		RunE: commands.RunSynth,
	}
	synthCmd.Flags().String("kind", "", "Task kind (tree, list); empty uses the benchmark default")
	synthCmd.Flags().String("grammar", "deepcoder", "Builtin grammar name or grammar file")
	synthCmd.Flags().Int("workers", 0, "Number of parallel solvers (0 = auto-detect)")
	synthCmd.Flags().String("report-dir", "", "Directory for JSON reports (empty disables reports)")
	synthCmd.Flags().String("dashboard-dir", "", "Directory for the HTML dashboard (empty disables it)")
	synthCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	synthCmd.Flags().Int("initial-size", defaults.InitialSizeLimit, "Initial automaton size limit")
	synthCmd.Flags().Int("max-size", defaults.MaxSizeLimit, "Maximum automaton size limit (0 = unbounded)")
	synthCmd.Flags().Int("examples", defaults.Examples.Count, "Number of sampled examples per task")
	synthCmd.Flags().Int("max-length", defaults.Examples.MaxLength, "Maximum length of sampled lists")
	synthCmd.Flags().Int64("seed", defaults.Examples.Seed, "Example sampling seed")

	viper.BindPFlag("synth.kind", synthCmd.Flags().Lookup("kind"))
	viper.BindPFlag("synth.grammar", synthCmd.Flags().Lookup("grammar"))
	viper.BindPFlag("synth.workers", synthCmd.Flags().Lookup("workers"))
	viper.BindPFlag("synth.report_dir", synthCmd.Flags().Lookup("report-dir"))
	viper.BindPFlag("synth.dashboard_dir", synthCmd.Flags().Lookup("dashboard-dir"))
	viper.BindPFlag("synth.metrics_addr", synthCmd.Flags().Lookup("metrics-addr"))
	viper.BindPFlag("initial_size_limit", synthCmd.Flags().Lookup("initial-size"))
	viper.BindPFlag("max_size_limit", synthCmd.Flags().Lookup("max-size"))
	viper.BindPFlag("examples.count", synthCmd.Flags().Lookup("examples"))
	viper.BindPFlag("examples.max_length", synthCmd.Flags().Lookup("max-length"))
	viper.BindPFlag("examples.seed", synthCmd.Flags().Lookup("seed"))
	rootCmd.AddCommand(synthCmd)

	// enumerate
	enumerateCmd := &cobra.Command{
		Use:   "enumerate",
		Short: "Enumerate programs of a grammar",
		Long: `Enumerate start-symbol programs of a grammar in size order. With --input and
--expect the observational-equivalence enumerator searches for the smallest program
mapping every input to its expected output.`,
		RunE: commands.RunEnumerate,
	}
	enumerateCmd.Flags().String("grammar", "deepcoder", "Builtin grammar name or grammar file")
	enumerateCmd.Flags().StringSlice("params", []string{"list"}, "Parameter types added to the grammar (int, list)")
	enumerateCmd.Flags().Int("limit", defaults.EnumerateLimit, "Number of programs to print")
	enumerateCmd.Flags().Int("max-size", 0, "Largest program size to enumerate (0 = unbounded)")
	enumerateCmd.Flags().StringArray("input", nil, "Argument list of one example, literals separated by spaces")
	enumerateCmd.Flags().StringArray("expect", nil, "Expected output for the matching --input")

	viper.BindPFlag("enumerate.grammar", enumerateCmd.Flags().Lookup("grammar"))
	viper.BindPFlag("enumerate.params", enumerateCmd.Flags().Lookup("params"))
	viper.BindPFlag("enumerate_limit", enumerateCmd.Flags().Lookup("limit"))
	viper.BindPFlag("enumerate.max_size", enumerateCmd.Flags().Lookup("max-size"))
	rootCmd.AddCommand(enumerateCmd)

	// check-grammar
	rootCmd.AddCommand(&cobra.Command{
		Use:   "check-grammar <name|file>...",
		Short: "Validate grammar definitions",
		Long: `Load builtin grammars or grammar files, validate them and print their rules.
Useful for checking custom DSLs before a synthesis run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: commands.CheckGrammar,
	})

	// list-benchmarks
	rootCmd.AddCommand(&cobra.Command{
		Use:   "list-benchmarks",
		Short: "List available lifting benchmarks",
		Run:   commands.ListBenchmarks,
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
