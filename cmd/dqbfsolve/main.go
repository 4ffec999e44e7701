package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/cegar"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/loader"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
)

func main() {
	var (
		debug       bool
		showInfo    bool
		detectEquiv bool
	)

	var rootCmd = &cobra.Command{
		Use:   "dqbfsolve [instance.yaml]",
		Short: "dqbfsolve",
		Long:  `A decision procedure for Dependency Quantified Boolean Formulas.`,
		Args:  cobra.ExactArgs(1),

		PreRunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}

			s, err := dqbf.New(in, dqbf.WithLogger(log.StandardLogger()))
			if err != nil {
				return err
			}

			if showInfo {
				printInfo(s)
			}
			if detectEquiv {
				printEquivalenceClasses(s.DetectEquivalentExistentials())
			}

			result, err := s.Solve()
			if err != nil {
				return err
			}

			fmt.Println(result)
			switch result {
			case cegar.Sat:
				os.Exit(10)
			case cegar.Unsat:
				os.Exit(20)
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVarP(&debug, "debug", "v", false, "enable debug logging")
	rootCmd.Flags().BoolVar(&showInfo, "info", false, "print formula statistics before solving")
	rootCmd.Flags().BoolVar(&detectEquiv, "detect-equiv", false, "print equivalence classes of existentials before solving")

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// printInfo reproduces the original solver's --info dump: formula
// statistics plus a truncated listing of universal variables and, per
// existential, its dependency list (_examples/original_source's
// print_formula_info, "... and N more"-style truncation).
func printInfo(s *dqbf.Solver) {
	stats := s.Statistics()
	fmt.Printf("variables: %d (universal: %d, existential: %d)\n", stats.TotalVariables, stats.UniversalVariables, stats.ExistentialVariables)
	fmt.Printf("clauses: %d (max size %d, avg size %.2f)\n", stats.Clauses, stats.MaxClauseSize, stats.AvgClauseSize)
	fmt.Printf("max dependencies: %d\n", stats.MaxDependencies)

	universals := s.Universals()
	fmt.Println("universal variables:")
	const maxUniversalsShown = 10
	for _, u := range universals[:min(len(universals), maxUniversalsShown)] {
		fmt.Printf("  %s (ID=%d)\n", s.NameOf(u), u)
	}
	if len(universals) > maxUniversalsShown {
		fmt.Printf("  ... and %d more\n", len(universals)-maxUniversalsShown)
	}

	fmt.Println("existential variables and dependencies:")
	const maxDepsShown = 5
	for _, e := range s.Existentials() {
		deps := s.DependenciesOf(e)
		names := make([]string, len(deps[:min(len(deps), maxDepsShown)]))
		for i, d := range deps[:min(len(deps), maxDepsShown)] {
			names[i] = s.NameOf(d)
		}
		suffix := ""
		if len(deps) > maxDepsShown {
			suffix = "..."
		}
		fmt.Printf("  %s (ID=%d) depends on %d variables:\n", s.NameOf(e), e, len(deps))
		fmt.Printf("    %s%s\n", strings.Join(names, ", "), suffix)
	}
}

func printEquivalenceClasses(classes map[prop.ID][]prop.ID) {
	for rep, members := range classes {
		fmt.Printf("class %d: %v\n", rep, members)
	}
}
