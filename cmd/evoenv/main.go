package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ishanwen-byte/evoenv-go/internal/constants"
)

var (
	configPath      string
	modeFlag        string
	generationsFlag int
	plotsFlag       bool

	rootCmd = &cobra.Command{
		Use:     "evoenv",
		Short:   constants.Description,
		Version: constants.Version,
		Long: `evoenv runs evolutionary optimization on the OneMax problem
using one of the environment composition strategies:
sequential, adversarial, chronological or adaptive.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run a configured composition on OneMax",
		RunE:  runEvolution, // Defined in run.go
	}

	initConfigCmd = &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default configuration to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInitConfig, // Defined in run.go
	}
)

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML configuration file")
	runCmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "override the composition mode")
	runCmd.Flags().IntVarP(&generationsFlag, "generations", "g", 0, "override the generation count")
	runCmd.Flags().BoolVar(&plotsFlag, "plots", false, "save fitness plots as PNG files")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(initConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, context.Canceled) {
			os.Exit(constants.ExitInterrupt)
		}
		os.Exit(constants.ExitError)
	}
}
