// Package cli provides the command-line interface for the CargoStow
// placement worker and its companion tooling.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/piwi3910/CargoStow/internal/project"
)

var (
	cfgFile string
	version string
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "cargostow",
	Short: "Priority-aware 3D cargo stowage worker",
	Long: `CargoStow computes physical placements of cargo items inside storage
containers: a multi-phase, priority-aware 3D bin-packing engine with
orientation search, stability checking and rearrangement planning.

Jobs arrive through a Redis queue ('cargostow serve') or run one-shot
from a request file ('cargostow place').`,

	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("cargostow v%s\n", version)
			return
		}
		cmd.Help()
	},
}

// Execute runs the CLI.
func Execute(v string) error {
	version = v
	initializeRootCommand()
	return rootCmd.Execute()
}

// initializeRootCommand sets up the root command and its flags.
// Explicit initialization instead of init() keeps the tree testable.
func initializeRootCommand() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		fmt.Sprintf("config file (default: %s)", project.DefaultConfigPath()))
	rootCmd.Flags().Bool("version", false, "Print version information and quit")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPlaceCmd())
	rootCmd.AddCommand(newEnqueueCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newRetrieveCmd())
	rootCmd.AddCommand(newWasteCmd())
}

// configPath resolves the config file to load: the --config flag when
// given, the default path when it exists, nothing otherwise.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if _, err := os.Stat(project.DefaultConfigPath()); err == nil {
		return project.DefaultConfigPath()
	}
	return ""
}

// Console helpers.

func printSuccess(message string) {
	fmt.Printf("%s %s\n", color.GreenString("[cargostow]"), message)
}

func printError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("[cargostow]"), message)
}

func printInfo(message string) {
	fmt.Printf("%s %s\n", color.CyanString("[cargostow]"), message)
}

func printWarning(message string) {
	fmt.Printf("%s %s\n", color.YellowString("[cargostow]"), message)
}
