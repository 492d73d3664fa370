package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/garnet-lang/garnet/cmd"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "garnet [subcommand]",
	Short:        "garnet\n type inference and constraint verification for annotated IR",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.CheckCmd)
	rootCmd.AddCommand(cmd.SigCmd)
}
