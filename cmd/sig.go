package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/garnet-lang/garnet/frontend/check"
	"github.com/garnet-lang/garnet/frontend/sigfile"
)

var SigCmd = &cobra.Command{
	Use:          "sig",
	Short:        "Work with signature files",
	SilenceUsage: true,
}

var sigExportCmd = &cobra.Command{
	Use:          "export",
	Short:        "Write the built-in tables as a signature file",
	RunE:         runSigExport,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
}

var sigOutPath *string

func init() {
	sigOutPath = sigExportCmd.Flags().StringP("out", "o", "", "output path (stdout when empty)")
	SigCmd.AddCommand(sigExportCmd)
}

func runSigExport(cmd *cobra.Command, args []string) error {
	exported := sigfile.Export(check.New())

	if *sigOutPath == "" {
		return exported.Encode(os.Stdout)
	}
	f, err := os.Create(*sigOutPath)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", *sigOutPath, err)
	}
	defer f.Close()
	return exported.Encode(f)
}
