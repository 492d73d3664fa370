package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/garnet-lang/garnet/frontend/check"
	"github.com/garnet-lang/garnet/frontend/diag"
	"github.com/garnet-lang/garnet/frontend/ir"
	"github.com/garnet-lang/garnet/frontend/sigfile"
	"github.com/garnet-lang/garnet/internal/log"
)

var CheckCmd = &cobra.Command{
	Use:          "check file.ir.json [files...]",
	Short:        "Type-check compilation units and print every finding",
	RunE:         runCheck,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

var (
	sigPath       *string
	checkLogLevel *int
)

func init() {
	sigPath = CheckCmd.Flags().String("sig", "", "signature file to apply before checking")
	checkLogLevel = CheckCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
}

func runCheck(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*checkLogLevel))

	var sigs *sigfile.File
	if *sigPath != "" {
		loaded, err := sigfile.LoadPath(*sigPath)
		if err != nil {
			return err
		}
		sigs = loaded
	}

	anyError := false
	for _, path := range args {
		hasError, err := checkOne(path, sigs)
		if err != nil {
			return err
		}
		anyError = anyError || hasError
	}
	if anyError {
		os.Exit(1)
	}
	return nil
}

// checkOne runs one compilation unit through a checker of its own; units
// never share state.
func checkOne(path string, sigs *sigfile.File) (hasError bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("could not read %s: %w", path, err)
	}
	file, err := ir.DecodeFile(data)
	if err != nil {
		d := diag.New(diag.NewMalformed{Positioner: ir.Range{}, From: err})
		fmt.Printf("%s: %s\n", path, diag.FormatWithCode(d))
		return true, nil
	}
	if file.Name == "" {
		file.Name = path
	}

	c := check.New()
	if sigs != nil {
		if err := sigs.ApplyTo(c); err != nil {
			return false, fmt.Errorf("could not apply signature file: %w", err)
		}
	}
	c.CheckFile(file)

	for _, d := range c.Diagnostics() {
		fmt.Printf("%s: %s\n", file.Name, diag.FormatWithCode(d))
	}
	return c.HasError(), nil
}
