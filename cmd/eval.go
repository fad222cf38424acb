package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/alfred/config"
	"github.com/kilianp07/alfred/core/session"
	"github.com/kilianp07/alfred/pkg/export"
)

var (
	scenarioPath string
	outFormat    string
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate the power balance of a van setup file",
	Example: `  alfred eval -s van.yaml
  ALFRED_STORAGE__BATTERIES=4 alfred eval -s van.yaml -f json`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "van setup file (yaml or json)")
	evalCmd.Flags().StringVarP(&outFormat, "format", "f", export.FormatText, "output format: text, json or csv")
	_ = evalCmd.MarkFlagRequired("scenario")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	sel, err := config.LoadScenario(scenarioPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	ev, err := session.Evaluate(sel)
	if err != nil {
		return err
	}
	return export.Write(cmd.OutOrStdout(), outFormat, export.Report{Result: ev.Result, Devices: ev.Devices})
}
