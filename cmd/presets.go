package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/alfred/core/resolver"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the preset tables used by the resolver",
	RunE:  runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "battery unit\t%.0f Wh (%.0f Ah x %.0f V)\n", resolver.BatteryUnitWh, resolver.BatteryAmpHours, resolver.SystemVolts)
	fmt.Fprintf(tw, "aux pack\t%.0f Wh\n", resolver.AuxPackWh)
	fmt.Fprintf(tw, "alternator\t%.0f W (%.0f A x %.0f V)\n", resolver.AlternatorWatts, resolver.AlternatorAmps, resolver.SystemVolts)
	tables := []struct {
		name    string
		presets []resolver.Preset
	}{
		{"sunlight", resolver.SunlightPresets()},
		{"drive", resolver.DrivePresets()},
		{"device", resolver.DeviceHourPresets()},
	}
	for _, t := range tables {
		for _, p := range t.presets {
			fmt.Fprintf(tw, "%s\t%s\t%g h\n", t.name, p.Name, p.Hours)
		}
	}
	return tw.Flush()
}
