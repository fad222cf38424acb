// Package export renders a balance report as JSON, CSV or plain text.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/kilianp07/alfred/core/model"
)

// Formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Report is a balance result with its device table.
type Report struct {
	Result  model.PowerBalanceResult `json:"result"`
	Devices []model.DeviceUsage      `json:"devices"`
}

// Write renders the report in the requested format.
func Write(w io.Writer, format string, r Report) error {
	switch format {
	case FormatText, "":
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatCSV:
		return WriteCSV(w, r.Devices)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteJSON writes the report in JSON format.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes the device table with a header row.
func WriteCSV(w io.Writer, rows []model.DeviceUsage) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"device", "watts", "hours_per_day", "daily_wh", "enabled"}); err != nil {
		return err
	}
	for _, d := range rows {
		rec := []string{
			d.Name,
			strconv.FormatFloat(d.Watts, 'f', -1, 64),
			strconv.FormatFloat(d.HoursPerDay, 'f', -1, 64),
			strconv.FormatFloat(d.DailyWh, 'f', -1, 64),
			strconv.FormatBool(d.Enabled),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteText writes the dashboard summary followed by the device table.
func WriteText(w io.Writer, r Report) error {
	res := r.Result
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	lines := []string{
		fmt.Sprintf("Total capacity\t%.0f Wh", res.TotalCapacityWh),
		fmt.Sprintf("Daily usage\t%.0f Wh", res.TotalDailyUsageWh),
		fmt.Sprintf("Daily input\t%.0f Wh", res.TotalDailyInputWh),
		fmt.Sprintf("Net balance\t%+.0f Wh/day", res.NetDailyWh),
		fmt.Sprintf("Capacity used\t%.1f%%", res.PercentCapacityUsed),
		"Runtime\t" + runtimeText(res.Runtime),
		fmt.Sprintf("Status\t%s: %s", res.Status, res.Status.Message()),
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(tw, l); err != nil {
			return err
		}
	}
	if len(r.Devices) > 0 {
		if _, err := fmt.Fprintln(tw, "\nDevice\tWatts\tHours/day\tDaily Wh\t"); err != nil {
			return err
		}
		for _, d := range r.Devices {
			name := d.Name
			if !d.Enabled {
				name += " (off)"
			}
			if _, err := fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t\n", name, d.Watts, d.HoursPerDay, d.DailyWh); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}

func runtimeText(r model.Runtime) string {
	if r.IsInfinite() {
		return "unlimited (self-sustaining)"
	}
	return fmt.Sprintf("%.1f hours (%.2f days, about %g days)", r.Hours(), r.Days(), r.RoundedDays())
}
