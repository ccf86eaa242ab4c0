package projector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/printdeck/internal/karmen"
)

// Placeholder stands in for absent text so rows keep their height.
const Placeholder = "\u00a0"

// FormatTemperature renders one reading as "name: actual/target °C".
func FormatTemperature(name string, actual, target float64) string {
	return fmt.Sprintf("%s: %s/%s °C", name, formatNumber(actual), formatNumber(target))
}

// TemperatureLine joins the tool and bed readings. When both are absent the
// placeholder is returned.
func TemperatureLine(t *karmen.Temperature) string {
	if t == nil || (t.Tool0 == nil && t.Bed == nil) {
		return Placeholder
	}
	parts := make([]string, 0, 2)
	if t.Tool0 != nil {
		parts = append(parts, FormatTemperature("Tool", t.Tool0.Actual, t.Tool0.Target))
	}
	if t.Bed != nil {
		parts = append(parts, FormatTemperature("Bed", t.Bed.Actual, t.Bed.Target))
	}
	return strings.Join(parts, ", ")
}

// StateTags returns the short tags shown next to a printer.
func StateTags(p karmen.Printer) []string {
	tags := []string{"Disconnected"}
	if p.Client.Connected {
		tags[0] = "Connected"
	}
	if state := strings.TrimSpace(string(p.Status.State)); state != "" {
		tags = append(tags, state)
	}
	return tags
}

// JobTitle returns the current job name or the placeholder.
func JobTitle(p karmen.Printer) string {
	if p.Job != nil {
		if name := strings.TrimSpace(p.Job.Name); name != "" {
			return name
		}
	}
	return Placeholder
}

// Field is a labelled value in the connection panel.
type Field struct {
	Label string
	Value string
}

// ConnectionFields describes how printdeck's backend reaches the printer.
func ConnectionFields(p karmen.Printer) []Field {
	status := "Inactive"
	if p.Client.Connected {
		status = "Active"
	}
	fields := []Field{
		{Label: "Status", Value: status},
		{Label: "Client", Value: fmt.Sprintf("%s (%s)", p.Client.Name, p.Client.VersionLabel())},
		{Label: "Client IP", Value: p.IP},
	}
	if host := strings.TrimSpace(p.Hostname); host != "" {
		fields = append(fields, Field{Label: "Hostname", Value: host})
	}
	return fields
}

// PrinterView bundles every derived display value for one printer.
type PrinterView struct {
	Key         string
	Name        string
	Tags        []string
	State       karmen.PrinterState
	Temperature string
	JobTitle    string
	HasJob      bool
	Progress    ProgressDisplay
	Controls    ControlsVisibility
	Connection  []Field
	Webcam      string
}

// Project derives the full view of a printer snapshot. It never fails; absent
// optional parts degrade to placeholders.
func Project(p karmen.Printer) PrinterView {
	v := PrinterView{
		Key:         p.Key(),
		Name:        p.DisplayName(),
		Tags:        StateTags(p),
		State:       p.Status.State,
		Temperature: TemperatureLine(p.Status.Temperature),
		JobTitle:    JobTitle(p),
		Controls:    ComputeControlsVisibility(p.Status.State),
		Connection:  ConnectionFields(p),
	}
	if p.Job != nil {
		v.HasJob = true
		v.Progress = ComputeProgressDisplay(p.Job.Completion, p.Job.PrintTime, p.Job.PrintTimeLeft)
	} else {
		v.Progress = ComputeProgressDisplay(0, 0, nil)
	}
	if p.Webcam != nil {
		v.Webcam = strings.TrimSpace(p.Webcam.Stream)
	}
	return v
}

func formatNumber(f float64) string {
	if !finite(f) {
		return "?"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
