package projector

import "github.com/five82/printdeck/internal/karmen"

// ControlsVisibility says which job transport controls to offer.
type ControlsVisibility struct {
	ShowTransportControls bool
	// ShowPlayIcon means the toggle control resumes; otherwise it pauses.
	ShowPlayIcon bool
}

// ComputeControlsVisibility enables transport controls only while a job is
// Printing or Paused.
func ComputeControlsVisibility(state karmen.PrinterState) ControlsVisibility {
	switch state {
	case karmen.StatePrinting:
		return ControlsVisibility{ShowTransportControls: true}
	case karmen.StatePaused:
		return ControlsVisibility{ShowTransportControls: true, ShowPlayIcon: true}
	}
	return ControlsVisibility{}
}

// ToggleLabel names the action the pause/resume control performs.
func (c ControlsVisibility) ToggleLabel() string {
	switch {
	case !c.ShowTransportControls:
		return ""
	case c.ShowPlayIcon:
		return "resume"
	default:
		return "pause"
	}
}

// ToggleIcon is the glyph shown on the pause/resume control.
func (c ControlsVisibility) ToggleIcon() string {
	switch {
	case !c.ShowTransportControls:
		return ""
	case c.ShowPlayIcon:
		return "▶"
	default:
		return "⏸"
	}
}
