package projector

import "fmt"

// ViewState is the dialog a printer view is showing. Exactly one applies at a
// time, so "deleting while cancelling" cannot be represented.
type ViewState int

const (
	ViewNormal ViewState = iota
	ViewConfirmingDelete
	ViewConfirmingCancel
)

func (v ViewState) String() string {
	switch v {
	case ViewNormal:
		return "normal"
	case ViewConfirmingDelete:
		return "confirming-delete"
	case ViewConfirmingCancel:
		return "confirming-cancel"
	}
	return "unknown"
}

// RequestDelete opens the delete confirmation from the normal view.
func (v ViewState) RequestDelete() ViewState {
	if v != ViewNormal {
		return v
	}
	return ViewConfirmingDelete
}

// RequestCancel opens the cancel confirmation, but only while the transport
// controls are offered.
func (v ViewState) RequestCancel(c ControlsVisibility) ViewState {
	if v != ViewNormal || !c.ShowTransportControls {
		return v
	}
	return ViewConfirmingCancel
}

// Dismiss returns to the normal view.
func (v ViewState) Dismiss() ViewState {
	return ViewNormal
}

// Confirming reports whether a dialog is open.
func (v ViewState) Confirming() bool {
	return v == ViewConfirmingDelete || v == ViewConfirmingCancel
}

// Prompt is the text of a confirmation dialog.
type Prompt struct {
	Title   string
	Body    string
	Confirm string
	Back    string
}

// Prompt returns the dialog text for the state; ok is false in the normal view.
func (v ViewState) Prompt(ip string) (Prompt, bool) {
	switch v {
	case ViewConfirmingDelete:
		return Prompt{
			Title:   "Are you sure?",
			Body:    fmt.Sprintf("You can add the printer back later by simply adding %s again.", ip),
			Confirm: "Remove printer",
			Back:    "Back",
		}, true
	case ViewConfirmingCancel:
		return Prompt{
			Title:   "Are you sure?",
			Body:    "You are about to cancel the whole print!",
			Confirm: "Cancel the print",
			Back:    "Keep printing",
		}, true
	}
	return Prompt{}, false
}

// GcodePrompt returns the dialog text for removing a file from the G-code
// library.
func GcodePrompt(title string) Prompt {
	return Prompt{
		Title:   "Are you sure?",
		Body:    fmt.Sprintf("%s will be removed from the library and cannot be printed again.", title),
		Confirm: "Remove file",
		Back:    "Back",
	}
}
