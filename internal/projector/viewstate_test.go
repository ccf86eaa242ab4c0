package projector

import (
	"strings"
	"testing"
)

func TestViewStateTransitions(t *testing.T) {
	printing := ControlsVisibility{ShowTransportControls: true}
	idle := ControlsVisibility{}

	cases := []struct {
		name string
		from ViewState
		step func(ViewState) ViewState
		want ViewState
	}{
		{"delete from normal", ViewNormal, ViewState.RequestDelete, ViewConfirmingDelete},
		{"cancel while printing", ViewNormal, func(v ViewState) ViewState { return v.RequestCancel(printing) }, ViewConfirmingCancel},
		{"cancel while idle stays normal", ViewNormal, func(v ViewState) ViewState { return v.RequestCancel(idle) }, ViewNormal},
		{"delete does not replace cancel", ViewConfirmingCancel, ViewState.RequestDelete, ViewConfirmingCancel},
		{"cancel does not replace delete", ViewConfirmingDelete, func(v ViewState) ViewState { return v.RequestCancel(printing) }, ViewConfirmingDelete},
		{"dismiss delete", ViewConfirmingDelete, ViewState.Dismiss, ViewNormal},
		{"dismiss cancel", ViewConfirmingCancel, ViewState.Dismiss, ViewNormal},
		{"dismiss normal", ViewNormal, ViewState.Dismiss, ViewNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.step(tc.from); got != tc.want {
				t.Fatalf("%s -> %s, want %s", tc.from, got, tc.want)
			}
		})
	}
}

func TestViewStatePrompt(t *testing.T) {
	if _, ok := ViewNormal.Prompt("1.2.3.4"); ok {
		t.Fatalf("normal view should not have a prompt")
	}
	if ViewNormal.Confirming() {
		t.Fatalf("normal view is not confirming")
	}

	del, ok := ViewConfirmingDelete.Prompt("1.2.3.4")
	if !ok || !strings.Contains(del.Body, "1.2.3.4") || del.Confirm != "Remove printer" {
		t.Fatalf("delete prompt = %#v", del)
	}

	cancel, ok := ViewConfirmingCancel.Prompt("1.2.3.4")
	if !ok || cancel.Back != "Keep printing" || cancel.Confirm != "Cancel the print" {
		t.Fatalf("cancel prompt = %#v", cancel)
	}
	if !ViewConfirmingCancel.Confirming() {
		t.Fatalf("cancel dialog is confirming")
	}
}

func TestGcodePrompt(t *testing.T) {
	p := GcodePrompt("benchy.gcode")
	if !strings.HasPrefix(p.Body, "benchy.gcode ") || p.Confirm != "Remove file" || p.Back != "Back" {
		t.Fatalf("gcode prompt = %#v", p)
	}
}
