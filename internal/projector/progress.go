package projector

import (
	"fmt"
	"math"
)

// maxRemaining caps the HHh MMm label at two-digit hours.
const maxRemaining = 99*3600 + 59*60

// ProgressDisplay is what the progress bar of a job renders.
type ProgressDisplay struct {
	// BarWidthPercent is the filled share of the bar, 0-100.
	BarWidthPercent float64
	// Completion is the completion text without the percent sign ("0" when
	// the job has no print time yet).
	Completion string
	// Label is the remaining time as "HHh MMm"; empty when unknown.
	Label string
	// Detail is the full caption, e.g. "12.50% (01h 05m remaining)"; empty
	// when there is no label.
	Detail string
}

// HasLabel reports whether a remaining-time label should be shown.
func (p ProgressDisplay) HasLabel() bool {
	return p.Label != ""
}

// ComputeProgressDisplay derives the bar width and remaining-time label for a
// job. Completion only counts once printTime is positive. When printTimeLeft
// is missing or zero the remaining time is extrapolated linearly from the
// elapsed share; a zero completion makes it unknown.
func ComputeProgressDisplay(completion, printTime float64, printTimeLeft *float64) ProgressDisplay {
	var out ProgressDisplay

	started := finite(printTime) && printTime > 0
	if started && finite(completion) {
		out.BarWidthPercent = clampPercent(completion)
		out.Completion = fmt.Sprintf("%.2f", completion)
	} else {
		out.Completion = "0"
	}

	remaining, known := remainingSeconds(completion, printTime, printTimeLeft)
	if !known {
		return out
	}
	out.Label = FormatRemaining(remaining)
	out.Detail = fmt.Sprintf("%s%% (%s remaining)", out.Completion, out.Label)
	return out
}

func remainingSeconds(completion, printTime float64, printTimeLeft *float64) (float64, bool) {
	if printTimeLeft != nil && finite(*printTimeLeft) && *printTimeLeft > 0 {
		return *printTimeLeft, true
	}
	if !finite(printTime) || printTime <= 0 {
		return 0, false
	}
	if !finite(completion) || completion <= 0 {
		return 0, false
	}
	total := printTime * 100 / completion
	left := total - printTime
	if left < 0 || !finite(left) {
		left = 0
	}
	return left, true
}

// FormatRemaining renders seconds as "HHh MMm", truncating to whole minutes.
// Values beyond 99h 59m are capped.
func FormatRemaining(seconds float64) string {
	if !finite(seconds) || seconds < 0 {
		seconds = 0
	}
	if seconds > maxRemaining {
		seconds = maxRemaining
	}
	s := int64(seconds)
	return fmt.Sprintf("%02dh %02dm", s/3600, (s%3600)/60)
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
