package karmen

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPrinterDisplayName(t *testing.T) {
	p := Printer{IP: " 192.168.1.15 "}
	if got := p.DisplayName(); got != "192.168.1.15" {
		t.Fatalf("DisplayName = %q, want ip fallback", got)
	}
	p.Name = "MK3"
	if got := p.DisplayName(); got != "MK3" {
		t.Fatalf("DisplayName = %q, want MK3", got)
	}
}

func TestVersionLabel(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"absent", "", "null"},
		{"string", `"1.3.11"`, `"1.3.11"`},
		{"object", "{ \"api\": \"0.1\" }", `{"api":"0.1"}`},
		{"invalid", "{bad", "{bad"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := ClientInfo{Version: json.RawMessage(tc.raw)}
			if got := c.VersionLabel(); got != tc.want {
				t.Fatalf("VersionLabel = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestJobOptionalTimeLeft(t *testing.T) {
	var p Printer
	if err := json.Unmarshal([]byte(`{"ip":"a","job":{"name":"x","completion":null,"printTime":null}}`), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Job == nil || p.Job.PrintTimeLeft != nil || p.Job.Completion != 0 {
		t.Fatalf("job = %#v, want zero completion and nil time left", p.Job)
	}
	if p.Status.Temperature != nil {
		t.Fatalf("temperature = %#v, want nil", p.Status.Temperature)
	}
}

func TestParseTimeLayouts(t *testing.T) {
	if parseTime("2019-10-01T10:11:12Z").IsZero() {
		t.Fatalf("parseTime should parse RFC3339")
	}
	if parseTime("Tue, 01 Oct 2019 10:11:12 GMT").IsZero() {
		t.Fatalf("parseTime should parse RFC1123")
	}
	got := parseTime("2019-10-01 10:11:12")
	if got.Year() != 2019 || got.Month() != time.October || got.Day() != 1 {
		t.Fatalf("parseTime = %v, want 2019-10-01", got)
	}
	if !parseTime("yesterday").IsZero() {
		t.Fatalf("parseTime should return zero for garbage")
	}
}

func TestPrintJobFilenameFallback(t *testing.T) {
	j := PrintJob{GcodeID: 12}
	if got := j.Filename(); got != "gcode #12" {
		t.Fatalf("Filename = %q, want gcode #12", got)
	}
}

func TestGcodeTitle(t *testing.T) {
	g := Gcode{ID: 9}
	if got := g.Title(); got != "gcode #9" {
		t.Fatalf("Title = %q, want id fallback", got)
	}
	g.Filename = "cube.gcode"
	if got := g.Title(); got != "cube.gcode" {
		t.Fatalf("Title = %q, want filename", got)
	}
	g.Display = "Calibration cube"
	if got := g.Title(); got != "Calibration cube" {
		t.Fatalf("Title = %q, want display", got)
	}
}

func TestParseSettingValue(t *testing.T) {
	cases := map[string]string{
		"true":     "true",
		"42":       "42",
		`"quoted"`: `"quoted"`,
		"wlan0":    `"wlan0"`,
		"":         `""`,
		`{"a": 1}`: `{"a": 1}`,
	}
	for in, want := range cases {
		if got := string(ParseSettingValue(in)); got != want {
			t.Errorf("ParseSettingValue(%q) = %s, want %s", in, got, want)
		}
	}
}
