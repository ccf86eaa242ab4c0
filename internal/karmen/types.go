package karmen

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// PrinterState is the machine state string reported by the printer client.
// Known values are listed below; drivers may report free-form text such as
// "Offline (Error: ...)" which is kept verbatim.
type PrinterState string

const (
	StatePrinting    PrinterState = "Printing"
	StatePaused      PrinterState = "Paused"
	StateOperational PrinterState = "Operational"
	StateOffline     PrinterState = "Offline"
)

// JobAction is the payload value accepted by /printers/{ip}/current-job.
type JobAction string

const (
	// ActionToggle pauses a printing job or resumes a paused one.
	ActionToggle JobAction = "toggle"
	ActionCancel JobAction = "cancel"
)

// PrinterListResponse mirrors /printers.
type PrinterListResponse struct {
	Items []Printer `json:"items"`
}

// Printer is a point-in-time snapshot of one printer as reported by the backend.
type Printer struct {
	IP       string        `json:"ip"`
	Name     string        `json:"name"`
	Hostname string        `json:"hostname,omitempty"`
	Client   ClientInfo    `json:"client"`
	Status   PrinterStatus `json:"status"`
	Job      *Job          `json:"job,omitempty"`
	Webcam   *Webcam       `json:"webcam,omitempty"`
}

// Key returns the identifier printers are deduplicated and addressed by.
func (p Printer) Key() string {
	return strings.TrimSpace(p.IP)
}

// DisplayName returns the configured name, falling back to the IP address.
func (p Printer) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return p.Key()
}

// ClientInfo describes the software talking to the printer (OctoPrint etc).
type ClientInfo struct {
	Name      string          `json:"name"`
	Connected bool            `json:"connected"`
	ReadOnly  bool            `json:"read_only,omitempty"`
	Version   json.RawMessage `json:"version,omitempty"`
}

// VersionLabel renders the version payload as compact JSON. Clients report
// either a plain string or an object of component versions.
func (c ClientInfo) VersionLabel() string {
	raw := bytes.TrimSpace(c.Version)
	if len(raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// PrinterStatus holds the machine state and temperatures.
type PrinterStatus struct {
	State       PrinterState `json:"state"`
	Temperature *Temperature `json:"temperature,omitempty"`
}

// Temperature groups the optional tool and bed readings.
type Temperature struct {
	Tool0 *TemperatureReading `json:"tool0,omitempty"`
	Bed   *TemperatureReading `json:"bed,omitempty"`
}

// TemperatureReading is an actual/target pair in degrees Celsius.
type TemperatureReading struct {
	Actual float64 `json:"actual"`
	Target float64 `json:"target"`
}

// Job describes the job currently loaded on a printer.
type Job struct {
	Name          string   `json:"name"`
	Completion    float64  `json:"completion"`
	PrintTime     float64  `json:"printTime"`
	PrintTimeLeft *float64 `json:"printTimeLeft,omitempty"`
}

// Webcam carries the proxied stream location and orientation hints.
type Webcam struct {
	Stream         string `json:"stream"`
	FlipHorizontal bool   `json:"flipHorizontal"`
	FlipVertical   bool   `json:"flipVertical"`
	Rotate90       bool   `json:"rotate90"`
}

// PrintJobListResponse mirrors /printjobs. Next is the cursor for the
// following page and is empty on the last page.
type PrintJobListResponse struct {
	Items []PrintJob `json:"items"`
	Next  string     `json:"next,omitempty"`
}

// PrintJob is a historical record of a gcode being sent to a printer.
type PrintJob struct {
	ID        int64      `json:"id"`
	GcodeID   int64      `json:"gcode_id"`
	PrinterIP string     `json:"printer_ip"`
	Started   string     `json:"started"`
	GcodeData *GcodeData `json:"gcode_data,omitempty"`
}

// GcodeData is the gcode metadata captured when the job started.
type GcodeData struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
}

// Filename returns the gcode filename or a placeholder built from the gcode id.
func (j PrintJob) Filename() string {
	if j.GcodeData != nil && strings.TrimSpace(j.GcodeData.Filename) != "" {
		return j.GcodeData.Filename
	}
	return "gcode #" + strconv.FormatInt(j.GcodeID, 10)
}

// ParsedStarted returns the start timestamp as time.Time when possible.
func (j PrintJob) ParsedStarted() time.Time {
	return parseTime(j.Started)
}

const backendTimestampLayout = "2006-01-02 15:04:05"

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.RFC1123, time.RFC1123Z} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(backendTimestampLayout, value, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}

// GcodeListResponse mirrors /gcodes.
type GcodeListResponse struct {
	Items []Gcode `json:"items"`
	Next  string  `json:"next,omitempty"`
}

// Gcode is a file stored in the backend's G-code library.
type Gcode struct {
	ID          int64  `json:"id"`
	Path        string `json:"path"`
	Filename    string `json:"filename"`
	Display     string `json:"display"`
	AbsoluteURL string `json:"absolute_url,omitempty"`
	Uploaded    string `json:"uploaded"`
	Size        int64  `json:"size"`
}

// Title returns the display name, falling back to the filename and then the id.
func (g Gcode) Title() string {
	if d := strings.TrimSpace(g.Display); d != "" {
		return d
	}
	if f := strings.TrimSpace(g.Filename); f != "" {
		return f
	}
	return "gcode #" + strconv.FormatInt(g.ID, 10)
}

// ParsedUploaded returns the upload timestamp as time.Time when possible.
func (g Gcode) ParsedUploaded() time.Time {
	return parseTime(g.Uploaded)
}

// Setting is one backend key/value pair from /settings. Values are kept raw
// since the backend stores booleans, numbers and strings alike.
type Setting struct {
	Key string          `json:"key"`
	Val json.RawMessage `json:"val"`
}

// ValueLabel renders the value as compact JSON.
func (s Setting) ValueLabel() string {
	raw := bytes.TrimSpace(s.Val)
	if len(raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// ParseSettingValue turns command-line text into a setting value: valid JSON
// (true, 42, "x", {...}) is kept as is, anything else becomes a JSON string.
func ParseSettingValue(text string) json.RawMessage {
	trimmed := strings.TrimSpace(text)
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	encoded, _ := json.Marshal(text)
	return encoded
}
