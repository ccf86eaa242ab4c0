package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one decoded zerolog JSON line.
type Entry struct {
	Time    time.Time
	Level   zerolog.Level
	Message string
	Fields  map[string]string
	// Raw is set when the line was not JSON and is shown verbatim.
	Raw string
}

// Parse decodes a zerolog JSON line. Lines that are not JSON objects come
// back with only Raw set and Level NoLevel.
func Parse(line string) Entry {
	trimmed := strings.TrimSpace(line)
	var obj map[string]any
	if !strings.HasPrefix(trimmed, "{") || json.Unmarshal([]byte(trimmed), &obj) != nil {
		return Entry{Raw: line, Level: zerolog.NoLevel}
	}

	e := Entry{Level: zerolog.NoLevel, Fields: map[string]string{}}
	for k, v := range obj {
		switch k {
		case zerolog.TimestampFieldName:
			if s, ok := v.(string); ok {
				if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
					e.Time = t
				}
			}
		case zerolog.LevelFieldName:
			if s, ok := v.(string); ok {
				if lvl, err := zerolog.ParseLevel(s); err == nil {
					e.Level = lvl
				}
			}
		case zerolog.MessageFieldName:
			e.Message = fmt.Sprint(v)
		default:
			e.Fields[k] = stringify(v)
		}
	}
	return e
}

// Format renders an entry as "15:04:05 INF message key=value ...", with
// fields sorted by key.
func (e Entry) Format() string {
	if e.Raw != "" || (e.Message == "" && len(e.Fields) == 0 && e.Time.IsZero()) {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	b.WriteString(LevelTag(e.Level))
	if e.Message != "" {
		b.WriteByte(' ')
		b.WriteString(e.Message)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, e.Fields[k])
	}
	return b.String()
}

// LevelTag returns the three letter tag for a level.
func LevelTag(l zerolog.Level) string {
	switch l {
	case zerolog.TraceLevel:
		return "TRC"
	case zerolog.DebugLevel:
		return "DBG"
	case zerolog.InfoLevel:
		return "INF"
	case zerolog.WarnLevel:
		return "WRN"
	case zerolog.ErrorLevel:
		return "ERR"
	case zerolog.FatalLevel:
		return "FTL"
	case zerolog.PanicLevel:
		return "PNC"
	}
	return "???"
}

// Tail reads the last maxLines of path and parses each one.
func Tail(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "null"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
