package karmen

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const defaultGcodeLimit = 15

// GcodeQuery configures /gcodes requests.
type GcodeQuery struct {
	StartWith string
	OrderBy   string
	// Display filters by a substring of the display name.
	Display string
	Limit   int
}

// FetchGcodes lists one page of the G-code library.
func (c *Client) FetchGcodes(ctx context.Context, query GcodeQuery) (GcodeListResponse, error) {
	if c == nil {
		return GcodeListResponse{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultGcodeLimit
	}
	values.Set("limit", strconv.Itoa(limit))
	if v := strings.TrimSpace(query.StartWith); v != "" {
		values.Set("start_with", v)
	}
	if v := strings.TrimSpace(query.OrderBy); v != "" {
		values.Set("order_by", v)
	}
	if v := strings.TrimSpace(query.Display); v != "" {
		values.Set("filter", "display:"+v)
	}
	rel := &url.URL{Path: "/gcodes", RawQuery: values.Encode()}
	var payload GcodeListResponse
	if err := c.doURL(ctx, "list gcodes", http.MethodGet, rel, nil, http.StatusOK, &payload); err != nil {
		return GcodeListResponse{}, err
	}
	return payload, nil
}

// DeleteGcode removes a file from the G-code library.
func (c *Client) DeleteGcode(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return fmt.Errorf("invalid gcode id %d", id)
	}
	rel := &url.URL{Path: "/gcodes/" + strconv.FormatInt(id, 10)}
	return c.doURL(ctx, "remove gcode", http.MethodDelete, rel, nil, http.StatusNoContent, nil)
}

// PrintGcode starts a print job of gcode id on the printer at printerIP.
func (c *Client) PrintGcode(ctx context.Context, id int64, printerIP string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return fmt.Errorf("invalid gcode id %d", id)
	}
	if _, err := printerPath(printerIP); err != nil {
		return err
	}
	body := struct {
		Gcode   int64  `json:"gcode"`
		Printer string `json:"printer"`
	}{Gcode: id, Printer: strings.TrimSpace(printerIP)}
	return c.doURL(ctx, "start printjob", http.MethodPost, &url.URL{Path: "/printjobs"}, body, http.StatusCreated, nil)
}

// FetchSettings returns every backend setting.
func (c *Client) FetchSettings(ctx context.Context) ([]Setting, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Setting
	if err := c.doURL(ctx, "get settings", http.MethodGet, &url.URL{Path: "/settings"}, nil, http.StatusOK, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ChangeSettings stores the given key/value pairs.
func (c *Client) ChangeSettings(ctx context.Context, settings []Setting) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if len(settings) == 0 {
		return fmt.Errorf("no settings to change")
	}
	for _, s := range settings {
		if strings.TrimSpace(s.Key) == "" {
			return fmt.Errorf("setting key required")
		}
	}
	return c.doURL(ctx, "change settings", http.MethodPost, &url.URL{Path: "/settings"}, settings, http.StatusCreated, nil)
}
