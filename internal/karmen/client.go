package karmen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Backend defines the Karmen operations printdeck consumes.
// This interface is implemented by *Client and can be used for testing.
type Backend interface {
	CheckLiveness(ctx context.Context) bool
	FetchPrinters(ctx context.Context, fields ...string) ([]Printer, error)
	FetchPrinter(ctx context.Context, ip string, fields ...string) (*Printer, error)
	DeletePrinter(ctx context.Context, ip string) error
	ChangeCurrentJob(ctx context.Context, ip string, action JobAction) error
	FetchPrintJobs(ctx context.Context, query PrintJobQuery) (PrintJobListResponse, error)
	AddPrinter(ctx context.Context, ip, name string) error
	RenamePrinter(ctx context.Context, ip, name string) error
	FetchGcodes(ctx context.Context, query GcodeQuery) (GcodeListResponse, error)
	DeleteGcode(ctx context.Context, id int64) error
	PrintGcode(ctx context.Context, id int64, printerIP string) error
	FetchSettings(ctx context.Context) ([]Setting, error)
	ChangeSettings(ctx context.Context, settings []Setting) error
}

// Ensure Client implements Backend at compile time.
var _ Backend = (*Client)(nil)

// DefaultPrinterFields are the optional parts requested for every printer.
var DefaultPrinterFields = []string{"status", "webcam", "job"}

// Client talks to the Karmen backend REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	log       zerolog.Logger
}

const (
	defaultBaseURL   = "http://127.0.0.1:9764"
	defaultUserAgent = "printdeck/0.1"
	requestTimeout   = 5 * time.Second
)

// Option customises a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger installs a structured logger for request failures.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient builds a Client for the backend at baseURL (scheme optional).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// StatusError reports a response code other than the one an operation expects.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: backend returned status %d", e.Op, e.Code)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// IsConflict reports whether err is a 409 from the backend, e.g. a printer
// address that is already registered.
func IsConflict(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusConflict
}

// CheckLiveness asks the backend root endpoint whether it is alive. It never
// returns an error: any transport failure or non-200 status yields false.
func (c *Client) CheckLiveness(ctx context.Context) bool {
	if c == nil {
		return false
	}
	err := c.doURL(ctx, "heartbeat", http.MethodGet, &url.URL{Path: "/"}, nil, http.StatusOK, nil)
	if err != nil {
		c.log.Debug().Err(err).Msg("heartbeat fail")
		return false
	}
	return true
}

// FetchPrinters lists every known printer with the requested optional fields.
func (c *Client) FetchPrinters(ctx context.Context, fields ...string) ([]Printer, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/printers", RawQuery: fieldsQuery(fields)}
	var payload PrinterListResponse
	if err := c.doURL(ctx, "list printers", http.MethodGet, rel, nil, http.StatusOK, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// FetchPrinter retrieves a single printer snapshot.
func (c *Client) FetchPrinter(ctx context.Context, ip string, fields ...string) (*Printer, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	path, err := printerPath(ip)
	if err != nil {
		return nil, err
	}
	rel := &url.URL{Path: path, RawQuery: fieldsQuery(fields)}
	var payload Printer
	if err := c.doURL(ctx, "get printer", http.MethodGet, rel, nil, http.StatusOK, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeletePrinter removes a printer from the backend.
func (c *Client) DeletePrinter(ctx context.Context, ip string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	path, err := printerPath(ip)
	if err != nil {
		return err
	}
	return c.doURL(ctx, "remove printer", http.MethodDelete, &url.URL{Path: path}, nil, http.StatusNoContent, nil)
}

// AddPrinter registers a printer reachable at ip (optionally ip:port).
func (c *Client) AddPrinter(ctx context.Context, ip, name string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	ip, name = strings.TrimSpace(ip), strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if err := ValidatePrinterAddress(ip); err != nil {
		return err
	}
	body := struct {
		IP   string `json:"ip"`
		Name string `json:"name"`
	}{IP: ip, Name: name}
	return c.doURL(ctx, "add printer", http.MethodPost, &url.URL{Path: "/printers"}, body, http.StatusCreated, nil)
}

// RenamePrinter changes the display name of a printer.
func (c *Client) RenamePrinter(ctx context.Context, ip, name string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	path, err := printerPath(ip)
	if err != nil {
		return err
	}
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	return c.doURL(ctx, "patch printer", http.MethodPatch, &url.URL{Path: path}, body, http.StatusNoContent, nil)
}

// ChangeCurrentJob pauses/resumes (toggle) or cancels the job on a printer.
func (c *Client) ChangeCurrentJob(ctx context.Context, ip string, action JobAction) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	switch action {
	case ActionToggle, ActionCancel:
	default:
		return fmt.Errorf("unsupported job action %q", action)
	}
	path, err := printerPath(ip)
	if err != nil {
		return err
	}
	body := struct {
		Action JobAction `json:"action"`
	}{Action: action}
	return c.doURL(ctx, "change current job", http.MethodPost, &url.URL{Path: path + "/current-job"}, body, http.StatusNoContent, nil)
}

// PrintJobQuery configures /printjobs requests.
type PrintJobQuery struct {
	StartWith string
	OrderBy   string
	PrinterIP string
	Limit     int
}

// FetchPrintJobs lists print jobs, newest first when OrderBy is "-id".
func (c *Client) FetchPrintJobs(ctx context.Context, query PrintJobQuery) (PrintJobListResponse, error) {
	if c == nil {
		return PrintJobListResponse{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}
	values.Set("limit", strconv.Itoa(limit))
	if v := strings.TrimSpace(query.StartWith); v != "" {
		values.Set("start_with", v)
	}
	if v := strings.TrimSpace(query.OrderBy); v != "" {
		values.Set("order_by", v)
	}
	if v := strings.TrimSpace(query.PrinterIP); v != "" {
		values.Set("filter", "printer_ip:"+v)
	}
	rel := &url.URL{Path: "/printjobs", RawQuery: values.Encode()}
	var payload PrintJobListResponse
	if err := c.doURL(ctx, "list printjobs", http.MethodGet, rel, nil, http.StatusOK, &payload); err != nil {
		return PrintJobListResponse{}, err
	}
	return payload, nil
}

func (c *Client) doURL(ctx context.Context, op, method string, rel *url.URL, body any, want int, dest any) error {
	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + rel.Path
	reqURL.RawPath = ""
	reqURL.RawQuery = rel.RawQuery

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: execute request: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != want {
		return &StatusError{Op: op, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

var (
	// ErrNameRequired is returned when a printer name is blank.
	ErrNameRequired = errors.New("printer name is required")
	// ErrInvalidAddress is returned for addresses that are not IPv4[:port].
	ErrInvalidAddress = errors.New("IP address is required in a proper format")
)

var printerAddressPattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}:?\d{0,5}$`)

// ValidatePrinterAddress accepts dotted IPv4 addresses with an optional port.
func ValidatePrinterAddress(ip string) error {
	if !printerAddressPattern.MatchString(strings.TrimSpace(ip)) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, ip)
	}
	return nil
}

func printerPath(ip string) (string, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return "", fmt.Errorf("printer ip required")
	}
	if strings.ContainsAny(ip, "/?#") {
		return "", fmt.Errorf("invalid printer ip %q", ip)
	}
	return "/printers/" + ip, nil
}

func fieldsQuery(fields []string) string {
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			kept = append(kept, f)
		}
	}
	return url.Values{"fields": {strings.Join(kept, ",")}}.Encode()
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse backend url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse backend url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
