package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"autodialer/internal/config"
)

const defaultBaseURL = "https://api.twilio.com"

// Client is the Twilio REST adapter for outbound voice calls.
//
// Rules:
// - No provider HTTP calls outside this package.
// - Transport and provider errors never escape as raw errors: every
//   operation returns a tagged result so batch callers can keep going.
// - Missing credentials are a per-call reported failure, not a
//   construction error (the rest of the app must keep working).
type Client struct {
	cfg config.TwilioConfig

	// BaseURL and HTTPClient are injectable for tests.
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(cfg config.TwilioConfig, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Configured reports whether outbound calling credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.AccountSID != "" && c.cfg.AuthToken != "" && c.cfg.FromNumber != ""
}

// CallResult is the outcome of one call-creation attempt.
type CallResult struct {
	Success bool

	CallSID string
	Status  string
	To      string
	From    string

	Error     string
	ErrorCode int
}

// StatusResult is the outcome of a call-status fetch.
type StatusResult struct {
	Success bool

	Status    string
	Duration  *int
	StartTime string
	EndTime   string

	Error string
}

// twilioCall is the subset of Twilio's call resource we consume.
// Duration comes back as a string in the REST API.
type twilioCall struct {
	Sid       string `json:"sid"`
	Status    string `json:"status"`
	To        string `json:"to"`
	From      string `json:"from"`
	Duration  string `json:"duration"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// PlaceCall creates one outbound call with inline TwiML. The spoken
// message is rendered via BuildVoiceResponse; an empty message falls
// back to the default greeting.
func (c *Client) PlaceCall(ctx context.Context, to, message string) CallResult {
	if !c.Configured() {
		return CallResult{Success: false, Error: "twilio credentials not configured"}
	}

	twiml, err := BuildVoiceResponse(message)
	if err != nil {
		return CallResult{Success: false, Error: fmt.Sprintf("twiml render failed: %v", err)}
	}

	form := url.Values{}
	form.Set("From", c.cfg.FromNumber)
	form.Set("To", to)
	form.Set("Twiml", twiml)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", c.baseURL, c.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return CallResult{Success: false, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return CallResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return CallResult{Success: false, Error: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failureFromBody(resp.StatusCode, body)
	}

	var call twilioCall
	if err := json.Unmarshal(body, &call); err != nil {
		return CallResult{Success: false, Error: fmt.Sprintf("unexpected provider response: %v", err)}
	}

	return CallResult{
		Success: true,
		CallSID: call.Sid,
		Status:  call.Status,
		To:      call.To,
		From:    call.From,
	}
}

// FetchCallStatus fetches current status for a provider call. Read-only
// and idempotent; safe to poll.
func (c *Client) FetchCallStatus(ctx context.Context, callSID string) StatusResult {
	if !c.Configured() {
		return StatusResult{Success: false, Error: "twilio credentials not configured"}
	}
	if strings.TrimSpace(callSID) == "" {
		return StatusResult{Success: false, Error: "call sid is required"}
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls/%s.json", c.baseURL, c.cfg.AccountSID, callSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return StatusResult{Success: false, Error: err.Error()}
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StatusResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return StatusResult{Success: false, Error: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f := failureFromBody(resp.StatusCode, body)
		return StatusResult{Success: false, Error: f.Error}
	}

	var call twilioCall
	if err := json.Unmarshal(body, &call); err != nil {
		return StatusResult{Success: false, Error: fmt.Sprintf("unexpected provider response: %v", err)}
	}

	out := StatusResult{
		Success:   true,
		Status:    call.Status,
		StartTime: call.StartTime,
		EndTime:   call.EndTime,
	}
	if call.Duration != "" {
		if n, err := strconv.Atoi(call.Duration); err == nil {
			out.Duration = &n
		}
	}
	return out
}

func failureFromBody(httpStatus int, body []byte) CallResult {
	var te twilioError
	if err := json.Unmarshal(body, &te); err == nil && te.Message != "" {
		return CallResult{Success: false, Error: te.Message, ErrorCode: te.Code}
	}
	return CallResult{Success: false, Error: fmt.Sprintf("provider request failed with status %d", httpStatus)}
}
