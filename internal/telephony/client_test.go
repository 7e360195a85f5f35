package telephony

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"autodialer/internal/config"
)

func testCreds() config.TwilioConfig {
	return config.TwilioConfig{AccountSID: "AC123", AuthToken: "token", FromNumber: "+15550001111"}
}

func TestPlaceCall_NotConfigured(t *testing.T) {
	c := NewClient(config.TwilioConfig{})
	res := c.PlaceCall(context.Background(), "+15551234567", "")
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Error != "twilio credentials not configured" {
		t.Fatalf("unexpected error: %q", res.Error)
	}
}

func TestPlaceCall_Success(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/Accounts/AC123/Calls.json") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "token" {
			t.Errorf("missing or wrong basic auth")
		}
		_ = r.ParseForm()
		gotForm = map[string]string{
			"From":  r.PostFormValue("From"),
			"To":    r.PostFormValue("To"),
			"Twiml": r.PostFormValue("Twiml"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"CA999","status":"queued","to":"+15551234567","from":"+15550001111"}`))
	}))
	defer srv.Close()

	c := NewClient(testCreds(), WithBaseURL(srv.URL))
	res := c.PlaceCall(context.Background(), "+15551234567", "hello")
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.CallSID != "CA999" || res.Status != "queued" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if gotForm["From"] != "+15550001111" || gotForm["To"] != "+15551234567" {
		t.Fatalf("unexpected form: %+v", gotForm)
	}
	if !strings.Contains(gotForm["Twiml"], "hello") {
		t.Fatalf("expected inline twiml to carry message, got %q", gotForm["Twiml"])
	}
}

func TestPlaceCall_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"The 'To' number is not a valid phone number.","status":400}`))
	}))
	defer srv.Close()

	c := NewClient(testCreds(), WithBaseURL(srv.URL))
	res := c.PlaceCall(context.Background(), "bogus", "")
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.ErrorCode != 21211 {
		t.Fatalf("expected provider code, got %d", res.ErrorCode)
	}
	if !strings.Contains(res.Error, "not a valid phone number") {
		t.Fatalf("unexpected error: %q", res.Error)
	}
}

func TestPlaceCall_TransportErrorIsReported(t *testing.T) {
	c := NewClient(testCreds(), WithBaseURL("http://127.0.0.1:0"))
	res := c.PlaceCall(context.Background(), "+15551234567", "")
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Error == "" {
		t.Fatalf("expected error text")
	}
}

func TestFetchCallStatus_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/Calls/CA999.json") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sid":"CA999","status":"completed","duration":"42","start_time":"Mon, 05 Nov 2025 10:00:00 +0000","end_time":"Mon, 05 Nov 2025 10:00:42 +0000"}`))
	}))
	defer srv.Close()

	c := NewClient(testCreds(), WithBaseURL(srv.URL))
	res := c.FetchCallStatus(context.Background(), "CA999")
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if res.Status != "completed" {
		t.Fatalf("unexpected status %q", res.Status)
	}
	if res.Duration == nil || *res.Duration != 42 {
		t.Fatalf("unexpected duration %v", res.Duration)
	}
}

func TestFetchCallStatus_RequiresSID(t *testing.T) {
	c := NewClient(testCreds())
	res := c.FetchCallStatus(context.Background(), "  ")
	if res.Success {
		t.Fatalf("expected failure")
	}
}
