package telephony

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseStatusCallback(t *testing.T) {
	body := strings.NewReader("CallSid=CA123&CallStatus=completed&CallDuration=42&From=%2B15551234567&To=%2B15557654321")
	r := httptest.NewRequest(http.MethodPost, "/webhooks/twilio/status", body)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	cb, err := ParseStatusCallback(r)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cb.CallSid != "CA123" {
		t.Fatalf("unexpected CallSid %q", cb.CallSid)
	}
	if cb.CallStatus != "completed" || cb.CallDuration != "42" {
		t.Fatalf("unexpected status/duration: %q %q", cb.CallStatus, cb.CallDuration)
	}
	if cb.From != "+15551234567" || cb.To != "+15557654321" {
		t.Fatalf("unexpected from/to: %q %q", cb.From, cb.To)
	}
}
