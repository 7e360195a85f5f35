package telephony

import (
	"net/http"
	"strings"
)

// StatusCallback captures the subset of Twilio's status webhook fields we
// care about. Twilio sends application/x-www-form-urlencoded by default.
// Ref: https://www.twilio.com/docs/voice/api/call-resource#statuscallback
//
// Keep it minimal and provider-adapter-only. Record reconciliation is not
// made here.
type StatusCallback struct {
	CallSid      string
	CallStatus   string
	CallDuration string
	From         string
	To           string
}

func ParseStatusCallback(r *http.Request) (StatusCallback, error) {
	if err := r.ParseForm(); err != nil {
		return StatusCallback{}, err
	}
	f := StatusCallback{
		CallSid:      strings.TrimSpace(r.PostFormValue("CallSid")),
		CallStatus:   strings.TrimSpace(r.PostFormValue("CallStatus")),
		CallDuration: strings.TrimSpace(r.PostFormValue("CallDuration")),
		From:         strings.TrimSpace(r.PostFormValue("From")),
		To:           strings.TrimSpace(r.PostFormValue("To")),
	}
	return f, nil
}
