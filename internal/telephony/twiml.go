package telephony

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// TwiML is a minimal Twilio Markup Language response builder.
// It intentionally avoids any provider SDK dependency.
//
// Only the verbs we speak at the adapter boundary are modeled.

const defaultGreeting = "Hello! This is an automated call from the Autodialer application. Thank you for your time."
const goodbyeLine = "Goodbye!"

// sayVoice selects the Polly neural voice for better quality.
const sayVoice = "Polly.Joanna-Neural"

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr"`
	Text    string   `xml:",chardata"`
}

type twimlPause struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr"`
}

// BuildVoiceResponse renders the spoken-call TwiML document: the message
// (or a default greeting), a one second pause, then a fixed goodbye.
//
// The message comes from untrusted user input and is embedded as XML
// character data, so the encoder's escaping of &, < and > is load-bearing.
func BuildVoiceResponse(message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		message = defaultGreeting
	}

	r := twimlResponse{
		Verbs: []any{
			twimlSay{Voice: sayVoice, Text: message},
			twimlPause{Length: 1},
			twimlSay{Voice: sayVoice, Text: goodbyeLine},
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
