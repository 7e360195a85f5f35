package calls

import "time"

// Call represents one outbound call attempt and its lifecycle.
//
// CallSID invariant: a row with a CallSID corresponds to exactly one
// provider-side call. Rows without a SID never reached the provider
// (adapter failure or a synthetic row for a failed AI command).
//
// Status transitions are not enforced: webhooks and refresh both
// overwrite status verbatim, last writer wins.
type Call struct {
	ID          string `json:"id" db:"id"`
	PhoneNumber string `json:"phone_number" db:"phone_number"`

	Status Status `json:"status" db:"status"`

	// Duration in seconds, set only once the provider reports it.
	Duration *int `json:"duration,omitempty" db:"duration"`

	// CallSID is the provider-assigned call identifier.
	CallSID *string `json:"call_sid,omitempty" db:"call_sid"`

	ErrorMessage string `json:"error_message,omitempty" db:"error_message"`

	// Notes is free-text provenance, e.g. "Created via AI command: ...".
	Notes string `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Status is deliberately an open string: the provider reports values
// beyond our known set and those are stored verbatim rather than
// rejected. The constants below are the values this codebase assigns or
// branches on.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCalling   Status = "calling"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusBusy      Status = "busy"
	StatusNoAnswer  Status = "no-answer"

	// Provider-reported transient states observable between "calling"
	// and a terminal value.
	StatusQueued     Status = "queued"
	StatusRinging    Status = "ringing"
	StatusInProgress Status = "in-progress"
)

// Open reports whether the call may still change state at the provider
// and is therefore eligible for a status refresh.
func (s Status) Open() bool {
	switch s {
	case StatusCalling, StatusQueued, StatusRinging, StatusInProgress:
		return true
	default:
		return false
	}
}

// Stats aggregates call counts for the dashboard.
type Stats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Pending    int `json:"pending"`
}
