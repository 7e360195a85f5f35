package calls

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"autodialer/internal/ai"
	"autodialer/internal/telephony"
	"autodialer/pkg/logger"
)

// Dialer is the telephony boundary the orchestrator consumes.
type Dialer interface {
	PlaceCall(ctx context.Context, to, message string) telephony.CallResult
	FetchCallStatus(ctx context.Context, callSID string) telephony.StatusResult
}

var (
	ErrNoNumbers    = errors.New("no valid phone numbers found")
	ErrEmptyCommand = errors.New("command is required")
	ErrNoCallSID    = errors.New("no call sid available")
)

// Service orchestrates bulk and single outbound calls.
//
// Batches are strictly sequential with a fixed inter-call pace; there is
// no retry scheduler or background worker. A failed attempt is recorded
// once and the batch moves on.
type Service struct {
	repo   Repository
	dialer Dialer
	parser ai.Client

	// dialPace spaces outbound call creation; pollPace spaces status
	// polling during bulk refresh. Nil disables pacing (tests).
	dialPace *rate.Limiter
	pollPace *rate.Limiter

	clock func() time.Time
}

func NewService(repo Repository, dialer Dialer, parser ai.Client) *Service {
	return &Service{
		repo:     repo,
		dialer:   dialer,
		parser:   parser,
		dialPace: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		pollPace: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		clock:    time.Now,
	}
}

// ExtractNumbers splits a raw newline/comma/semicolon-delimited list,
// trims entries and drops empties. No dedup by value.
func ExtractNumbers(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ',' || r == ';'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// BatchResult aggregates one bulk dialing run.
//
// Unrecorded counts attempts whose external action went through (or
// failed) but whose bookkeeping row could not be saved. A real call may
// exist with no local record; callers should surface this separately
// from Placed/Failed.
type BatchResult struct {
	Placed     int `json:"placed"`
	Failed     int `json:"failed"`
	Unrecorded int `json:"unrecorded"`
}

// DialBatch places one call per number, sequentially, persisting one
// record per attempt. Persistence failures are logged and counted, not
// fatal to the batch.
func (s *Service) DialBatch(ctx context.Context, numbers []string, message string) (BatchResult, error) {
	if len(numbers) == 0 {
		return BatchResult{}, ErrNoNumbers
	}
	log := logger.From(ctx)

	var res BatchResult
	for _, number := range numbers {
		if s.dialPace != nil {
			if err := s.dialPace.Wait(ctx); err != nil {
				return res, err
			}
		}

		result := s.dialer.PlaceCall(ctx, number, message)

		rec := s.newRecord(number, result, "")
		if result.Success {
			res.Placed++
		} else {
			res.Failed++
		}
		if err := s.repo.Create(ctx, rec); err != nil {
			// The phone call already happened; local bookkeeping is
			// best-effort.
			log.Warn("call record save failed", "phone_number", number, "err", err)
			res.Unrecorded++
		}
	}
	return res, nil
}

// CommandOutcome reports one AI-command dialing attempt.
type CommandOutcome struct {
	Placed      bool   `json:"placed"`
	PhoneNumber string `json:"phone_number,omitempty"`
	CallSID     string `json:"call_sid,omitempty"`
	Error       string `json:"error,omitempty"`
}

// DialFromCommand parses a free-text command via the AI adapter and
// places at most one call. Parse failures and blank extracted numbers
// are persisted as synthetic failed records carrying the original
// command text as provenance.
func (s *Service) DialFromCommand(ctx context.Context, command string) (CommandOutcome, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return CommandOutcome{}, ErrEmptyCommand
	}
	log := logger.From(ctx)

	cmd, err := s.parser.ParseCallCommand(ctx, command)
	if err != nil || cmd.Error != "" || cmd.Action != ai.ActionMakeCall {
		errMsg := "Could not understand the command"
		switch {
		case err != nil:
			errMsg = err.Error()
		case cmd.Error != "":
			errMsg = cmd.Error
		}
		s.recordCommandFailure(ctx, "AI Command Error: "+errMsg, command)
		return CommandOutcome{Error: errMsg}, nil
	}

	if strings.TrimSpace(cmd.PhoneNumber) == "" {
		s.recordCommandFailure(ctx, "No phone number extracted from AI command", command)
		return CommandOutcome{Error: "No phone number found in command"}, nil
	}

	// The extracted number is dialed as returned by the model; the
	// prompt demands E.164 but nothing re-checks the shape here.
	result := s.dialer.PlaceCall(ctx, cmd.PhoneNumber, cmd.Message)

	rec := s.newRecord(cmd.PhoneNumber, result, "Created via AI command: "+command)
	if err := s.repo.Create(ctx, rec); err != nil {
		log.Warn("call record save failed", "phone_number", cmd.PhoneNumber, "err", err)
	}

	if !result.Success {
		return CommandOutcome{PhoneNumber: cmd.PhoneNumber, Error: result.Error}, nil
	}
	return CommandOutcome{Placed: true, PhoneNumber: cmd.PhoneNumber, CallSID: result.CallSID}, nil
}

// HandleStatusCallback reconciles a provider status webhook with the
// matching record. An unknown call identifier is ignored: the provider
// may retry or reference state we never stored, and the endpoint must
// still acknowledge to prevent retry storms.
func (s *Service) HandleStatusCallback(ctx context.Context, cb telephony.StatusCallback) error {
	if cb.CallSid == "" {
		return nil
	}

	call, ok, err := s.repo.GetByCallSID(ctx, cb.CallSid)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	var duration *int
	if cb.CallDuration != "" {
		if n, err := strconv.Atoi(cb.CallDuration); err == nil {
			duration = &n
		}
	}
	return s.repo.UpdateStatus(ctx, call.ID, Status(cb.CallStatus), duration, s.clock().UTC())
}

// RefreshCall fetches current provider status for one record and
// overwrites it.
func (s *Service) RefreshCall(ctx context.Context, id string) (Status, error) {
	call, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if call.CallSID == nil {
		return "", ErrNoCallSID
	}

	res := s.dialer.FetchCallStatus(ctx, *call.CallSID)
	if !res.Success {
		return "", errors.New(res.Error)
	}

	status := Status(res.Status)
	if err := s.repo.UpdateStatus(ctx, call.ID, status, res.Duration, s.clock().UTC()); err != nil {
		return "", err
	}
	return status, nil
}

// RefreshOpenCalls polls provider status for every record still in an
// open state that has a call SID. One record's fetch failure is skipped,
// not fatal. Returns how many records were updated.
func (s *Service) RefreshOpenCalls(ctx context.Context) (int, error) {
	open, err := s.repo.ListOpenWithSID(ctx)
	if err != nil {
		return 0, err
	}
	log := logger.From(ctx)

	updated := 0
	for _, call := range open {
		if s.pollPace != nil {
			if err := s.pollPace.Wait(ctx); err != nil {
				return updated, err
			}
		}

		res := s.dialer.FetchCallStatus(ctx, *call.CallSID)
		if !res.Success {
			log.Warn("status refresh failed", "call_id", call.ID, "err", res.Error)
			continue
		}
		if err := s.repo.UpdateStatus(ctx, call.ID, Status(res.Status), res.Duration, s.clock().UTC()); err != nil {
			log.Warn("status update failed", "call_id", call.ID, "err", err)
			continue
		}
		updated++
	}
	return updated, nil
}

func (s *Service) List(ctx context.Context, limit int) ([]Call, error) {
	return s.repo.List(ctx, limit)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) newRecord(number string, result telephony.CallResult, notes string) Call {
	now := s.clock().UTC()
	rec := Call{
		ID:          uuid.NewString(),
		PhoneNumber: number,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if result.Success {
		rec.Status = StatusCalling
		sid := result.CallSID
		rec.CallSID = &sid
	} else {
		rec.Status = StatusFailed
		rec.ErrorMessage = result.Error
	}
	return rec
}

func (s *Service) recordCommandFailure(ctx context.Context, errMsg, command string) {
	now := s.clock().UTC()
	rec := Call{
		ID:           uuid.NewString(),
		PhoneNumber:  "N/A",
		Status:       StatusFailed,
		ErrorMessage: errMsg,
		Notes:        "Failed AI command: " + command,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		logger.From(ctx).Warn("synthetic call record save failed", "err", err)
	}
}
