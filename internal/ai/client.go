package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotConfigured is returned by every operation when no API key is set.
// Configuration absence is a reported failure at first use, never a
// startup fault.
var ErrNotConfigured = errors.New("gemini api key not configured")

// Client is the generative-language boundary used by orchestration code.
// Implementations must never let transport errors escape as panics; all
// failures surface as returned errors.
type Client interface {
	// ParseCallCommand extracts a structured call intent from free text.
	// A Command with ActionNone means the model found no phone number;
	// a non-nil error means the provider call or JSON decoding failed.
	ParseCallCommand(ctx context.Context, input string) (Command, error)

	// GenerateArticle produces long-form article content for a title.
	GenerateArticle(ctx context.Context, title, details string) (string, error)
}

const (
	ActionMakeCall = "make_call"
	ActionNone     = "none"
)

// Command is the strict-JSON shape the parsing prompt demands.
//
// The prompt instructs the model to return E.164 numbers with a leading
// "+"; PhoneNumber is deliberately not re-validated here. Downstream
// code dials what the model returned.
type Command struct {
	Action      string `json:"action"`
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
	Error       string `json:"error"`
}

// decodeCommand parses the model's (possibly fenced) JSON reply.
func decodeCommand(text string) (Command, error) {
	var cmd Command
	if err := json.Unmarshal([]byte(cleanResponse(text)), &cmd); err != nil {
		return Command{}, fmt.Errorf("failed to parse AI response: %w", err)
	}
	return cmd, nil
}

// cleanResponse strips markdown code fencing the model sometimes wraps
// around JSON despite instructions, then trims to the outermost object.
func cleanResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

// ArticleRequest is one title (with optional extra details) to write about.
type ArticleRequest struct {
	Title   string
	Details string
}

// ArticleOutcome pairs one request with its result. Err is nil on success.
type ArticleOutcome struct {
	Title   string
	Content string
	Err     error
}

// BatchGenerator runs article generation strictly sequentially with a
// fixed inter-call pace, so a batch respects provider rate limits. One
// title's failure never aborts its siblings.
type BatchGenerator struct {
	Client Client
	Pace   *rate.Limiter
}

// NewBatchGenerator paces at one generation per second.
func NewBatchGenerator(c Client) BatchGenerator {
	return BatchGenerator{
		Client: c,
		Pace:   rate.NewLimiter(rate.Every(1*time.Second), 1),
	}
}

// Generate returns one outcome per request, in input order.
func (b BatchGenerator) Generate(ctx context.Context, reqs []ArticleRequest) []ArticleOutcome {
	out := make([]ArticleOutcome, 0, len(reqs))
	for _, req := range reqs {
		if b.Pace != nil {
			if err := b.Pace.Wait(ctx); err != nil {
				out = append(out, ArticleOutcome{Title: req.Title, Err: err})
				continue
			}
		}
		content, err := b.Client.GenerateArticle(ctx, req.Title, req.Details)
		out = append(out, ArticleOutcome{Title: req.Title, Content: content, Err: err})
	}
	return out
}
