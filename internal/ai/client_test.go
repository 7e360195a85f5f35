package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"autodialer/internal/config"
)

func configWithoutKey() config.GeminiConfig {
	return config.GeminiConfig{Model: "gemini-2.0-flash"}
}

func TestDecodeCommand_FencedAndUnfencedParseIdentically(t *testing.T) {
	raw := `{"action":"make_call","phone_number":"+15551234567","message":"hi"}`
	fenced := "```json\n" + raw + "\n```"

	a, err := decodeCommand(raw)
	if err != nil {
		t.Fatalf("unfenced: %v", err)
	}
	b, err := decodeCommand(fenced)
	if err != nil {
		t.Fatalf("fenced: %v", err)
	}
	if a != b {
		t.Fatalf("fenced and unfenced parse differ: %+v vs %+v", a, b)
	}
	if a.Action != ActionMakeCall || a.PhoneNumber != "+15551234567" || a.Message != "hi" {
		t.Fatalf("unexpected command: %+v", a)
	}
}

func TestDecodeCommand_ProseAroundJSON(t *testing.T) {
	cmd, err := decodeCommand("Sure! Here you go:\n{\"action\":\"none\",\"error\":\"No phone number found in the input\"}\nLet me know.")
	if err != nil {
		t.Fatalf("expected parse, got %v", err)
	}
	if cmd.Action != ActionNone || cmd.Error == "" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestDecodeCommand_NonJSONIsStructuredError(t *testing.T) {
	_, err := decodeCommand("I am sorry, I cannot help with that.")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "failed to parse AI response") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGeminiClient_NotConfigured(t *testing.T) {
	c, err := NewGeminiClient(context.Background(), configWithoutKey())
	if err != nil {
		t.Fatalf("construction must not fail without a key: %v", err)
	}
	if c.Configured() {
		t.Fatalf("expected unconfigured client")
	}
	if _, err := c.ParseCallCommand(context.Background(), "call bob"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := c.GenerateArticle(context.Background(), "Go generics", ""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

type fakeClient struct {
	articles map[string]string
	fail     map[string]bool
	calls    []string
}

func (f *fakeClient) ParseCallCommand(ctx context.Context, input string) (Command, error) {
	return Command{}, errors.New("not used")
}

func (f *fakeClient) GenerateArticle(ctx context.Context, title, details string) (string, error) {
	f.calls = append(f.calls, title)
	if f.fail[title] {
		return "", errors.New("provider rejected request")
	}
	return f.articles[title], nil
}

func TestBatchGenerator_OrderAndFailureIsolation(t *testing.T) {
	fake := &fakeClient{
		articles: map[string]string{"A": "content for A"},
		fail:     map[string]bool{"B": true},
	}
	b := BatchGenerator{Client: fake} // nil pace: no delays in tests

	out := b.Generate(context.Background(), []ArticleRequest{{Title: "A"}, {Title: "B"}})
	if len(out) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(out))
	}
	if out[0].Title != "A" || out[1].Title != "B" {
		t.Fatalf("outcomes out of order: %+v", out)
	}
	if out[0].Err != nil || out[0].Content != "content for A" {
		t.Fatalf("expected A to succeed: %+v", out[0])
	}
	if out[1].Err == nil {
		t.Fatalf("expected B to fail")
	}
	if len(fake.calls) != 2 {
		t.Fatalf("B's failure must not skip calls: %v", fake.calls)
	}
}
