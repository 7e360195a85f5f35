package articles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"autodialer/internal/ai"
	"autodialer/pkg/logger"
)

var ErrNoTitles = errors.New("at least one title is required")

// Service provides article CRUD and AI batch generation.
type Service struct {
	repo Repository
	gen  ai.BatchGenerator

	clock func() time.Time
}

func NewService(repo Repository, gen ai.BatchGenerator) *Service {
	return &Service{repo: repo, gen: gen, clock: time.Now}
}

// CreateInput is the manual-authoring form.
type CreateInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	Published *bool  `json:"published"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Article, error) {
	now := s.clock().UTC()
	a := Article{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Author:    strings.TrimSpace(in.Author),
		Published: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Published != nil {
		a.Published = *in.Published
	}
	a.ApplyDefaults()
	if err := a.Validate(); err != nil {
		return Article{}, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Article{}, err
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, id string, in CreateInput) (Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Article{}, err
	}
	if strings.TrimSpace(in.Title) != "" {
		a.Title = strings.TrimSpace(in.Title)
	}
	if in.Content != "" {
		a.Content = in.Content
	}
	if strings.TrimSpace(in.Author) != "" {
		a.Author = strings.TrimSpace(in.Author)
	}
	if in.Published != nil {
		a.Published = *in.Published
	}
	a.UpdatedAt = s.clock().UTC()
	if err := a.Validate(); err != nil {
		return Article{}, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return Article{}, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (Article, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (Article, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) List(ctx context.Context, publishedOnly bool) ([]Article, error) {
	return s.repo.List(ctx, publishedOnly)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ParseTitleLines splits multi-line input where each line is
// "Title | optional details". Blank titles are discarded.
func ParseTitleLines(input string) []ai.ArticleRequest {
	var out []ai.ArticleRequest
	for _, line := range strings.Split(input, "\n") {
		title, details, _ := strings.Cut(line, "|")
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		out = append(out, ai.ArticleRequest{Title: title, Details: strings.TrimSpace(details)})
	}
	return out
}

// TitleOutcome reports one generated title.
type TitleOutcome struct {
	Title string `json:"title"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// GenerateResult aggregates one batch generation run.
type GenerateResult struct {
	Created int            `json:"created"`
	Failed  int            `json:"failed"`
	Items   []TitleOutcome `json:"items"`
}

// GenerateFromTitles generates and persists one article per parsed
// title, sequentially. Generation failures and validation failures
// (content below the quality floor) count as failed without aborting
// the batch; outcomes keep input order.
func (s *Service) GenerateFromTitles(ctx context.Context, input string) (GenerateResult, error) {
	reqs := ParseTitleLines(input)
	if len(reqs) == 0 {
		return GenerateResult{}, ErrNoTitles
	}
	log := logger.From(ctx)

	outcomes := s.gen.Generate(ctx, reqs)

	var res GenerateResult
	for _, o := range outcomes {
		if o.Err != nil {
			res.Failed++
			res.Items = append(res.Items, TitleOutcome{Title: o.Title, Error: o.Err.Error()})
			continue
		}

		now := s.clock().UTC()
		a := Article{
			ID:        uuid.NewString(),
			Title:     o.Title,
			Content:   o.Content,
			Published: true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		a.ApplyDefaults()
		if err := a.Validate(); err != nil {
			res.Failed++
			res.Items = append(res.Items, TitleOutcome{Title: o.Title, Error: err.Error()})
			continue
		}
		if err := s.repo.Create(ctx, a); err != nil {
			log.Warn("article save failed", "title", o.Title, "err", err)
			res.Failed++
			res.Items = append(res.Items, TitleOutcome{Title: o.Title, Error: err.Error()})
			continue
		}
		res.Created++
		res.Items = append(res.Items, TitleOutcome{Title: o.Title, OK: true})
	}
	return res, nil
}
