package articles

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// DefaultAuthor is the attribution used for generated content.
const DefaultAuthor = "AI Assistant"

const (
	minTitleLen   = 5
	maxTitleLen   = 200
	minContentLen = 100
)

// Article represents one blog post, manually written or generated.
type Article struct {
	ID      string `json:"id" db:"id"`
	Title   string `json:"title" db:"title"`
	Content string `json:"content" db:"content"`
	Author  string `json:"author" db:"author"`

	Published bool `json:"published" db:"published"`

	// Slug is derived from the title and expected unique.
	Slug string `json:"slug" db:"slug"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ApplyDefaults fills the author attribution and the title-derived slug
// when absent.
func (a *Article) ApplyDefaults() {
	if strings.TrimSpace(a.Author) == "" {
		a.Author = DefaultAuthor
	}
	if strings.TrimSpace(a.Slug) == "" {
		a.Slug = slug.Make(a.Title)
	}
}

// Validate enforces the content-quality floor. Generated articles that
// come back too short must not be persisted.
func (a Article) Validate() error {
	var errs []error
	if n := len(strings.TrimSpace(a.Title)); n < minTitleLen || n > maxTitleLen {
		errs = append(errs, fmt.Errorf("title must be %d-%d characters", minTitleLen, maxTitleLen))
	}
	if len(strings.TrimSpace(a.Content)) < minContentLen {
		errs = append(errs, fmt.Errorf("content must be at least %d characters", minContentLen))
	}
	if strings.TrimSpace(a.Author) == "" {
		errs = append(errs, errors.New("author is required"))
	}
	if strings.TrimSpace(a.Slug) == "" {
		errs = append(errs, errors.New("slug is required"))
	}
	return errors.Join(errs...)
}
