package articles

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemoryRepo is a simple in-memory repository useful for tests and early
// development.
//
// NOTE: This is not intended for production; use PostgresRepo.
type MemoryRepo struct {
	mu    sync.Mutex
	rows  map[string]Article
	order []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Article)}
}

func (r *MemoryRepo) Create(ctx context.Context, a Article) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Slug == a.Slug {
			return errors.New("slug already exists")
		}
	}
	r.rows[a.ID] = a
	r.order = append(r.order, a.ID)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Article, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return Article{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) GetBySlug(ctx context.Context, s string) (Article, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.Slug == s {
			return a, nil
		}
	}
	return Article{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context, publishedOnly bool) ([]Article, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Article, 0, len(r.rows))
	for _, id := range r.order {
		a := r.rows[id]
		if publishedOnly && !a.Published {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, a Article) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[a.ID]; !ok {
		return ErrNotFound
	}
	r.rows[a.ID] = a
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.rows))
	r.rows = make(map[string]Article)
	r.order = nil
	return n, nil
}
