package calls

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is a simple in-memory repository useful for tests and early
// development.
//
// NOTE: This is not intended for production; use PostgresRepo.
type MemoryRepo struct {
	mu    sync.Mutex
	rows  map[string]Call
	order []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Call)}
}

func (r *MemoryRepo) Create(ctx context.Context, c Call) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Call, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return Call{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) GetByCallSID(ctx context.Context, sid string) (Call, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		c := r.rows[id]
		if c.CallSID != nil && *c.CallSID == sid {
			return c, true, nil
		}
	}
	return Call{}, false, nil
}

func (r *MemoryRepo) List(ctx context.Context, limit int) ([]Call, error) {
	_ = ctx
	if limit <= 0 {
		limit = 50
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, 0, len(r.rows))
	for _, id := range r.order {
		out = append(out, r.rows[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) ListOpenWithSID(ctx context.Context) ([]Call, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, id := range r.order {
		c := r.rows[id]
		if c.Status.Open() && c.CallSID != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id string, status Status, duration *int, now time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	c.Status = status
	if duration != nil {
		d := *duration
		c.Duration = &d
	}
	c.UpdatedAt = now
	r.rows[id] = c
	return nil
}

func (r *MemoryRepo) Stats(ctx context.Context) (Stats, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	var s Stats
	for _, c := range r.rows {
		s.Total++
		switch c.Status {
		case StatusCompleted:
			s.Successful++
		case StatusFailed, StatusBusy, StatusNoAnswer:
			s.Failed++
		case StatusPending:
			s.Pending++
		}
	}
	return s, nil
}

func (r *MemoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.rows))
	r.rows = make(map[string]Call)
	r.order = nil
	return n, nil
}
