package calls

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"autodialer/pkg/utils"
)

var ErrNotFound = errors.New("call not found")

// Repository persists call records.
type Repository interface {
	Create(ctx context.Context, c Call) error
	GetByID(ctx context.Context, id string) (Call, error)
	// GetByCallSID returns (zero, false, nil) when no row matches: an
	// unknown SID is an expected case for webhook reconciliation, not an
	// error.
	GetByCallSID(ctx context.Context, sid string) (Call, bool, error)
	List(ctx context.Context, limit int) ([]Call, error)
	ListOpenWithSID(ctx context.Context) ([]Call, error)
	UpdateStatus(ctx context.Context, id string, status Status, duration *int, now time.Time) error
	Stats(ctx context.Context) (Stats, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// PostgresRepo stores call records in the phone_calls table
// (migrations/001_init.sql). It accepts utils.DBTX so the same queries
// run against a pool or inside a transaction.
type PostgresRepo struct {
	db utils.DBTX
}

func NewPostgresRepo(db utils.DBTX) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const callColumns = `id, phone_number, status, duration, call_sid, error_message, notes, created_at, updated_at`

func scanCall(row interface{ Scan(...any) error }) (Call, error) {
	var c Call
	var duration sql.NullInt64
	var sid sql.NullString
	var errMsg, notes sql.NullString
	if err := row.Scan(
		&c.ID,
		&c.PhoneNumber,
		&c.Status,
		&duration,
		&sid,
		&errMsg,
		&notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return Call{}, err
	}
	if duration.Valid {
		n := int(duration.Int64)
		c.Duration = &n
	}
	if sid.Valid {
		s := sid.String
		c.CallSID = &s
	}
	c.ErrorMessage = errMsg.String
	c.Notes = notes.String
	return c, nil
}

func (r *PostgresRepo) Create(ctx context.Context, c Call) error {
	const q = `
INSERT INTO phone_calls (` + callColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`
	_, err := r.db.ExecContext(ctx, q,
		c.ID,
		c.PhoneNumber,
		c.Status,
		nullInt(c.Duration),
		nullStr(c.CallSID),
		nullIfEmpty(c.ErrorMessage),
		nullIfEmpty(c.Notes),
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Call, error) {
	const q = `SELECT ` + callColumns + ` FROM phone_calls WHERE id = $1`
	c, err := scanCall(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Call{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepo) GetByCallSID(ctx context.Context, sid string) (Call, bool, error) {
	const q = `SELECT ` + callColumns + ` FROM phone_calls WHERE call_sid = $1 LIMIT 1`
	c, err := scanCall(r.db.QueryRowContext(ctx, q, sid))
	if errors.Is(err, sql.ErrNoRows) {
		return Call{}, false, nil
	}
	if err != nil {
		return Call{}, false, err
	}
	return c, true, nil
}

func (r *PostgresRepo) List(ctx context.Context, limit int) ([]Call, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT ` + callColumns + ` FROM phone_calls ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Call
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListOpenWithSID(ctx context.Context) ([]Call, error) {
	const q = `
SELECT ` + callColumns + `
FROM phone_calls
WHERE status IN ('calling','queued','ringing','in-progress')
  AND call_sid IS NOT NULL
ORDER BY created_at
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Call
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, id string, status Status, duration *int, now time.Time) error {
	const q = `
UPDATE phone_calls
SET status = $2,
    duration = COALESCE($3, duration),
    updated_at = $4
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q, id, status, nullInt(duration), now)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Stats(ctx context.Context) (Stats, error) {
	const q = `
SELECT
  COUNT(*),
  COUNT(*) FILTER (WHERE status = 'completed'),
  COUNT(*) FILTER (WHERE status IN ('failed','busy','no-answer')),
  COUNT(*) FILTER (WHERE status = 'pending')
FROM phone_calls
`
	var s Stats
	if err := r.db.QueryRowContext(ctx, q).Scan(&s.Total, &s.Successful, &s.Failed, &s.Pending); err != nil {
		return Stats{}, err
	}
	return s, nil
}

func (r *PostgresRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM phone_calls`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullStr(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
