package articles

import (
	"context"
	"database/sql"
	"errors"

	"autodialer/pkg/utils"
)

var ErrNotFound = errors.New("article not found")

// Repository persists articles.
type Repository interface {
	Create(ctx context.Context, a Article) error
	GetByID(ctx context.Context, id string) (Article, error)
	GetBySlug(ctx context.Context, s string) (Article, error)
	List(ctx context.Context, publishedOnly bool) ([]Article, error)
	Update(ctx context.Context, a Article) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// PostgresRepo stores articles in the blog_posts table
// (migrations/001_init.sql). It accepts utils.DBTX so the same queries
// run against a pool or inside a transaction.
type PostgresRepo struct {
	db utils.DBTX
}

func NewPostgresRepo(db utils.DBTX) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const articleColumns = `id, title, content, author, published, slug, created_at, updated_at`

func scanArticle(row interface{ Scan(...any) error }) (Article, error) {
	var a Article
	if err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Content,
		&a.Author,
		&a.Published,
		&a.Slug,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return Article{}, err
	}
	return a, nil
}

func (r *PostgresRepo) Create(ctx context.Context, a Article) error {
	const q = `
INSERT INTO blog_posts (` + articleColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`
	_, err := r.db.ExecContext(ctx, q,
		a.ID, a.Title, a.Content, a.Author, a.Published, a.Slug, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Article, error) {
	const q = `SELECT ` + articleColumns + ` FROM blog_posts WHERE id = $1`
	a, err := scanArticle(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, ErrNotFound
	}
	return a, err
}

func (r *PostgresRepo) GetBySlug(ctx context.Context, s string) (Article, error) {
	const q = `SELECT ` + articleColumns + ` FROM blog_posts WHERE slug = $1`
	a, err := scanArticle(r.db.QueryRowContext(ctx, q, s))
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, ErrNotFound
	}
	return a, err
}

func (r *PostgresRepo) List(ctx context.Context, publishedOnly bool) ([]Article, error) {
	q := `SELECT ` + articleColumns + ` FROM blog_posts ORDER BY created_at DESC`
	if publishedOnly {
		q = `SELECT ` + articleColumns + ` FROM blog_posts WHERE published ORDER BY created_at DESC`
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, a Article) error {
	const q = `
UPDATE blog_posts
SET title = $2, content = $3, author = $4, published = $5, slug = $6, updated_at = $7
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q, a.ID, a.Title, a.Content, a.Author, a.Published, a.Slug, a.UpdatedAt)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
