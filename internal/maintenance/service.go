package maintenance

import (
	"context"
	"database/sql"

	"autodialer/internal/articles"
	"autodialer/internal/calls"
	"autodialer/pkg/utils"
)

// Summary reports how many rows a clear run removed.
type Summary struct {
	Calls    int64 `json:"calls_deleted"`
	Articles int64 `json:"articles_deleted"`
}

// Service performs destructive maintenance operations. Intended for
// resetting demo or staging environments.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// ClearAll removes every call record and article in one transaction:
// either both tables are wiped or neither is.
func (s *Service) ClearAll(ctx context.Context) (Summary, error) {
	var sum Summary
	err := utils.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		n, err := calls.NewPostgresRepo(tx).DeleteAll(ctx)
		if err != nil {
			return err
		}
		sum.Calls = n

		m, err := articles.NewPostgresRepo(tx).DeleteAll(ctx)
		if err != nil {
			return err
		}
		sum.Articles = m
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}
