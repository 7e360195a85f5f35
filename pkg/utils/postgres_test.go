package utils

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
)

// fakeConn is a minimal database/sql/driver implementation that records
// statements and transaction outcomes.
type fakeConn struct {
	execs      []string
	failOn     string
	committed  bool
	rolledBack bool
}

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (c *fakeConn) Close() error                        { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)           { return fakeTx{c}, nil }

func (c *fakeConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	if c.failOn != "" && strings.Contains(query, c.failOn) {
		return nil, errors.New("forced exec failure")
	}
	c.execs = append(c.execs, query)
	return driver.RowsAffected(1), nil
}

type fakeTx struct{ c *fakeConn }

func (t fakeTx) Commit() error   { t.c.committed = true; return nil }
func (t fakeTx) Rollback() error { t.c.rolledBack = true; return nil }

type fakeConnector struct{ conn *fakeConn }

func (c fakeConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c fakeConnector) Driver() driver.Driver                        { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) { return nil, errors.New("use connector") }

func fakeDB() (*sql.DB, *fakeConn) {
	conn := &fakeConn{}
	return sql.OpenDB(fakeConnector{conn: conn}), conn
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	db, conn := fakeDB()
	defer db.Close()

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM a`)
		return err
	})
	if err != nil {
		t.Fatalf("expected commit, got %v", err)
	}
	if !conn.committed || conn.rolledBack {
		t.Fatalf("expected commit without rollback: %+v", conn)
	}
	if len(conn.execs) != 1 {
		t.Fatalf("unexpected statements: %v", conn.execs)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, conn := fakeDB()
	defer db.Close()

	boom := errors.New("boom")
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx *sql.Tx) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if conn.committed || !conn.rolledBack {
		t.Fatalf("expected rollback without commit: %+v", conn)
	}
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	db, conn := fakeDB()
	defer db.Close()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx *sql.Tx) error {
			panic("boom")
		})
	}()

	if conn.committed || !conn.rolledBack {
		t.Fatalf("expected rollback without commit: %+v", conn)
	}
}
