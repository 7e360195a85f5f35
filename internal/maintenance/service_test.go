package maintenance

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
	return driver.RowsAffected(3), nil
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

func TestClearAllDeletesBothTablesInOneTransaction(t *testing.T) {
	db, conn := fakeDB()
	defer db.Close()

	sum, err := NewService(db).ClearAll(context.Background())
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if sum.Calls != 3 || sum.Articles != 3 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	if len(conn.execs) != 2 ||
		!strings.Contains(conn.execs[0], "phone_calls") ||
		!strings.Contains(conn.execs[1], "blog_posts") {
		t.Fatalf("unexpected statements: %v", conn.execs)
	}
	if !conn.committed || conn.rolledBack {
		t.Fatalf("expected a single committed transaction: %+v", conn)
	}
}

func TestClearAllRollsBackWhenSecondDeleteFails(t *testing.T) {
	db, conn := fakeDB()
	defer db.Close()
	conn.failOn = "blog_posts"

	if _, err := NewService(db).ClearAll(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if conn.committed || !conn.rolledBack {
		t.Fatalf("expected rollback without commit: %+v", conn)
	}
}
