package sqlutil

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

type counterQueries struct {
	tx *sql.Tx
}

func (q *counterQueries) insert(ctx context.Context, n int) error {
	_, err := q.tx.ExecContext(ctx, `INSERT INTO counters (n) VALUES (?)`, n)
	return err
}

func newCounterDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(`CREATE TABLE counters (n INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	return db
}

func count(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM counters`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func newCounterQueries(tx *sql.Tx) *counterQueries { return &counterQueries{tx: tx} }

func TestRun(t *testing.T) {
	ctx := context.Background()
	errStop := errors.New("stop")

	tests := []struct {
		name      string
		fn        func(q *counterQueries) error
		wantErr   error
		wantCount int
	}{
		{
			name: "commits",
			fn: func(q *counterQueries) error {
				return errors.Join(q.insert(ctx, 1), q.insert(ctx, 2))
			},
			wantCount: 2,
		},
		{
			name: "rolls back on error",
			fn: func(q *counterQueries) error {
				if err := q.insert(ctx, 1); err != nil {
					return err
				}
				return errStop
			},
			wantErr:   errStop,
			wantCount: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newCounterDB(t)
			err := Run(ctx, db, newCounterQueries, tt.fn)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}
			if got := count(t, db); got != tt.wantCount {
				t.Errorf("rows = %d, want %d", got, tt.wantCount)
			}
		})
	}
}

func TestRunWrapsBeginFailure(t *testing.T) {
	db := newCounterDB(t)
	db.Close()

	err := Run(context.Background(), db, newCounterQueries, func(*counterQueries) error { return nil })
	if err == nil || !strings.HasPrefix(err.Error(), "failed to begin transaction") {
		t.Errorf("Run() on a closed db = %v, want a begin failure", err)
	}
}
