// Package postgres implements the remote table and procedure store over
// database/sql and lib/pq. Postgres renders every row as JSON itself, so rows
// reach the services in the same shape the remote API would send them.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/asistoya/shared-services/internal/adapters/metrics"
	"github.com/asistoya/shared-services/internal/config"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/ports"
)

type Store struct {
	db      *sql.DB
	cb      *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
}

var _ ports.Store = (*Store)(nil)

// NewStore wraps db. m may be nil.
func NewStore(db *sql.DB, m *metrics.Metrics) *Store {
	return &Store{
		db:      db,
		cb:      config.NewStoreBreaker("PostgreSQL"),
		metrics: m,
	}
}

// Open opens a lib/pq connection pool for url without dialing.
func Open(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	return db, nil
}

func (s *Store) Select(ctx context.Context, table string, q ports.Query) ([]json.RawMessage, error) {
	st, err := buildSelect(table, q)
	if err != nil {
		return nil, err
	}
	return s.rows(ctx, table, "select", st)
}

func (s *Store) Insert(ctx context.Context, table string, row domain.Patch) (json.RawMessage, error) {
	st, err := buildInsert(table, row)
	if err != nil {
		return nil, err
	}
	rows, err := s.rows(ctx, table, "insert", st)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("postgres: insert into %s returned no row", table)
	}
	return rows[0], nil
}

func (s *Store) Update(ctx context.Context, table string, patch domain.Patch, q ports.Query) ([]json.RawMessage, error) {
	st, err := buildUpdate(table, patch, q)
	if err != nil {
		return nil, err
	}
	return s.rows(ctx, table, "update", st)
}

func (s *Store) Delete(ctx context.Context, table string, q ports.Query) error {
	st, err := buildDelete(table, q)
	if err != nil {
		return err
	}
	return s.exec(ctx, table, "delete", func() error {
		_, err := s.db.ExecContext(ctx, st.sql, st.args...)
		return err
	})
}

func (s *Store) Count(ctx context.Context, table string, q ports.Query) (int, error) {
	st, err := buildCount(table, q)
	if err != nil {
		return 0, err
	}
	var n int
	err = s.exec(ctx, table, "count", func() error {
		return s.db.QueryRowContext(ctx, st.sql, st.args...).Scan(&n)
	})
	return n, err
}

func (s *Store) Call(ctx context.Context, fn string, args map[string]any) (json.RawMessage, error) {
	st := buildCall(fn, args)
	var out sql.NullString
	err := s.exec(ctx, fn, "rpc", func() error {
		return s.db.QueryRowContext(ctx, st.sql, st.args...).Scan(&out)
	})
	if err != nil {
		return nil, err
	}
	if !out.Valid {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(out.String), nil
}

func (s *Store) CallRows(ctx context.Context, fn string, args map[string]any) ([]json.RawMessage, error) {
	return s.rows(ctx, fn, "rpc", buildCallRows(fn, args))
}

// Ping checks the connection through the breaker.
func (s *Store) Ping(ctx context.Context) error {
	return s.exec(ctx, "", "ping", func() error {
		return s.db.PingContext(ctx)
	})
}

func (s *Store) rows(ctx context.Context, table, op string, st statement) ([]json.RawMessage, error) {
	out := []json.RawMessage{}
	err := s.exec(ctx, table, op, func() error {
		rows, err := s.db.QueryContext(ctx, st.sql, st.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var raw string
			if err := rows.Scan(&raw); err != nil {
				return err
			}
			out = append(out, json.RawMessage(raw))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// exec runs fn inside the breaker, translating server errors and recording
// the call.
func (s *Store) exec(ctx context.Context, table, op string, fn func() error) error {
	start := time.Now()
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, translate(fn())
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("postgres: %s %s: %w", op, table, err)
	}
	s.metrics.ObserveStore(table, op, start, err, isRejection(err))
	return err
}
