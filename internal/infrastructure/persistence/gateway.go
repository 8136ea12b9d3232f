package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrEmptyQuery is returned when Execute is called without SQL text.
var ErrEmptyQuery = errors.New("persistence: empty query")

// Result is the outcome of a single gateway call. Reads fill Rows, writes fill
// RowsAffected.
type Result struct {
	Rows         []Row
	RowsAffected int64
}

// First returns the first row, or false when the rowset is empty.
func (r *Result) First() (Row, bool) {
	if r == nil || len(r.Rows) == 0 {
		return nil, false
	}
	return r.Rows[0], true
}

// Executor runs one parameterized statement. Values in params are always bound
// by the driver and never spliced into the query text.
type Executor interface {
	Execute(ctx context.Context, query string, params []any, mutating bool) (*Result, error)
}

// Store is an Executor that can also open a unit of work.
type Store interface {
	Executor
	UnitOfWork(ctx context.Context, fn func(tx Executor) error) error
}

// Gateway is the only component that talks to the relational store. Each call
// acquires a pooled connection and releases it before returning.
type Gateway struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGateway creates a gateway over db. A zero timeout leaves calls bounded only
// by the caller's context.
func NewGateway(db *gorm.DB, timeout time.Duration) *Gateway {
	return &Gateway{db: db, timeout: timeout}
}

// Execute runs query with params. Mutating statements report the affected row
// count, reads return every row keyed by column name.
func (g *Gateway) Execute(ctx context.Context, query string, params []any, mutating bool) (*Result, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()
	return execute(g.db.WithContext(ctx), query, params, mutating)
}

// UnitOfWork runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back when it returns an error or panics; a panic is
// re-raised after the rollback.
func (g *Gateway) UnitOfWork(ctx context.Context, fn func(tx Executor) error) error {
	ctx, cancel := g.bound(ctx)
	defer cancel()
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txExecutor{db: tx, bound: ctx})
	})
}

func (g *Gateway) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

// txExecutor runs statements on an open transaction. Every statement keeps
// the deadline the unit of work was opened with, whatever ctx the caller
// passes.
type txExecutor struct {
	db    *gorm.DB
	bound context.Context
}

func (t txExecutor) Execute(ctx context.Context, query string, params []any, mutating bool) (*Result, error) {
	if deadline, ok := t.bound.Deadline(); ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}
	return execute(t.db.WithContext(ctx), query, params, mutating)
}

func execute(db *gorm.DB, query string, params []any, mutating bool) (*Result, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if mutating {
		tx := db.Exec(query, params...)
		if tx.Error != nil {
			return nil, fmt.Errorf("exec: %w", tx.Error)
		}
		return &Result{RowsAffected: tx.RowsAffected}, nil
	}

	rows, err := db.Raw(query, params...).Rows()
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	result := &Result{Rows: []Row{}}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
				continue
			}
			row[column] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}
