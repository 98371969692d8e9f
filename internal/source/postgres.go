package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinicstats/internal/postgres"
)

// pgUndefinedTable is SQLSTATE 42P01.
const pgUndefinedTable = "42P01"

// PostgresSource loads tables from a PostgreSQL schema. Values are read in
// text form so they go through the same cell parsing as file sources.
type PostgresSource struct {
	pool   *pgxpool.Pool
	Schema string
	// OrderColumn, when set, orders rows and is dropped from the result.
	// Price lists depend on row order, which a plain SELECT does not keep.
	OrderColumn string
}

// NewPostgresSource connects and pings. The caller closes the source.
func NewPostgresSource(ctx context.Context, connStr string) (*PostgresSource, error) {
	pool, err := postgres.Connect(ctx, connStr)
	if err != nil {
		return nil, err
	}
	return &PostgresSource{pool: pool}, nil
}

// NewPostgresSourceFromPool wraps an existing pool. Close closes it.
func NewPostgresSourceFromPool(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresSource) query(name string) string {
	ident := pgx.Identifier{name}
	if s.Schema != "" {
		ident = pgx.Identifier{s.Schema, name}
	}
	q := "SELECT * FROM " + ident.Sanitize()
	if s.OrderColumn != "" {
		q += " ORDER BY " + pgx.Identifier{s.OrderColumn}.Sanitize()
	}
	return q
}

func classifyPgError(name string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return NotFound(name, err)
	}
	return fmt.Errorf("query %s: %w", name, err)
}

func (s *PostgresSource) Load(ctx context.Context, name string) (*Table, error) {
	rows, err := s.pool.Query(ctx, s.query(name), pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return nil, classifyPgError(name, err)
	}
	defer rows.Close()

	skip := -1
	var header []string
	for i, fd := range rows.FieldDescriptions() {
		if s.OrderColumn != "" && fd.Name == s.OrderColumn {
			skip = i
			continue
		}
		header = append(header, fd.Name)
	}

	t := &Table{Name: name, Header: header, Encoding: "utf-8"}
	hasher := newRowHasher()
	hasher.add(header)
	num := 1
	for rows.Next() {
		num++
		raw := rows.RawValues()
		cells := make([]string, 0, len(header))
		for i, v := range raw {
			if i == skip {
				continue
			}
			// NULL reads as an empty cell
			cells = append(cells, string(v))
		}
		hasher.add(cells)
		t.noteRecord(num)
		t.Rows = append(t.Rows, Row{Num: num, Cells: cells})
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPgError(name, err)
	}
	t.Checksum = hasher.sum()
	return t, nil
}
