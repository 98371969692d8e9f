package export

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinicstats/internal/model"
	"clinicstats/internal/postgres"
	"clinicstats/internal/stats"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS catalog_pass (
	pass_id     uuid PRIMARY KEY,
	clinicians  integer NOT NULL,
	services    integer NOT NULL,
	created_at  timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS catalog_price (
	pass_id   uuid NOT NULL REFERENCES catalog_pass (pass_id) ON DELETE CASCADE,
	category  text NOT NULL,
	service   text NOT NULL,
	location  text NOT NULL,
	qualifier text NOT NULL,
	amount    numeric
);
CREATE TABLE IF NOT EXISTS catalog_coverage (
	pass_id     uuid NOT NULL REFERENCES catalog_pass (pass_id) ON DELETE CASCADE,
	service     text NOT NULL,
	clinicians  integer NOT NULL,
	percent     double precision NOT NULL,
	has_pricing boolean NOT NULL
);
`

// PostgresSink stores built catalogs, one pass per transaction. Earlier
// passes are kept; rows are keyed by pass ID.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink connects and pings. The caller closes the sink.
func NewPostgresSink(ctx context.Context, connStr string) (*PostgresSink, error) {
	pool, err := postgres.Connect(ctx, connStr)
	if err != nil {
		return nil, err
	}
	return &PostgresSink{pool: pool}, nil
}

func NewPostgresSinkFromPool(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

func (s *PostgresSink) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PassCounts reports how many rows one Write stored.
type PassCounts struct {
	Prices   int64
	Coverage int64
}

// Write stores the catalog's price cells and coverage under its pass ID.
// Nothing is stored if any step fails.
func (s *PostgresSink) Write(ctx context.Context, c *model.Catalog, r stats.Report) (PassCounts, error) {
	var counts PassCounts
	if _, err := s.pool.Exec(ctx, pgSchema); err != nil {
		return counts, fmt.Errorf("create schema: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return counts, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	pass := pgUUID(c.PassID())
	if _, err := tx.Exec(ctx,
		`INSERT INTO catalog_pass (pass_id, clinicians, services) VALUES ($1, $2, $3)`,
		pass, r.Clinicians, r.CatalogServices,
	); err != nil {
		return counts, fmt.Errorf("insert pass: %w", err)
	}

	prices := PriceRows(c)
	counts.Prices, err = tx.CopyFrom(ctx,
		pgx.Identifier{"catalog_price"},
		[]string{"pass_id", "category", "service", "location", "qualifier", "amount"},
		pgx.CopyFromSlice(len(prices), func(i int) ([]any, error) {
			p := prices[i]
			amount, err := floatToNumeric(p.Amount)
			if err != nil {
				return nil, fmt.Errorf("%s at %s: %w", p.Service, p.Location, err)
			}
			return []any{pass, sanitizeUTF8(p.Category), sanitizeUTF8(p.Service), p.Location, p.Qualifier, amount}, nil
		}),
	)
	if err != nil {
		return counts, fmt.Errorf("copy catalog_price: %w", err)
	}

	coverage := CoverageRows(r)
	counts.Coverage, err = tx.CopyFrom(ctx,
		pgx.Identifier{"catalog_coverage"},
		[]string{"pass_id", "service", "clinicians", "percent", "has_pricing"},
		pgx.CopyFromSlice(len(coverage), func(i int) ([]any, error) {
			cv := coverage[i]
			return []any{pass, sanitizeUTF8(cv.Service), cv.Clinicians, cv.Percent, cv.HasPricing}, nil
		}),
	)
	if err != nil {
		return counts, fmt.Errorf("copy catalog_coverage: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return counts, fmt.Errorf("commit: %w", err)
	}
	return counts, nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// sanitizeUTF8 replaces invalid UTF-8 bytes with spaces.
func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, " ")
}

// floatToNumeric converts an optional amount; nil is SQL NULL.
func floatToNumeric(f *float64) (pgtype.Numeric, error) {
	if f == nil {
		return pgtype.Numeric{Valid: false}, nil
	}
	var num pgtype.Numeric
	if err := num.Scan(big.NewFloat(*f).Text('f', -1)); err != nil {
		return pgtype.Numeric{}, fmt.Errorf("amount %v: %w", *f, err)
	}
	return num, nil
}
