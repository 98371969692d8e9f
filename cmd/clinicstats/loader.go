package main

import (
	"context"
	"fmt"

	"clinicstats/internal/config"
	"clinicstats/internal/source"
)

// openLoader returns the loader for the configured source kind and a
// function releasing it.
func openLoader(ctx context.Context, cfg *config.Config) (source.Loader, func(), error) {
	switch cfg.Source {
	case config.SourceCSV:
		return source.NewDirSource(cfg.DataDir, cfg.Encodings), func() {}, nil
	case config.SourceXLSX:
		return source.NewWorkbookSource(cfg.Workbook), func() {}, nil
	case config.SourcePostgres:
		pg, err := source.NewPostgresSource(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		pg.Schema = cfg.Postgres.Schema
		pg.OrderColumn = cfg.Postgres.OrderColumn
		return pg, pg.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown source %q", cfg.Source)
}
