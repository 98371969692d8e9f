// Package export writes the normalized catalog and its statistics to
// Parquet files for downstream tools.
package export

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// Writer writes rows of one type to a Parquet file.
//
// Files are small (one row per price cell or catalog service), so a single
// row group is the norm. Zstd keeps them compact and statistics on every
// page let query engines skip by category or location.
type Writer[T any] struct {
	file   *os.File
	writer *parquet.GenericWriter[T]
	count  int
}

func NewWriter[T any](filename string) (*Writer[T], error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[T](file,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.PageBufferSize(8*1024),
		parquet.DataPageStatistics(true),
		parquet.CreatedBy("clinicstats", "1.0", ""),
	)

	return &Writer[T]{
		file:   file,
		writer: writer,
	}, nil
}

func (w *Writer[T]) Write(rows []T) (int, error) {
	n, err := w.writer.Write(rows)
	w.count += n
	if err != nil {
		return n, fmt.Errorf("write parquet rows: %w", err)
	}
	return n, nil
}

// Close flushes the final row group and closes the file.
func (w *Writer[T]) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return w.file.Close()
}

// Count returns the total number of rows written.
func (w *Writer[T]) Count() int {
	return w.count
}

// writeFile writes rows to filename in one go.
func writeFile[T any](filename string, rows []T) (int, error) {
	w, err := NewWriter[T](filename)
	if err != nil {
		return 0, err
	}
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			w.Close()
			return 0, err
		}
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return w.Count(), nil
}
