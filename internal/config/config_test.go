package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicstats/internal/ingest"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clinicstats.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, SourceCSV, cfg.Source)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "doctor_services_mapping", cfg.Tables.Mapping)
	assert.Equal(t, []string{"Canary Wharf", "Orpington"}, cfg.Prices.Locations)
	assert.Equal(t, "No Match", cfg.Sentinel)
	assert.Equal(t, 5, cfg.TopN)

	src := cfg.Sources()
	require.Len(t, src.Prices, 1)
	assert.Equal(t, "Lyca_prices", src.Prices[0].Name)
	assert.Equal(t, ingest.LayoutCombined, cfg.IngestOptions().Layout)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
source: csv
data_dir: /srv/clinic
prices:
  layout: per-category
  tables:
    - name: prices/mri
      category: MRI
    - name: prices/ct
      category: CT
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/clinic", cfg.DataDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched keys keep their defaults
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "clinicians", cfg.Tables.Clinicians)

	src := cfg.Sources()
	require.Len(t, src.Prices, 2)
	assert.Equal(t, ingest.PriceTable{Name: "prices/ct", Category: "CT"}, src.Prices[1])
	assert.Equal(t, ingest.LayoutPerCategory, cfg.IngestOptions().Layout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "data_dir: /from/file\ntop_n: 3\n")
	t.Setenv("CLINICSTATS_DATA_DIR", "/from/env")
	t.Setenv("CLINICSTATS_PRICES_LOCATIONS", "Harley Street,Orpington")
	t.Setenv("CLINICSTATS_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.DataDir)
	assert.Equal(t, 3, cfg.TopN)
	assert.Equal(t, []string{"Harley Street", "Orpington"}, cfg.Prices.Locations)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown source", "source: sqlite\n"},
		{"workbook without path", "source: xlsx\n"},
		{"postgres without dsn", "source: postgres\n"},
		{"unknown layout", "prices:\n  layout: wide\n"},
		{"per-category without category", "prices:\n  layout: per-category\n  tables:\n    - name: prices/mri\n"},
		{"unknown encoding", "encodings: [utf-8, klingon]\n"},
		{"zero top n", "top_n: 0\n"},
		{"bad log level", "logging:\n  level: loud\n"},
		{"unknown key", "data_directory: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPostgresFromEnv(t *testing.T) {
	t.Setenv("CLINICSTATS_SOURCE", "postgres")
	t.Setenv("CLINICSTATS_POSTGRES_DSN", "postgres://localhost/clinic")
	t.Setenv("CLINICSTATS_POSTGRES_ORDER_COLUMN", "line")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourcePostgres, cfg.Source)
	assert.Equal(t, "line", cfg.Postgres.OrderColumn)
}
