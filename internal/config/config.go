// Package config loads clinicstats settings from defaults, an optional YAML
// file and CLINICSTATS_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"clinicstats/internal/ingest"
	"clinicstats/internal/membership"
	"clinicstats/internal/source"
	"clinicstats/internal/stats"
)

// EnvPrefix prefixes every environment variable, e.g. CLINICSTATS_SOURCE.
const EnvPrefix = "CLINICSTATS"

// Source kinds.
const (
	SourceCSV      = "csv"
	SourceXLSX     = "xlsx"
	SourcePostgres = "postgres"
)

type Config struct {
	Source string `yaml:"source" envconfig:"SOURCE" validate:"oneof=csv xlsx postgres"`

	DataDir  string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required_if=Source csv"`
	Workbook string `yaml:"workbook" envconfig:"WORKBOOK" validate:"required_if=Source xlsx"`

	Postgres PostgresConfig `yaml:"postgres" envconfig:"POSTGRES"`
	Tables   TablesConfig   `yaml:"tables" envconfig:"TABLES"`
	Prices   PricesConfig   `yaml:"prices" envconfig:"PRICES"`

	// Encodings is the decode order for text sources.
	Encodings []string `yaml:"encodings" envconfig:"ENCODINGS" validate:"min=1,dive,required"`
	Sentinel  string   `yaml:"sentinel" envconfig:"SENTINEL" validate:"required"`
	TopN      int      `yaml:"top_n" envconfig:"TOP_N" validate:"min=1"`

	ExportDir string `yaml:"export_dir" envconfig:"EXPORT_DIR"`
	// ExportDSN, when set, also stores each exported pass in PostgreSQL.
	ExportDSN string        `yaml:"export_dsn" envconfig:"EXPORT_DSN"`
	Logging   LoggingConfig `yaml:"logging" envconfig:"LOG"`
}

type PostgresConfig struct {
	DSN    string `yaml:"dsn" envconfig:"DSN"`
	Schema string `yaml:"schema" envconfig:"SCHEMA"`
	// OrderColumn, when set, orders rows and is dropped from the table.
	OrderColumn string `yaml:"order_column" envconfig:"ORDER_COLUMN"`
}

type TablesConfig struct {
	Clinicians string `yaml:"clinicians" envconfig:"CLINICIANS" validate:"required"`
	Services   string `yaml:"services" envconfig:"SERVICES" validate:"required"`
	Mapping    string `yaml:"mapping" envconfig:"MAPPING" validate:"required"`
}

type PricesConfig struct {
	Layout    string   `yaml:"layout" envconfig:"LAYOUT" validate:"oneof=combined per-category"`
	Locations []string `yaml:"locations" envconfig:"LOCATIONS" validate:"min=1,dive,required"`
	// Tables is YAML only.
	Tables []PriceTableConfig `yaml:"tables" ignored:"true" validate:"min=1,dive"`
}

type PriceTableConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Category string `yaml:"category"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json console"`
}

// Default returns the settings used when nothing overrides them. They
// match the file names of the clinic's own exports.
func Default() Config {
	return Config{
		Source:  SourceCSV,
		DataDir: "data",
		Tables: TablesConfig{
			Clinicians: "clinicians",
			Services:   "services",
			Mapping:    "doctor_services_mapping",
		},
		Prices: PricesConfig{
			Layout:    string(ingest.LayoutCombined),
			Locations: append([]string(nil), ingest.DefaultLocations...),
			Tables:    []PriceTableConfig{{Name: "Lyca_prices"}},
		},
		Encodings: append([]string(nil), source.DefaultEncodings...),
		Sentinel:  membership.Sentinel,
		TopN:      stats.DefaultTopN,
		ExportDir: "export",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration. path may be empty; a named file that does
// not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if err := source.ValidateEncodings(c.Encodings); err != nil {
		return err
	}
	if c.Source == SourcePostgres && c.Postgres.DSN == "" {
		return errors.New("postgres source needs a DSN")
	}
	if ingest.Layout(c.Prices.Layout) == ingest.LayoutPerCategory {
		for _, t := range c.Prices.Tables {
			if t.Category == "" {
				return fmt.Errorf("price table %q: per-category layout needs a category", t.Name)
			}
		}
	}
	return nil
}

// Sources names the tables of one ingestion pass.
func (c *Config) Sources() ingest.Sources {
	s := ingest.Sources{
		Clinicians: c.Tables.Clinicians,
		Services:   c.Tables.Services,
		Mapping:    c.Tables.Mapping,
	}
	for _, t := range c.Prices.Tables {
		s.Prices = append(s.Prices, ingest.PriceTable{Name: t.Name, Category: t.Category})
	}
	return s
}

func (c *Config) IngestOptions() ingest.Options {
	return ingest.Options{
		Layout:    ingest.Layout(c.Prices.Layout),
		Locations: c.Prices.Locations,
		Sentinel:  c.Sentinel,
	}
}
