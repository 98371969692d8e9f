package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicstats/internal/export"
)

func writeData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"clinicians.csv":              "id,Name,Specialization\n1,Dr. A,Cardiology\n2,Dr. B,ENT Surgery\n",
		"services.csv":                "Services\nMRI\nCT Scan\n",
		"doctor_services_mapping.csv": "Name,Specialization,Services Offered\nDr. A,Cardiology,\"MRI, CT Scan\"\nDr. B,ENT Surgery,No Match\n",
		"Lyca_prices.csv":             "Service,Canary Wharf,Orpington\nMRI,,\nHead MRI,£500,£450\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestReportCommand(t *testing.T) {
	dir := writeData(t)
	out, _, err := execute(t, "report", "--data-dir", dir, "--log-level", "warn")
	require.NoError(t, err)

	assert.Contains(t, out, "clinicians: 2")
	assert.Contains(t, out, "mapping rate: 50.0%")
	assert.Contains(t, out, "Service coverage")
	assert.Contains(t, out, "Prices: MRI")
	assert.Contains(t, out, "Head MRI")
	assert.Contains(t, out, "ENT")
}

func TestReportListsEveryMissingSource(t *testing.T) {
	_, errOut, err := execute(t, "report", "--data-dir", t.TempDir(), "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, errOut, "ingestion failed, 4 error(s)")
	assert.Contains(t, errOut, "doctor_services_mapping")
}

func TestExportCommand(t *testing.T) {
	dir := writeData(t)
	out := filepath.Join(t.TempDir(), "parquet")
	_, _, err := execute(t, "export", "--data-dir", dir, "--out", out)
	require.NoError(t, err)

	for _, name := range []string{export.PricesFile, export.CoverageFile, export.DepartmentsFile, export.DeltasFile} {
		assert.FileExists(t, filepath.Join(out, name))
	}
}

func TestSearchCommand(t *testing.T) {
	dir := writeData(t)
	out, _, err := execute(t, "search", "head", "--data-dir", dir, "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "Head MRI")
	assert.Contains(t, out, "500")
}

func TestClassifyCommand(t *testing.T) {
	out, _, err := execute(t, "classify", "Consultant Cardiologist", "Pain Management", "Radiology")
	require.NoError(t, err)
	assert.Contains(t, out, "Consultant Cardiologist\tCardiology\n")
	assert.Contains(t, out, "Pain Management\tENT\n")
	assert.Contains(t, out, "Radiology\tOther Specialties\n")
}

func TestInvalidSourceFlag(t *testing.T) {
	_, errOut, err := execute(t, "classify", "x", "--source", "sqlite")
	require.Error(t, err)
	assert.Contains(t, errOut, "invalid configuration")
}
