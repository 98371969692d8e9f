package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info", "json")
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("table", "clinicians").Msg("table loaded")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "table loaded", entry["message"])
	assert.Equal(t, "clinicians", entry["table"])
	assert.Equal(t, "clinicstats", entry["service"])
	assert.Contains(t, entry, "caller")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "debug", "console")
	require.NoError(t, err)

	log.Debug().Msg("catalog built")
	assert.Contains(t, buf.String(), "catalog built")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)
}
