package cmd_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"labflow/cmd"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() cmd.Config {
	return cmd.Config{
		HTTPPort:         "8080",
		Store:            cmd.StoreTypeMemory,
		LogLevel:         "info",
		LogFormat:        cmd.LogFormatJSON,
		SLASweepSchedule: "@every 5m",
	}
}

func TestCompositionRoot_ServesAPIOnMemoryStore(t *testing.T) {
	root, err := cmd.NewCompositionRoot(memoryConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer root.Close()

	e, err := root.CreateHTTPRouter()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders",
		strings.NewReader(`{"patientRef":"patient-1","physicianRef":"dr-who","priority":"stat"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "PENDING", created["status"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/active", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), created["orderNumber"])
}

func TestCompositionRoot_JobsStartAndStop(t *testing.T) {
	root, err := cmd.NewCompositionRoot(memoryConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer root.Close()

	jm := root.CreateJobManager()

	require.NoError(t, jm.StartAll())
	jm.StopAll()
}

func TestCompositionRoot_RejectsMissingCatalog(t *testing.T) {
	cfg := memoryConfig()
	cfg.TestCatalogPath = "/nonexistent/catalog.yaml"

	_, err := cmd.NewCompositionRoot(cfg, zerolog.Nop())

	assert.Error(t, err)
}

func TestOpenSQL_RequiresPostgresStore(t *testing.T) {
	_, err := cmd.OpenSQL(memoryConfig())

	assert.ErrorIs(t, err, cmd.ErrNoDatabase)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := memoryConfig()
	cfg.LogLevel = "warn"

	logger, err := cmd.NewLogger(cfg, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("component", "test").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "labflow", entry["service"])
	assert.Equal(t, "warn", entry["level"])
}
