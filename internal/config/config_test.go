package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Service.Address)
	assert.Equal(t, []string{"*"}, cfg.Service.AllowedOrigins)
	assert.Equal(t, "./models/RE-Expander.apwz", cfg.Simulator.ModelPath)
	assert.Equal(t, "Apwn.Document", cfg.Simulator.ProgIDs[0])
	assert.Equal(t, 5*time.Minute, cfg.Simulator.Timeout)
	assert.Equal(t, uint32(3), cfg.Simulator.BreakerMaxFailures)
	assert.Equal(t, "local", cfg.Artifacts.Store)
	assert.Equal(t, "/static", cfg.Artifacts.URLPrefix)
	assert.True(t, cfg.Document.Workbook)
}

func TestNewFromEnvironment(t *testing.T) {
	t.Setenv("ASPEN_APWZ_FILE_PATH", `C:\models\plant.apwz`)
	t.Setenv("AUTO_ASPEN_SIMULATION_TIMEOUT", "90s")
	t.Setenv("AUTO_ASPEN_ARTIFACT_STORE", "minio")
	t.Setenv("AUTO_ASPEN_ALLOWED_ORIGINS", "http://a.example,http://b.example")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, `C:\models\plant.apwz`, cfg.Simulator.ModelPath)
	assert.Equal(t, 90*time.Second, cfg.Simulator.Timeout)
	assert.Equal(t, "minio", cfg.Artifacts.Store)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Service.AllowedOrigins)
}

func TestNewRejectsBadValues(t *testing.T) {
	t.Setenv("AUTO_ASPEN_SIMULATION_TIMEOUT", "soon")
	_, err := New()
	assert.Error(t, err)
}
