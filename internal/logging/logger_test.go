package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neerajpokala/NextWeather/internal/config"
)

func TestNew_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, &config.AppConfig{AppEnv: "prod", LogLevel: slog.LevelInfo}, "nextweather")

	log.Debug("hidden")
	log.Info("bundle fetched", "place", "Seattle, WA")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "bundle fetched", rec["msg"])
	assert.Equal(t, "nextweather", rec["app"])
	assert.Equal(t, "prod", rec["env"])
	assert.Equal(t, "Seattle, WA", rec["place"])
}

func TestNew_DevRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, &config.AppConfig{AppEnv: "dev", LogLevel: slog.LevelWarn}, "nextweather")

	log.Info("quiet")
	assert.Zero(t, buf.Len())

	log.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}
