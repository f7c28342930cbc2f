package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_EnvOverridesNestedKeys(t *testing.T) {
	t.Setenv("REWEAR_HTTP_PORT", "9999")
	t.Setenv("REWEAR_MONGO_URI", "mongodb://envhost:27017")
	t.Setenv("REWEAR_JWT_SECRET", "env-secret")

	cfg, err := LoadConfig("./does-not-exist")
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.HTTP.Port)
	assert.Equal(t, "mongodb://envhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
}

func TestLoadConfig_DefaultsWithoutFileOrEnv(t *testing.T) {
	cfg, err := LoadConfig("./does-not-exist")
	require.NoError(t, err)

	assert.Equal(t, "rewear", cfg.Mongo.Database)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, 168*time.Hour, cfg.JWT.TokenTTL)
}
