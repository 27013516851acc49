package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.DatabaseDriver)
	assert.Equal(t, 10*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.CloudinaryEnabled())
	assert.Empty(t, cfg.SpoonacularAPIKey)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_SpoonacularKeyAlias(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SPOONACULAR_KEY", "alt-key")
	t.Setenv("SPOONACULAR_BASE_URL", "http://catalog.local/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "alt-key", cfg.SpoonacularAPIKey)
	assert.Equal(t, "http://catalog.local", cfg.SpoonacularBaseURL)
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("ENV", "Production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_DRIVER", "postgres")

	_, err := Load()
	assert.Error(t, err)
}
