package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"ENV", "HOST", "PORT", "MONGODB_URI", "MONGO_URI", "POSTGRES_URI",
		"REDIS_URI", "FRONTEND_URL", "ALLOWED_ORIGINS",
		"CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "mongodb://localhost:27017/lumen", cfg.MongoURI)
	assert.Equal(t, "postgres://localhost:5432/lumen?sslmode=disable", cfg.PostgresURI)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURI)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.AllowedHost)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoadProductionHostCheck(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("HOST", "https://api.lumen.app:443/v1")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "api.lumen.app", cfg.AllowedHost)
}

func TestLoadAllowedOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://lumen.app, https://www.lumen.app,")

	cfg := Load()

	assert.Equal(t, []string{"https://lumen.app", "https://www.lumen.app"}, cfg.AllowedOrigins)
}

func TestLoadMongoURIFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://db.internal:27017/lumen")

	cfg := Load()
	assert.Equal(t, "mongodb://db.internal:27017/lumen", cfg.MongoURI)
}
