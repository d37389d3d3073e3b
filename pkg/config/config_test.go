package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("IMPORT_DISTRICTS", "")
	t.Setenv("IMAGE_TRANSCODE", "")
	t.Setenv("PUBLIC_URL_PREFIX", "")
	t.Setenv("R2_BUCKET_NAME", "")
	t.Setenv("IMPORT_CITY", "")
	t.Setenv("IMPORT_FALLBACK_DISTRICT", "")
	t.Setenv("WEBP_QUALITY", "")
	t.Setenv("THUMB_QUALITY", "")
	t.Setenv("THUMB_SIZE", "")
	t.Setenv("RESEND_API_KEY", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, DefaultDistricts, cfg.Import.Districts)
	assert.Equal(t, "Downtown", cfg.Import.FallbackDistrict)
	assert.Equal(t, "Dubai", cfg.Import.City)
	assert.True(t, cfg.Image.Transcode)
	assert.Equal(t, float32(85), cfg.Image.Quality)
	assert.Equal(t, float32(70), cfg.Image.ThumbQuality)
	assert.Equal(t, 200, cfg.Image.ThumbSize)
	assert.Equal(t, "/uploads", cfg.Upload.PublicURLPrefix)
	assert.False(t, cfg.Mirror.Enabled())
	assert.False(t, cfg.Notify.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("IMPORT_DISTRICTS", " Jumeirah , Business Bay,,")
	t.Setenv("IMAGE_TRANSCODE", "false")
	t.Setenv("IMPORT_TIMEOUT", "90s")
	t.Setenv("PUBLIC_URL_PREFIX", "https://static.example.com/")
	t.Setenv("R2_BUCKET_NAME", "media")
	t.Setenv("RESEND_API_KEY", "re_123")
	t.Setenv("IMPORT_REPORT_EMAIL", "ops@example.com")

	cfg := Load()

	assert.Equal(t, []string{"Jumeirah", "Business Bay"}, cfg.Import.Districts)
	assert.False(t, cfg.Image.Transcode)
	assert.Equal(t, 90*time.Second, cfg.Import.Timeout)
	assert.Equal(t, "https://static.example.com", cfg.Upload.PublicURLPrefix)
	assert.True(t, cfg.Mirror.Enabled())
	assert.True(t, cfg.Notify.Enabled())
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("THUMB_SIZE", "-5")
	t.Setenv("WEBP_QUALITY", "abc")
	t.Setenv("STAGING_MAX_AGE", "0s")

	cfg := Load()

	assert.Equal(t, 200, cfg.Image.ThumbSize)
	assert.Equal(t, float32(85), cfg.Image.Quality)
	assert.Equal(t, 6*time.Hour, cfg.Upload.StagingMaxAge)
}
