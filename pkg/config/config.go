package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Log      LogConfig
	Upload   UploadConfig
	Import   ImportConfig
	Image    ImageConfig
	Mirror   MirrorConfig
	Notify   NotifyConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type AdminConfig struct {
	Email    string
	Password string
}

type LogConfig struct {
	Level       string
	Environment string
}

type UploadConfig struct {
	Dir             string // yerel upload kök dizini
	PublicURLPrefix string
	StagingDir      string
	StagingMaxAge   time.Duration
	MaxUploadBytes  int
}

type ImportConfig struct {
	City             string
	FallbackDistrict string
	Districts        []string
	DistrictsFile    string
	Timeout          time.Duration
	PlaceholderPrice float64
}

type ImageConfig struct {
	Transcode    bool
	Quality      float32
	ThumbQuality float32
	ThumbSize    int
	CacheSize    int
	CacheTTL     time.Duration
}

// MirrorConfig R2/S3 yansıtma ayarları; Bucket boşsa devre dışı.
type MirrorConfig struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	Bucket     string
	Endpoint   string
	CDNBaseURL string
}

func (m MirrorConfig) Enabled() bool {
	return m.Bucket != ""
}

// NotifyConfig import raporu e-postası; APIKey veya To boşsa gönderilmez.
type NotifyConfig struct {
	ResendAPIKey string
	From         string
	To           string
}

func (n NotifyConfig) Enabled() bool {
	return n.ResendAPIKey != "" && n.To != ""
}

var DefaultDistricts = []string{"Beachfront", "Downtown", "Dubai Hills", "Marina Shores", "The Oasis"}

func Load() *Config {
	godotenv.Load() // .env dosyasını yükle

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-me"),
			TTL:    getDuration("JWT_TTL", 24*time.Hour),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Upload: UploadConfig{
			Dir:             getEnv("UPLOAD_DIR", "uploads"),
			PublicURLPrefix: strings.TrimRight(getEnv("PUBLIC_URL_PREFIX", "/uploads"), "/"),
			StagingDir:      getEnv("STAGING_DIR", os.TempDir()),
			StagingMaxAge:   getDuration("STAGING_MAX_AGE", 6*time.Hour),
			MaxUploadBytes:  getInt("MAX_UPLOAD_MB", 512) * 1024 * 1024,
		},
		Import: ImportConfig{
			City:             getEnv("IMPORT_CITY", "Dubai"),
			FallbackDistrict: getEnv("IMPORT_FALLBACK_DISTRICT", "Downtown"),
			Districts:        getList("IMPORT_DISTRICTS", DefaultDistricts),
			DistrictsFile:    getEnv("IMPORT_DISTRICTS_FILE", ""),
			Timeout:          getDuration("IMPORT_TIMEOUT", 5*time.Minute),
			PlaceholderPrice: getFloat("IMPORT_PLACEHOLDER_PRICE", 1000000),
		},
		Image: ImageConfig{
			Transcode:    getBool("IMAGE_TRANSCODE", true),
			Quality:      float32(getFloat("WEBP_QUALITY", 85)),
			ThumbQuality: float32(getFloat("THUMB_QUALITY", 70)),
			ThumbSize:    getInt("THUMB_SIZE", 200),
			CacheSize:    getInt("IMAGE_CACHE_SIZE", 256),
			CacheTTL:     getDuration("IMAGE_CACHE_TTL", 10*time.Minute),
		},
		Mirror: MirrorConfig{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			Bucket:     getEnv("R2_BUCKET_NAME", ""),
			Endpoint:   getEnv("R2_ENDPOINT", ""),
			CDNBaseURL: strings.TrimRight(getEnv("CDN_BASE_URL", ""), "/"),
		},
		Notify: NotifyConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("EMAIL_FROM", "Estate Portal <noreply@example.com>"),
			To:           getEnv("IMPORT_REPORT_EMAIL", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v >= 0 {
		return v
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && v >= 0 {
		return v
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return defaultValue
}

// getList virgülle ayrılmış listeyi okur
func getList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultValue...)
	}
	return out
}
