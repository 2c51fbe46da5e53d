package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	MongoURI      string
	MongoDB       string
	JWTSecret     string
	TokenTTL      time.Duration
	CORSOrigins   []string
	DefaultLocale string

	// Office directory. The first non-empty source wins:
	// database, then file, then URL.
	OfficeDatabaseURL   string
	OfficeDirectoryFile string
	OfficeDirectoryURL  string
	OfficeFetchTimeout  time.Duration
	OfficeCacheTTL      time.Duration
	GeofenceRadius      float64

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	MediaBaseURL        string
	UploadTimeout       time.Duration

	// ReviewLock rejects a second review of an already reviewed check-in.
	ReviewLock bool
}

// Load reads configuration from the environment, after merging a .env
// file from the working directory if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(lookup func(string) string) (*Config, error) {
	e := env{lookup: lookup}
	cfg := &Config{
		Port:                e.str("PORT", "5000"),
		Env:                 e.str("ENV", "development"),
		MongoURI:            e.str("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:             e.str("MONGODB_DATABASE", "attendance"),
		JWTSecret:           e.str("JWT_SECRET", ""),
		TokenTTL:            e.duration("TOKEN_TTL", 24*time.Hour),
		CORSOrigins:         e.list("CORS_ORIGINS", []string{"*"}),
		DefaultLocale:       e.str("DEFAULT_LOCALE", "en"),
		OfficeDatabaseURL:   e.str("OFFICE_DATABASE_URL", ""),
		OfficeDirectoryFile: e.str("OFFICE_DIRECTORY_FILE", ""),
		OfficeDirectoryURL:  e.str("OFFICE_DIRECTORY_URL", ""),
		OfficeFetchTimeout:  e.duration("OFFICE_FETCH_TIMEOUT", 5*time.Second),
		OfficeCacheTTL:      e.duration("OFFICE_CACHE_TTL", time.Minute),
		GeofenceRadius:      e.float("GEOFENCE_RADIUS_METERS", 250),
		CloudinaryCloudName: e.str("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    e.str("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: e.str("CLOUDINARY_API_SECRET", ""),
		MediaBaseURL:        strings.TrimRight(e.str("MEDIA_BASE_URL", "https://api.cloudinary.com"), "/"),
		UploadTimeout:       e.duration("UPLOAD_TIMEOUT", 30*time.Second),
		ReviewLock:          e.bool("REVIEW_LOCK", false),
	}
	if e.err != nil {
		return nil, e.err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	if cfg.OfficeDatabaseURL == "" && cfg.OfficeDirectoryFile == "" && cfg.OfficeDirectoryURL == "" {
		return nil, errors.New("one of OFFICE_DATABASE_URL, OFFICE_DIRECTORY_FILE or OFFICE_DIRECTORY_URL must be set")
	}
	if cfg.GeofenceRadius <= 0 {
		return nil, errors.New("GEOFENCE_RADIUS_METERS must be positive")
	}
	return cfg, nil
}

// env collects the first parse error so Load can report it once.
type env struct {
	lookup func(string) string
	err    error
}

func (e *env) str(key, fallback string) string {
	if v := strings.TrimSpace(e.lookup(key)); v != "" {
		return v
	}
	return fallback
}

func (e *env) duration(key string, fallback time.Duration) time.Duration {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, err)
		return fallback
	}
	return d
}

func (e *env) float(key string, fallback float64) float64 {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, err)
		return fallback
	}
	return f
}

func (e *env) bool(key string, fallback bool) bool {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, err)
		return fallback
	}
	return b
}

func (e *env) list(key string, fallback []string) []string {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (e *env) fail(key string, err error) {
	if e.err == nil {
		e.err = errors.New("invalid " + key + ": " + err.Error())
	}
}
