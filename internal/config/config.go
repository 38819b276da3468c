// Package config reads the FloraBase client (and devapi) settings from the
// environment. A .env file in the working directory is loaded first when it
// exists; variables already set in the environment win over it.
//
//	FLORABASE_API_URL       backend base URL        http://localhost:5000/api
//	FLORABASE_STORAGE_PATH  session database        $HOME/.florabase/storage.db
//	FLORABASE_LOG_LEVEL     debug|info|warn|error   warn
//	FLORABASE_DEBOUNCE      search debounce         300ms
//	FLORABASE_TIMEOUT       per-request timeout     15s
//	MAPS_API_KEY            map link key            (none)
//	DEVAPI_PORT             devapi listen port      5000
//	DEVAPI_JWT_SECRET       devapi signing secret   (required by devapi)
//	DEVAPI_ADMIN_EMAIL      seeded admin account    admin@florabase.local
//	DEVAPI_ADMIN_PASSWORD   seeded admin password   (no admin when empty)
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIURL      string
	StoragePath string
	LogLevel    slog.Level
	Debounce    time.Duration
	Timeout     time.Duration
	MapsAPIKey  string

	DevAPI DevAPI
}

// DevAPI configures cmd/devapi.
type DevAPI struct {
	Port          int
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
}

// Load reads the configuration. files are extra .env paths; with none, ".env"
// is tried. Missing files are not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}

	storage, err := defaultStoragePath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIURL:      strings.TrimRight(getEnv("FLORABASE_API_URL", "http://localhost:5000/api"), "/"),
		StoragePath: getEnv("FLORABASE_STORAGE_PATH", storage),
		MapsAPIKey:  os.Getenv("MAPS_API_KEY"),
		DevAPI: DevAPI{
			JWTSecret:     os.Getenv("DEVAPI_JWT_SECRET"),
			AdminEmail:    getEnv("DEVAPI_ADMIN_EMAIL", "admin@florabase.local"),
			AdminPassword: os.Getenv("DEVAPI_ADMIN_PASSWORD"),
		},
	}

	if u, err := url.Parse(cfg.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("config: FLORABASE_API_URL %q must be an http(s) URL", cfg.APIURL)
	}
	if cfg.LogLevel, err = parseLevel(getEnv("FLORABASE_LOG_LEVEL", "warn")); err != nil {
		return nil, err
	}
	if cfg.Debounce, err = getDuration("FLORABASE_DEBOUNCE", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = getDuration("FLORABASE_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	port := getEnv("DEVAPI_PORT", "5000")
	if cfg.DevAPI.Port, err = strconv.Atoi(port); err != nil || cfg.DevAPI.Port <= 0 || cfg.DevAPI.Port > 65535 {
		return nil, fmt.Errorf("config: DEVAPI_PORT %q is not a valid port", port)
	}

	return cfg, nil
}

func defaultStoragePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: locating home directory: %w", err)
	}
	return filepath.Join(home, ".florabase", "storage.db"), nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: %s %q is not a positive duration", key, raw)
	}
	return d, nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: FLORABASE_LOG_LEVEL %q: %w", s, err)
	}
	return l, nil
}
