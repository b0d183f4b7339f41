package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	PresetsFile  string // empty: use the compiled-in table
	DefaultLevel string

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	LogLevel       slog.Level
	RequestTimeout time.Duration
}

// Load reads an optional .env file (or the files named) and then the environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Config{}, err
		}
	}
	return FromEnv(), nil
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           envOr("HTTP_ADDR", ":8080"),
		PresetsFile:        os.Getenv("PRESETS_FILE"),
		DefaultLevel:       envOr("DEFAULT_LEVEL", "extendedDiploma"),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://grades.mindengage.ai"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),
		LogLevel:           envLevel("LOG_LEVEL", slog.LevelInfo),
		RequestTimeout:     envDuration("REQUEST_TIMEOUT", 30*time.Second),
	}
}

// CORSOrigins returns the allowed origins for the configured mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envLevel(k string, def slog.Level) slog.Level {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return def
	}
	return lvl
}
func envDuration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
