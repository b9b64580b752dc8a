// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Corpus  CorpusConfig
	Extract ExtractConfig
	Rakuten RakutenConfig
	Cache   CacheConfig
	Server  ServerConfig
	Session SessionConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// CorpusConfig holds the corpus and word-list file locations.
type CorpusConfig struct {
	// Path to the corpus CSV. Required; startup fails without it.
	Path string
	// StopwordsPath is optional; a built-in default set is used if absent.
	StopwordsPath string
	// KeywordsPath is an optional forced-keyword list; may be empty.
	KeywordsPath string
}

// ExtractConfig holds the descriptive-word extraction policy.
type ExtractConfig struct {
	// WordForm selects "base" (dictionary form) or "surface" output.
	WordForm string
	// IncludeAdjectivalNouns extends the target POS classes beyond adjectives.
	IncludeAdjectivalNouns bool
}

// RakutenConfig holds the external book-metadata service configuration.
type RakutenConfig struct {
	// ApplicationID is the API credential. Empty means lookups are
	// unconfigured and the detail view degrades to placeholders.
	ApplicationID string
	// Endpoint overrides the API base URL, mainly for tests.
	Endpoint string
}

// CacheConfig holds the on-disk cache configuration.
type CacheConfig struct {
	// Dir is the Badger database directory for the metadata cache.
	Dir string
	// MetadataTTL is how long fetched metadata stays fresh.
	MetadataTTL time.Duration
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SessionConfig holds user-session lifecycle configuration.
type SessionConfig struct {
	// TTL after which an idle session is swept.
	TTL time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	corpusPath := flag.String("corpus", "", "Path to the corpus CSV file")
	stopwordsPath := flag.String("stopwords", "", "Path to the stopword list file")
	keywordsPath := flag.String("keywords", "", "Path to the forced-keyword list file")
	wordForm := flag.String("word-form", "", "Descriptive word form: base or surface (default: base)")
	adjNouns := flag.String("adjectival-nouns", "", "Also extract adjectival nouns (default: false)")
	rakutenAppID := flag.String("rakuten-app-id", "", "Rakuten Books application ID")
	cacheDir := flag.String("cache-dir", "", "Directory for the metadata cache database")
	metadataTTL := flag.String("metadata-ttl", "", "Metadata cache freshness window (default: 168h)")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	sessionTTL := flag.String("session-ttl", "", "Idle session lifetime (default: 1h)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Corpus: CorpusConfig{
			Path:          getConfigValue(*corpusPath, "CORPUS_PATH", "corpus.csv"),
			StopwordsPath: getConfigValue(*stopwordsPath, "STOPWORDS_PATH", ""),
			KeywordsPath:  getConfigValue(*keywordsPath, "KEYWORDS_PATH", ""),
		},
		Extract: ExtractConfig{
			WordForm:               getConfigValue(*wordForm, "WORD_FORM", "base"),
			IncludeAdjectivalNouns: getBoolConfigValue(*adjNouns, "ADJECTIVAL_NOUNS", false),
		},
		Rakuten: RakutenConfig{
			ApplicationID: getConfigValue(*rakutenAppID, "RAKUTEN_APP_ID", ""),
			Endpoint:      getConfigValue("", "RAKUTEN_ENDPOINT", ""),
		},
		Cache: CacheConfig{
			Dir: getConfigValue(*cacheDir, "CACHE_DIR", ""),
		},
		Server: ServerConfig{
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
	}

	// Parse durations.
	var err error
	if cfg.Cache.MetadataTTL, err = parseDurationValue(*metadataTTL, "METADATA_TTL", "168h"); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Session.TTL, err = parseDurationValue(*sessionTTL, "SESSION_TTL", "1h"); err != nil {
		return nil, err
	}

	// Default the cache directory next to the corpus file.
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(cfg.Corpus.Path), ".kansou-cache")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Corpus.Path == "" {
		return errors.New("corpus path is required")
	}

	switch c.Extract.WordForm {
	case "base", "surface":
	default:
		return fmt.Errorf("invalid word form: %s (must be base or surface)", c.Extract.WordForm)
	}

	// Rakuten application ID may be empty - metadata lookups then report
	// an unconfigured state instead of failing startup.

	return nil
}

// getConfigValue returns the first non-empty value with precedence:
// flag > environment variable > default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue is getConfigValue for booleans.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	raw := getConfigValue(flagValue, envKey, "")
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return b
}

// parseDurationValue resolves and parses a duration setting.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	raw := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), raw, err)
	}
	return d, nil
}

// loadEnvFile loads environment variables from a file in KEY=VALUE format.
// Lines starting with # are ignored. Existing environment variables win.
func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)

		// Don't override existing environment variables.
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}
