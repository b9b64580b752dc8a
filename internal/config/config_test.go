package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Corpus: CorpusConfig{Path: "corpus.csv"},
		Extract: ExtractConfig{
			WordForm: "base",
		},
		Cache:   CacheConfig{Dir: "/tmp/cache", MetadataTTL: 168 * time.Hour},
		Server:  ServerConfig{Port: "8080"},
		Session: SessionConfig{TTL: time.Hour},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	for _, env := range []string{"development", "staging", "production"} {
		cfg := validConfig()
		cfg.App.Environment = env
		assert.NoError(t, cfg.Validate(), env)
	}

	for _, env := range []string{"", "prod", "test"} {
		cfg := validConfig()
		cfg.App.Environment = env
		assert.Error(t, cfg.Validate(), env)
	}
}

func TestValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
		cfg := validConfig()
		cfg.Logger.Level = level
		assert.NoError(t, cfg.Validate(), level)
	}

	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_CorpusPathRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Corpus.Path = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_WordForm(t *testing.T) {
	for _, form := range []string{"base", "surface"} {
		cfg := validConfig()
		cfg.Extract.WordForm = form
		assert.NoError(t, cfg.Validate(), form)
	}

	cfg := validConfig()
	cfg.Extract.WordForm = "lemma"
	assert.Error(t, cfg.Validate())
}

func TestValidate_EmptyRakutenIDAllowed(t *testing.T) {
	// Metadata lookups degrade to placeholders instead of failing startup.
	cfg := validConfig()
	cfg.Rakuten.ApplicationID = ""
	assert.NoError(t, cfg.Validate())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("KANSOU_TEST_KEY", "from-env")

	// Flag wins over environment.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "KANSOU_TEST_KEY", "default"))
	// Environment wins over default.
	assert.Equal(t, "from-env", getConfigValue("", "KANSOU_TEST_KEY", "default"))
	// Default when nothing else is set.
	assert.Equal(t, "default", getConfigValue("", "KANSOU_TEST_UNSET", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	assert.True(t, getBoolConfigValue("true", "KANSOU_TEST_UNSET", false))
	assert.False(t, getBoolConfigValue("false", "KANSOU_TEST_UNSET", true))
	assert.True(t, getBoolConfigValue("", "KANSOU_TEST_UNSET", true))
	// Garbage falls back to the default.
	assert.False(t, getBoolConfigValue("yep", "KANSOU_TEST_UNSET", false))
}

func TestParseDurationValue(t *testing.T) {
	d, err := parseDurationValue("90s", "KANSOU_TEST_UNSET", "15s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	d, err = parseDurationValue("", "KANSOU_TEST_UNSET", "15s")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)

	_, err = parseDurationValue("soon", "KANSOU_TEST_UNSET", "15s")
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `# comment line
KANSOU_ENV_A=value-a

KANSOU_ENV_B = "quoted value"
not a key value line
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("KANSOU_ENV_A", "")
	t.Setenv("KANSOU_ENV_B", "")
	os.Unsetenv("KANSOU_ENV_A")
	os.Unsetenv("KANSOU_ENV_B")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "value-a", os.Getenv("KANSOU_ENV_A"))
	assert.Equal(t, "quoted value", os.Getenv("KANSOU_ENV_B"))
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KANSOU_ENV_C=from-file\n"), 0o644))

	t.Setenv("KANSOU_ENV_C", "from-env")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "from-env", os.Getenv("KANSOU_ENV_C"))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
}
