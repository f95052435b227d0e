package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path"},
		Auth:   AuthConfig{TokenKeyHex: strings.Repeat("ab", 32)},
		Extension: ExtensionConfig{
			RateLimitRPS:   5,
			RateLimitBurst: 10,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_TokenKey(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.TokenKeyHex = ""
	assert.Error(t, cfg.Validate(), "missing key")

	cfg.Auth.TokenKeyHex = "zz"
	assert.Error(t, cfg.Validate(), "non-hex key")

	cfg.Auth.TokenKeyHex = "abcd"
	assert.Error(t, cfg.Validate(), "short key")
}

func TestValidate_RateLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Extension.RateLimitRPS = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Extension.RateLimitBurst = -1
	assert.Error(t, cfg.Validate())
}

func TestExpandDataPaths_Derived(t *testing.T) {
	cfg := validConfig()
	cfg.Data = DataConfig{BasePath: "/data/kitaplik"}

	require.NoError(t, cfg.expandDataPaths())

	assert.Equal(t, "/data/kitaplik", cfg.Data.BasePath)
	assert.Equal(t, filepath.Join("/data/kitaplik", "kitaplik.db"), cfg.Data.DatabasePath)
	assert.Equal(t, filepath.Join("/data/kitaplik", "cache"), cfg.Data.CachePath)
	assert.Equal(t, filepath.Join("/data/kitaplik", "index"), cfg.Data.IndexPath)
	assert.Equal(t, filepath.Join("/data/kitaplik", "catalog"), cfg.Data.CatalogPath)
}

func TestExpandDataPaths_ExplicitOverride(t *testing.T) {
	cfg := validConfig()
	cfg.Data = DataConfig{
		BasePath:     "/data/kitaplik",
		DatabasePath: "/elsewhere/library.db",
	}

	require.NoError(t, cfg.expandDataPaths())

	assert.Equal(t, "/elsewhere/library.db", cfg.Data.DatabasePath)
	assert.Equal(t, filepath.Join("/data/kitaplik", "cache"), cfg.Data.CachePath)
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t,
		[]string{"https://kitaplik.app", "http://localhost:5173"},
		splitOrigins("https://kitaplik.app, http://localhost:5173"))
	assert.Nil(t, splitOrigins(""))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nTEST_KITAPLIK_VAR=deneme\nTEST_KITAPLIK_QUOTED=\"quoted\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("TEST_KITAPLIK_VAR")
		os.Unsetenv("TEST_KITAPLIK_QUOTED")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "deneme", os.Getenv("TEST_KITAPLIK_VAR"))
	assert.Equal(t, "quoted", os.Getenv("TEST_KITAPLIK_QUOTED"))
}
