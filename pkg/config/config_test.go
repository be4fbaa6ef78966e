package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Sternrassler/cloudhealth-client/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Getenv: envFrom(map[string]string{EnvAPIKey: "secret"})})
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Token())
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL().String())
	assert.Equal(t, DefaultPageSize, cfg.PageSize())
	assert.Equal(t, logging.LevelNone, cfg.LogLevel())
}

func TestLoad_MissingToken(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unset", env: map[string]string{}},
		{name: "empty", env: map[string]string{EnvAPIKey: ""}},
		{name: "whitespace", env: map[string]string{EnvAPIKey: "  \n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(LoadOptions{Getenv: envFrom(tt.env)})
			require.Error(t, err)
			assert.Nil(t, cfg)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, EnvAPIKey, cfgErr.Key)
			assert.ErrorIs(t, err, ErrMissingToken)
			assert.Contains(t, err.Error(), EnvAPIKey)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfg, err := Load(LoadOptions{Getenv: envFrom(map[string]string{
		EnvAPIKey:   "secret",
		EnvBaseURL:  "http://127.0.0.1:8080/api",
		EnvLogLevel: "debug",
	})})
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080/api/", cfg.BaseURL().String())
	assert.Equal(t, logging.LevelDebug, cfg.LogLevel())
}

func TestLoad_FilePrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chcli.yaml")
	content := "base_url: https://file.example.com/\npage_size: 25\nlog_level: warn\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(LoadOptions{
		File:   path,
		Getenv: envFrom(map[string]string{EnvAPIKey: "secret", EnvLogLevel: "info"}),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com/", cfg.BaseURL().String())
	assert.Equal(t, 25, cfg.PageSize())
	assert.Equal(t, logging.LevelInfo, cfg.LogLevel(), "env should win over file")

	cfg, err = Load(LoadOptions{
		File:      path,
		Overrides: Overrides{LogLevel: "error"},
		Getenv:    envFrom(map[string]string{EnvAPIKey: "secret", EnvLogLevel: "info"}),
	})
	require.NoError(t, err)
	assert.Equal(t, logging.LevelError, cfg.LogLevel(), "override should win over env")
}

func TestLoad_FileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("page_size: [not, a, number]\n"), 0o600))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.yaml")},
		{name: "malformed yaml", path: bad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(LoadOptions{
				File:   tt.path,
				Getenv: envFrom(map[string]string{EnvAPIKey: "secret"}),
			})
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.path, cfgErr.Key)
		})
	}
}

func TestNew_Validation(t *testing.T) {
	valid := DefaultSettings()
	valid.APIKey = "secret"

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantKey string
	}{
		{name: "valid", mutate: func(*Settings) {}},
		{name: "relative base url", mutate: func(s *Settings) { s.BaseURL = "/v1/" }, wantKey: "base_url"},
		{name: "ftp base url", mutate: func(s *Settings) { s.BaseURL = "ftp://example.com/" }, wantKey: "base_url"},
		{name: "empty base url", mutate: func(s *Settings) { s.BaseURL = "" }, wantKey: "base_url"},
		{name: "zero page size", mutate: func(s *Settings) { s.PageSize = 0 }, wantKey: "page_size"},
		{name: "negative page size", mutate: func(s *Settings) { s.PageSize = -5 }, wantKey: "page_size"},
		{name: "unknown log level", mutate: func(s *Settings) { s.LogLevel = "loud" }, wantKey: "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)

			cfg, err := New(s)
			if tt.wantKey == "" {
				require.NoError(t, err)
				assert.NotNil(t, cfg)
				return
			}

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
			assert.True(t, errors.Is(err, ErrInvalidValue))
		})
	}
}

func TestConfig_HeadersAreCopies(t *testing.T) {
	s := DefaultSettings()
	s.APIKey = "tok"
	cfg, err := New(s)
	require.NoError(t, err)

	h := cfg.Headers()
	assert.Equal(t, "Bearer tok", h.Get("Authorization"))
	assert.Equal(t, "application/json", h.Get("Content-Type"))

	h.Set("Authorization", "Bearer tampered")
	assert.Equal(t, "Bearer tok", cfg.Headers().Get("Authorization"))

	u := cfg.BaseURL()
	u.Host = "evil.example.com"
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL().String())
}

func TestConfig_StringHidesToken(t *testing.T) {
	s := DefaultSettings()
	s.APIKey = "very-secret"
	cfg, err := New(s)
	require.NoError(t, err)

	assert.NotContains(t, cfg.String(), "very-secret")
}
