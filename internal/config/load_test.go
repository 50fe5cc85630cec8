package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML file for testing.
func createTempYAMLFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	filePath := filepath.Join(dir, name)
	err := os.WriteFile(filePath, []byte(content), 0644)
	require.NoError(t, err, "Failed to create temporary file")
	return filePath
}

func TestLoadConfig_ValidCases(t *testing.T) {
	t.Run("Minimal Valid Config", func(t *testing.T) {
		validYAML := `
apis:
  - name: get_weather
    url: https://api.test/weather
    method: GET
`
		filePath := createTempYAMLFile(t, "config.yaml", validYAML)
		cfg, err := LoadConfig(filePath)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		require.Len(t, cfg.APIs, 1)
		assert.Equal(t, "get_weather", cfg.APIs[0].Name)
		assert.Equal(t, "https://api.test/weather", cfg.APIs[0].URL)
		assert.Equal(t, "GET", cfg.APIs[0].Method)
		assert.Nil(t, cfg.APIs[0].Params)
		assert.Nil(t, cfg.APIs[0].SetEnv)
	})

	t.Run("Full Step Definition", func(t *testing.T) {
		validYAML := `
apis:
  - name: get_point
    url: https://api.weather.gov/points/{{lat}},{{lon}}
    method: GET
    headers:
      Accept: application/geo+json
    set_env:
      forecast_url: properties.forecast
  - name: post_observation
    url: https://api.test/observations
    method: POST
    payload_file: observation.json
    params:
      station: "{{station_id}}"
`
		filePath := createTempYAMLFile(t, "config.yaml", validYAML)
		cfg, err := LoadConfig(filePath)
		require.NoError(t, err)
		require.Len(t, cfg.APIs, 2)

		first := cfg.APIs[0]
		assert.Equal(t, "https://api.weather.gov/points/{{lat}},{{lon}}", first.URL)
		assert.Equal(t, "application/geo+json", first.Headers["Accept"])
		assert.Equal(t, "properties.forecast", first.SetEnv["forecast_url"])

		second := cfg.APIs[1]
		assert.Equal(t, "POST", second.Method)
		assert.Equal(t, "observation.json", second.PayloadFile)
		assert.Equal(t, "{{station_id}}", second.Params["station"])
	})

	t.Run("Step Order Preserved", func(t *testing.T) {
		validYAML := `
apis:
  - { name: first, url: http://a.test, method: GET }
  - { name: second, url: http://b.test, method: GET }
  - { name: third, url: http://c.test, method: GET }
`
		filePath := createTempYAMLFile(t, "config.yaml", validYAML)
		cfg, err := LoadConfig(filePath)
		require.NoError(t, err)
		require.Len(t, cfg.APIs, 3)
		assert.Equal(t, "first", cfg.APIs[0].Name)
		assert.Equal(t, "second", cfg.APIs[1].Name)
		assert.Equal(t, "third", cfg.APIs[2].Name)
	})
}

func TestLoadConfig_ErrorCases(t *testing.T) {
	t.Run("File Not Found", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("Invalid YAML Syntax", func(t *testing.T) {
		filePath := createTempYAMLFile(t, "config.yaml", "apis:\n  - name: broken\n   url: oops\n")
		cfg, err := LoadConfig(filePath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to parse YAML")
	})

	t.Run("Wrong Shape", func(t *testing.T) {
		// apis as a mapping instead of a list.
		filePath := createTempYAMLFile(t, "config.yaml", "apis:\n  get_weather:\n    url: http://x.test\n")
		cfg, err := LoadConfig(filePath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to parse YAML")
	})

	t.Run("Empty File", func(t *testing.T) {
		filePath := createTempYAMLFile(t, "config.yaml", "")
		cfg, err := LoadConfig(filePath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "at least one API check is required")
	})
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	t.Run("Missing URL", func(t *testing.T) {
		filePath := createTempYAMLFile(t, "config.yaml", `
apis:
  - name: no_url
    method: GET
`)
		cfg, err := LoadConfig(filePath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "configuration validation failed")
		assert.Contains(t, err.Error(), "apis[0] 'no_url'.url: required")
	})

	t.Run("Missing Name And Method", func(t *testing.T) {
		filePath := createTempYAMLFile(t, "config.yaml", `
apis:
  - url: http://a.test
`)
		_, err := LoadConfig(filePath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "apis[0].name: required")
		assert.Contains(t, err.Error(), "apis[0].method: required")
	})

	t.Run("All Problems Reported At Once", func(t *testing.T) {
		filePath := createTempYAMLFile(t, "config.yaml", `
apis:
  - name: first
    method: GET
  - name: second
    url: http://b.test
`)
		_, err := LoadConfig(filePath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "apis[0] 'first'.url: required")
		assert.Contains(t, err.Error(), "apis[1] 'second'.method: required")
	})
}

func TestLoadSettings(t *testing.T) {
	t.Run("Scalars Seed Vars", func(t *testing.T) {
		envYAML := `
lat: 39.7456
lon: -97.0892
payload_dir: ./payloads
result_dir: ./results
station_id: KSLN
`
		filePath := createTempYAMLFile(t, "env.yaml", envYAML)
		settings, err := LoadSettings(filePath)
		require.NoError(t, err)
		require.NotNil(t, settings)

		assert.Equal(t, "39.7456", settings.Vars["lat"])
		assert.Equal(t, "-97.0892", settings.Vars["lon"])
		assert.Equal(t, "KSLN", settings.Vars["station_id"])
		assert.Equal(t, "./payloads", settings.PayloadDir)
		assert.Equal(t, "./results", settings.ResultDir)
	})

	t.Run("Email Block Excluded From Vars", func(t *testing.T) {
		envYAML := `
lat: 39.7456
email:
  sender: sender@test.com
  recipient: dest@test.com
  smtp_server: smtp.test.com
  smtp_port: 587
  password: secret
`
		filePath := createTempYAMLFile(t, "env.yaml", envYAML)
		settings, err := LoadSettings(filePath)
		require.NoError(t, err)

		assert.Equal(t, "sender@test.com", settings.Email.Sender)
		assert.Equal(t, "dest@test.com", settings.Email.Recipient)
		assert.Equal(t, "smtp.test.com", settings.Email.SMTPServer)
		assert.Equal(t, 587, settings.Email.SMTPPort)
		assert.Equal(t, "secret", settings.Email.Password)

		_, hasEmail := settings.Vars["email"]
		assert.False(t, hasEmail, "nested email block must not leak into the variable store")
		_, hasPassword := settings.Vars["password"]
		assert.False(t, hasPassword)
		assert.Equal(t, "39.7456", settings.Vars["lat"])
	})

	t.Run("Environment Variables Expanded In Paths", func(t *testing.T) {
		t.Setenv("SANITY_BASE", "/opt/sanity")
		envYAML := `
payload_dir: $SANITY_BASE/payloads
result_dir: ${SANITY_BASE}/results
HTML_TEMPLATE_FILE: $SANITY_BASE/template.html
`
		filePath := createTempYAMLFile(t, "env.yaml", envYAML)
		settings, err := LoadSettings(filePath)
		require.NoError(t, err)

		assert.Equal(t, "/opt/sanity/payloads", settings.PayloadDir)
		assert.Equal(t, "/opt/sanity/results", settings.ResultDir)
		assert.Equal(t, "/opt/sanity/template.html", settings.HTMLTemplateFile)

		// The store keeps the raw text so substitution sees what the file says.
		assert.Equal(t, "$SANITY_BASE/payloads", settings.Vars["payload_dir"])
	})

	t.Run("Windows Style Expansion", func(t *testing.T) {
		t.Setenv("RESULT_ROOT", "/srv/results")
		envYAML := `result_dir: "%RESULT_ROOT%/today"`
		filePath := createTempYAMLFile(t, "env.yaml", envYAML)
		settings, err := LoadSettings(filePath)
		require.NoError(t, err)
		assert.Equal(t, "/srv/results/today", settings.ResultDir)
	})

	t.Run("Missing File", func(t *testing.T) {
		settings, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Nil(t, settings)
		assert.Contains(t, err.Error(), "failed to read environment file")
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		filePath := createTempYAMLFile(t, "env.yaml", "lat: [1, 2")
		settings, err := LoadSettings(filePath)
		require.Error(t, err)
		assert.Nil(t, settings)
		assert.Contains(t, err.Error(), "failed to parse YAML")
	})

	t.Run("Empty File", func(t *testing.T) {
		filePath := createTempYAMLFile(t, "env.yaml", "")
		settings, err := LoadSettings(filePath)
		require.NoError(t, err)
		require.NotNil(t, settings)
		assert.Empty(t, settings.Vars)
		assert.Empty(t, settings.PayloadDir)
	})

	t.Run("Null And Nested Values Skipped", func(t *testing.T) {
		envYAML := `
lat: 39.7456
unset_value:
tags: [a, b]
flag: true
count: 10
`
		filePath := createTempYAMLFile(t, "env.yaml", envYAML)
		settings, err := LoadSettings(filePath)
		require.NoError(t, err)

		assert.Equal(t, "39.7456", settings.Vars["lat"])
		assert.Equal(t, "true", settings.Vars["flag"])
		assert.Equal(t, "10", settings.Vars["count"])
		_, hasUnset := settings.Vars["unset_value"]
		assert.False(t, hasUnset, "null values must not become variables")
		_, hasTags := settings.Vars["tags"]
		assert.False(t, hasTags, "sequences must not become variables")
	})
}
