package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TalelKhemiri/GoCodeMobile/internal/config"
)

type testConfig struct {
	API struct {
		BaseURL string
		Timeout time.Duration
	}
	Storage struct {
		Path string
	}
}

func defaults() testConfig {
	var c testConfig
	c.API.BaseURL = "http://localhost:8000/api"
	c.API.Timeout = 30 * time.Second
	c.Storage.Path = "gocode.db"
	return c
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
api:
  baseurl: http://10.0.2.2:8000/api
  timeout: 5s
`), 0o600))

	c := defaults()
	require.NoError(t, config.Load(file, &c))

	require.Equal(t, "http://10.0.2.2:8000/api", c.API.BaseURL)
	require.Equal(t, 5*time.Second, c.API.Timeout)
	require.Equal(t, "gocode.db", c.Storage.Path, "untouched keys keep their defaults")
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	c := defaults()
	require.NoError(t, config.Load(filepath.Join(t.TempDir(), "nope.yaml"), &c))
	require.Equal(t, defaults(), c)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GOCODE_API_BASEURL", "http://phone-test:8000/api")

	c := defaults()
	require.NoError(t, config.Load("", &c))
	require.Equal(t, "http://phone-test:8000/api", c.API.BaseURL)
}
