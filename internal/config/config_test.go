package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"backend": "remote",
		"api_base_url": "https://api.example.com",
		"page_size": 10,
		"timeout": "3s"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 3*time.Second, cfg.Timeout.Std())
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
backend: redis
redis_url: redis://localhost:6379/0
storage_key: my-apps
timeout: 2
log_format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "my-apps", cfg.StorageKey)
	assert.Equal(t, 2*time.Second, cfg.Timeout.Std())
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeFile(t, "config.yml", "backend: [unterminated")

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty is valid", cfg: Config{}},
		{name: "defaults are valid", cfg: Defaults()},
		{name: "unknown backend", cfg: Config{Backend: "s3"}, wantErr: "'backend' must be one of"},
		{name: "postgres needs url", cfg: Config{Backend: BackendPostgres}, wantErr: "database_url"},
		{name: "redis needs url", cfg: Config{Backend: BackendRedis}, wantErr: "redis_url"},
		{name: "remote needs url", cfg: Config{Backend: BackendRemote}, wantErr: "api_base_url"},
		{name: "remote needs http url", cfg: Config{Backend: BackendRemote, APIBaseURL: "ftp://x"}, wantErr: "http(s)"},
		{name: "negative page size", cfg: Config{PageSize: -1}, wantErr: "page_size"},
		{name: "negative burst", cfg: Config{Burst: -2}, wantErr: "burst"},
		{name: "bad log format", cfg: Config{LogFormat: "xml"}, wantErr: "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		Backend:  BackendMemory,
		PageSize: 20,
	}

	merged := partial.MergeWithDefaults(Defaults())

	assert.Equal(t, BackendMemory, merged.Backend)
	assert.Equal(t, 20, merged.PageSize)

	assert.Equal(t, "job-applications", merged.StorageKey)
	assert.Equal(t, "/JobApplication", merged.ResourcePath)
	assert.Equal(t, 10*time.Second, merged.Timeout.Std())
	assert.Equal(t, float64(10), merged.RequestsPerSecond)
	assert.Equal(t, "info", merged.LogLevel)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Backend: BackendFile, DataDir: "/tmp/x"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, BackendFile, merged.Backend)
	assert.Equal(t, "/tmp/x", merged.DataDir)
	assert.Zero(t, merged.PageSize)
}

func TestApplyEnv_OverridesFileValues(t *testing.T) {
	t.Setenv("JOBTRACKER_BACKEND", "remote")
	t.Setenv("JOBTRACKER_API_BASE_URL", "http://localhost:5000")
	t.Setenv("JOBTRACKER_TIMEOUT", "750ms")
	t.Setenv("JOBTRACKER_PAGE_SIZE", "8")

	cfg := &Config{Backend: BackendFile, StorageKey: "from-file"}
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout.Std())
	assert.Equal(t, 8, cfg.PageSize)
	assert.Equal(t, "from-file", cfg.StorageKey, "unset variables leave values alone")
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.json", `{"backend": "file", "data_dir": "/var/lib/jobs"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Backend)
	assert.Equal(t, "/var/lib/jobs", cfg.DataDir)
	assert.Equal(t, 5, cfg.PageSize)

	_, err = Load(writeFile(t, "bad.json", `{"backend": "nope"}`))
	assert.Error(t, err)
}

func TestResolvedSQLitePath(t *testing.T) {
	cfg := Config{DataDir: "/data"}
	assert.Equal(t, filepath.Join("/data", "jobtracker.db"), cfg.ResolvedSQLitePath())

	cfg.SQLitePath = "/elsewhere/x.db"
	assert.Equal(t, "/elsewhere/x.db", cfg.ResolvedSQLitePath())
}
