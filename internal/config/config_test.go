package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		yaml        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars or file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
				assert.Equal(t, []string{"PH06", "PH48", "PH55", "PH58"}, cfg.Dataset.LoaderLabels)
				assert.Equal(t, 120.0, cfg.Dataset.BaselineCapacity)
				assert.Equal(t, 0.2, cfg.Dataset.WarningThreshold)
				assert.Equal(t, 0.4, cfg.Dataset.CriticalThreshold)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.NotEmpty(t, cfg.Paths.ExecutableDir)
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"HAUL_SERVER_PORT":               "9090",
				"HAUL_DATASET_LOADER_LABELS":     "PH06,PH99",
				"HAUL_DATASET_BASELINE_CAPACITY": "100",
				"HAUL_LOGGING_LEVEL":             "debug",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, []string{"PH06", "PH99"}, cfg.Dataset.LoaderLabels)
				assert.Equal(t, 100.0, cfg.Dataset.BaselineCapacity)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "file overrides defaults and env overrides file",
			yaml: "server:\n  port: 7070\n  read_timeout: 5s\ndataset:\n  loader_labels: [PH06]\n",
			env:  map[string]string{"HAUL_SERVER_PORT": "6060"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 6060, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"PH06"}, cfg.Dataset.LoaderLabels)
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"HAUL_SERVER_PORT": "70000"},
			wantErr: "invalid server port",
		},
		{
			name: "thresholds out of order",
			env: map[string]string{
				"HAUL_DATASET_WARNING_THRESHOLD":  "0.5",
				"HAUL_DATASET_CRITICAL_THRESHOLD": "0.4",
			},
			wantErr: "warning threshold",
		},
		{
			name:    "non-positive baseline",
			env:     map[string]string{"HAUL_DATASET_BASELINE_CAPACITY": "0"},
			wantErr: "baseline capacity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var file string
			if tt.yaml != "" {
				file = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(file, []byte(tt.yaml), 0644))
			}

			cfg, err := LoadFrom(file)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
}

func TestValidateTrimsLoaderLabels(t *testing.T) {
	cfg := Default()
	cfg.Dataset.LoaderLabels = []string{" PH06 ", "PH48"}
	require.NoError(t, cfg.validate())
	assert.Equal(t, []string{"PH06", "PH48"}, cfg.Dataset.LoaderLabels)

	cfg.Dataset.LoaderLabels = []string{"PH06", "  "}
	assert.Error(t, cfg.validate())
}

func TestDefaultDoesNotShareSlices(t *testing.T) {
	a := Default()
	a.Dataset.LoaderLabels[0] = "XX"
	b := Default()
	assert.Equal(t, "PH06", b.Dataset.LoaderLabels[0])
}

func TestResolveDatasetPath(t *testing.T) {
	exeDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(exeDir, "data"), 0755))
	anchored := filepath.Join(exeDir, "data", "haul.csv")
	require.NoError(t, os.WriteFile(anchored, []byte("x"), 0644))

	assert.Equal(t, anchored, ResolveDatasetPath("data/haul.csv", exeDir))
	assert.Equal(t, "missing.csv", ResolveDatasetPath("missing.csv", exeDir))
	assert.Equal(t, "/abs/file.csv", ResolveDatasetPath("/abs/file.csv", exeDir))
	assert.Equal(t, "", ResolveDatasetPath("", exeDir))
}

func TestPaths(t *testing.T) {
	base := t.TempDir()
	p := NewPaths(base)

	require.NoError(t, p.EnsureDirectories())
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.Equal(t, filepath.Join(base, "data", "reports", "r.csv"), p.GetReportPath("r.csv"))
	assert.Equal(t, filepath.Join(base, "logs", "app.log"), p.GetLogPath("app.log"))
	assert.True(t, FileExists(p.DataDir))
	assert.False(t, FileExists(filepath.Join(base, "nope")))
}

func TestConfig_ResolvedPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.ExecutableDir = "/opt/haul"
	cfg.Paths.LogsDir = "/var/log/haul"

	p := cfg.ResolvedPaths()

	assert.Equal(t, "/opt/haul", p.ExecutableDir)
	assert.Equal(t, filepath.Join("/opt/haul", "data"), p.DataDir)
	assert.Equal(t, filepath.Join("/opt/haul", "data", "reports"), p.ReportsDir)
	assert.Equal(t, "/var/log/haul", p.LogsDir)
}
