package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envVars = []string{
	"REGEXP_MATCH_CONFIG",
	"REGEXP_MATCH_ENGINE",
	"REGEXP_MATCH_TIMEOUT",
	"REGEXP_MATCH_MAX_OUTPUT",
	"REGEXP_MATCH_MEMORY_LIMIT_MB",
	"REGEXP_MATCH_DEBUG",
}

// isolateEnv clears every variable Load reads and points it at a config file
// that does not exist, so the user's own config never leaks into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
	}
	t.Setenv("REGEXP_MATCH_CONFIG", filepath.Join(t.TempDir(), "non-existent.yaml"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Timeout != 100*time.Millisecond {
		t.Errorf("expected Timeout to be 100ms but got %v", cfg.Timeout)
	}
	if cfg.MaxInputBytes != 1<<20 {
		t.Errorf("expected MaxInputBytes to be 1MiB but got %d", cfg.MaxInputBytes)
	}
	if cfg.MaxOutputBytes != 64*1024 {
		t.Errorf("expected MaxOutputBytes to be 64KiB but got %d", cfg.MaxOutputBytes)
	}
	if cfg.EnginePath != "" {
		t.Errorf("expected in-process engine by default but got %q", cfg.EnginePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name      string
		envVars   map[string]string
		checkFunc func(*testing.T, *Config)
		wantErr   bool
	}{
		{
			name: "valid environment variables",
			envVars: map[string]string{
				"REGEXP_MATCH_ENGINE":          "/usr/local/bin/regexp-oracle",
				"REGEXP_MATCH_TIMEOUT":         "250ms",
				"REGEXP_MATCH_MAX_OUTPUT":      "4096",
				"REGEXP_MATCH_MEMORY_LIMIT_MB": "128",
				"REGEXP_MATCH_DEBUG":           "true",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				if cfg.EnginePath != "/usr/local/bin/regexp-oracle" {
					t.Errorf("expected EnginePath to be /usr/local/bin/regexp-oracle but got %s", cfg.EnginePath)
				}
				if cfg.Timeout != 250*time.Millisecond {
					t.Errorf("expected Timeout to be 250ms but got %v", cfg.Timeout)
				}
				if cfg.MaxOutputBytes != 4096 {
					t.Errorf("expected MaxOutputBytes to be 4096 but got %d", cfg.MaxOutputBytes)
				}
				if cfg.MemoryLimitMB != 128 {
					t.Errorf("expected MemoryLimitMB to be 128 but got %d", cfg.MemoryLimitMB)
				}
				if !cfg.Debug {
					t.Error("expected Debug to be true")
				}
			},
		},
		{
			name:    "invalid timeout",
			envVars: map[string]string{"REGEXP_MATCH_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name:    "zero timeout",
			envVars: map[string]string{"REGEXP_MATCH_TIMEOUT": "0s"},
			wantErr: true,
		},
		{
			name:    "invalid max output",
			envVars: map[string]string{"REGEXP_MATCH_MAX_OUTPUT": "lots"},
			wantErr: true,
		},
		{
			name:    "negative memory limit",
			envVars: map[string]string{"REGEXP_MATCH_MEMORY_LIMIT_MB": "-1"},
			wantErr: true,
		},
		{
			name:    "invalid debug value",
			envVars: map[string]string{"REGEXP_MATCH_DEBUG": "maybe"},
			wantErr: true,
		},
		{
			name:    "boolean variations",
			envVars: map[string]string{"REGEXP_MATCH_DEBUG": "yes"},
			checkFunc: func(t *testing.T, cfg *Config) {
				if !cfg.Debug {
					t.Error("expected Debug to be true for 'yes'")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name      string
		content   string
		envVars   map[string]string
		checkFunc func(*testing.T, *Config)
		wantErr   string
	}{
		{
			name: "valid config file",
			content: `
engine_path: "/opt/regexp-match/regexp-oracle"
engine_args: ["--", "x"]
timeout: "2s"
max_input_bytes: 2048
max_output_bytes: 512
memory_limit_mb: 64
debug: true
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				if cfg.EnginePath != "/opt/regexp-match/regexp-oracle" {
					t.Errorf("expected EnginePath from file but got %s", cfg.EnginePath)
				}
				if len(cfg.EngineArgs) != 2 || cfg.EngineArgs[0] != "--" {
					t.Errorf("unexpected EngineArgs %v", cfg.EngineArgs)
				}
				if cfg.Timeout != 2*time.Second {
					t.Errorf("expected Timeout to be 2s but got %v", cfg.Timeout)
				}
				if cfg.MaxInputBytes != 2048 || cfg.MaxOutputBytes != 512 {
					t.Errorf("unexpected limits %d/%d", cfg.MaxInputBytes, cfg.MaxOutputBytes)
				}
				if cfg.MemoryLimitMB != 64 || !cfg.Debug {
					t.Errorf("unexpected MemoryLimitMB=%d Debug=%v", cfg.MemoryLimitMB, cfg.Debug)
				}
			},
		},
		{
			name:    "environment overrides file",
			content: "timeout: 2s\nengine_path: /from/file\n",
			envVars: map[string]string{"REGEXP_MATCH_ENGINE": "/from/env"},
			checkFunc: func(t *testing.T, cfg *Config) {
				if cfg.EnginePath != "/from/env" {
					t.Errorf("expected env to override file but got %s", cfg.EnginePath)
				}
				if cfg.Timeout != 2*time.Second {
					t.Errorf("expected Timeout from file but got %v", cfg.Timeout)
				}
			},
		},
		{
			name:    "partial file keeps defaults",
			content: "debug: true\n",
			checkFunc: func(t *testing.T, cfg *Config) {
				if cfg.Timeout != 100*time.Millisecond {
					t.Errorf("expected default Timeout but got %v", cfg.Timeout)
				}
			},
		},
		{
			name:    "invalid yaml",
			content: "invalid: yaml: content:\n  bad indentation",
			wantErr: "failed to load config file",
		},
		{
			name:    "args without engine",
			content: "engine_args: [\"-v\"]\n",
			wantErr: "engine_args requires engine_path",
		},
		{
			name:    "zero input cap",
			content: "max_input_bytes: 0\n",
			wantErr: "max_input_bytes must be positive",
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)

			configPath := filepath.Join(tmpDir, "config"+string(rune('a'+i))+".yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0600); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}
			t.Setenv("REGEXP_MATCH_CONFIG", configPath)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q but got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.checkFunc(t, cfg)
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		t.Setenv("REGEXP_MATCH_CONFIG", "/etc/regexp-match.yaml")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		if got := getConfigPath(); got != "/etc/regexp-match.yaml" {
			t.Errorf("getConfigPath() = %s", got)
		}
	})

	t.Run("xdg config home", func(t *testing.T) {
		t.Setenv("REGEXP_MATCH_CONFIG", "")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		if got := getConfigPath(); got != filepath.Join("/xdg", "regexp-match", "config.yaml") {
			t.Errorf("getConfigPath() = %s", got)
		}
	})
}
