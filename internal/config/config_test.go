package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withEnvFile points Load at a dotenv file in a temp dir for the duration of the test.
func withEnvFile(t *testing.T, contents string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	if contents != "" {
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	}

	prev := envFile
	envFile = path
	t.Cleanup(func() { envFile = prev })
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		errorMsg    string
	}{
		{
			name:        "Success with defaults",
			envVars:     map[string]string{},
			expectError: false,
		},
		{
			name: "Success with all config specified",
			envVars: map[string]string{
				"INVENTORY_FILE": "/var/lib/inventory.csv",
				"EXPORT_DIR":     "/tmp/reports",
				"TOP_N":          "5",
				"LOG_LEVEL":      "debug",
				"LOG_FORMAT":     "json",
				"S3_ENABLED":     "true",
				"S3_BUCKET":      "warehouse",
				"S3_REGION":      "eu-west-1",
				"S3_PREFIX":      "seed/",
			},
			expectError: false,
		},
		{
			name: "Error - invalid top N",
			envVars: map[string]string{
				"TOP_N": "0",
			},
			expectError: true,
			errorMsg:    "invalid top N",
		},
		{
			name: "Error - invalid log level",
			envVars: map[string]string{
				"LOG_LEVEL": "invalid",
			},
			expectError: true,
			errorMsg:    "invalid log level",
		},
		{
			name: "Error - invalid log format",
			envVars: map[string]string{
				"LOG_FORMAT": "xml",
			},
			expectError: true,
			errorMsg:    "invalid log format",
		},
		{
			name: "Error - S3 enabled without bucket",
			envVars: map[string]string{
				"S3_ENABLED": "true",
			},
			expectError: true,
			errorMsg:    "S3 bucket is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			withEnvFile(t, "")

			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := Load()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
			}

			os.Clearenv()
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	withEnvFile(t, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/warehouse_inventory.csv", cfg.Inventory.File)
	assert.Equal(t, "exports", cfg.Inventory.ExportDir)
	assert.Equal(t, 10, cfg.Inventory.TopN)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.False(t, cfg.S3.Enabled)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, "inventory/", cfg.S3.Prefix)
}

func TestLoad_DotEnv(t *testing.T) {
	os.Clearenv()
	withEnvFile(t, "INVENTORY_FILE=from-dotenv.csv\nTOP_N=3\n")
	t.Setenv("TOP_N", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv.csv", cfg.Inventory.File)
	// Real environment wins over the file
	assert.Equal(t, 7, cfg.Inventory.TopN)

	os.Clearenv()
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Inventory: InventoryConfig{File: "inventory.csv", ExportDir: "exports", TopN: 10},
			Logger:    LoggerConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "Valid configuration",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "Invalid - empty inventory file",
			mutate:      func(c *Config) { c.Inventory.File = "" },
			expectError: true,
			errorMsg:    "inventory file is required",
		},
		{
			name:        "Invalid - empty export directory",
			mutate:      func(c *Config) { c.Inventory.ExportDir = "" },
			expectError: true,
			errorMsg:    "export directory is required",
		},
		{
			name:        "Invalid - negative top N",
			mutate:      func(c *Config) { c.Inventory.TopN = -2 },
			expectError: true,
			errorMsg:    "invalid top N",
		},
		{
			name: "Invalid - S3 enabled without region",
			mutate: func(c *Config) {
				c.S3 = S3Config{Enabled: true, Bucket: "warehouse"}
			},
			expectError: true,
			errorMsg:    "S3 region is required",
		},
		{
			name: "Valid - S3 fully configured",
			mutate: func(c *Config) {
				c.S3 = S3Config{Enabled: true, Bucket: "warehouse", Region: "us-east-1"}
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 10))

	t.Setenv("TEST_INVALID", "not_a_number")
	assert.Equal(t, 10, getEnvAsInt("TEST_INVALID", 10))

	assert.Equal(t, 10, getEnvAsInt("NON_EXISTENT_VAR", 10))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, getEnvAsBool("TEST_BOOL", false))

	t.Setenv("TEST_BOOL_INVALID", "maybe")
	assert.False(t, getEnvAsBool("TEST_BOOL_INVALID", false))
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       LoggerConfig
		logDebug  bool
		expectOut bool
		contains  string
	}{
		{
			name:      "JSON info drops debug",
			cfg:       LoggerConfig{Level: "info", Format: "json"},
			logDebug:  true,
			expectOut: false,
		},
		{
			name:      "JSON debug keeps debug",
			cfg:       LoggerConfig{Level: "debug", Format: "json"},
			logDebug:  true,
			expectOut: true,
			contains:  `"message":"hello"`,
		},
		{
			name:      "Console writes human readable",
			cfg:       LoggerConfig{Level: "info", Format: "console"},
			expectOut: true,
			contains:  "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(tt.cfg, &buf)

			if tt.logDebug {
				logger.Debug().Msg("hello")
			} else {
				logger.Info().Msg("hello")
			}

			if !tt.expectOut {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}
