package wbcommand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoadConfig_StrictMode_UnknownKeys(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "wbcommand.yaml")

	configContent := `
databases:
  development:
    connection: "sqlite::memory:"
    unknown_database_key: "should cause error"
unknown_key: "should also cause error"
`

	err := os.WriteFile(configPath, []byte(configContent), 0o644)
	assert.NoError(t, err)

	_, err = LoadConfig(configPath)
	assert.Error(t, err, "expected error for unknown keys in strict mode")
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "wbcommand.yaml")

	configContent := `
databases:
  development:
    driver: sqlite3
    connection: "./dev.db"
  test:
    driver: mysql
    connection: "mysql://root@localhost/test"
default_environment: test
pk_mapping_file: "./mapping.def"
script:
  continue_on_error: true
  delimiter: "/"
source:
  exclude_indexes: true
  exclude_foreign_keys: false
logging:
  level: debug
  format: json
`

	err := os.WriteFile(configPath, []byte(configContent), 0o644)
	assert.NoError(t, err)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)

	assert.Equal(t, 2, len(config.Databases))
	assert.Equal(t, "test", config.DefaultEnvironment)
	assert.Equal(t, "./mapping.def", config.PkMappingFile)
	assert.Equal(t, ScriptConfig{ContinueOnError: true, Delimiter: "/"}, config.Script)
	assert.Equal(t, SourceConfig{ExcludeIndexes: true}, config.Source)
	assert.Equal(t, LoggingConfig{Level: "debug", Format: "json"}, config.Logging)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{
			name: "missing connection",
			content: `
databases:
  development:
    driver: postgres
`,
			message: "connection is required",
		},
		{
			name: "invalid driver",
			content: `
databases:
  development:
    driver: oracle
    connection: "x"
`,
			message: "invalid driver 'oracle'",
		},
		{
			name: "undefined default environment",
			content: `
databases:
  development:
    connection: "sqlite::memory:"
default_environment: production
`,
			message: "default_environment 'production' is not defined",
		},
		{
			name: "invalid log level",
			content: `
logging:
  level: verbose
`,
			message: "logging.level 'verbose' is invalid",
		},
		{
			name: "invalid log format",
			content: `
logging:
  format: xml
`,
			message: "logging.format 'xml' is invalid",
		},
		{
			name: "invalid delimiter",
			content: `
script:
  delimiter: "GO"
`,
			message: "script.delimiter 'GO' is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.content))
			assert.IsError(t, err, ErrConfigValidation)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
