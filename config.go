package wbcommand

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// DefaultPkMappingFile is used when the configuration does not name a mapping file
const DefaultPkMappingFile = "pkmapping.def"

// Config represents the wbcommand configuration
type Config struct {
	Databases          map[string]Database `yaml:"databases"`
	DefaultEnvironment string              `yaml:"default_environment"`
	PkMappingFile      string              `yaml:"pk_mapping_file"`
	Script             ScriptConfig        `yaml:"script"`
	Source             SourceConfig        `yaml:"source"`
	Logging            LoggingConfig       `yaml:"logging"`
}

// Database represents database connection configuration
type Database struct {
	Driver     string `yaml:"driver"`
	Connection string `yaml:"connection"`
	Schema     string `yaml:"schema"`
}

// ScriptConfig controls how scripts are split and executed
type ScriptConfig struct {
	ContinueOnError bool   `yaml:"continue_on_error"`
	Delimiter       string `yaml:"delimiter"` // ";" or "/" (alone on a line)
}

// SourceConfig controls DDL reconstruction output
type SourceConfig struct {
	// ExcludeIndexes drops CREATE INDEX statements from table source
	ExcludeIndexes bool `yaml:"exclude_indexes"`
	// ExcludeForeignKeys drops foreign key constraints from table source
	ExcludeForeignKeys bool `yaml:"exclude_foreign_keys"`
}

// LoggingConfig represents logger settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		// Return default configuration if file doesn't exist
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration data, validates it and applies defaults
func ParseConfig(data []byte) (*Config, error) {
	var config Config

	// Strict mode to detect unknown fields
	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// Environment returns the database configuration for the named environment.
// An empty name selects the default environment.
func (c *Config) Environment(name string) (Database, bool) {
	if name == "" {
		name = c.DefaultEnvironment
	}

	db, ok := c.Databases[name]

	return db, ok
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	validDrivers := map[string]bool{
		"postgres":   true,
		"postgresql": true,
		"pgx":        true,
		"mysql":      true,
		"mariadb":    true,
		"sqlite":     true,
		"sqlite3":    true,
	}

	for name, db := range config.Databases {
		if db.Connection == "" {
			return fmt.Errorf("%w: database '%s': connection is required", ErrConfigValidation, name)
		}

		if db.Driver != "" && !validDrivers[strings.ToLower(db.Driver)] {
			return fmt.Errorf("%w: database '%s': invalid driver '%s': must be one of postgres, mysql, sqlite", ErrConfigValidation, name, db.Driver)
		}
	}

	if config.DefaultEnvironment != "" && len(config.Databases) > 0 {
		if _, ok := config.Databases[config.DefaultEnvironment]; !ok {
			return fmt.Errorf("%w: default_environment '%s' is not defined in databases", ErrConfigValidation, config.DefaultEnvironment)
		}
	}

	if config.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[strings.ToLower(config.Logging.Level)] {
			return fmt.Errorf("%w: logging.level '%s' is invalid: must be one of debug, info, warn, error", ErrConfigValidation, config.Logging.Level)
		}
	}

	if config.Logging.Format != "" {
		validFormats := map[string]bool{"text": true, "json": true}
		if !validFormats[strings.ToLower(config.Logging.Format)] {
			return fmt.Errorf("%w: logging.format '%s' is invalid: must be one of text, json", ErrConfigValidation, config.Logging.Format)
		}
	}

	if len(strings.TrimSpace(config.Script.Delimiter)) > 1 {
		return fmt.Errorf("%w: script.delimiter '%s' is invalid", ErrConfigValidation, config.Script.Delimiter)
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Databases:          make(map[string]Database),
		DefaultEnvironment: "development",
		PkMappingFile:      DefaultPkMappingFile,
		Script: ScriptConfig{
			ContinueOnError: false,
			Delimiter:       ";",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	if config.Databases == nil {
		config.Databases = make(map[string]Database)
	}

	if config.DefaultEnvironment == "" {
		config.DefaultEnvironment = "development"
	}

	if config.PkMappingFile == "" {
		config.PkMappingFile = DefaultPkMappingFile
	}

	if config.Script.Delimiter == "" {
		config.Script.Delimiter = ";"
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "warn"
	}

	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in connection settings and paths
func expandConfigEnvVars(config *Config) {
	for name, db := range config.Databases {
		db.Connection = expandEnvVars(db.Connection)
		db.Driver = expandEnvVars(db.Driver)
		db.Schema = expandEnvVars(db.Schema)
		config.Databases[name] = db
	}

	config.PkMappingFile = expandEnvVars(config.PkMappingFile)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
