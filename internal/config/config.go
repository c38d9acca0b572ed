package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for aw.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	LogLevel   string           `toml:"log_level"` // "debug", "info", "warn", or "error"
	Agent      AgentConfig      `toml:"agent"`
	VCS        VCSConfig        `toml:"vcs"`
	Database   DatabaseConfig   `toml:"database"`
	Archive    ArchiveConfig    `toml:"archive"`
	Staging    StagingConfig    `toml:"staging"`
	Encryption EncryptionConfig `toml:"encryption"`
	Detection  DetectionConfig  `toml:"detection"`
}

// AgentConfig represents configuration for the code-modification agent.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type AgentConfig struct {
	Type string `toml:"type"` // "cli" or "test"

	// CLI-specific fields (only used when Type == "cli")
	Command        string            `toml:"command,omitempty"`
	Args           []string          `toml:"args,omitempty"`
	TimeoutSeconds int               `toml:"timeout_seconds,omitempty"`
	Env            map[string]string `toml:"env,omitempty"`

	// Test-specific fields (only used when Type == "test")
	Steps []TestAgentStep `toml:"steps,omitempty"`
}

// TestAgentStep is one scripted file mutation applied by the test agent.
type TestAgentStep struct {
	Op      string `toml:"op"` // "write", "append", "delete", or "rename"
	Path    string `toml:"path"`
	Content string `toml:"content,omitempty"`
	To      string `toml:"to,omitempty"` // only used for op=rename
}

// VCSConfig represents configuration for the version control backend.
type VCSConfig struct {
	Type      string `toml:"type"`                 // "exec" or "gogit"
	GitBinary string `toml:"git_binary,omitempty"` // defaults to "git"
}

// DatabaseConfig represents configuration for the metadata database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// ArchiveConfig represents configuration for the run report archive.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ArchiveConfig struct {
	Type string `toml:"type"` // "filesystem", "memory", or "s3"

	// Filesystem-specific fields (only used when Type == "filesystem")
	Root string `toml:"root,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
}

// StagingConfig represents configuration for the report staging area.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StagingConfig struct {
	Type       string `toml:"type"`                  // "memory" or "filesystem"
	StagingDir string `toml:"staging_dir,omitempty"` // only used for type=filesystem
	MaxSize    int64  `toml:"max_size"`              // max bundle size in bytes; defaults to 16MB
}

// EncryptionConfig holds the at-rest encryption settings for archived reports.
type EncryptionConfig struct {
	Type string `toml:"type"` // "none" (default), "age", or "test"

	// Passphrase may stay empty for type=age; it is then prompted for
	// on first use.
	Passphrase string `toml:"passphrase,omitempty"`
}

// DetectionConfig holds change-detection settings.
type DetectionConfig struct {
	// Ignore lists patterns excluded from change reports, in addition
	// to the repository's own ignore file.
	Ignore []string `toml:"ignore"`
}

// NewConfig creates a new Config with the provided base directory and defaults.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: "info",
		Agent: AgentConfig{
			Type:           "cli",
			Command:        "fakeagent",
			TimeoutSeconds: 600,
		},
		VCS: VCSConfig{
			Type: "exec",
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Archive: ArchiveConfig{
			Type: "filesystem",
			Root: filepath.Join(baseDir, "archive"),
		},
		Staging: StagingConfig{
			Type:       "filesystem",
			StagingDir: filepath.Join(baseDir, "staging"),
		},
		Encryption: EncryptionConfig{
			Type: "none",
		},
		Detection: DetectionConfig{
			Ignore: []string{".aider*"},
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
