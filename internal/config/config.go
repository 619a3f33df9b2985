package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/countrysync/pkg/countrysync"
)

// requiredKeys must be present in every configuration file.
var requiredKeys = []string{"host", "user", "passwd", "db"}

// FileConfig is the on-disk configuration document.
// The four required keys are the classic db_config.json layout; the rest
// are optional extensions.
type FileConfig struct {
	Host    string `yaml:"host" json:"host"`
	User    string `yaml:"user" json:"user"`
	Passwd  string `yaml:"passwd" json:"passwd"`
	DB      string `yaml:"db" json:"db"`
	Port    int    `yaml:"port,omitempty" json:"port,omitempty"`
	SSLMode string `yaml:"sslmode,omitempty" json:"sslmode,omitempty"`
	WSDL    string `yaml:"wsdl,omitempty" json:"wsdl,omitempty"`
	Timeout string `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// ResolvePath returns path unchanged when absolute, otherwise joins it to baseDir.
func ResolvePath(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ExecutableDir returns the directory containing the running binary,
// following symlinks.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// Load reads and decodes the configuration file at path.
// Files ending in .json are decoded as strict JSON, everything else as YAML.
//
// Returns countrysync.ErrConfigNotFound when path does not resolve to a
// readable file and countrysync.ErrConfigMalformed when the content cannot be
// decoded or a required key is missing. Both errors name the path.
func Load(path string) (*FileConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", countrysync.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", countrysync.ErrConfigNotFound, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", countrysync.ErrConfigNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", countrysync.ErrConfigNotFound, path, err)
	}

	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".json") {
		unmarshal = json.Unmarshal
	}

	var raw map[string]interface{}
	if err := unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", countrysync.ErrConfigMalformed, path, err)
	}

	var missing []string
	for _, key := range requiredKeys {
		v, ok := raw[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		if _, isString := v.(string); !isString {
			return nil, fmt.Errorf("%w: %s: field %q must be a string", countrysync.ErrConfigMalformed, path, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s: missing required field(s): %s",
			countrysync.ErrConfigMalformed, path, strings.Join(missing, ", "))
	}

	var cfg FileConfig
	if err := unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", countrysync.ErrConfigMalformed, path, err)
	}
	return &cfg, nil
}

// EnvVars holds the environment variables that influence the configuration.
type EnvVars struct {
	COUNTRYSYNC_PASSWD string // Overrides passwd from the file
	PGPASSWORD         string // Used when no password is configured
}

// LoadFromEnvironment reads EnvVars from the process environment.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		COUNTRYSYNC_PASSWD: os.Getenv("COUNTRYSYNC_PASSWD"),
		PGPASSWORD:         os.Getenv("PGPASSWORD"),
	}
}

// ToSyncConfig converts the file document into a SyncConfig, applying
// defaults and environment overrides. The result is validated.
func (c *FileConfig) ToSyncConfig(env *EnvVars) (countrysync.SyncConfig, error) {
	if env == nil {
		env = &EnvVars{}
	}

	password := c.Passwd
	if env.COUNTRYSYNC_PASSWD != "" {
		password = env.COUNTRYSYNC_PASSWD
	}
	if password == "" {
		password = env.PGPASSWORD
	}

	port := c.Port
	if port == 0 {
		port = countrysync.DefaultPort
	}

	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = countrysync.DefaultSSLMode
	}

	wsdl := c.WSDL
	if wsdl == "" {
		wsdl = countrysync.DefaultWSDL
	}

	timeout := countrysync.DefaultTimeout
	if c.Timeout != "" {
		parsed, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return countrysync.SyncConfig{}, fmt.Errorf("invalid timeout %q: %w", c.Timeout, countrysync.ErrConfigMalformed)
		}
		timeout = parsed
	}

	cfg := countrysync.SyncConfig{
		Connection: countrysync.ConnectionConfig{
			Host:           c.Host,
			Port:           port,
			Database:       c.DB,
			Username:       c.User,
			Password:       password,
			SSLMode:        sslMode,
			ConnectTimeout: countrysync.DefaultConnectTimeout,
		},
		WSDL:    wsdl,
		Timeout: timeout,
	}

	if err := cfg.Validate(); err != nil {
		return countrysync.SyncConfig{}, err
	}
	return cfg, nil
}
