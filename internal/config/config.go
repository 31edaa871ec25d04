package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the project configuration read when --config is not given
const DefaultConfigFile = "jah.json"

// Config represents a jah project configuration
type Config struct {
	Src       string          `json:"src" mapstructure:"src" toml:"src" yaml:"src"`
	Main      string          `json:"main" mapstructure:"main" toml:"main" yaml:"main"`
	Output    OutputConfig    `json:"output" mapstructure:"output" toml:"output" yaml:"output"`
	Resources []ResourceMount `json:"resources" mapstructure:"resources" toml:"resources" yaml:"resources"`
	Server    ServerConfig    `json:"server" mapstructure:"server" toml:"server" yaml:"server"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging" toml:"logging" yaml:"logging"`
}

// OutputConfig describes where the compiled bundle goes.
// A plain string in the config file is read as Script.
type OutputConfig struct {
	Script string `json:"script" mapstructure:"script" toml:"script" yaml:"script"`
}

// ResourceMount exposes a project directory under a URL prefix
type ResourceMount struct {
	URL string `json:"url" mapstructure:"url" toml:"url" yaml:"url"`
	Dir string `json:"dir" mapstructure:"dir" toml:"dir" yaml:"dir"`
}

// ServerConfig contains development server settings
type ServerConfig struct {
	Host     string `json:"host" mapstructure:"host" toml:"host" yaml:"host"`
	Port     int    `json:"port" mapstructure:"port" toml:"port" yaml:"port"`
	Compress bool   `json:"compress" mapstructure:"compress" toml:"compress" yaml:"compress"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format" toml:"format" yaml:"format"`
	Level  string `json:"level" mapstructure:"level" toml:"level" yaml:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Src:  "src",
		Main: "main.js",
		Output: OutputConfig{
			Script: "public/app.js",
		},
		Resources: []ResourceMount{
			{URL: "/resources", Dir: "src/resources"},
		},
		Server: ServerConfig{
			Host:     "localhost",
			Port:     4000,
			Compress: true,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// envBindings maps config keys to the environment variables that override them
var envBindings = map[string]string{
	"server.host":   "JAH_HOST",
	"server.port":   "JAH_PORT",
	"logging.level": "JAH_LOG_LEVEL",
}

// LoadConfig loads the project configuration at path.
// The format follows the extension (.json, .toml, .yaml). A missing file
// yields the defaults, still subject to environment overrides.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &ConfigError{Field: "file", Message: fmt.Sprintf("cannot read %s: %v", path, err)}
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// "output": "public/app.js" is shorthand for {"script": ...}
	if script, ok := v.Get("output").(string); ok {
		v.Set("output", map[string]interface{}{"script": script})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Field: "file", Message: err.Error()}
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("src", d.Src)
	v.SetDefault("main", d.Main)
	v.SetDefault("output.script", d.Output.Script)
	resources := make([]map[string]interface{}, 0, len(d.Resources))
	for _, r := range d.Resources {
		resources = append(resources, map[string]interface{}{"url": r.URL, "dir": r.Dir})
	}
	v.SetDefault("resources", resources)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.compress", d.Server.Compress)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}

// Save writes the configuration to path, encoded by its extension
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		data, err = toml.Marshal(c)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// OutputTarget returns the route the bundle is served at.
// A non-empty override (the --url flag) wins over the configured script.
func (c *Config) OutputTarget(override string) string {
	if override != "" {
		return override
	}
	return c.Output.Script
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Src == "" {
		return &ConfigError{Field: "src", Message: "source directory is required"}
	}
	if c.Main == "" {
		return &ConfigError{Field: "main", Message: "entry module is required"}
	}
	if c.Output.Script == "" {
		return &ConfigError{Field: "output", Message: "output script path is required"}
	}
	for i, r := range c.Resources {
		if !strings.HasPrefix(r.URL, "/") {
			return &ConfigError{Field: fmt.Sprintf("resources[%d].url", i), Message: "must begin with /"}
		}
		if r.Dir == "" {
			return &ConfigError{Field: fmt.Sprintf("resources[%d].dir", i), Message: "directory is required"}
		}
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: fmt.Sprintf("port %d out of range", c.Server.Port)}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
