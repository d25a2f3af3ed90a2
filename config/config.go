package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("database configuration not found")

// DatabaseConfig is one named connection profile.
type DatabaseConfig struct {
	Name       string `yaml:"name"`
	ConnString string `yaml:"connString"`
	Schema     string `yaml:"schema"`
	FetchSize  int    `yaml:"fetchSize"`
	ReadOnly   bool   `yaml:"readOnly"`
}

type Config struct {
	Databases []DatabaseConfig `yaml:"databases"`
}

// Read loads the YAML profile file at path.
func Read(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't open configuration file")
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}
	return &cfg, nil
}

// Get resolves a profile by name.
func (c *Config) Get(name string) (*DatabaseConfig, error) {
	for i := range c.Databases {
		if c.Databases[i].Name == name {
			return &c.Databases[i], nil
		}
	}
	return nil, ErrNotFound
}
