package appconfig

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/EO-DataHub/eodhp-directory-services/models"
	"gopkg.in/yaml.v2"
)

// Config holds all configuration details
type Config struct {
	Host     string       `yaml:"host"`
	BasePath string       `yaml:"basePath"`
	DocsPath string       `yaml:"docsPath"`
	Pulsar   PulsarConfig `yaml:"pulsar"`
	Seed     SeedConfig   `yaml:"seed"`
}

// PulsarConfig defines the messaging system connection details. Events are
// only published when URL is set.
type PulsarConfig struct {
	URL           string `yaml:"url"`
	TopicProducer string `yaml:"topicProducer"`
	TopicConsumer string `yaml:"topicConsumer"`
	Subscription  string `yaml:"subscription"`
}

// SeedConfig is the data the directory starts with.
type SeedConfig struct {
	Groups []models.Group `yaml:"groups"`
	Users  []models.User  `yaml:"users"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		BasePath: "/",
		DocsPath: "/docs",
	}
}

// LoadConfig loads and parses the configuration from a given file path. The
// file is rendered as a template over the environment first, so values can
// be written as {{ .PULSAR_URL }}. An empty path yields Default().
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	tmpl, err := template.New(filepath.Base(path)).Option("missingkey=zero").ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, loadEnvVars()); err != nil {
		return nil, fmt.Errorf("error executing config file template: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(buf.Bytes(), config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks settings that cannot be caught by unmarshalling alone.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("basePath %q must start with /", c.BasePath)
	}
	if c.Pulsar.URL != "" && c.Pulsar.TopicProducer == "" {
		return fmt.Errorf("pulsar.topicProducer is required when pulsar.url is set")
	}
	return nil
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
