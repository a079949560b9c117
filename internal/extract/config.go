package extract

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed vocab.yaml
var defaultVocab []byte

// Config holds the rule-based extraction vocabulary. The defaults are
// compiled in; EXTRACT_CONFIG_PATH can point at a YAML override.
type Config struct {
	PeoplePattern  string   `yaml:"people_pattern"`
	TopicKeywords  []string `yaml:"topic_keywords"`
	ActionKeywords []string `yaml:"action_keywords"`
}

func DefaultConfig() Config {
	cfg, err := parseConfig(defaultVocab)
	if err != nil {
		// The embedded vocabulary is validated by tests; this is unreachable
		// for a healthy build.
		panic(fmt.Sprintf("embedded extraction vocab invalid: %v", err))
	}
	return cfg
}

// LoadConfig reads the vocabulary from path, or returns the embedded
// defaults when path is empty.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read extraction config: %w", err)
	}
	return parseConfig(raw)
}

func parseConfig(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse extraction config: %w", err)
	}
	if cfg.PeoplePattern == "" {
		return Config{}, fmt.Errorf("extraction config missing people_pattern")
	}
	if len(cfg.TopicKeywords) == 0 || len(cfg.ActionKeywords) == 0 {
		return Config{}, fmt.Errorf("extraction config missing keyword vocabulary")
	}
	return cfg, nil
}
