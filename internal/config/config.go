package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/OussamaSlimani/tasks/internal/model"
)

const (
	BackendFile = "file"
	BackendBunt = "bunt"
)

type Config struct {
	Server  Server  `yaml:"server" json:"server"`
	Storage Storage `yaml:"storage" json:"storage"`
	Tasks   Tasks   `yaml:"tasks" json:"tasks"`
}

type Server struct {
	Addr string `yaml:"addr" json:"addr"`
}

type Storage struct {
	// Backend selects the store implementation: "file" (single JSON
	// document) or "bunt" (keyed document store).
	Backend string `yaml:"backend" json:"backend"`
	Dir     string `yaml:"dir" json:"dir"`
}

type Tasks struct {
	Categories      []string `yaml:"categories" json:"categories"`
	DefaultCategory string   `yaml:"default_category" json:"default_category"`
}

func Default() *Config {
	return &Config{
		Server: Server{Addr: ":8080"},
		Storage: Storage{
			Backend: BackendFile,
			Dir:     "data",
		},
		Tasks: Tasks{
			Categories:      []string{"religious", "learn", "health", "work", "other"},
			DefaultCategory: model.DefaultCategory,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	d := Default()
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	c.Storage.Dir = strings.TrimSpace(c.Storage.Dir)
	if c.Storage.Dir == "" {
		c.Storage.Dir = d.Storage.Dir
	}
	if len(c.Tasks.Categories) == 0 {
		c.Tasks.Categories = d.Tasks.Categories
	}
	c.Tasks.DefaultCategory = strings.ToLower(strings.TrimSpace(c.Tasks.DefaultCategory))
	if c.Tasks.DefaultCategory == "" {
		c.Tasks.DefaultCategory = d.Tasks.DefaultCategory
	}
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendBunt:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// HasCategory reports whether name is one of the configured categories.
func (c *Config) HasCategory(name string) bool {
	for _, cat := range c.Tasks.Categories {
		if cat == name {
			return true
		}
	}
	return false
}
