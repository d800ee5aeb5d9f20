package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the per-repository config file, looked up in the repo root.
const FileName = ".reltag.yaml"

// Git client adapter names accepted in the client field.
const (
	ClientExec  = "exec"
	ClientGoGit = "gogit"
)

type Config struct {
	Manifest  string `yaml:"manifest"`
	TagPrefix string `yaml:"tag_prefix"`
	Remote    string `yaml:"remote"`
	Push      bool   `yaml:"push"`
	Annotated bool   `yaml:"annotated"`
	Message   string `yaml:"message"`
	Client    string `yaml:"client"`
	SSHKey    string `yaml:"ssh_key"`
	GitHub    struct {
		Owner string `yaml:"owner"`
		Repo  string `yaml:"repo"`
	} `yaml:"github"`
}

func DefaultConfig() *Config {
	return &Config{
		TagPrefix: "v",
		Remote:    "origin",
		Push:      true,
		Annotated: false,
		Message:   "Release {tag}",
		Client:    ClientExec,
	}
}

func ConfigPath(repoPath string) string {
	return filepath.Join(repoPath, FileName)
}

func Load(repoPath string) (*Config, error) {
	cfg := DefaultConfig()

	path := ConfigPath(repoPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Save(repoPath string) error {
	path := ConfigPath(repoPath)

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path // Return unexpanded if home unavailable
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
