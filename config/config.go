package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"themepainter/model"
)

// FileName is the JSON config file written by Save.
const FileName = "themepainter.config"

// Alternative config files, tried before FileName.
var altFileNames = []string{"themepainter.toml", "themepainter.yaml", "themepainter.yml"}

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

type Config struct {
	DataDir    string `json:"data_dir" toml:"data_dir" yaml:"data_dir"`
	ListenAddr string `json:"listen_addr" toml:"listen_addr" yaml:"listen_addr"`
	ThemeFile  string `json:"theme_file" toml:"theme_file" yaml:"theme_file"`
	Store      string `json:"store" toml:"store" yaml:"store"`
	Watch      bool   `json:"watch" toml:"watch" yaml:"watch"`
	LogLevel   string `json:"log_level,omitempty" toml:"log_level,omitempty" yaml:"log_level,omitempty"`
}

func Default() Config {
	return Config{
		DataDir:    ".",
		ListenAddr: ":8080",
		ThemeFile:  "theme.yaml",
		Store:      "file",
		Watch:      true,
		LogLevel:   "info",
	}
}

// Load reads the config from dataDir. A missing file yields Default().
func Load(dataDir string) (Config, error) {
	dataDir, err := homedir.Expand(dataDir)
	if err != nil {
		return Config{}, err
	}

	names := append(append([]string(nil), altFileNames...), FileName)
	for _, name := range names {
		cfgPath := filepath.Join(dataDir, name)
		data, err := os.ReadFile(cfgPath)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, err
		}

		var cfg Config
		if err := decode(cfgPath, data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", cfgPath, err)
		}
		return withDefaults(cfg)
	}

	return Default(), nil
}

func withDefaults(cfg Config) (Config, error) {
	def := Default()
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
	if cfg.ThemeFile == "" {
		cfg.ThemeFile = def.ThemeFile
	}
	if cfg.Store == "" {
		cfg.Store = def.Store
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}

	var err error
	if cfg.DataDir, err = homedir.Expand(cfg.DataDir); err != nil {
		return Config{}, err
	}
	if cfg.ThemeFile, err = homedir.Expand(cfg.ThemeFile); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Save(cfg Config) error {
	cfgPath := filepath.Join(cfg.DataDir, FileName)

	// Create directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}

	tmp := cfgPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, cfgPath)
}

// ThemePath returns the theme file path, resolved against the data dir when
// relative.
func (c Config) ThemePath() string {
	if c.ThemeFile == "" || filepath.IsAbs(c.ThemeFile) {
		return c.ThemeFile
	}
	return filepath.Join(c.DataDir, c.ThemeFile)
}

// LoadTree reads a color configuration tree from a .json, .yaml or .yml file.
// A missing file yields an empty tree.
func LoadTree(path string) (*model.ConfigTree, error) {
	if path == "" {
		return &model.ConfigTree{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &model.ConfigTree{}, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseTree(path, data)
}

// ParseTree decodes data according to the extension of name. TOML is not
// accepted for trees because its tables do not keep declaration order.
func ParseTree(name string, data []byte) (*model.ConfigTree, error) {
	tree := &model.ConfigTree{}
	if len(bytes.TrimSpace(data)) == 0 {
		return tree, nil
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		if err := json.Unmarshal(data, tree); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, tree); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	return tree, nil
}

func decode(name string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return toml.Unmarshal(data, v)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}
