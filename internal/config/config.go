package config

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Port           int      `yaml:"port"`
	DataDir        string   `yaml:"data_dir"`
	UploadsDir     string   `yaml:"uploads_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	Chat           Chat     `yaml:"chat"`
	LogLevel       string   `yaml:"log_level"`
	LogJSON        bool     `yaml:"log_json"`
}

type Chat struct {
	PersistLimit int `yaml:"persist_limit"` // most recent messages kept in chat.json
	ReplayLimit  int `yaml:"replay_limit"`  // messages replayed to a fresh connection
	HistoryLimit int `yaml:"history_limit"` // messages served by the history endpoint
}

type Private struct {
	AdminKey string `yaml:"admin_key"`
}

func (c *Config) AdminKey() string {
	return c.private.AdminKey
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Public.Port == 0 {
		c.Public.Port = 3000
	}
	if c.Public.DataDir == "" {
		c.Public.DataDir = "data"
	}
	if c.Public.UploadsDir == "" {
		c.Public.UploadsDir = "uploads"
	}
	if c.Public.MaxUploadBytes == 0 {
		c.Public.MaxUploadBytes = 50 << 20
	}
	if c.Public.Chat.PersistLimit == 0 {
		c.Public.Chat.PersistLimit = 500
	}
	if c.Public.Chat.ReplayLimit == 0 {
		c.Public.Chat.ReplayLimit = 50
	}
	if c.Public.Chat.HistoryLimit == 0 {
		c.Public.Chat.HistoryLimit = 100
	}
}
