package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath            = "config/config.yaml"
	DefaultAddr            = "0.0.0.0:8080"
	DefaultShutdownTimeout = 10 * time.Second

	ModeDev     = "dev"
	ModeRelease = "release"
)

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type Config struct {
	Version     string          `yaml:"version"`
	Mode        string          `yaml:"mode"`
	Server      ServerConfig    `yaml:"server"`
	CORS        CORSConfig      `yaml:"cors"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Certificate Certs           `yaml:"certificate"`
}

func Default() *Config {
	return &Config{
		Mode: ModeRelease,
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		CORS: CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
		RateLimit: RateLimitConfig{
			Enabled: false,
			RPS:     20,
			Burst:   40,
		},
	}
}

// Load はファイルを読み込み，未指定の項目はデフォルト値で埋める。
// ファイルが存在しない場合は os.ErrNotExist を包んだエラーとデフォルト値を返す。
func Load(path string) (*Config, error) {
	cfg := Default()

	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("設定ファイルの読み込み失敗: %w", err)
	}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルのパース失敗: %w", err)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv: 環境変数による上書き（bind アドレスのみ）
func (c *Config) ApplyEnv() {
	if v := os.Getenv("DVD_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) Validate() error {
	if c.Mode != ModeDev && c.Mode != ModeRelease {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeDev, ModeRelease, c.Mode)
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return errors.New("rate_limit.rps must be > 0")
		}
		if c.RateLimit.Burst <= 0 {
			return errors.New("rate_limit.burst must be > 0")
		}
	}
	if (c.Certificate.Cert == "") != (c.Certificate.Key == "") {
		return errors.New("certificate.cert and certificate.key must be set together")
	}
	return nil
}

func (c *Config) TLSEnabled() bool {
	return c.Certificate.Cert != "" && c.Certificate.Key != ""
}
