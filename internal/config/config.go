package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"kbc-quiz-game/internal/domain"
)

// Question sources selectable under questions.source.
const (
	SourceStatic   = "static"
	SourcePostgres = "postgres"
	SourceAI       = "ai"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		Source string       `yaml:"source"`
		TTL    string       `yaml:"ttl"`
		Topic  domain.Topic `yaml:"topic"`
	} `yaml:"questions"`
	Game   domain.Settings `yaml:"game"`
	Gemini struct {
		APIKey  string `yaml:"-"`
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
		Timeout string `yaml:"timeout"`
	} `yaml:"gemini"`
	Sounds map[string]string `yaml:"sounds"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Log.Level = "info"
	cfg.Redis.TTL = "30m"
	cfg.Questions.Source = SourceStatic
	cfg.Questions.TTL = "10m"
	cfg.Questions.Topic = domain.TopicAgricultureCore
	cfg.Game = domain.DefaultSettings()
	return cfg
}

// Load reads YAML config from path over the defaults. A missing file is not an
// error. A .env file in the working directory is loaded first when present, and
// environment variables win over the file.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if env := os.Getenv("CONFIG_PATH"); env != "" && path == "" {
		path = env
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("POSTGRES_URL"); v != "" {
		cfg.Postgres.URL = v
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
