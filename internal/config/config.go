package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port      int    `yaml:"port"`
		StaticDir string `yaml:"staticDir"`
	} `yaml:"server"`

	AI struct {
		Provider        string `yaml:"provider"` // gemini | openai
		Model           string `yaml:"model"`
		TimeoutSeconds  int    `yaml:"timeoutSeconds"`
		MaxOutputTokens int    `yaml:"maxOutputTokens"`

		// Keys come from the environment only, never from YAML.
		GeminiAPIKey string `yaml:"-"`
		OpenAIAPIKey string `yaml:"-"`
	} `yaml:"ai"`

	Database struct {
		Enabled  bool   `yaml:"enabled"`
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	RateLimit struct {
		Capacity  int `yaml:"capacity"`
		PerSecond int `yaml:"perSecond"`
	} `yaml:"rateLimit"`
}

// Load reads config.yaml and applies environment overrides. A missing file
// is not an error; the service runs on defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.StaticDir = "web/static"
	cfg.AI.Provider = "gemini"
	cfg.AI.TimeoutSeconds = 30
	cfg.Database.Driver = "mysql"
	cfg.Database.SSLMode = "disable"
	cfg.RateLimit.Capacity = 20
	cfg.RateLimit.PerSecond = 5
	return cfg
}

func (c *Config) applyEnv() {
	c.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	c.AI.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

// MySQLDSN builds the DSN for the mysql driver
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds the DSN for lib/pq
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
