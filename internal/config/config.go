package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8000"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"mongo"`
	MongoURI       string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017/recipe_finder"`
	MongoDatabase  string `env:"MONGODB_DATABASE"`
	RedisURI       string `env:"REDIS_URI"` // optional; empty disables the catalog cache

	JWTSecret string `env:"JWT_SECRET"`

	SpoonacularAPIKey  string        `env:"SPOONACULAR_API_KEY"`
	SpoonacularKeyAlt  string        `env:"SPOONACULAR_KEY"`
	SpoonacularBaseURL string        `env:"SPOONACULAR_BASE_URL" envDefault:"https://api.spoonacular.com"`
	CatalogTimeout     time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`
	CatalogCacheTTL    time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"8h"`

	CloudinaryName      string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `env:"CLOUDINARY_FOLDER" envDefault:"recipe-finder"`

	// CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	FrontendURL    string   `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	AllowedHost    string   `env:"ALLOWED_HOST"` // production only; empty skips the host check

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads the process environment. Call godotenv before Load to pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))

	if c.SpoonacularAPIKey == "" {
		c.SpoonacularAPIKey = c.SpoonacularKeyAlt
	}
	c.SpoonacularBaseURL = strings.TrimRight(c.SpoonacularBaseURL, "/")

	origins := make([]string, 0, len(c.AllowedOrigins)+1)
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 && strings.TrimSpace(c.FrontendURL) != "" {
		origins = append(origins, strings.TrimSpace(c.FrontendURL))
	}
	c.AllowedOrigins = origins
}

// Validate fails only on settings without which no request can be served.
// A missing catalog key is tolerated; catalog endpoints report it per request.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.DatabaseDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI must be set when DATABASE_DRIVER=mongo")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	return nil
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CloudinaryEnabled reports whether all upload credentials are present.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}
