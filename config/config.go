package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIURL    string
	DBPath    string
	LogLevel  string
	Scheduler SchedulerConfig
	Browse    BrowseConfig
	Admin     AdminConfig
	Workers   WorkersConfig
	S3        S3Config

	Categories []Category
}

type SchedulerConfig struct {
	Interval time.Duration
	Cron     string
}

type BrowseConfig struct {
	PageSize int
}

type AdminConfig struct {
	PageLimit int
}

type WorkersConfig struct {
	CoverBatch    int
	CoverInterval time.Duration
	MetaInterval  time.Duration
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Category is one browse family. Filtering matches the key as a loose
// substring of the listing's category field, so "6x2" also catches
// "Low Driver (6x2 e 8x2)" entries unless a narrower key is chosen.
type Category struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
	Key  string `yaml:"key"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:   getEnv("API_URL", "https://backend-webbuses.onrender.com"),
		DBPath:   getEnv("DB_PATH", "webbuses.db"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("REFRESH_CRON"),
		},
		Browse: BrowseConfig{
			PageSize: getEnvInt("PAGE_SIZE", 12),
		},
		Admin: AdminConfig{
			PageLimit: getEnvInt("ADMIN_PAGE_LIMIT", 50),
		},
		Workers: WorkersConfig{
			CoverBatch:    getEnvInt("COVER_BATCH", 10),
			CoverInterval: getEnvDuration("COVER_INTERVAL", 10*time.Minute),
			MetaInterval:  getEnvDuration("META_INTERVAL", 15*time.Minute),
		},
		S3: S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},
	}

	if interval := os.Getenv("REFRESH_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Scheduler.Interval = d
		}
	} else if cfg.Scheduler.Cron == "" {
		cfg.Scheduler.Interval = 5 * time.Minute
	}

	if err := cfg.loadCategories(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadCategories() error {
	path := getEnv("CATEGORIES_FILE", "config/categories.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.Categories = defaultCategories()
			return nil
		}
		return err
	}

	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	c.Categories = doc.Categories
	return nil
}

func defaultCategories() []Category {
	return []Category{
		{Slug: "utilitarios", Name: "Utilitários", Key: "utilitarios"},
		{Slug: "micro", Name: "Micro-Ônibus", Key: "micro"},
		{Slug: "4x2", Name: "Ônibus 4x2", Key: "4x2"},
		{Slug: "6x2", Name: "Ônibus 6x2", Key: "6x2"},
		{Slug: "urbano", Name: "Ônibus Urbano", Key: "urbano"},
		{Slug: "low-driver", Name: "Low Driver (6x2 e 8x2)", Key: "low driver"},
		{Slug: "double-decker", Name: "Double Decker (6x2 e 8x2)", Key: "double decker"},
	}
}

// CategoryBySlug resolves a browse slug to its family, if declared.
func (c *Config) CategoryBySlug(slug string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Slug == slug {
			return cat, true
		}
	}
	return Category{}, false
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
