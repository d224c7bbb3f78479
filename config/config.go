package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Order price policies. PricePolicyClient keeps the unit prices and total the
// client submitted; PricePolicyCatalog re-reads current dish prices.
const (
	PricePolicyClient  = "client"
	PricePolicyCatalog = "catalog"
)

const defaultJWTSecret = "ivegan_dev_secret_change_me"

type PostgresConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// DSN renders the lib/pq key=value connection string.
func (p PostgresConfig) DSN() string {
	return "host=" + p.Host + " port=" + p.Port + " user=" + p.User +
		" password=" + p.Password + " dbname=" + p.Name + " sslmode=" + p.SSLMode
}

type Config struct {
	Port    string
	GinMode string

	DBDriver string
	DBSource string
	Postgres PostgresConfig

	JWTSecret  []byte
	JWTTTL     time.Duration
	BcryptCost int

	AdminEmail    string
	AdminPassword string

	UploadDir       string
	UploadURLPrefix string
	UploadMaxBytes  int64
	PublicDir       string

	RateLimitMax    int
	RateLimitWindow time.Duration

	RedisAddr     string
	StatsCacheTTL time.Duration

	KafkaBroker string
	KafkaTopic  string

	PricePolicy   string
	DeliveryFee   decimal.Decimal
	PublicBaseURL string
	CORSOrigins   []string
}

// Load reads configuration from the environment, after loading an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	p := &envParser{}
	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBSource: getEnv("DB_SOURCE", "ivegan.db"),
		Postgres: PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "ivegan"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		JWTSecret:  []byte(getEnv("JWT_SECRET", defaultJWTSecret)),
		JWTTTL:     p.duration("JWT_TTL", 24*time.Hour),
		BcryptCost: p.int("BCRYPT_COST", 12),

		AdminEmail:    strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", ""))),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		UploadDir:       getEnv("UPLOAD_DIR", "public/uploads/profiles"),
		UploadURLPrefix: getEnv("UPLOAD_URL_PREFIX", "/uploads/profiles"),
		UploadMaxBytes:  int64(p.int("UPLOAD_MAX_BYTES", 5<<20)),
		PublicDir:       getEnv("PUBLIC_DIR", ""),

		RateLimitMax:    p.int("RATE_LIMIT_MAX", 1000),
		RateLimitWindow: p.duration("RATE_LIMIT_WINDOW", 15*time.Minute),

		StatsCacheTTL: p.duration("STATS_CACHE_TTL", 30*time.Second),

		KafkaBroker: getEnv("KAFKA_BROKER", ""),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "pedidos"),

		PricePolicy:   strings.ToLower(getEnv("ORDER_PRICE_POLICY", PricePolicyClient)),
		DeliveryFee:   p.decimal("DELIVERY_FEE", "5.00"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
	}

	if host := getEnv("REDIS_HOST", ""); host != "" {
		cfg.RedisAddr = host + ":" + getEnv("REDIS_PORT", "6379")
	}

	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if string(cfg.JWTSecret) == defaultJWTSecret {
		log.Println("⚠️ JWT_SECRET not set, using the development secret")
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	switch c.PricePolicy {
	case PricePolicyClient, PricePolicyCatalog:
	default:
		return fmt.Errorf("ORDER_PRICE_POLICY must be %s or %s, got %q", PricePolicyClient, PricePolicyCatalog, c.PricePolicy)
	}
	if c.RateLimitMax <= 0 {
		return errors.New("RATE_LIMIT_MAX must be positive")
	}
	if c.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}
	if c.UploadMaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}
	if c.DeliveryFee.IsNegative() {
		return errors.New("DELIVERY_FEE must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envParser keeps the first conversion error so Load can report it once.
type envParser struct {
	err error
}

func (p *envParser) int(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", key, err)
	}
	return n
}

func (p *envParser) duration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", key, err)
	}
	return d
}

func (p *envParser) decimal(key, fallback string) decimal.Decimal {
	d, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", key, err)
	}
	return d
}
