// config реализует конфигурацию forum-service: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	DB        DBConfig        `yaml:"db"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	S3        S3Config        `yaml:"s3"`
	Avatar    AvatarConfig    `yaml:"avatar"`
	Auth      AuthConfig      `yaml:"auth"`
	Mail      MailConfig      `yaml:"mail"`
	Recaptcha RecaptchaConfig `yaml:"recaptcha"`
	Limits    LimitsConfig    `yaml:"limits"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// HTTPConfig — REST-сервер и его таймауты.
type HTTPConfig struct {
	Host           string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port           string        `yaml:"port" env:"HTTP_PORT" env-default:"5000"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"5s"`
	// CORSOrigins — разрешённые Origin фронтенда; "*" разрешает всё.
	CORSOrigins []string `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS" env-separator:"," env-default:"*"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// DBConfig — настройки подключения к MongoDB (категории, темы, комментарии).
type DBConfig struct {
	URL string `yaml:"url" env:"MONGO_URL" env-required:"true"`
	// Transactions включает многодокументные транзакции для каскадов и счётчиков.
	// Требует replica set.
	Transactions bool `yaml:"transactions" env:"MONGO_TRANSACTIONS" env-default:"false"`
}

// PostgresConfig — хранилище учётных записей.
type PostgresConfig struct {
	URL string `yaml:"url" env:"POSTGRES_URL" env-required:"true"`
}

// RedisConfig — кэш refresh-сессий.
type RedisConfig struct {
	// URL пустой -> сессии читаются только из PostgreSQL.
	URL       string `yaml:"url" env:"REDIS_URL"`
	KeyPrefix string `yaml:"key_prefix" env:"REDIS_KEY_PREFIX" env-default:"forum:refresh:"`
}

// S3Config — объектное хранилище аватаров (MinIO/S3).
type S3Config struct {
	Endpoint      string        `yaml:"endpoint" env:"S3_ENDPOINT" env-default:"http://localhost:9000"`
	RootUser      string        `yaml:"root_user" env:"S3_ROOT_USER" env-default:"minioadmin"`
	RootPassword  string        `yaml:"root_password" env:"S3_ROOT_PASSWORD" env-default:"minioadmin"`
	Bucket        string        `yaml:"bucket" env:"S3_BUCKET" env-default:"avatars"`
	PresignTTL    time.Duration `yaml:"presign_ttl" env:"S3_PRESIGN_TTL" env-default:"15m"`
	PublicBaseURL string        `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

// AvatarConfig — ограничения на загружаемые аватары.
type AvatarConfig struct {
	MaxSizeBytes        int64    `yaml:"max_size_bytes" env:"AVATAR_MAX_SIZE_BYTES" env-default:"5242880"`
	AllowedContentTypes []string `yaml:"allowed_content_types" env:"AVATAR_ALLOWED_CONTENT_TYPES" env-separator:"," env-default:"image/jpeg,image/png,image/webp"`
}

// AuthConfig — выпуск токенов и парольная политика.
type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"change-me"`
	Issuer            string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"forum-service"`
	Audience          string        `yaml:"audience" env:"JWT_AUDIENCE" env-default:"forum-web"`
	AccessTTL         time.Duration `yaml:"access_ttl" env:"ACCESS_TTL" env-default:"15m"`
	RefreshTTL        time.Duration `yaml:"refresh_ttl" env:"REFRESH_TTL" env-default:"168h"`
	VerificationTTL   time.Duration `yaml:"verification_ttl" env:"VERIFICATION_TTL" env-default:"24h"`
	ResetTTL          time.Duration `yaml:"reset_ttl" env:"RESET_TTL" env-default:"1h"`
	BcryptCost        int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
	PasswordMinLength int           `yaml:"password_min_length" env:"PASSWORD_MIN_LENGTH" env-default:"6"`
}

// MailConfig — SMTP для транзакционных писем.
type MailConfig struct {
	Host     string `yaml:"host" env:"EMAIL_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"EMAIL_PORT" env-default:"587"`
	User     string `yaml:"user" env:"EMAIL_USER"`
	Password string `yaml:"password" env:"EMAIL_PASS"`
	From     string `yaml:"from" env:"EMAIL_FROM" env-default:"Black Dynasty Forum <no-reply@localhost>"`
	// FrontendURL — база ссылок в письмах (verify.html, reset.html).
	FrontendURL string        `yaml:"frontend_url" env:"FRONTEND_URL" env-default:"http://localhost:5000"`
	Timeout     time.Duration `yaml:"timeout" env:"EMAIL_TIMEOUT" env-default:"10s"`
}

// RecaptchaConfig — проверка reCAPTCHA на регистрации/входе.
type RecaptchaConfig struct {
	Secret    string        `yaml:"secret" env:"RECAPTCHA_SECRET_KEY"`
	VerifyURL string        `yaml:"verify_url" env:"RECAPTCHA_VERIFY_URL" env-default:"https://www.google.com/recaptcha/api/siteverify"`
	Bypass    bool          `yaml:"bypass" env:"RECAPTCHA_BYPASS" env-default:"false"`
	Timeout   time.Duration `yaml:"timeout" env:"RECAPTCHA_TIMEOUT" env-default:"5s"`
}

// LimitsConfig — пагинация списков.
type LimitsConfig struct {
	// page_size<=0 -> Default; верхняя граница — Max.
	Default int `yaml:"default" env:"DEFAULT_LIMIT" env-default:"20"`
	Max     int `yaml:"max" env:"MAX_LIMIT" env-default:"100"`
}

// RateLimitConfig — ограничение частоты запросов к /auth на один IP.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"2"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"10"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// Поверх значений из файла накладываются ENV-переменные.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	if path == "" {
		if _, err := os.Stat("local.yaml"); err == nil {
			path = "local.yaml"
		}
	}

	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", path, err)
		}

		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — согласованность значений после загрузки.
func (c *Config) validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("db.url is required")
	}

	if c.Postgres.URL == "" {
		return fmt.Errorf("postgres.url is required")
	}

	if c.Env != "local" && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == "change-me") {
		return fmt.Errorf("auth.jwt_secret must be set outside local env")
	}

	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		return fmt.Errorf("auth token ttl must be > 0")
	}

	if c.Auth.VerificationTTL <= 0 || c.Auth.ResetTTL <= 0 {
		return fmt.Errorf("auth verification/reset ttl must be > 0")
	}

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be in [4, 31]")
	}

	if c.Auth.PasswordMinLength <= 0 || c.Auth.PasswordMinLength > 72 {
		return fmt.Errorf("auth.password_min_length must be in [1, 72]")
	}

	if c.Limits.Default <= 0 {
		return fmt.Errorf("limits.default must be > 0")
	}

	if c.Limits.Max <= 0 {
		return fmt.Errorf("limits.max must be > 0")
	}

	if c.Limits.Default > c.Limits.Max {
		return fmt.Errorf("limits.default must be <= limits.max")
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.rps and rate_limit.burst must be > 0")
	}

	if c.Avatar.MaxSizeBytes <= 0 {
		return fmt.Errorf("avatar.max_size_bytes must be > 0")
	}

	return nil
}
