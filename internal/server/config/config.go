// Package config отвечает за:
// - чтение server.yaml
// - подстановку переменных окружения вида ${JWT_SIGNING_KEY}
// - проставление дефолтов
// - валидацию (чтобы сервер не стартовал с дырявыми настройками)
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config — корневая структура всего конфига сервера.
type Config struct {
	Env        string           `yaml:"env"` // dev|stage|prod
	Server     ServerConfig     `yaml:"server"`
	TLS        TLSConfig        `yaml:"tls"`
	DB         DBConfig         `yaml:"db"`
	Migrations MigrationsConfig `yaml:"migrations"`
	Auth       AuthConfig       `yaml:"auth"`
	Password   PasswordConfig   `yaml:"password"`
	Security   SecurityConfig   `yaml:"security"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig — настройки HTTP-сервера.
type ServerConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"` // время на graceful shutdown
	MaxHeaderBytes    int           `yaml:"max_header_bytes"` // лимит размера заголовков
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`   // лимит размера тела запроса
}

// TLSConfig — настройки HTTPS.
type TLSConfig struct {
	Enabled    bool   `yaml:"enabled"`
	CertFile   string `yaml:"cert_file"`
	KeyFile    string `yaml:"key_file"`
	MinVersion string `yaml:"min_version"` // "1.2"|"1.3" (1.0/1.1 запрещаем т.к. устарели)
}

// DBConfig — настройки подключения к базе данных.
type DBConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	QueryTimeout    time.Duration `yaml:"query_timeout"` // таймаут на запросы к БД
}

// MigrationsConfig — настройки миграций БД.
type MigrationsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// AuthConfig — настройки аутентификации.
type AuthConfig struct {
	Issuer     string         `yaml:"issuer"`
	Audience   string         `yaml:"audience"`
	AccessTTL  time.Duration  `yaml:"access_ttl"`
	RefreshTTL time.Duration  `yaml:"refresh_ttl"`
	JWT        JWTConfig      `yaml:"jwt"`
	Sessions   SessionsConfig `yaml:"sessions"`
}

// JWTConfig — как подписываем JWT.
type JWTConfig struct {
	Algorithm  string `yaml:"algorithm"`   // сейчас поддерживаем только HS256
	SigningKey string `yaml:"signing_key"` // может содержать ${JWT_SIGNING_KEY}
}

// SessionsConfig — настройки хранения refresh-сессий (на сервере).
type SessionsConfig struct {
	RotateRefresh  bool `yaml:"rotate_refresh"`
	ReuseDetection bool `yaml:"reuse_detection"`
}

// PasswordConfig — настройки хэширования паролей пользователей.
type PasswordConfig struct {
	Hasher string       `yaml:"hasher"` // argon2id|bcrypt
	Argon2 Argon2Config `yaml:"argon2"`
	Bcrypt BcryptConfig `yaml:"bcrypt"`
}

// Argon2Config — параметры argon2id.
type Argon2Config struct {
	Time      uint32 `yaml:"time"`
	MemoryKiB uint32 `yaml:"memory_kib"`
	Threads   uint8  `yaml:"threads"`
	KeyLen    uint32 `yaml:"key_len"`
	SaltLen   uint32 `yaml:"salt_len"`
}

// BcryptConfig — параметры bcrypt.
type BcryptConfig struct {
	Cost int `yaml:"cost"`
}

// SecurityConfig — ограничения/защита.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig — rate limit по IP на регистрацию и вход.
type RateLimitConfig struct {
	Enabled bool          `yaml:"enabled"`
	RPS     float64       `yaml:"rps"`
	Burst   int           `yaml:"burst"`
	IdleTTL time.Duration `yaml:"idle_ttl"` // через сколько забываем неактивный IP
}

// LogConfig — настройки логирования (zap).
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // json|console
	Dir    string `yaml:"dir"`
}

// Load читает YAML, подставляет переменные окружения вида ${VAR},
// затем парсит в структуру, проставляет дефолты и валидирует.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать конфиг: %w", err)
	}

	// signing_key: "${JWT_SIGNING_KEY}" -> signing_key: "реальное_значение"
	raw = []byte(ExpandEnvStrict(string(raw)))

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("не удалось распарсить yaml: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envRe = regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)

// ExpandEnvStrict заменяет ${VAR} на значение из окружения.
// Если переменная не задана — оставляем ${VAR} как есть,
// а потом Validate() упадёт с понятной ошибкой.
func ExpandEnvStrict(s string) string {
	return envRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := envRe.FindStringSubmatch(m)
		if len(sub) != 2 {
			return m
		}
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		return m
	})
}

// ApplyDefaults — дефолтные значения, если в yaml поле не задано.
func ApplyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.Migrations.Path == "" {
		cfg.Migrations.Path = "file://migrations/postgres"
	}
	if cfg.Auth.AccessTTL == 0 {
		cfg.Auth.AccessTTL = 15 * time.Minute
	}
	if cfg.Auth.RefreshTTL == 0 {
		cfg.Auth.RefreshTTL = 30 * 24 * time.Hour
	}
	if cfg.Auth.JWT.Algorithm == "" {
		cfg.Auth.JWT.Algorithm = "HS256"
	}
	if cfg.Password.Hasher == "" {
		cfg.Password.Hasher = "bcrypt"
	}
	if cfg.Password.Bcrypt.Cost == 0 {
		cfg.Password.Bcrypt.Cost = 10
	}
	if cfg.Security.RateLimit.IdleTTL == 0 {
		cfg.Security.RateLimit.IdleTTL = 3 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// Validate проверяет, что конфиг заполнен корректно и безопасно.
// Если что-то не так — возвращаем ошибку и сервер НЕ стартует.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host обязателен")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port некорректен: %d", c.Server.Port)
	}

	// TLS/HTTPS
	if c.TLS.Enabled {
		if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
			return errors.New("tls.cert_file и tls.key_file обязательны при tls.enabled=true")
		}
		if c.TLS.MinVersion == "" {
			c.TLS.MinVersion = "1.2"
		}
		if c.TLS.MinVersion == "1.0" || c.TLS.MinVersion == "1.1" {
			return fmt.Errorf("tls.min_version=%s небезопасен; используй 1.2 или 1.3", c.TLS.MinVersion)
		}
	}

	if c.DB.DSN == "" {
		return errors.New("db.dsn обязателен")
	}

	// JWT
	alg := strings.ToUpper(strings.TrimSpace(c.Auth.JWT.Algorithm))
	if alg != "HS256" {
		return fmt.Errorf("auth.jwt.algorithm должен быть HS256 (сейчас %q)", c.Auth.JWT.Algorithm)
	}

	key := strings.TrimSpace(c.Auth.JWT.SigningKey)
	if key == "" {
		return errors.New("auth.jwt.signing_key обязателен (через ${JWT_SIGNING_KEY} или прямо строкой)")
	}
	// Если ${JWT_SIGNING_KEY} не подставился — значит переменная окружения не задана
	if strings.Contains(key, "${") && strings.Contains(key, "}") {
		return fmt.Errorf("auth.jwt.signing_key содержит неподставленную переменную: %q (нужно задать JWT_SIGNING_KEY)", key)
	}
	if len(key) < 32 {
		return fmt.Errorf("auth.jwt.signing_key слишком короткий (%d символов); нужно >= 32", len(key))
	}
	if c.Auth.AccessTTL < 0 || c.Auth.RefreshTTL < 0 {
		return errors.New("auth.access_ttl и auth.refresh_ttl не могут быть отрицательными")
	}

	// Rate limit
	if c.Security.RateLimit.Enabled {
		if c.Security.RateLimit.RPS <= 0 {
			return errors.New("security.rate_limit.rps должен быть > 0 при включённом rate_limit")
		}
		if c.Security.RateLimit.Burst <= 0 {
			return errors.New("security.rate_limit.burst должен быть > 0 при включённом rate_limit")
		}
	}

	// Хэширование паролей
	switch strings.ToLower(c.Password.Hasher) {
	case "argon2id":
		if c.Password.Argon2.Time == 0 || c.Password.Argon2.MemoryKiB == 0 || c.Password.Argon2.Threads == 0 ||
			c.Password.Argon2.KeyLen == 0 || c.Password.Argon2.SaltLen == 0 {
			return errors.New("password.argon2 должен быть настроен для argon2id")
		}
	case "bcrypt":
		if c.Password.Bcrypt.Cost < 4 || c.Password.Bcrypt.Cost > 31 {
			return fmt.Errorf("password.bcrypt.cost должен быть в диапазоне 4..31 (сейчас %d)", c.Password.Bcrypt.Cost)
		}
	default:
		return fmt.Errorf("password.hasher должен быть argon2id|bcrypt (сейчас %q)", c.Password.Hasher)
	}

	return nil
}

// ApplyEnvOverrides даёт возможность переопределять
// некоторые настройки через переменные окружения без ${...} в yaml.
// Например SERVER_PORT=9090 переопределит server.port.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.DB.DSN = v
	}
}
