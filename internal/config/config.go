package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	DatabaseURL string
	DbHost      string
	DbPort      string
	DbUser      string
	DbPass      string
	DbName      string
	DbSSLMode   string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	Log      string // dev|prod
	LogLevel string
	LogDir   string
	Env      string // dev|prod
	Debug    bool

	AllowedOrigins []string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	AdminEmail   string

	SiteURL        string
	MediaRoot      string
	ResumeMaxBytes int64

	PageSize    int
	MaxPageSize int

	EmailWorkers   int
	EmailQueueSize int

	// Лимит публичных форм (заявки, отзывы, контакты, подписка) на один IP в час.
	SubmitRateLimit int
	// Лимит попыток логина на один IP в минуту.
	LoginRateLimit int
	// TrustProxy: брать IP клиента из X-Forwarded-For/X-Real-IP.
	TrustProxy bool
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "8000")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("ACCESS_TOKEN_EXPIRY", "15m")
	v.SetDefault("REFRESH_TOKEN_EXPIRY", "168h")
	v.SetDefault("LOG", "prod")
	v.SetDefault("LOGLEVEL", "info")
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("ENV", "prod")
	v.SetDefault("DEBUG", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("MAIL_FROM", "noreply@appnity.co.ke")
	v.SetDefault("ADMIN_EMAIL", "admin@appnity.co.ke")
	v.SetDefault("SITEURL", "http://localhost:8000")
	v.SetDefault("MEDIA_ROOT", "media")
	v.SetDefault("RESUME_MAX_BYTES", 5<<20)
	v.SetDefault("PAGE_SIZE", 20)
	v.SetDefault("MAX_PAGE_SIZE", 100)
	v.SetDefault("EMAIL_WORKERS", 3)
	v.SetDefault("EMAIL_QUEUE_SIZE", 100)
	v.SetDefault("SUBMIT_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_LIMIT", 20)
	v.SetDefault("TRUST_PROXY", false)
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует, логгер инициализируется уже из готового конфига.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	accessTTL, err := time.ParseDuration(v.GetString("ACCESS_TOKEN_EXPIRY"))
	if err != nil {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRY: %w", err)
	}
	refreshTTL, err := time.ParseDuration(v.GetString("REFRESH_TOKEN_EXPIRY"))
	if err != nil {
		return nil, fmt.Errorf("REFRESH_TOKEN_EXPIRY: %w", err)
	}

	cfg := &Config{
		Port:        v.GetString("PORT"),
		DatabaseURL: strings.TrimSpace(v.GetString("DATABASE_URL")),
		DbHost:      v.GetString("DB_HOST"),
		DbPort:      v.GetString("DB_PORT"),
		DbUser:      v.GetString("DB_USER"),
		DbPass:      v.GetString("DB_PASSWORD"),
		DbName:      v.GetString("DB_NAME"),
		DbSSLMode:   v.GetString("DB_SSLMODE"),

		JWTSecret:       v.GetString("JWT_SECRET"),
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,

		Log:      strings.ToLower(v.GetString("LOG")),
		LogLevel: strings.ToLower(v.GetString("LOGLEVEL")),
		LogDir:   v.GetString("LOG_DIR"),
		Env:      strings.ToLower(v.GetString("ENV")),
		Debug:    v.GetBool("DEBUG"),

		AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		SMTPHost:     v.GetString("SMTP_HOST"),
		SMTPPort:     v.GetString("SMTP_PORT"),
		SMTPUser:     v.GetString("SMTP_USER"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),
		MailFrom:     v.GetString("MAIL_FROM"),
		AdminEmail:   v.GetString("ADMIN_EMAIL"),

		SiteURL:        strings.TrimRight(v.GetString("SITEURL"), "/"),
		MediaRoot:      v.GetString("MEDIA_ROOT"),
		ResumeMaxBytes: v.GetInt64("RESUME_MAX_BYTES"),

		PageSize:    v.GetInt("PAGE_SIZE"),
		MaxPageSize: v.GetInt("MAX_PAGE_SIZE"),

		EmailWorkers:   v.GetInt("EMAIL_WORKERS"),
		EmailQueueSize: v.GetInt("EMAIL_QUEUE_SIZE"),

		SubmitRateLimit: v.GetInt("SUBMIT_RATE_LIMIT"),
		LoginRateLimit:  v.GetInt("LOGIN_RATE_LIMIT"),
		TrustProxy:      v.GetBool("TRUST_PROXY"),
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// Критичные: БД
	if c.DatabaseURL == "" && (c.DbHost == "" || c.DbUser == "" || c.DbName == "") {
		return nil, fmt.Errorf("incomplete DB config (DATABASE_URL or DB_HOST/DB_USER/DB_NAME)")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		if c.Env == "prod" {
			return nil, fmt.Errorf("JWT_SECRET is required in prod")
		}
		warnings = append(warnings, "JWT_SECRET is empty")
	}

	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		warnings = append(warnings, "ACCESS_TOKEN_EXPIRY is not shorter than REFRESH_TOKEN_EXPIRY")
	}

	// SMTP — предупреждение, письма уйдут в лог
	if !c.SMTPConfigured() {
		warnings = append(warnings, "SMTP is not fully configured, emails will only be logged")
	}

	if c.Debug && c.Env == "prod" {
		warnings = append(warnings, "DEBUG is enabled in prod")
	}

	return warnings, nil
}

func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != ""
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	if c.DatabaseURL != "" {
		return "DATABASE_URL(***)"
	}
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
