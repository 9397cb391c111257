package config

import (
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/random"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the process configuration, read from the environment and an
// optional .env file in the working directory.
type Config struct {
	DatabaseURL  string
	Port         string
	AutoMigrate  bool
	LogLevel     string
	TimeZone     *time.Location
	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool

	// TrustedProxies are the networks whose X-Forwarded-For header is
	// believed when working out the client address.
	TrustedProxies []*net.IPNet

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	LoginRateLimit  int
	LoginRateWindow time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	DocumentBucket string

	FilingReminderHour int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_TIMEZONE", "America/New_York")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOGIN_RATE_LIMIT", 5)
	v.SetDefault("LOGIN_RATE_WINDOW", "15m")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("DOCUMENT_BUCKET", "tenant-documents")
	v.SetDefault("FILING_REMINDER_HOUR", 7)
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return FromViper(v)
}

// FromViper builds and validates a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:        v.GetString("DATABASE_URL"),
		Port:               v.GetString("PORT"),
		AutoMigrate:        v.GetBool("AUTO_MIGRATE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		SessionTTL:         v.GetDuration("SESSION_TTL"),
		CookieSecure:       v.GetBool("COOKIE_SECURE"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		LoginRateLimit:     v.GetInt("LOGIN_RATE_LIMIT"),
		LoginRateWindow:    v.GetDuration("LOGIN_RATE_WINDOW"),
		MinioEndpoint:      v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:     v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:     v.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:        v.GetBool("MINIO_USE_SSL"),
		DocumentBucket:     v.GetString("DOCUMENT_BUCKET"),
		FilingReminderHour: v.GetInt("FILING_REMINDER_HOUR"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	loc, err := time.LoadLocation(v.GetString("APP_TIMEZONE"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid APP_TIMEZONE")
	}
	cfg.TimeZone = loc

	if cfg.FilingReminderHour < 0 || cfg.FilingReminderHour > 23 {
		return nil, errors.Errorf("FILING_REMINDER_HOUR must be between 0 and 23, got %d", cfg.FilingReminderHour)
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}

	proxies, err := parseCIDRs(v.GetString("TRUSTED_PROXIES"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid TRUSTED_PROXIES")
	}
	cfg.TrustedProxies = proxies

	if cfg.JWTSecret == "" {
		// sessions will not survive a restart
		slog.Warn("JWT_SECRET not set, using a random secret")
		cfg.JWTSecret = random.String(32)
	}

	return cfg, nil
}

// parseCIDRs reads a comma separated list of networks. A bare address is
// taken as a single host.
func parseCIDRs(raw string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "/") {
			ip := net.ParseIP(part)
			if ip == nil {
				return nil, errors.Errorf("%q is not an address", part)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(part)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

// MinioEnabled reports whether document storage credentials were supplied.
func (c *Config) MinioEnabled() bool {
	return c.MinioAccessKey != "" && c.MinioSecretKey != ""
}
