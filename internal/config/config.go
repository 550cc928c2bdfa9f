package config

import (
	"errors"
	"strings"
	"time"

	"github.com/khanghh/admin-portal/params"
	"github.com/spf13/viper"
)

const (
	DefaultListenAddr           = ":3000"
	DefaultDevBackendListenAddr = ":3001"
	DefaultSiteName             = "Admin Portal"
	DefaultCookieMaxAge         = 7 * 24 * time.Hour
	DefaultCookieName           = "admin_sid"
	DefaultSuccessRedirectURL   = "/"
	DefaultRateLimitMax         = 5
	DefaultRateLimitExpiration  = time.Minute
)

type SessionConfig struct {
	SessionMaxAge  time.Duration `mapstructure:"sessionMaxAge"`
	CookieName     string        `mapstructure:"cookieName"`
	CookieHttpOnly bool          `mapstructure:"cookieHttpOnly"`
	CookieSecure   bool          `mapstructure:"cookieSecure"`
}

type BackendConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FlowConfig struct {
	SuccessRedirectURL   string        `mapstructure:"successRedirectURL"`
	SuccessRedirectDelay time.Duration `mapstructure:"successRedirectDelay"`
	EmailVerifiedDelay   time.Duration `mapstructure:"emailVerifiedDelay"`
	ResendCooldown       time.Duration `mapstructure:"resendCooldown"`
}

type RateLimitConfig struct {
	Max        int           `mapstructure:"max"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type TurnstileConfig struct {
	SiteKey   string `mapstructure:"siteKey"`
	SecretKey string `mapstructure:"secretKey"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type DevBackendConfig struct {
	ListenAddr string     `mapstructure:"listenAddr"`
	SigningKey string     `mapstructure:"signingKey"`
	Issuer     string     `mapstructure:"issuer"`
	SMTP       SMTPConfig `mapstructure:"smtp"`
}

type Config struct {
	Debug       bool             `mapstructure:"debug"`
	SiteName    string           `mapstructure:"siteName"`
	ListenAddr  string           `mapstructure:"listenAddr"`
	TemplateDir string           `mapstructure:"templateDir"`
	RedisURL    string           `mapstructure:"redisURL"`
	Session     SessionConfig    `mapstructure:"session"`
	Backend     BackendConfig    `mapstructure:"backend"`
	Flow        FlowConfig       `mapstructure:"flow"`
	RateLimit   RateLimitConfig  `mapstructure:"rateLimit"`
	Turnstile   TurnstileConfig  `mapstructure:"turnstile"`
	DevBackend  DevBackendConfig `mapstructure:"devBackend"`
}

func (c *Config) Sanitize() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.SiteName == "" {
		c.SiteName = DefaultSiteName
	}
	if c.Session.SessionMaxAge == 0 {
		c.Session.SessionMaxAge = DefaultCookieMaxAge
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultCookieName
	}
	if c.Backend.URL == "" {
		return errors.New("backend.url is required")
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = params.BackendTimeout
	}
	if c.Flow.SuccessRedirectURL == "" {
		c.Flow.SuccessRedirectURL = DefaultSuccessRedirectURL
	}
	if c.Flow.SuccessRedirectDelay == 0 {
		c.Flow.SuccessRedirectDelay = params.SuccessRedirectDelay
	}
	if c.Flow.EmailVerifiedDelay == 0 {
		c.Flow.EmailVerifiedDelay = params.EmailVerifiedDelay
	}
	if c.Flow.ResendCooldown == 0 {
		c.Flow.ResendCooldown = params.ResendCooldown
	}
	if c.RateLimit.Max == 0 {
		c.RateLimit.Max = DefaultRateLimitMax
	}
	if c.RateLimit.Expiration == 0 {
		c.RateLimit.Expiration = DefaultRateLimitExpiration
	}
	if c.DevBackend.ListenAddr == "" {
		c.DevBackend.ListenAddr = DefaultDevBackendListenAddr
	}
	if c.DevBackend.Issuer == "" {
		c.DevBackend.Issuer = c.SiteName
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	viper.SetConfigFile(filename)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
