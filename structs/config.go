package structs

import "time"

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Auth      *AuthConfig
	Email     *EmailConfig
	Cache     *CacheConfig
	RateLimit *RateLimitConfig
}

type ServerConfig struct {
	AppName        string        // Lumino Learning
	Environment    string        // development, production
	Port           string        // :8084
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	ServerURL      string // public base URL of this API
	FrontendURL    string // base URL of the game client, magic links point here
	WebhookSecret  string // shared secret for the assignment write hook
	CookieDomain   string // cookie domain in production (cross-subdomain)
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type AuthConfig struct {
	SessionTokenSecret string
	SessionTokenExpiry time.Duration
	BlacklistCacheTTL  time.Duration
	IdentityCacheTTL   time.Duration
}

type EmailConfig struct {
	ApiKey          string
	From            string // sender address, e.g. assignments@luminolearning.com
	FromName        string
	SupportEmail    string
	LinkTokenExpiry time.Duration // lifetime of emailed assignment tokens
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	AuthLimit     int
	AuthWindow    time.Duration
	AdminLimit    int
	AdminWindow   time.Duration
	GeneralLimit  int
	GeneralWindow time.Duration
}
