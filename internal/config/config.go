package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvProd = "prod"

	DataSourcePostgres = "postgres"
	DataSourceMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Env        string
	Port       string
	DataSource string
	SeedDemo   bool

	DatabaseURL string
	DBMaxConns  int32

	JWTSecret        string
	JWTIssuer        string
	JWTAlgorithm     string
	JWTTTL           time.Duration
	ResetTokenTTL    time.Duration
	ExposeResetToken bool
	BcryptCost       int

	CORSOrigins    []string
	RequestTimeout time.Duration

	RedisAddr           string
	RedisPassword       string
	AuthRateLimitPerMin int

	S3             S3Config
	AvatarMaxBytes int64
}

// S3Config describes the avatar bucket. An empty Bucket disables uploads.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

// Enabled reports whether avatar storage is configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	env := strings.ToLower(fallback(os.Getenv("ENV"), "dev"))
	cfg := Config{
		Env:         env,
		Port:        fallback(os.Getenv("PORT"), "8080"),
		DataSource:  strings.ToLower(fallback(os.Getenv("DATA_SOURCE"), DataSourcePostgres)),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:  int32(intEnv("DB_MAX_CONNS", 10)),

		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:     fallback(os.Getenv("JWT_ISSUER"), "knowledge-nebula"),
		JWTAlgorithm:  strings.ToUpper(fallback(os.Getenv("JWT_ALGORITHM"), "HS256")),
		JWTTTL:        time.Duration(intEnv("JWT_TTL_MINUTES", 30)) * time.Minute,
		ResetTokenTTL: durationEnv("RESET_TOKEN_TTL", time.Hour),
		BcryptCost:    intEnv("BCRYPT_COST", 10),

		CORSOrigins:    parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		RequestTimeout: durationEnv("REQUEST_TIMEOUT", 10*time.Second),

		RedisAddr:           strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		AuthRateLimitPerMin: intEnv("AUTH_RATE_LIMIT_PER_MIN", 30),

		S3: S3Config{
			Bucket:    strings.TrimSpace(os.Getenv("S3_BUCKET")),
			Region:    fallback(os.Getenv("S3_REGION"), "us-east-1"),
			Endpoint:  strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
			AccessKey: strings.TrimSpace(os.Getenv("S3_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("S3_SECRET_KEY")),
			PublicURL: strings.TrimRight(strings.TrimSpace(os.Getenv("S3_PUBLIC_URL")), "/"),
		},
		AvatarMaxBytes: int64(intEnv("AVATAR_MAX_BYTES", 2<<20)),
	}
	cfg.SeedDemo = boolEnv("SEED_DEMO", cfg.DataSource == DataSourceMemory)
	cfg.ExposeResetToken = boolEnv("EXPOSE_RESET_TOKEN", env != EnvProd)

	switch cfg.DataSource {
	case DataSourcePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required")
		}
	case DataSourceMemory:
	default:
		return Config{}, fmt.Errorf("unsupported DATA_SOURCE %q", cfg.DataSource)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	switch cfg.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return Config{}, fmt.Errorf("unsupported JWT_ALGORITHM %q", cfg.JWTAlgorithm)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// IsProd reports whether the service runs in production mode.
func (c Config) IsProd() bool {
	return c.Env == EnvProd
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

// intEnv returns def when the variable is unset, malformed or not positive.
func intEnv(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func boolEnv(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

// durationEnv accepts Go durations ("90s") or a bare number of seconds.
func durationEnv(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
