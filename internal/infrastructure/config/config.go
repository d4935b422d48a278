package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. It is public knowledge;
// InsecureDefaults reports it so deployments can catch it.
const DefaultJWTSecret = "secret"

type Config struct {
	Port       string        `env:"PORT,         default=4000"`
	Env        string        `env:"ENV,          default=development"`
	LogLevel   string        `env:"LOG_LEVEL,    default=info"`
	JWTSecret  string        `env:"JWT_SECRET,   default=secret"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,    default=0s"`
	BcryptCost int           `env:"BCRYPT_COST,  default=10"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:3000"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,    default=todo"`
}

// RedisConfig is optional: an empty Addr disables the idempotency store.
type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

// InsecureDefaults lists the insecure default values still in effect.
func (c *Config) InsecureDefaults() []string {
	var warnings []string
	if c.JWTSecret == DefaultJWTSecret {
		warnings = append(warnings, "JWT_SECRET is unset; tokens are signed with the public default secret")
	}
	return warnings
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom processes configuration from the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	// default= only covers an absent variable; JWT_SECRET= must not sign with "".
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = DefaultJWTSecret
	}
	return &cfg, nil
}
