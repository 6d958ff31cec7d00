package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	// EnvPrefix namespaces every QuickBite environment variable.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	Docdb         DocdbConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Checkout      CheckoutConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"QUICKBITE_APP_ENV" required:"true"`
	Port         string `envconfig:"QUICKBITE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"QUICKBITE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"QUICKBITE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DocdbConfig points at the hosted document-database/storage service that
// owns the menu catalog and user profile documents.
type DocdbConfig struct {
	Endpoint  string        `envconfig:"QUICKBITE_DOCDB_ENDPOINT" required:"true"`
	ProjectID string        `envconfig:"QUICKBITE_DOCDB_PROJECT_ID" required:"true"`
	APIKey    string        `envconfig:"QUICKBITE_DOCDB_API_KEY" required:"true"`
	Database  string        `envconfig:"QUICKBITE_DOCDB_DATABASE_ID" required:"true"`
	Bucket    string        `envconfig:"QUICKBITE_DOCDB_BUCKET_ID"`
	Timeout   time.Duration `envconfig:"QUICKBITE_DOCDB_TIMEOUT" default:"10s"`

	UsersCollection              string `envconfig:"QUICKBITE_DOCDB_USERS_COLLECTION" default:"user"`
	CategoriesCollection         string `envconfig:"QUICKBITE_DOCDB_CATEGORIES_COLLECTION" default:"categories"`
	MenuCollection               string `envconfig:"QUICKBITE_DOCDB_MENU_COLLECTION" default:"menu"`
	CustomizationsCollection     string `envconfig:"QUICKBITE_DOCDB_CUSTOMIZATIONS_COLLECTION" default:"customizations"`
	MenuCustomizationsCollection string `envconfig:"QUICKBITE_DOCDB_MENU_CUSTOMIZATIONS_COLLECTION" default:"menu_customizations"`
}

type RedisConfig struct {
	URL          string        `envconfig:"QUICKBITE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"QUICKBITE_REDIS_ADDR"`
	Password     string        `envconfig:"QUICKBITE_REDIS_PASSWORD"`
	DB           int           `envconfig:"QUICKBITE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QUICKBITE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QUICKBITE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QUICKBITE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QUICKBITE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QUICKBITE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"QUICKBITE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"QUICKBITE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"QUICKBITE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"QUICKBITE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"QUICKBITE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"QUICKBITE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"QUICKBITE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"QUICKBITE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"QUICKBITE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"QUICKBITE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"QUICKBITE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"QUICKBITE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// CheckoutConfig carries the flat order-summary constants and the
// confirmation delay applied by the place-order flow.
type CheckoutConfig struct {
	DeliveryFee     string        `envconfig:"QUICKBITE_CHECKOUT_DELIVERY_FEE" default:"5.00"`
	Discount        string        `envconfig:"QUICKBITE_CHECKOUT_DISCOUNT" default:"0.50"`
	PlaceOrderDelay time.Duration `envconfig:"QUICKBITE_CHECKOUT_PLACE_ORDER_DELAY" default:"3s"`
}

// DeliveryFeeAmount parses the configured delivery fee.
func (c CheckoutConfig) DeliveryFeeAmount() decimal.Decimal {
	amount, _ := decimal.NewFromString(c.DeliveryFee)
	return amount
}

// DiscountAmount parses the configured flat discount.
func (c CheckoutConfig) DiscountAmount() decimal.Decimal {
	amount, _ := decimal.NewFromString(c.Discount)
	return amount
}

func (c CheckoutConfig) validate() error {
	if _, err := decimal.NewFromString(c.DeliveryFee); err != nil {
		return fmt.Errorf("invalid delivery fee %q: %w", c.DeliveryFee, err)
	}
	if _, err := decimal.NewFromString(c.Discount); err != nil {
		return fmt.Errorf("invalid discount %q: %w", c.Discount, err)
	}
	if c.PlaceOrderDelay < 0 {
		return fmt.Errorf("place order delay must not be negative")
	}
	return nil
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"QUICKBITE_CORS_ALLOWED_ORIGINS" default:"*"`
}
