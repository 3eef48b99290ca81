package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/perfectlystyled/service-checkout/internal/platform/database"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageDynamoDB = "dynamodb"
)

// defaultJWTSecret is a development placeholder and is refused elsewhere.
const defaultJWTSecret = "change-me-in-production"

// DynamoDBConfig holds DynamoDB table and endpoint settings.
type DynamoDBConfig struct {
	Region         string
	Endpoint       string
	DiscountsTable string
	OrdersTable    string
}

// PayPalConfig holds PayPal REST credentials and behaviour switches.
type PayPalConfig struct {
	BaseURL       string
	ClientID      string
	ClientSecret  string
	ReturnURL     string
	CancelURL     string
	Timeout       time.Duration
	VerifyCapture bool
}

// Enabled reports whether real PayPal credentials are configured.
func (c PayPalConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// KafkaConfig holds event publishing settings.
type KafkaConfig struct {
	Brokers []string
}

// JWTConfig holds admin token settings.
type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
}

// PricingConfig holds the product price and charge currency.
type PricingConfig struct {
	ProductPrice decimal.Decimal
	Currency     string
}

// ReportsConfig holds report archive settings.
type ReportsConfig struct {
	Bucket    string
	AWSRegion string
}

// ServiceConfig holds all configuration for the checkout service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	StorageBackend string
	DBConfig       database.PostgresConfig
	MigrationsDir  string
	DynamoDB       DynamoDBConfig
	PayPal         PayPalConfig
	Kafka          KafkaConfig
	JWT            JWTConfig
	Pricing        PricingConfig
	Reports        ReportsConfig
	CORSOrigins    []string
}

// IsDevelopment reports whether the service runs in development mode.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads configuration from environment variables, after merging an
// optional .env file, and returns a ServiceConfig.
func Load() (*ServiceConfig, error) {
	_ = godotenv.Load()
	return loadFrom(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORAGE_BACKEND", StoragePostgres)
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "checkout")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("AWS_REGION", "eu-west-2")
	v.SetDefault("DYNAMODB_DISCOUNTS_TABLE", "discount_codes")
	v.SetDefault("DYNAMODB_ORDERS_TABLE", "orders")

	v.SetDefault("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com")
	v.SetDefault("PAYPAL_TIMEOUT", "15s")
	v.SetDefault("PAYPAL_VERIFY_CAPTURE", false)

	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ACCESS_EXPIRY", "1h")

	v.SetDefault("PRODUCT_PRICE", "15.99")
	v.SetDefault("CURRENCY", "GBP")

	v.SetDefault("CORS_ORIGINS", "*")
	return v
}

func loadFrom(v *viper.Viper) (*ServiceConfig, error) {
	backend := strings.ToLower(v.GetString("STORAGE_BACKEND"))
	if backend != StoragePostgres && backend != StorageDynamoDB {
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", backend)
	}

	price, err := decimal.NewFromString(v.GetString("PRODUCT_PRICE"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRODUCT_PRICE: %w", err)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("PRODUCT_PRICE must be positive, got %s", price)
	}

	cfg := &ServiceConfig{
		Port:           v.GetString("SERVICE_PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		StorageBackend: backend,
		DBConfig:       loadDatabaseConfig(v),
		MigrationsDir:  v.GetString("MIGRATIONS_DIR"),
		DynamoDB: DynamoDBConfig{
			Region:         v.GetString("AWS_REGION"),
			Endpoint:       v.GetString("DYNAMODB_ENDPOINT"),
			DiscountsTable: v.GetString("DYNAMODB_DISCOUNTS_TABLE"),
			OrdersTable:    v.GetString("DYNAMODB_ORDERS_TABLE"),
		},
		PayPal: PayPalConfig{
			BaseURL:       strings.TrimRight(v.GetString("PAYPAL_BASE_URL"), "/"),
			ClientID:      v.GetString("PAYPAL_CLIENT_ID"),
			ClientSecret:  v.GetString("PAYPAL_CLIENT_SECRET"),
			ReturnURL:     v.GetString("PAYPAL_RETURN_URL"),
			CancelURL:     v.GetString("PAYPAL_CANCEL_URL"),
			Timeout:       v.GetDuration("PAYPAL_TIMEOUT"),
			VerifyCapture: v.GetBool("PAYPAL_VERIFY_CAPTURE"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
		},
		JWT: JWTConfig{
			Secret:    v.GetString("JWT_SECRET"),
			AccessTTL: v.GetDuration("JWT_ACCESS_EXPIRY"),
		},
		Pricing: PricingConfig{
			ProductPrice: price,
			Currency:     strings.ToUpper(v.GetString("CURRENCY")),
		},
		Reports: ReportsConfig{
			Bucket:    v.GetString("REPORT_BUCKET"),
			AWSRegion: v.GetString("AWS_REGION"),
		},
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
	}

	if !cfg.IsDevelopment() {
		if err := cfg.validateProduction(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// validateProduction rejects the development fallbacks: the mock payment
// provider and the placeholder JWT secret.
func (c *ServiceConfig) validateProduction() error {
	if !c.PayPal.Enabled() {
		return fmt.Errorf("PAYPAL_CLIENT_ID and PAYPAL_CLIENT_SECRET are required when APP_ENV=%s", c.AppEnv)
	}
	secret := strings.TrimSpace(c.JWT.Secret)
	if secret == "" || secret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set to a non-default value when APP_ENV=%s", c.AppEnv)
	}
	return nil
}

// loadDatabaseConfig extracts PostgreSQL configuration from Viper.
func loadDatabaseConfig(v *viper.Viper) database.PostgresConfig {
	return database.PostgresConfig{
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetString("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		DBName:   v.GetString("DB_NAME"),
		SSLMode:  v.GetString("DB_SSLMODE"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
