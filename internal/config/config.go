package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	JWTSecret  string
	Qualpay    QualpaySettings
}

// QualpaySettings is the merchant-side gateway configuration. It is read
// once at startup and treated as read-only by the integration core.
type QualpaySettings struct {
	MerchantID          string
	SecurityKey         string
	ProfileID           string
	UseSandbox          bool
	WebhookID           string
	WebhookSecret       string
	UseEmbeddedFields   bool
	UseCustomerVault    bool
	UseRecurringBilling bool
	TransactionType     string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),
		JWTSecret:  os.Getenv("SECRET_KEY"),
		Qualpay: QualpaySettings{
			MerchantID:          os.Getenv("QUALPAY_MERCHANT_ID"),
			SecurityKey:         os.Getenv("QUALPAY_SECURITY_KEY"),
			ProfileID:           os.Getenv("QUALPAY_PROFILE_ID"),
			UseSandbox:          envBool("QUALPAY_USE_SANDBOX"),
			WebhookID:           os.Getenv("QUALPAY_WEBHOOK_ID"),
			WebhookSecret:       os.Getenv("QUALPAY_WEBHOOK_SECRET"),
			UseEmbeddedFields:   envBool("QUALPAY_USE_EMBEDDED_FIELDS"),
			UseCustomerVault:    envBool("QUALPAY_USE_CUSTOMER_VAULT"),
			UseRecurringBilling: envBool("QUALPAY_USE_RECURRING_BILLING"),
			TransactionType:     os.Getenv("QUALPAY_TRANSACTION_TYPE"),
		},
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return false
	}
	return v
}
