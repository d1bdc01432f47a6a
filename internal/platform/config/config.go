// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"lessons_backend/internal/platform/db"
	"lessons_backend/internal/platform/externalapi/stripecheckout"
	platformredis "lessons_backend/internal/platform/redis"
)

// Config is the complete runtime configuration.
type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	// CheckoutRateLimit is the per-IP limit on payment routes, e.g. "20-M".
	CheckoutRateLimit string

	DB             db.Config
	Redis          platformredis.Config
	LessonCacheTTL time.Duration
	Stripe         stripecheckout.Config
}

// Currencies without a minor unit.
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "lifes_lessons")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("DB_CONNECT_TIMEOUT", "60s")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("LESSON_CACHE_TTL", "5m")
	v.SetDefault("STRIPE_TIMEOUT", "10s")
	v.SetDefault("STRIPE_RATE_LIMIT", 25)
	v.SetDefault("CHECKOUT_RATE_LIMIT", "20-M")
	v.SetDefault("SITE_DOMAIN", "http://localhost:5173")
	v.SetDefault("PREMIUM_PRODUCT_NAME", "Life's Lessons Premium")
	v.SetDefault("PREMIUM_PRODUCT_DESCRIPTION", "Lifetime access to premium lessons")
	v.SetDefault("PREMIUM_PRICE", "1500")
	v.SetDefault("PREMIUM_CURRENCY", "usd")
}

// Load reads the configuration from environment variables, applying defaults.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	currency := strings.ToLower(v.GetString("PREMIUM_CURRENCY"))
	amount, err := ToMinorUnits(v.GetString("PREMIUM_PRICE"), currency)
	if err != nil {
		return Config{}, err
	}

	var redisAddr string
	if host := v.GetString("REDIS_HOST"); host != "" {
		redisAddr = host + ":" + v.GetString("REDIS_PORT")
	}

	return Config{
		Port:     v.GetString("PORT"),
		GinMode:  v.GetString("GIN_MODE"),
		LogLevel: v.GetString("LOG_LEVEL"),

		CheckoutRateLimit: v.GetString("CHECKOUT_RATE_LIMIT"),
		DB: db.Config{
			URL:            v.GetString("DATABASE_URL"),
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetString("DB_PORT"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			Name:           v.GetString("DB_NAME"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			RunMigrations:  v.GetBool("RUN_MIGRATIONS"),
			ConnectTimeout: v.GetDuration("DB_CONNECT_TIMEOUT"),
		},
		Redis: platformredis.Config{
			Addr:     redisAddr,
			Password: v.GetString("REDIS_PASSWORD"),
		},
		LessonCacheTTL: v.GetDuration("LESSON_CACHE_TTL"),
		Stripe: stripecheckout.Config{
			SecretKey:          v.GetString("STRIPE_SECRET_KEY"),
			APIURL:             v.GetString("STRIPE_API_URL"),
			Timeout:            v.GetDuration("STRIPE_TIMEOUT"),
			RateLimit:          v.GetInt("STRIPE_RATE_LIMIT"),
			SiteDomain:         strings.TrimRight(v.GetString("SITE_DOMAIN"), "/"),
			ProductName:        v.GetString("PREMIUM_PRODUCT_NAME"),
			ProductDescription: v.GetString("PREMIUM_PRODUCT_DESCRIPTION"),
			UnitAmount:         amount,
			Currency:           currency,
		},
	}, nil
}

// ToMinorUnits converts a decimal price in major units ("15.99") to the
// integer amount Stripe expects for currency.
func ToMinorUnits(price, currency string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return 0, fmt.Errorf("invalid PREMIUM_PRICE %q: %w", price, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("invalid PREMIUM_PRICE %q: must be positive", price)
	}
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return d.Round(0).IntPart(), nil
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
