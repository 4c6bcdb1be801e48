package config

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Marketplace backend.
	APIURL     string        `mapstructure:"API_URL"`
	APITimeout time.Duration `mapstructure:"API_TIMEOUT"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Cart cache.
	CartCacheBackend      string        `mapstructure:"CART_CACHE_BACKEND"` // "memory" or "redis"
	CartStaleAfter        time.Duration `mapstructure:"CART_STALE_AFTER"`
	CartCacheTTL          time.Duration `mapstructure:"CART_CACHE_TTL"`
	CartStrictInventory   bool          `mapstructure:"CART_STRICT_INVENTORY"`
	CartAsyncInvalidation bool          `mapstructure:"CART_ASYNC_INVALIDATION"`

	// Stripe checkout webhooks.
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("API_URL", "http://localhost:3000/api")
	v.SetDefault("API_TIMEOUT", 10*time.Second)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 3)
	v.SetDefault("CART_CACHE_BACKEND", "memory")
	v.SetDefault("CART_STALE_AFTER", 30*time.Second)
	v.SetDefault("CART_CACHE_TTL", 30*time.Minute)
	v.SetDefault("CART_STRICT_INVENTORY", false)
	v.SetDefault("CART_ASYNC_INVALIDATION", false)
	v.SetDefault("STRIPE_WEBHOOK_SECRET", "")
}

// Validate rejects configurations the gateway must not start with. Without a
// JWT secret the user id on a request could not be trusted, and cached carts
// are keyed by it.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.CartCacheBackend != "memory" && c.CartCacheBackend != "redis" {
		return errors.New("CART_CACHE_BACKEND must be memory or redis")
	}
	return nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// UsesRedis reports whether any component needs a Redis connection.
func UsesRedis() bool {
	return AppConfig.CartCacheBackend == "redis" || AppConfig.CartAsyncInvalidation
}
