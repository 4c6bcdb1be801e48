package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "memory", cfg.CartCacheBackend)
	assert.Equal(t, 30*time.Second, cfg.CartStaleAfter)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.False(t, cfg.CartStrictInventory)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("CART_STALE_AFTER", "5s")
	t.Setenv("CART_CACHE_BACKEND", "redis")
	t.Setenv("CART_STRICT_INVENTORY", "true")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, 5*time.Second, cfg.CartStaleAfter)
	assert.Equal(t, "redis", cfg.CartCacheBackend)
	assert.True(t, cfg.CartStrictInventory)
}

func TestValidate(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.EqualError(t, cfg.Validate(), "JWT_SECRET must be set")

	cfg.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())

	cfg.CartCacheBackend = "memcached"
	assert.Error(t, cfg.Validate())
}
