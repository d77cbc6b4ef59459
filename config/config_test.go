package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "secret")
	v.Set("STORE", "memory")

	cfg, err := FromViper(v)

	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Address())
	assert.Equal(t, "/market-mate", cfg.APIPrefix)
	assert.Equal(t, "market-mate", cfg.MongoDatabase)
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.CookieSecure)
	assert.True(t, cfg.MongoTransactions)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 5.0, cfg.AuthRateLimit)
	assert.Equal(t, 10, cfg.AuthRateBurst)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
}

func TestFromViper_ReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("JWT_TTL", "2h")

	cfg, err := FromViper(viper.New())

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, StoreMongo, cfg.Store)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing secret", Config{Store: StoreMemory, JWTTTL: time.Hour, MaxUploadBytes: 1}, "JWT_SECRET"},
		{"mongo needs uri", Config{Store: StoreMongo, JWTSecret: "s", JWTTTL: time.Hour, MaxUploadBytes: 1}, "MONGODB_URI"},
		{"unknown store", Config{Store: "redis", JWTSecret: "s", JWTTTL: time.Hour, MaxUploadBytes: 1}, "unknown STORE"},
		{"zero ttl", Config{Store: StoreMemory, JWTSecret: "s", MaxUploadBytes: 1}, "JWT_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	ok := Config{Store: StoreMemory, JWTSecret: "s", JWTTTL: time.Hour, MaxUploadBytes: 1}
	assert.NoError(t, ok.Validate())
}
