package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:              "development",
		Port:             "5000",
		JWTSecret:        "secure-secret-at-least-32-chars-long",
		JWTExpirySeconds: 3600,
		BcryptCost:       10,
		DBDriver:         DriverMongo,
		MongoURI:         "mongodb://localhost:27017",
		DBPassword:       "secure-password",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid development", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"zero expiry", func(c *Config) { c.JWTExpirySeconds = 0 }, true},
		{"bcrypt cost too low", func(c *Config) { c.BcryptCost = 2 }, true},
		{"bcrypt cost too high", func(c *Config) { c.BcryptCost = 40 }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }, true},
		{"mongo without uri", func(c *Config) { c.MongoURI = "" }, true},
		{"sqlite driver", func(c *Config) { c.DBDriver = DriverSQLite }, false},
		{"production default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = DefaultJWTSecret
		}, true},
		{"production short secret", func(c *Config) {
			c.Env = "prod"
			c.JWTSecret = "short"
		}, true},
		{"production weak postgres password", func(c *Config) {
			c.Env = "production"
			c.DBDriver = DriverPostgres
			c.DBPassword = "password"
		}, true},
		{"production postgres url", func(c *Config) {
			c.Env = "production"
			c.DBDriver = DriverPostgres
			c.DBPassword = ""
			c.DatabaseURL = "postgres://u:p@db/devconnector"
		}, false},
		{"production valid", func(c *Config) { c.Env = "production" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "test")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test", c.Env)
	assert.Equal(t, "5000", c.Port)
	assert.Equal(t, DriverMongo, c.DBDriver)
	assert.Equal(t, "devconnector", c.MongoDatabase)
	assert.Equal(t, 360000*time.Second, c.JWTExpiry())
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, 10*time.Second, c.GitHubTimeout())
	assert.Equal(t, "https://api.github.com", c.GitHubAPIURL)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_EXPIRY_SECONDS", "60")
	t.Setenv("GITHUB_TIMEOUT", "3")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, DriverSQLite, c.DBDriver)
	assert.Equal(t, time.Minute, c.JWTExpiry())
	assert.Equal(t, 3*time.Second, c.GitHubTimeout())
}

func TestConfig_Helpers(t *testing.T) {
	c := &Config{
		DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "disable",
		AllowedOrigins: " http://a.test , ,http://b.test",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", c.PostgresDSN())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.Origins())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.PostgresDSN())
}

func TestConfig_RateLimitEnabled(t *testing.T) {
	tests := map[string]bool{
		"":            false,
		"test":        false,
		"development": false,
		"staging":     true,
		"production":  true,
	}
	for env, want := range tests {
		c := &Config{Env: env}
		assert.Equal(t, want, c.RateLimitEnabled(), "env %q", env)
	}
}
