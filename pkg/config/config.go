package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds process configuration, loaded from environment variables with
// the SWOP_ prefix (SWOP_MONGO_URI, SWOP_PORT, ...).
type Config struct {
	MongoURI        string
	MongoDB         string
	Port            string
	BaseURL         string
	ResolverBaseURL string
	ConnectTimeout  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
}

// Load reads configuration from the environment, applying defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SWOP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mongo-uri", "mongodb://localhost:27017")
	v.SetDefault("mongo-db", "swop_redeem")
	v.SetDefault("port", "8080")
	v.SetDefault("base-url", "http://localhost:8080")
	v.SetDefault("resolver-base-url", "https://app.apiswop.co/api/v4/wallet")
	v.SetDefault("connect-timeout", 10*time.Second)
	v.SetDefault("shutdown-timeout", 5*time.Second)
	v.SetDefault("log-level", "info")

	cfg := Config{
		MongoURI:        v.GetString("mongo-uri"),
		MongoDB:         v.GetString("mongo-db"),
		Port:            v.GetString("port"),
		BaseURL:         v.GetString("base-url"),
		ResolverBaseURL: v.GetString("resolver-base-url"),
		ConnectTimeout:  v.GetDuration("connect-timeout"),
		ShutdownTimeout: v.GetDuration("shutdown-timeout"),
		LogLevel:        v.GetString("log-level"),
	}
	return cfg, nil
}
