package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config carries every tunable of the client SDK and the stub server.
type Config struct {
	// Client side.
	BaseURL           string        `mapstructure:"base_url"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	RetryMax          int           `mapstructure:"retry_max"`
	AutocompleteQuiet time.Duration `mapstructure:"autocomplete_quiet"`
	SearchQuiet       time.Duration `mapstructure:"search_quiet"`
	HashtagFanoutCap  int           `mapstructure:"hashtag_fanout_cap"`
	FanoutRate        float64       `mapstructure:"fanout_rate"` // per-hashtag searches per second

	// Local store.
	StoreBackend string `mapstructure:"store_backend"` // memory | sqlite | redis
	StorePath    string `mapstructure:"store_path"`
	RedisAddr    string `mapstructure:"redis_addr"`

	// Stub server.
	ListenAddr  string `mapstructure:"listen_addr"`
	DatabaseDSN string `mapstructure:"database_dsn"` // empty means in-memory sqlite
	JWTSecret   string `mapstructure:"jwt_secret"`

	// Observability.
	Debug        bool   `mapstructure:"debug"`
	SentryDSN    string `mapstructure:"sentry_dsn"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// Load reads configuration from an optional file plus DOREMI_* environment
// variables, falling back to defaults that match the production client.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("base_url", "http://localhost:3000/api")
	v.SetDefault("http_timeout", 10*time.Second)
	v.SetDefault("retry_max", 3)
	v.SetDefault("autocomplete_quiet", 300*time.Millisecond)
	v.SetDefault("search_quiet", 500*time.Millisecond)
	v.SetDefault("hashtag_fanout_cap", 8)
	v.SetDefault("fanout_rate", 20.0)
	v.SetDefault("store_backend", "memory")
	v.SetDefault("store_path", "doremi.db")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("listen_addr", ":3000")
	v.SetDefault("database_dsn", "")
	v.SetDefault("jwt_secret", "doremi-dev-secret")
	v.SetDefault("debug", false)

	v.SetEnvPrefix("DOREMI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
