package bootstrap

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort            string `mapstructure:"SERVER_PORT"`
	RedisUrl              string `mapstructure:"REDIS_URL"`
	MongoUri              string `mapstructure:"MONGO_URI"`
	MongoDatabase         string `mapstructure:"MONGO_DB"`
	IsLocalCors           bool   `mapstructure:"LOCAL_CORS"`
	CursorTTLMinutes      int    `mapstructure:"CURSOR_TTL_MINUTES"`
	SessionTTLMinutes     int    `mapstructure:"SESSION_TTL_MINUTES"`
	RenderCacheTTLSeconds int    `mapstructure:"RENDER_CACHE_TTL_SECONDS"`
	ScrollSettleMs        int    `mapstructure:"SCROLL_SETTLE_MS"`
	ShowComments          bool   `mapstructure:"SHOW_COMMENTS"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "chess_analyse")
	v.SetDefault("LOCAL_CORS", false)
	v.SetDefault("CURSOR_TTL_MINUTES", 11*60)
	v.SetDefault("SESSION_TTL_MINUTES", 30)
	v.SetDefault("RENDER_CACHE_TTL_SECONDS", 60)
	v.SetDefault("SCROLL_SETTLE_MS", 100)
	v.SetDefault("SHOW_COMMENTS", true)
}

func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(cfgPath)
	v.SetConfigType("env")
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c Config) CursorTTL() time.Duration {
	return time.Duration(c.CursorTTLMinutes) * time.Minute
}

// SessionTTL is how long an analysis nobody touches stays loaded.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c Config) RenderCacheTTL() time.Duration {
	return time.Duration(c.RenderCacheTTLSeconds) * time.Second
}

func (c Config) ScrollSettle() time.Duration {
	return time.Duration(c.ScrollSettleMs) * time.Millisecond
}
