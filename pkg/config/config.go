package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Discord  DiscordConfig  `mapstructure:"discord"`
	Database DatabaseConfig `mapstructure:"database"`
	Tracker  TrackerConfig  `mapstructure:"tracker"`
}

type DiscordConfig struct {
	Token string `mapstructure:"token"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	UseInMemory bool   `mapstructure:"use_in_memory"`
}

type TrackerConfig struct {
	HeartbeatInterval  time.Duration `mapstructure:"heartbeat_interval"`
	WatcherInterval    time.Duration `mapstructure:"watcher_interval"`
	ScheduleInterval   time.Duration `mapstructure:"schedule_interval"`
	CachePurgeInterval time.Duration `mapstructure:"cache_purge_interval"`
	CacheLifetime      time.Duration `mapstructure:"cache_lifetime"`
	// SelfHealWatchers controls whether watchers whose bound message can no
	// longer be found are deleted during a refresh sweep. Disable this for
	// local debugging so a dev database is not mutated by missing messages.
	SelfHealWatchers     bool `mapstructure:"self_heal_watchers"`
	MaxConcurrentUpdates int  `mapstructure:"max_concurrent_updates"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.use_in_memory", false)
	v.SetDefault("tracker.heartbeat_interval", "4m15s")
	v.SetDefault("tracker.watcher_interval", "10m")
	v.SetDefault("tracker.schedule_interval", "1m")
	v.SetDefault("tracker.cache_purge_interval", "30m")
	v.SetDefault("tracker.cache_lifetime", "2h")
	v.SetDefault("tracker.self_heal_watchers", true)
	v.SetDefault("tracker.max_concurrent_updates", 4)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Database = dbConfig
	}

	if token := v.GetString("DISCORD_TOKEN"); token != "" {
		config.Discord.Token = token
	}

	return &config, nil
}
