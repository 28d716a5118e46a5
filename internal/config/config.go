package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path          string `mapstructure:"path"`
	LogMode       bool   `mapstructure:"log_mode"`
	MaxOpenConns  int    `mapstructure:"max_open_conns"`
	BusyTimeoutMS int    `mapstructure:"busy_timeout_ms"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	// AdminPasswordHash is either a "salt$hash" PBKDF2 string (see `retail-ledger hash-password`)
	// or a bcrypt hash.
	AdminPasswordHash string `mapstructure:"admin_password_hash"`
	EncryptionKey     string `mapstructure:"encryption_key"`
}

type LogConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text / json
}

type BackupConfig struct {
	Dir string `mapstructure:"dir"`
}

// ImagesConfig bounds where product image files may be served from.
type ImagesConfig struct {
	Dir string `mapstructure:"dir"`
}

// ShopConfig is printed on bills.
type ShopConfig struct {
	Name     string `mapstructure:"name" json:"name"`
	Address  string `mapstructure:"address" json:"address"`
	Phone    string `mapstructure:"phone" json:"phone"`
	Currency string `mapstructure:"currency" json:"currency"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Images   ImagesConfig   `mapstructure:"images"`
	Shop     ShopConfig     `mapstructure:"shop"`
}

// Addr returns the listen address of the HTTP adapter.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it looks for "config.yaml" in the current working directory
// and falls back to defaults when no file exists.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		appConfig, err = load(path)
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. RLS_SERVER_PORT=9000
	v.SetEnvPrefix("RLS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// a missing config.yaml is fine, an explicit path must exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 1
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.path", "data/retail_ledger.db")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.busy_timeout_ms", 5000)

	v.SetDefault("jwt.issuer", "retail-ledger")
	v.SetDefault("jwt.expire_hours", 12)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("backup.dir", "data/backups")
	v.SetDefault("images.dir", "data/images")

	v.SetDefault("shop.name", "Retail Master")
	v.SetDefault("shop.currency", "$")
}
