package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Export   ExportConfig   `mapstructure:"export"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Robot    RobotConfig    `mapstructure:"robot"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// APIConfig points at the scraping backend.
type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	ListTimeout time.Duration `mapstructure:"list_timeout"`
	PageSize    int           `mapstructure:"page_size"`
}

// DatabaseConfig holds the local store used for the dashboard session.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite | postgres
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the driver-specific connection string.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
	return c.Path
}

// StorageConfig selects where exported spreadsheets are written.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // local | s3 | r2 | s3compatible
	Dir       string `mapstructure:"dir"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Prefix    string `mapstructure:"prefix"`
	PublicURL string `mapstructure:"public_url"`
}

type ExportConfig struct {
	DefaultFilename string `mapstructure:"default_filename"`
	AgentFilename   string `mapstructure:"agent_filename"`
}

type CatalogConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

type RobotConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	_ = v.BindEnv("api.base_url", "SISCRAP_API_URL")
	_ = v.BindEnv("database.password", "DATABASE_PASSWORD")
	_ = v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	_ = v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	_ = v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8081)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.list_timeout", 60*time.Second)
	v.SetDefault("api.page_size", 50)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/session.db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.dir", "./downloads")
	v.SetDefault("storage.prefix", "exports")
	v.SetDefault("export.default_filename", "resultado.xlsx")
	v.SetDefault("export.agent_filename", "Siscrap.exe")
	v.SetDefault("catalog.debounce", 500*time.Millisecond)
	v.SetDefault("robot.poll_interval", 5*time.Second)
}

// Validate rejects configurations the dashboard cannot start with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("config: api.base_url is required")
	}
	if c.API.PageSize <= 0 {
		return fmt.Errorf("config: api.page_size must be positive")
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unknown database.driver %q", c.Database.Driver)
	}
	if c.Storage.Type != "local" && c.Storage.Bucket == "" {
		return fmt.Errorf("config: storage.bucket is required for storage type %q", c.Storage.Type)
	}
	return nil
}
