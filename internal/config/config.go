package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Lesan    LesanConfig
	Payment  PaymentConfig
	Telegram TelegramConfig
	API      APIConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

// LesanConfig points at the backend RPC endpoint.
type LesanConfig struct {
	Endpoint string
	Token    string
}

type PaymentConfig struct {
	// CallbackBaseURL is the public base for gateway return URLs.
	CallbackBaseURL string
	// PendingTTL is how long a pending attempt may stay unresolved before
	// the cron job marks it expired.
	PendingTTL time.Duration
}

type TelegramConfig struct {
	BotToken      string
	ReportChannel string
}

type APIConfig struct {
	Key string
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("PAYMENT_PENDING_TTL", "30m")

	pendingTTL, err := time.ParseDuration(viper.GetString("PAYMENT_PENDING_TTL"))
	if err != nil {
		pendingTTL = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:    viper.GetString("DB_HOST"),
			Port:    viper.GetString("DB_PORT"),
			Name:    viper.GetString("DB_NAME"),
			User:    viper.GetString("DB_USER"),
			Pass:    viper.GetString("DB_PASS"),
			Charset: viper.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		Lesan: LesanConfig{
			Endpoint: viper.GetString("LESAN_ENDPOINT"),
			Token:    viper.GetString("LESAN_TOKEN"),
		},
		Payment: PaymentConfig{
			CallbackBaseURL: viper.GetString("PAYMENT_CALLBACK_BASE_URL"),
			PendingTTL:      pendingTTL,
		},
		Telegram: TelegramConfig{
			BotToken:      viper.GetString("TELEGRAM_BOT_TOKEN"),
			ReportChannel: viper.GetString("TELEGRAM_REPORT_CHANNEL"),
		},
		API: APIConfig{
			Key: viper.GetString("API_KEY"),
		},
	}

	if cfg.Database.Name == "" {
		log.Println("WARNING: DB_NAME is not set")
	}
	if cfg.Lesan.Endpoint == "" {
		log.Println("WARNING: LESAN_ENDPOINT is not set")
	}

	return cfg, nil
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
