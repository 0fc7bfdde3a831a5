package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Appointment store backend: "mongo" or "memory".
	StoreBackend string `mapstructure:"STORE_BACKEND"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB       int    `mapstructure:"REDIS_SESSION_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Intent classifier: "keyword" or "gemini".
	Classifier   string `mapstructure:"CLASSIFIER"`
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Google Cloud Speech credentials file for the STT endpoint.
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`

	// Realtime room server the frontend connects to with an issued token.
	RealtimeURL string `mapstructure:"REALTIME_URL"`

	// Avatar vendor credentials.
	TavusAPIKey          string `mapstructure:"TAVUS_API_KEY"`
	TavusReplicaID       string `mapstructure:"TAVUS_REPLICA_ID"`
	BeyondPresenceAPIKey string `mapstructure:"BEYOND_PRESENCE_API_KEY"`
	BeyondPresenceAvatar string `mapstructure:"BEYOND_PRESENCE_AVATAR_ID"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("STORE_BACKEND", "mongo")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("CLASSIFIER", "keyword")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	viper.SetDefault("REALTIME_URL", "")
	viper.SetDefault("TAVUS_API_KEY", "")
	viper.SetDefault("TAVUS_REPLICA_ID", "")
	viper.SetDefault("BEYOND_PRESENCE_API_KEY", "")
	viper.SetDefault("BEYOND_PRESENCE_AVATAR_ID", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
