package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Document store.
	DocumentStore string `mapstructure:"DOCUMENT_STORE"` // "mongo" or "firestore"
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DatabaseName  string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB    int    `mapstructure:"REDIS_CACHE_DB"`
	RedisCheckoutDB int    `mapstructure:"REDIS_CHECKOUT_DB"`
	RedisTaskDB     int    `mapstructure:"REDIS_TASK_DB"`

	// Third-party services.
	StripeKey             string `mapstructure:"STRIPE_KEY"`
	GeminiAPIKey          string `mapstructure:"GEMINI_API_KEY"`
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	FirebaseProjectID     string `mapstructure:"FIREBASE_PROJECT_ID"`
	CalendarID            string `mapstructure:"CALENDAR_ID"`

	// Booking rules.
	DefaultTimezone         string `mapstructure:"DEFAULT_TIMEZONE"`
	CancellationWindowHours int    `mapstructure:"CANCELLATION_WINDOW_HOURS"`
	CheckoutTTLMinutes      int    `mapstructure:"CHECKOUT_TTL_MINUTES"`
	ReminderLeadHours       int    `mapstructure:"REMINDER_LEAD_HOURS"`
}

var AppConfig Config

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("DOCUMENT_STORE", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "pocketclass")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_CHECKOUT_DB", 1)
	viper.SetDefault("REDIS_TASK_DB", 2)
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	viper.SetDefault("FIREBASE_PROJECT_ID", "")
	viper.SetDefault("CALENDAR_ID", "primary")
	viper.SetDefault("DEFAULT_TIMEZONE", "America/Toronto")
	viper.SetDefault("CANCELLATION_WINDOW_HOURS", 24)
	viper.SetDefault("CHECKOUT_TTL_MINUTES", 15)
	viper.SetDefault("REMINDER_LEAD_HOURS", 26)
}

func LoadConfig() {
	// A local .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

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
