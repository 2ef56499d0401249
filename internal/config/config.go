package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
	Detector  DetectorConfig
	Notify    NotifyConfig
	Scheduler SchedulerConfig
	Insights  InsightsConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Environment     string
	DashboardURL    string
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// For SQLite
	Path string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// DetectorConfig contains thresholds for the detection rules
type DetectorConfig struct {
	DefaultBoundaryRadiusM float64
	FeverThresholdC        float64
	CriticalFeverC         float64
	StressHeartRateBPM     float64
	VitalsWindow           time.Duration
	VitalsMinReadings      int
	VitalsMaxReadings      int
	SustainedRatio         float64
	EscapeCooldown         time.Duration
	HealthDedupWindow      time.Duration
	DeviceTimeout          time.Duration
}

// NotifyConfig contains notification channel configuration
type NotifyConfig struct {
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	TwilioSMSFrom      string
	SMTPHost           string
	SMTPPort           int
	SMTPUser           string
	SMTPPassword       string
	SMTPFrom           string
	DefaultCountryCode string
	DefaultLanguage    string
	SendTimeout        time.Duration
}

// SchedulerConfig contains cron schedules for the background checks
type SchedulerConfig struct {
	Enabled          bool
	GeofenceSpec     string
	VaccinationSpec  string
	VitalsSpec       string
}

// InsightsConfig contains optional AI insight configuration
type InsightsConfig struct {
	OpenAIAPIKey string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			DashboardURL:    getEnv("SERVER_DASHBOARD_URL", "http://localhost:3000"),
			Environment:     getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "herdwatch"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./herdwatch.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Detector: DetectorConfig{
			DefaultBoundaryRadiusM: getEnvAsFloat("GEOFENCE_DEFAULT_RADIUS_M", 300),
			FeverThresholdC:        getEnvAsFloat("VITALS_FEVER_C", 40.0),
			CriticalFeverC:         getEnvAsFloat("VITALS_CRITICAL_FEVER_C", 41.5),
			StressHeartRateBPM:     getEnvAsFloat("VITALS_STRESS_HR_BPM", 100),
			VitalsWindow:           getEnvAsDuration("VITALS_WINDOW", 15*time.Minute),
			VitalsMinReadings:      getEnvAsInt("VITALS_MIN_READINGS", 3),
			VitalsMaxReadings:      getEnvAsInt("VITALS_MAX_READINGS", 5),
			SustainedRatio:         getEnvAsFloat("VITALS_SUSTAINED_RATIO", 0.6),
			EscapeCooldown:         getEnvAsDuration("ESCAPE_ALERT_COOLDOWN", 5*time.Minute),
			HealthDedupWindow:      getEnvAsDuration("HEALTH_DEDUP_WINDOW", 24*time.Hour),
			DeviceTimeout:          getEnvAsDuration("DEVICE_HEARTBEAT_TIMEOUT", 15*time.Second),
		},
		Notify: NotifyConfig{
			TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
			TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
			TwilioWhatsAppFrom: getEnv("TWILIO_WHATSAPP_FROM", ""),
			TwilioSMSFrom:      getEnv("TWILIO_SMS_FROM", ""),
			SMTPHost:           getEnv("SMTP_HOST", ""),
			SMTPPort:           getEnvAsInt("SMTP_PORT", 587),
			SMTPUser:           getEnv("SMTP_USER", ""),
			SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
			SMTPFrom:           getEnv("SMTP_FROM", ""),
			DefaultCountryCode: getEnv("NOTIFY_DEFAULT_COUNTRY_CODE", "91"),
			DefaultLanguage:    getEnv("NOTIFY_DEFAULT_LANGUAGE", "en"),
			SendTimeout:        getEnvAsDuration("NOTIFY_SEND_TIMEOUT", 30*time.Second),
		},
		Scheduler: SchedulerConfig{
			Enabled:         getEnvAsBool("SCHEDULER_ENABLED", true),
			GeofenceSpec:    getEnv("SCHEDULE_GEOFENCE", "@every 2m"),
			VaccinationSpec: getEnv("SCHEDULE_VACCINATIONS", "0 6 * * *"),
			VitalsSpec:      getEnv("SCHEDULE_VITALS", "@every 5m"),
		},
		Insights: InsightsConfig{
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Detector.DefaultBoundaryRadiusM <= 0 {
		return fmt.Errorf("geofence radius must be positive: %f", c.Detector.DefaultBoundaryRadiusM)
	}

	if c.Detector.SustainedRatio <= 0 || c.Detector.SustainedRatio > 1 {
		return fmt.Errorf("sustained ratio must be in (0, 1]: %f", c.Detector.SustainedRatio)
	}

	if c.Detector.VitalsMinReadings < 1 || c.Detector.VitalsMaxReadings < c.Detector.VitalsMinReadings {
		return fmt.Errorf("invalid vitals reading bounds: min=%d max=%d",
			c.Detector.VitalsMinReadings, c.Detector.VitalsMaxReadings)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
