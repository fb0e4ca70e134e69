package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Email    EmailConfig
	OTP      OTPConfig
	LLM      LLMConfig
	Voice    VoiceConfig
	Kafka    KafkaConfig
	CORS     CORSConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	BaseURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type RedisConfig struct {
	URL        string
	Password   string
	DB         int
	PoolSize   int
	SessionTTL time.Duration
}

type EmailConfig struct {
	Driver   string // smtp or log
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type OTPConfig struct {
	// Mode is "otp" or "token"
	Mode   string
	Expiry time.Duration
	Length int
}

type LLMConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

type VoiceConfig struct {
	TempDir    string
	Transcribe bool
	Model      string
	// APIKey is the Gemini key; empty falls back to the LLM key.
	APIKey string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// LoadConfig reads .env (when present) and the process environment.
// Missing credentials are reported together in one error.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "mining-chatbot")
	v.SetDefault("PORT", "5000")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("APP_BASE_URL", "http://localhost:5000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "mining_chatbot")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 20)
	v.SetDefault("CHAT_SESSION_TTL", "30m")
	v.SetDefault("MAIL_DRIVER", "smtp")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("VERIFICATION_MODE", "otp")
	v.SetDefault("OTP_EXPIRY", "1m")
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("LLM_PROVIDER", "groq")
	v.SetDefault("LLM_TIMEOUT", "60s")
	v.SetDefault("VOICE_TEMP_DIR", "temp_audio/")
	v.SetDefault("VOICE_TRANSCRIBE", false)
	v.SetDefault("VOICE_MODEL", "gemini-2.0-flash")
	v.SetDefault("KAFKA_TOPIC", "mining-chatbot.events")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CORS_ALLOW_CREDENTIALS", false)

	if _, err := os.Stat(".env"); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
			BaseURL: strings.TrimRight(v.GetString("APP_BASE_URL"), "/"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			URL:        v.GetString("REDIS_URL"),
			Password:   v.GetString("REDIS_PASSWORD"),
			DB:         v.GetInt("REDIS_DB"),
			PoolSize:   v.GetInt("REDIS_POOL_SIZE"),
			SessionTTL: v.GetDuration("CHAT_SESSION_TTL"),
		},
		Email: EmailConfig{
			Driver:   strings.ToLower(v.GetString("MAIL_DRIVER")),
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("EMAIL_FROM"),
		},
		OTP: OTPConfig{
			Mode:   strings.ToLower(v.GetString("VERIFICATION_MODE")),
			Expiry: v.GetDuration("OTP_EXPIRY"),
			Length: v.GetInt("OTP_LENGTH"),
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(v.GetString("LLM_PROVIDER")),
			APIKey:   v.GetString("LLM_API_KEY"),
			BaseURL:  v.GetString("LLM_BASE_URL"),
			Model:    v.GetString("LLM_MODEL"),
			Timeout:  v.GetDuration("LLM_TIMEOUT"),
		},
		Voice: VoiceConfig{
			TempDir:    v.GetString("VOICE_TEMP_DIR"),
			Transcribe: v.GetBool("VOICE_TRANSCRIBE"),
			Model:      v.GetString("VOICE_MODEL"),
			APIKey:     v.GetString("VOICE_API_KEY"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
		},
	}

	if config.Voice.APIKey == "" {
		config.Voice.APIKey = config.LLM.APIKey
	}
	if config.Email.From == "" {
		config.Email.From = config.Email.User
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate reports every missing credential at once.
func (c *Config) Validate() error {
	var missing []string

	if c.Database.Password == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if c.LLM.APIKey == "" {
		missing = append(missing, "LLM_API_KEY")
	}
	if c.Email.Driver != "log" {
		if c.Email.User == "" {
			missing = append(missing, "SMTP_USER")
		}
		if c.Email.Password == "" {
			missing = append(missing, "SMTP_PASS")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.OTP.Mode {
	case "otp", "token":
	default:
		return fmt.Errorf("invalid VERIFICATION_MODE %q: must be otp or token", c.OTP.Mode)
	}

	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
