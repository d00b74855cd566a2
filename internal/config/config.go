package config

import (
	"errors"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config is the explicitly constructed application configuration.
// It is built once at startup and handed to the components that need it.
type Config struct {
	Port    string
	GinMode string

	// Firebase web app settings, templated into the service worker and
	// handed to the browser session for token registration.
	Firebase Firebase

	// Service account JSON used for server-side FCM sends. Optional.
	FirebaseCredJSON         string
	PushNotificationsEnabled bool
	// Absolute HTTPS URL opened when a server-sent web push is clicked. Optional.
	PublicURL string

	AI AI

	// Notifier holds UI defaults loaded from the YAML config file.
	Notifier *Notifier `yaml:"notifier"`

	// Cron spec used to refresh relative timestamps in open notification logs.
	LogRefreshSchedule string

	// Server
	ServerShutdownTimeoutSeconds int

	// CORS
	CORSAllowedOrigins string

	// Logging
	LogLevel  string
	LogFormat string
}

// Firebase is the web messaging configuration of a Firebase project.
type Firebase struct {
	APIKey            string `json:"apiKey"`
	AuthDomain        string `json:"authDomain"`
	ProjectID         string `json:"projectId"`
	StorageBucket     string `json:"storageBucket"`
	MessagingSenderID string `json:"messagingSenderId"`
	AppID             string `json:"appId"`
	VAPIDKey          string `json:"-"`
}

// Missing returns the environment variable names of unset web config values.
// Token registration cannot succeed while any of them is missing.
func (f Firebase) Missing() []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("FIREBASE_API_KEY", f.APIKey)
	check("FIREBASE_AUTH_DOMAIN", f.AuthDomain)
	check("FIREBASE_PROJECT_ID", f.ProjectID)
	check("FIREBASE_STORAGE_BUCKET", f.StorageBucket)
	check("FIREBASE_MESSAGING_SENDER_ID", f.MessagingSenderID)
	check("FIREBASE_APP_ID", f.AppID)
	check("FIREBASE_VAPID_KEY", f.VAPIDKey)
	return missing
}

// AI configures the message generator.
type AI struct {
	Provider        string // "gemini", "openai" or "anthropic"
	Model           string
	Temperature     float64
	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
}

// Load reads .env (if present), the environment and the optional YAML config file.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := FromEnv()

	configFilePath := getEnvOrDefault("CONFIG_FILE", "config.yaml")
	configFile, err := os.Open(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Printf("Config file %s not found, using built-in notifier defaults", configFilePath)
	case err != nil:
		return nil, err
	default:
		defer configFile.Close()
		log.Printf("Loading config file: %v", configFilePath)
		if err := LoadConfigFile(configFile, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.Notifier == nil {
		cfg.Notifier = DefaultNotifier()
	}
	if err := cfg.Notifier.Validate(); err != nil {
		return nil, err
	}

	if missing := cfg.Firebase.Missing(); len(missing) > 0 {
		log.Printf("Warning: Firebase web config is incomplete, token registration will fail. Missing: %s", strings.Join(missing, ", "))
	}

	if cfg.FirebaseCredJSON == "" {
		log.Println("Warning: FIREBASE_CRED_JSON is not set, server-side push sending is disabled.")
	}

	return cfg, nil
}

// FromEnv builds a Config from environment variables only.
func FromEnv() *Config {
	return &Config{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),

		Firebase: Firebase{
			APIKey:            getEnvOrDefault("FIREBASE_API_KEY", ""),
			AuthDomain:        getEnvOrDefault("FIREBASE_AUTH_DOMAIN", ""),
			ProjectID:         getEnvOrDefault("FIREBASE_PROJECT_ID", ""),
			StorageBucket:     getEnvOrDefault("FIREBASE_STORAGE_BUCKET", ""),
			MessagingSenderID: getEnvOrDefault("FIREBASE_MESSAGING_SENDER_ID", ""),
			AppID:             getEnvOrDefault("FIREBASE_APP_ID", ""),
			VAPIDKey:          getEnvOrDefault("FIREBASE_VAPID_KEY", ""),
		},

		FirebaseCredJSON:         getEnvOrDefault("FIREBASE_CRED_JSON", ""),
		PushNotificationsEnabled: getEnvOrDefault("PUSH_NOTIFICATIONS_ENABLED", "true") == "true",
		PublicURL:                getEnvOrDefault("PUBLIC_URL", ""),

		AI: AI{
			Provider:        strings.ToLower(getEnvOrDefault("AI_PROVIDER", "gemini")),
			Model:           getEnvOrDefault("AI_MODEL", ""),
			Temperature:     getEnvFloat("AI_TEMPERATURE", 0.7),
			GeminiAPIKey:    getEnvOrDefault("GEMINI_API_KEY", ""),
			OpenAIAPIKey:    getEnvOrDefault("OPENAI_API_KEY", ""),
			AnthropicAPIKey: getEnvOrDefault("ANTHROPIC_API_KEY", ""),
		},

		LogRefreshSchedule: getEnvOrDefault("LOG_REFRESH_SCHEDULE", "@every 30s"),

		ServerShutdownTimeoutSeconds: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 30),

		CORSAllowedOrigins: getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:8080"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "debug"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

// AllowedOrigins splits CORSAllowedOrigins on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		} else {
			log.Printf("Warning: Failed to parse environment variable %s='%s' as int, using default %d: %v", key, value, defaultValue, err)
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		} else {
			log.Printf("Warning: Failed to parse environment variable %s='%s' as float, using default %f: %v", key, value, defaultValue, err)
		}
	}
	return defaultValue
}

// LoadConfigFile decodes YAML settings into config.
func LoadConfigFile(reader io.Reader, config *Config) error {
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(config); err != nil {
		return err
	}

	return nil
}
