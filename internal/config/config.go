package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingAPIGatewayURL is returned by Load when API_GATEWAY_URL is unset.
var ErrMissingAPIGatewayURL = errors.New("API_GATEWAY_URL is required")

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// Runtime selects the hosting surface: "http" or "lambda".
	Runtime string

	// Downstream member API
	APIGatewayURL     string
	DownstreamTimeout time.Duration

	// Invocation audit ledger
	StoreType           string
	MongoURI            string
	MongoDB             string
	MongoCollection     string
	FirestoreProjectID  string
	FirestoreCollection string

	EventWebhookURL string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	timeoutSeconds, err := getEnvInt("DOWNSTREAM_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}

	runtime := getEnv("RUNTIME", defaultRuntime())
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		Runtime:             runtime,
		APIGatewayURL:       getEnv("API_GATEWAY_URL", ""),
		DownstreamTimeout:   time.Duration(timeoutSeconds) * time.Second,
		StoreType:           getEnv("STORE_TYPE", defaultStoreType(runtime)),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             getEnv("MONGO_DB", "aex"),
		MongoCollection:     getEnv("MONGO_COLLECTION_INVOCATIONS", "action_invocations"),
		FirestoreProjectID:  getEnv("FIRESTORE_PROJECT_ID", ""),
		FirestoreCollection: getEnv("FIRESTORE_COLLECTION_INVOCATIONS", "action_invocations"),
		EventWebhookURL:     getEnv("EVENT_WEBHOOK_URL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that must hold before the service starts.
func (c *Config) Validate() error {
	if c.APIGatewayURL == "" {
		return ErrMissingAPIGatewayURL
	}
	u, err := url.Parse(c.APIGatewayURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_GATEWAY_URL must be an absolute http(s) URL, got %q", c.APIGatewayURL)
	}

	switch c.Runtime {
	case "http", "lambda":
	default:
		return fmt.Errorf("RUNTIME must be http or lambda, got %q", c.Runtime)
	}

	switch c.StoreType {
	case "memory", "mongo", "none":
	case "firestore":
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID is required with firestore store")
		}
	default:
		return fmt.Errorf("unknown STORE_TYPE %q", c.StoreType)
	}

	if c.DownstreamTimeout <= 0 {
		return fmt.Errorf("DOWNSTREAM_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// defaultRuntime picks lambda when started by the Lambda runtime.
func defaultRuntime() string {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		return "lambda"
	}
	return "http"
}

// defaultStoreType keeps no ledger under Lambda, where nothing serves the
// invocations endpoints and each container would hold its own copy.
func defaultStoreType(runtime string) string {
	if runtime == "lambda" {
		return "none"
	}
	return "memory"
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return i, nil
}
