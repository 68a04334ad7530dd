package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Optimizer OptimizerConfig
	Provider  ProviderConfig
	Storage   StorageConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port        string
	Environment string
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	Database     int
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
}

// KafkaConfig holds Kafka configuration.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// OptimizerConfig configures the default solver behavior (§4.1, §5).
type OptimizerConfig struct {
	DefaultTimeBudget time.Duration
}

// ProviderConfig configures the directions-provider HTTP client (§4.2, §6).
type ProviderConfig struct {
	BaseURL        string
	APIKey         string
	MaxRetries     int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	CallTimeout    time.Duration
	VehicleTimeout time.Duration
	MaxInFlight    int
}

// StorageConfig configures the plan artifact filestore root (§4.3).
type StorageConfig struct {
	BaseDir string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	maxRetries, _ := strconv.Atoi(getEnv("REDIS_MAX_RETRIES", "3"))
	poolSize, _ := strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10"))
	minIdleConns, _ := strconv.Atoi(getEnv("REDIS_MIN_IDLE_CONNS", "5"))

	optimizerBudget, _ := strconv.Atoi(getEnv("OPTIMIZER_TIME_BUDGET_SECONDS", "60"))

	providerRetries, _ := strconv.Atoi(getEnv("PROVIDER_MAX_RETRIES", "3"))
	providerInitialDelayMS, _ := strconv.Atoi(getEnv("PROVIDER_INITIAL_DELAY_MS", "200"))
	providerMaxDelayMS, _ := strconv.Atoi(getEnv("PROVIDER_MAX_DELAY_MS", "5000"))
	providerCallTimeoutS, _ := strconv.Atoi(getEnv("PROVIDER_CALL_TIMEOUT_SECONDS", "15"))
	providerVehicleTimeoutS, _ := strconv.Atoi(getEnv("PROVIDER_VEHICLE_TIMEOUT_SECONDS", "60"))
	providerMaxInFlight, _ := strconv.Atoi(getEnv("PROVIDER_MAX_IN_FLIGHT", "4"))

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8090"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "route_optimization"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			Database:     redisDB,
			MaxRetries:   maxRetries,
			PoolSize:     poolSize,
			MinIdleConns: minIdleConns,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "route-optimization-events"),
		},
		Optimizer: OptimizerConfig{
			DefaultTimeBudget: time.Duration(optimizerBudget) * time.Second,
		},
		Provider: ProviderConfig{
			BaseURL:        getEnv("PROVIDER_BASE_URL", ""),
			APIKey:         getEnv("PROVIDER_API_KEY", ""),
			MaxRetries:     providerRetries,
			InitialDelay:   time.Duration(providerInitialDelayMS) * time.Millisecond,
			MaxDelay:       time.Duration(providerMaxDelayMS) * time.Millisecond,
			CallTimeout:    time.Duration(providerCallTimeoutS) * time.Second,
			VehicleTimeout: time.Duration(providerVehicleTimeoutS) * time.Second,
			MaxInFlight:    providerMaxInFlight,
		},
		Storage: StorageConfig{
			BaseDir: getEnv("STORAGE_BASE_DIR", "./data/scenarios"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
