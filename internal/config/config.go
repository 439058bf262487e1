package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration, sourced from environment
// variables with local-development defaults.
type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	ProductsURL   string
	CategoriesURL string
	NovedadesURL  string
	OfertasURL    string
	SendCartURL   string
	WhatsAppPhone string

	PageSize int

	// CartBackend selects the persisted cart store: file, redis or
	// mongo.
	CartBackend   string
	CartFilePath  string
	RedisAddr     string
	RedisPassword string
	MongoURI      string
	MongoDBName   string

	OrdersDBPath   string
	MigrationsPath string

	// Empty means events are disabled.
	KafkaBrokers []string
}

// Load reads .env if present, then the environment.
func Load() *Config {
	// Missing .env is the normal case outside local dev.
	_ = godotenv.Load()

	apiBase := getEnv("API_BASE_URL", "http://localhost:4000/api")

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		ProductsURL:   getEnv("PRODUCTS_URL", apiBase+"/productos/paginated"),
		CategoriesURL: getEnv("CATEGORIES_URL", apiBase+"/categorias"),
		NovedadesURL:  getEnv("NOVEDADES_URL", apiBase+"/novedades"),
		OfertasURL:    getEnv("OFERTAS_URL", apiBase+"/ofertas"),
		SendCartURL:   getEnv("SEND_CART_URL", apiBase+"/send-cart"),
		WhatsAppPhone: getEnv("WHATSAPP_PHONE", ""),

		PageSize: getEnvInt("PAGE_SIZE", 12),

		CartBackend:   getEnv("CART_BACKEND", "file"),
		CartFilePath:  getEnv("CART_FILE_PATH", "data/cart.json"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "storefront"),

		OrdersDBPath:   getEnv("ORDERS_DB_PATH", "data/orders.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./internal/orders/migrations"),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
