package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv          string
	Port            string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	JWTSecret       string
	JWTExpiry       string
	CatalogPageSize int
	ShippingAPIURL  string
	ShippingAPIKey  string
	CEPLookupURL    string
	PaymentAPIURL   string
	PaymentAPIKey   string
}

var AppConfig *Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	pageSize, _ := strconv.Atoi(os.Getenv("CATALOG_PAGE_SIZE"))
	if pageSize == 0 {
		pageSize = 40
	}

	AppConfig = &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Port:            getEnv("APP_PORT", getEnv("PORT", "8082")),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "moda_store"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		JWTExpiry:       getEnv("JWT_EXPIRY", "24h"),
		CatalogPageSize: pageSize,
		ShippingAPIURL:  getEnv("SHIPPING_API_URL", "https://api.melhorenvio.com.br/v2/me/shipment/calculate"),
		ShippingAPIKey:  getEnv("SHIPPING_API_KEY", ""),
		CEPLookupURL:    getEnv("CEP_LOOKUP_URL", "https://viacep.com.br/ws"),
		PaymentAPIURL:   getEnv("PAYMENT_API_URL", "http://localhost:9090"),
		PaymentAPIKey:   getEnv("PAYMENT_API_KEY", ""),
	}

	log.Println("Configuration loaded successfully")
	log.Printf("Environment: %s", AppConfig.AppEnv)
	log.Printf("Server will run on port: %s", AppConfig.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
