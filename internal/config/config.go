package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port         string
	BackendURL   string        // prediction/analytics backend base URL
	DBPath       string        // SQLite file for retrain status history
	JWTSecret    string        // empty disables token parsing
	AuthRequired bool          // reject anonymous callers on /train
	PollInterval time.Duration // retrain status refresh cadence
	DemandUnits  float64       // demand sent for a supply query
	RateLimit    int           // requests per RateWindow per IP on mutating routes
	RateWindow   time.Duration
}

// Load 加载配置
//
// A .env file in the working directory is read first when present; real
// environment variables always win over it.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] warning: could not read .env: %v", err)
	}

	port := getEnv("PORT", ":8080")
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		port = ":" + port
	}

	return &Config{
		Port:         port,
		BackendURL:   strings.TrimRight(getEnv("BACKEND_URL", "http://127.0.0.1:5000"), "/"),
		DBPath:       getEnv("DB_PATH", "./data/agrovision.db"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AuthRequired: getBool("AUTH_REQUIRED", false),
		PollInterval: getDuration("RETRAIN_POLL_INTERVAL", 20*time.Second),
		DemandUnits:  getFloat("SUPPLY_DEMAND_UNITS", 10000),
		RateLimit:    getInt("RATE_LIMIT", 30),
		RateWindow:   getDuration("RATE_WINDOW", time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid %s=%q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
