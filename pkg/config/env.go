// Env loader
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
)

type Config struct {
	AppEnv      string
	Port        string
	StoreDriver string

	// Firestore credentials. When both are set the key file wins.
	FirebaseProjectID       string
	FirebaseCredentialsFile string
	FirebaseServiceAccount  string

	// Postgres connection string, used with STORE_DRIVER=postgres.
	DatabaseURL string

	// Optional override for the bulk loader's input file.
	VersesFile string
}

// LoadConfig loads environment variables from the .env file
func LoadConfig() *Config {
	appEnv := os.Getenv("APP_ENV")

	switch appEnv {
	case "production":
		if err := godotenv.Load(".env.production"); err == nil {
			fmt.Println("Loaded .env.production")
		}
	default:
		if err := godotenv.Load(".env"); err == nil {
			fmt.Println("Loaded .env")
		}
	}

	return &Config{
		AppEnv:                  getEnv("APP_ENV", "development"),
		Port:                    getEnv("PORT", "8080"),
		StoreDriver:             getEnv("STORE_DRIVER", DriverFirestore),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		FirebaseServiceAccount:  getEnv("FIREBASE_SERVICE_ACCOUNT", ""),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		VersesFile:              getEnv("VERSES_FILE", ""),
	}
}

// Validate reports missing settings for the configured store driver.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverFirestore:
		if c.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID not set")
		}
		if c.FirebaseCredentialsFile == "" && c.FirebaseServiceAccount == "" {
			return fmt.Errorf("no Firebase credentials provided: set FIREBASE_CREDENTIALS_FILE or FIREBASE_SERVICE_ACCOUNT")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL not set")
		}
	default:
		return fmt.Errorf("unknown store driver: %q", c.StoreDriver)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
