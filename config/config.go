package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	JWTKey string

	DBHostname string
	DBUser     string
	DBPassword string
	DBPort     string

	MasterDB  string
	UsersDB   string
	ContentDB string

	LoginBaseURL  string
	TceAPIBaseURL string
	OAuthClientID string

	TceSchoolName string
	TceUserName   string
	TceUserRole   string

	OGFontPath string
	PublicDir  string

	RefreshEvery string // cron spec for the session refresh sweep
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		DBHostname: getEnv("DB_HOSTNAME", ""),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBPort:     getEnv("DB_PORT", "5432"),

		MasterDB:  getEnv("MASTER_DB", ""),
		UsersDB:   getEnv("USERS_DB", ""),
		ContentDB: getEnv("CONTENT_DB", ""),

		LoginBaseURL:  getEnv("LOGIN_BASE_URL", ""),
		TceAPIBaseURL: getEnv("TCE_API_BASE_URL", ""),
		OAuthClientID: getEnv("OAUTH_CLIENT_ID", "TCE-TEST-APP"),

		TceSchoolName: getEnv("TCE_SCHOOL_NAME", "Azvasa Demo School"),
		TceUserName:   getEnv("TCE_USER_NAME", "sunil"),
		TceUserRole:   getEnv("TCE_USER_ROLE", "Teacher"),

		OGFontPath: getEnv("OG_FONT_PATH", ""),
		PublicDir:  getEnv("PUBLIC_DIR", "./public"),

		RefreshEvery: getEnv("SESSION_REFRESH_CRON", "@every 1m"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.MasterDB == "" || AppConfig.ContentDB == "" {
		log.Println("Warning: MASTER_DB/CONTENT_DB not set. Database connections will fail.")
	}
}

// DSN builds a postgres connection string for one of the logical databases.
// Returns "" when any required component is missing so the caller can decide
// whether the store is mandatory.
func (c *Config) DSN(dbName string) string {
	if c.DBHostname == "" || c.DBUser == "" || c.DBPassword == "" || dbName == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
		c.DBHostname, c.DBUser, c.DBPassword, dbName, c.DBPort,
	)
}

// RedirectURI is the OAuth callback this server registers with the login page.
func (c *Config) RedirectURI(origin string) string {
	return origin + "/auth/callback"
}

// LoginURL builds the external login page URL carrying the callback the user
// should return to.
func (c *Config) LoginURL(origin string) string {
	return fmt.Sprintf("%s/#/login/?client=%s&redirectUri=%s",
		c.LoginBaseURL, c.OAuthClientID, c.RedirectURI(origin))
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
