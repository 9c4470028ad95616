package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Regulation workbook
	ExcelPath string
	CacheTTL  time.Duration

	// Contact/notification store
	DBType            string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Outbound mail. SMTP is the primary transport, SendGrid the fallback;
	// when neither validates the dispatcher runs in demo mode.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	SendgridKey  string
	SendgridFrom string
	MailTimeout  time.Duration
	EmailLogPath string

	// Admin trigger endpoints; empty key leaves them open (the original
	// had no auth on this surface).
	AdminAPIKey string

	// Monthly analysis scheduler
	EnableScheduler bool

	// Departments pinned to the front of progress listings, in order.
	PriorityDepartments []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		ExcelPath:         getEnv("EXCEL_PATH", "data/law_list2ai.xlsx"),
		CacheTTL:          time.Duration(getEnvAsInt("CACHE_TTL_MINUTES", 5)) * time.Minute,
		DBType:            getEnv("DB_TYPE", "sqlite"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", "data/complianceguard.db"),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		SMTPHost:          getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:          getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:          getEnv("GMAIL_USER", ""),
		SMTPPass:          getEnv("GMAIL_PASS", getEnv("GMAIL_APP_PASSWORD", "")),
		SendgridKey:       getEnv("SENDGRID_API_KEY", ""),
		SendgridFrom:      getEnv("SENDGRID_FROM_EMAIL", ""),
		MailTimeout:       time.Duration(getEnvAsInt("MAIL_TIMEOUT_SECONDS", 15)) * time.Second,
		EmailLogPath:      getEnv("EMAIL_LOG_PATH", "logging.txt"),
		AdminAPIKey:       getEnv("ADMIN_API_KEY", ""),
		EnableScheduler:   getEnvAsBool("ENABLE_SCHEDULER", false),
		PriorityDepartments: getEnvAsList("PRIORITY_DEPARTMENTS",
			[]string{"환경기획그룹", "안전보건기획그룹", "정보보호사무국", "인사문화그룹"}),
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
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

// getEnvAsBool gets an environment variable as a boolean or returns a default value
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

// getEnvAsList gets a comma-separated environment variable as a string slice
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
