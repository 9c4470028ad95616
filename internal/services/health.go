package services

import (
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/complianceguard/regdash/internal/config"
	"github.com/complianceguard/regdash/internal/mailer"
	"github.com/complianceguard/regdash/internal/utils"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	DataFile     string            `json:"dataFile"`
	Mailer       string            `json:"mailer"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck performs a comprehensive health check of the service
func HealthCheck(cfg *config.Config, db *gorm.DB, ml *mailer.Mailer) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Printf("Health check failed - database connection: %v", err)
	} else {
		if err := sqlDB.Ping(); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
			log.Printf("Health check failed - database ping: %v", err)
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	// Check the regulation workbook is present on disk
	if info, err := os.Stat(cfg.ExcelPath); err != nil {
		result.Status = "unhealthy"
		result.DataFile = "missing"
		result.Details["data_file_error"] = err.Error()
		if result.ErrorMessage == "" {
			result.ErrorMessage = fmt.Sprintf("Regulation workbook unavailable: %v", err)
		} else {
			result.ErrorMessage += fmt.Sprintf("; regulation workbook unavailable: %v", err)
		}
		log.Printf("Health check failed - regulation workbook: %v", err)
	} else {
		result.DataFile = "ok"
		result.Details["data_file"] = cfg.ExcelPath
		result.Details["data_file_size"] = fmt.Sprintf("%d", info.Size())
	}

	// Report which mail transport would be used. A dead SMTP relay is
	// degraded, not unhealthy, dispatch falls back to the other transports.
	result.Mailer = ml.TransportState()
	if result.Mailer == mailer.TransportSMTP {
		if err := utils.PingSMTP(cfg.SMTPHost, cfg.SMTPPort); err != nil {
			result.Mailer = "smtp (unreachable)"
			result.Details["smtp_ping_error"] = err.Error()
			log.Printf("Health check warning - SMTP relay: %v", err)
		}
	}

	if result.Status == "healthy" {
		log.Println("Health check passed - all systems operational")
	}

	return result
}
