// main.go
//
// A single-binary Go replacement for the ComplianceGuard node/express dashboard server
// Copyright (c) 2026 ComplianceGuard contributors
//
// This file is part of regdash.
// regdash is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// regdash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with regdash.
// If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/complianceguard/regdash/internal/config"
	"github.com/complianceguard/regdash/internal/database"
	"github.com/complianceguard/regdash/internal/emaillog"
	"github.com/complianceguard/regdash/internal/mailer"
	"github.com/complianceguard/regdash/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to the contact/notification store
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	ml := mailer.New(cfg, emaillog.New(cfg.EmailLogPath))

	// Perform health check
	result := services.HealthCheck(cfg, db, ml)

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
