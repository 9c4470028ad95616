// common.go
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

package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/complianceguard/regdash/internal/services"
	"github.com/complianceguard/regdash/internal/utils"
)

// storeError maps a regulation store failure to the error envelope. A
// missing or unparsable workbook surfaces as a 500 with a generic message,
// the underlying detail goes to the server log only.
func storeError(c *fiber.Ctx, err error, errorType string) error {
	if errors.Is(err, services.ErrDataSourceUnavailable) {
		log.Printf("%s: %v", errorType, err)
		return utils.ErrorResponse(c, "Regulation data is currently unavailable", fiber.StatusInternalServerError, errorType)
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
}
