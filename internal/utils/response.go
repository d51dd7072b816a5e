// response.go
//
// Shared child growth and nutrition records for parents and healthcare providers
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of growthdb.
// growthdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// growthdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with growthdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/growthdb/internal/types"
	"github.com/rs/zerolog"
)

// ErrorResponse sends the standard error envelope
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(ErrorResponseStruct{
		Status:    status,
		Message:   message,
		Ok:        false,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       c.OriginalURL(),
		Type:      errorType,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, string(types.KindNotFound))
}

// StatusFor maps a domain error kind to its HTTP status.
func StatusFor(kind types.ErrorKind) int {
	switch kind {
	case types.KindAccessDenied, types.KindForbidden:
		return fiber.StatusForbidden
	case types.KindValidation:
		return fiber.StatusBadRequest
	case types.KindNotFound:
		return fiber.StatusNotFound
	case types.KindInvalidState, types.KindDuplicateConnection:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// DomainErrorResponse renders err with the status of its kind.
// Errors outside the domain taxonomy are logged and redacted.
func DomainErrorResponse(c *fiber.Ctx, err error, log zerolog.Logger) error {
	ce, ok := types.AsCustom(err)
	if !ok {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("url", c.OriginalURL()).
			Msg("request failed")
		return ErrorResponse(c, "internal server error", fiber.StatusInternalServerError, string(types.KindInternal))
	}

	status := StatusFor(ce.Kind)
	return c.Status(status).JSON(ErrorResponseStruct{
		Status:    status,
		Message:   ce.Message,
		Ok:        false,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       c.OriginalURL(),
		Type:      string(ce.Kind),
		Field:     ce.Field,
		Bound:     ce.Bound,
	})
}

// MutationSuccessResponse sends a success response for mutations without a body of their own
func MutationSuccessResponse(c *fiber.Ctx, newVersion uint64, affectedRows int64) error {
	return c.Status(fiber.StatusOK).JSON(SuccessResponseStruct{
		Message:      "Success",
		Ok:           true,
		NewVersion:   newVersion,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		AffectedRows: affectedRows,
	})
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
	Field     string `json:"field,omitempty"`
	Bound     string `json:"bound,omitempty"`
}

// SuccessResponseStruct defines the schema for mutation success responses
type SuccessResponseStruct struct {
	Message      string `json:"message"`
	Ok           bool   `json:"ok"`
	NewVersion   uint64 `json:"newVersion,omitempty"`
	Timestamp    string `json:"timestamp"`
	AffectedRows int64  `json:"affectedRows"`
}
