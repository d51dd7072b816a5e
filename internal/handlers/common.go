// common.go
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

package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/growthdb/internal/middleware"
	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/services"
	"github.com/localnerve/growthdb/internal/types"
)

// getActor returns the authenticated actor set by middleware.Authenticate.
func getActor(c *fiber.Ctx) (models.Actor, error) {
	actor, ok := c.Locals(middleware.ActorKey).(models.Actor)
	if !ok || actor.ID == "" {
		return models.Actor{}, types.AccessDenied("no authenticated actor")
	}
	return actor, nil
}

// parseBody decodes the request body, reporting malformed JSON as a validation error.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return types.Validation("body", "JSON object", "request body is required")
	}
	if err := c.BodyParser(out); err != nil {
		return types.Validation("body", "JSON object", "invalid request body: %v", err)
	}
	return nil
}

// parseRecordFilter reads parentId, childName, startDate and endDate query parameters.
// A date-only endDate covers the whole day.
func parseRecordFilter(c *fiber.Ctx) (services.RecordFilter, error) {
	filter := services.RecordFilter{
		ParentID:  strings.TrimSpace(c.Query("parentId")),
		ChildName: strings.TrimSpace(c.Query("childName")),
	}

	if s := strings.TrimSpace(c.Query("startDate")); s != "" {
		t, err := types.ParseFlexTime(s)
		if err != nil {
			return filter, types.Validation("startDate", "RFC3339 or YYYY-MM-DD", "invalid startDate %q", s)
		}
		filter.Start = &t
	}
	if s := strings.TrimSpace(c.Query("endDate")); s != "" {
		t, err := types.ParseFlexTime(s)
		if err != nil {
			return filter, types.Validation("endDate", "RFC3339 or YYYY-MM-DD", "invalid endDate %q", s)
		}
		if len(s) == len(types.DateLayout) {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filter.End = &t
	}
	return filter, nil
}
