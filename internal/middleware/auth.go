// auth.go
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

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/growthdb/internal/config"
	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/services"
	"github.com/localnerve/growthdb/internal/types"
	"github.com/localnerve/growthdb/internal/utils"
	"github.com/rs/zerolog"
)

// ActorKey is the fiber Locals key holding the authenticated models.Actor.
const ActorKey = "actor"

// Header names trusted in header auth mode.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
	HeaderUserName = "X-User-Name"
)

const sessionCookie = "cookie_session"

// Authenticate resolves the caller to an Actor, records it in the user
// registry and stores it under ActorKey.
func Authenticate(cfg *config.Config, users *services.UserService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			actor models.Actor
			msg   string
		)
		switch cfg.AuthMode {
		case config.AuthModeHeader:
			actor, msg = actorFromHeaders(c)
		default:
			actor, msg = actorFromSession(c, cfg, log)
		}
		if msg != "" {
			return utils.ErrorResponse(c, msg, fiber.StatusUnauthorized, "unauthenticated")
		}

		user, err := users.Ensure(c.UserContext(), actor)
		if err != nil {
			return utils.DomainErrorResponse(c, err, log)
		}
		c.Locals(ActorKey, user.Actor())
		return c.Next()
	}
}

// RequireRole rejects actors without the given role.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals(ActorKey).(models.Actor)
		if !ok || actor.Role != role {
			return utils.DomainErrorResponse(c, types.Forbidden("this operation requires the %s role", role), zerolog.Nop())
		}
		return c.Next()
	}
}

func actorFromHeaders(c *fiber.Ctx) (models.Actor, string) {
	id := strings.TrimSpace(c.Get(HeaderUserID))
	if id == "" {
		return models.Actor{}, "Header \"" + HeaderUserID + "\" not found"
	}
	role, ok := models.ParseRole(c.Get(HeaderUserRole))
	if !ok {
		return models.Actor{}, "Header \"" + HeaderUserRole + "\" must be parent or provider"
	}
	return models.Actor{ID: id, Role: role, Name: strings.TrimSpace(c.Get(HeaderUserName))}, ""
}

func actorFromSession(c *fiber.Ctx, cfg *config.Config, log zerolog.Logger) (models.Actor, string) {
	session := c.Cookies(sessionCookie)
	if session == "" {
		return models.Actor{}, "Authorizer cookie \"" + sessionCookie + "\" not found"
	}
	if !services.IsAuthorizerInitialized() {
		if err := services.InitAuthorizer(c.UserContext(), cfg, c.Protocol(), c.Hostname(), log); err != nil {
			log.Error().Err(err).Msg("authorizer unavailable")
			return models.Actor{}, "Authorizer unavailable"
		}
	}

	actor, err := services.ValidateSession(session)
	if err != nil {
		log.Debug().Err(err).Msg("session rejected")
		return models.Actor{}, "Invalid session: " + err.Error()
	}
	return actor, ""
}
