// connections.go
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
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/growthdb/internal/services"
	"github.com/localnerve/growthdb/internal/utils"
	"github.com/rs/zerolog"
)

// ConnectionHandler handles parent/provider connection routes
type ConnectionHandler struct {
	Graph   *services.RelationshipGraph
	Metrics *services.MetricStore
	Log     zerolog.Logger
}

// ConnectionRequestBody is the body of POST /connections/requests
type ConnectionRequestBody struct {
	ProviderID string `json:"providerId"`
}

// DirectConnectionBody is the body of POST /connections/direct
type DirectConnectionBody struct {
	ParentID string `json:"parentId"`
}

// ListConnections handles GET /api/connections
// @Summary List accepted connections
// @Description Accepted connections in either direction for the current user
// @Tags Connections
// @Produce json
// @Success 200 {array} models.Connection
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /connections [get]
func (h *ConnectionHandler) ListConnections(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	conns, err := h.Graph.ListConnections(c.UserContext(), actor)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(conns)
}

// ListPending handles GET /api/connections/pending
// @Summary List pending requests
// @Description Pending requests the current user sent or received
// @Tags Connections
// @Produce json
// @Success 200 {object} services.PendingConnections
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /connections/pending [get]
func (h *ConnectionHandler) ListPending(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	pending, err := h.Graph.ListPending(c.UserContext(), actor)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(pending)
}

// SendRequest handles POST /api/connections/requests
// @Summary Request a provider connection
// @Description A parent asks a provider to connect; the connection stays pending until the provider accepts
// @Tags Connections
// @Accept json
// @Produce json
// @Param body body ConnectionRequestBody true "Provider to connect to"
// @Success 201 {object} models.Connection
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /connections/requests [post]
func (h *ConnectionHandler) SendRequest(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	var body ConnectionRequestBody
	if err := parseBody(c, &body); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	conn, err := h.Graph.SendRequest(c.UserContext(), actor, body.ProviderID)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusCreated).JSON(conn)
}

// AddDirect handles POST /api/connections/direct
// @Summary Add a parent directly
// @Description A provider connects to a parent without an approval step
// @Tags Connections
// @Accept json
// @Produce json
// @Param body body DirectConnectionBody true "Parent to connect to"
// @Success 201 {object} models.Connection
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /connections/direct [post]
func (h *ConnectionHandler) AddDirect(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	var body DirectConnectionBody
	if err := parseBody(c, &body); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	conn, err := h.Graph.AddDirect(c.UserContext(), actor, body.ParentID)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusCreated).JSON(conn)
}

// Accept handles POST /api/connections/:id/accept
// @Summary Accept a pending request
// @Tags Connections
// @Produce json
// @Param id path string true "Connection ID"
// @Success 200 {object} models.Connection
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /connections/{id}/accept [post]
func (h *ConnectionHandler) Accept(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	conn, err := h.Graph.Accept(c.UserContext(), c.Params("id"), actor)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(conn)
}

// DeletePending handles DELETE /api/connections/:id/pending
// @Summary Withdraw or decline a pending request
// @Tags Connections
// @Param id path string true "Connection ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /connections/{id}/pending [delete]
func (h *ConnectionHandler) DeletePending(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	if err := h.Graph.DeletePending(c.UserContext(), c.Params("id"), actor); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAccepted handles DELETE /api/connections/:id
// @Summary Remove an accepted connection
// @Description Only the provider endpoint can remove an accepted connection
// @Tags Connections
// @Param id path string true "Connection ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /connections/{id} [delete]
func (h *ConnectionHandler) DeleteAccepted(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	if err := h.Graph.DeleteAccepted(c.UserContext(), c.Params("id"), actor); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSubjects handles GET /api/subjects
// @Summary List connected subjects
// @Description Subjects a provider can access through accepted connections
// @Tags Connections
// @Produce json
// @Success 200 {array} services.ConnectedSubject
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /subjects [get]
func (h *ConnectionHandler) ListSubjects(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	subjects, err := h.Metrics.ListConnectedSubjects(c.UserContext(), actor)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(subjects)
}
