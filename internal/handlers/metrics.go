// metrics.go
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
	"github.com/localnerve/growthdb/internal/growth"
	"github.com/localnerve/growthdb/internal/services"
	"github.com/localnerve/growthdb/internal/types"
	"github.com/localnerve/growthdb/internal/utils"
	"github.com/rs/zerolog"
)

// MetricHandler handles metric time series routes
type MetricHandler struct {
	Metrics *services.MetricStore
	Growth  *services.GrowthService
	Log     zerolog.Logger
}

// EntryBody is a new entry or a partial update. Breastfeeding entries may
// send duration in place of value.
type EntryBody struct {
	Value        *types.FlexFloat64 `json:"value"`
	Duration     *types.FlexFloat64 `json:"duration"`
	Side         *string            `json:"side"`
	DateRecorded *types.FlexTime    `json:"dateRecorded"`
	Notes        *string            `json:"notes"`
}

func (b EntryBody) input() services.EntryInput {
	value := b.Value
	if value == nil {
		value = b.Duration
	}
	return services.EntryInput{
		Value:        value.Ptr(),
		Side:         b.Side,
		DateRecorded: b.DateRecorded.Ptr(),
		Notes:        b.Notes,
	}
}

// AddEntry handles POST /api/metrics/:kind/:subjectId
// @Summary Add an entry
// @Description Append a dated observation to a subject's metric history
// @Tags Metrics
// @Accept json
// @Produce json
// @Param kind path string true "weight, height, head-circumference or breastfeeding"
// @Param subjectId path string true "Subject ID"
// @Param body body EntryBody true "Entry"
// @Success 201 {object} services.EntryResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /metrics/{kind}/{subjectId} [post]
func (h *MetricHandler) AddEntry(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	var body EntryBody
	if err := parseBody(c, &body); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	result, err := h.Metrics.AddEntry(c.UserContext(), c.Params("kind"), c.Params("subjectId"), actor, body.input())
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetHistory handles GET /api/metrics/:kind/:subjectId
// @Summary Get a metric history
// @Description Entries sorted by dateRecorded; a subject without entries has an empty list
// @Tags Metrics
// @Produce json
// @Param kind path string true "weight, height, head-circumference or breastfeeding"
// @Param subjectId path string true "Subject ID"
// @Success 200 {object} services.History
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /metrics/{kind}/{subjectId} [get]
func (h *MetricHandler) GetHistory(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	history, err := h.Metrics.GetHistory(c.UserContext(), c.Params("kind"), c.Params("subjectId"), actor)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(history)
}

// UpdateEntry handles PATCH /api/metrics/:kind/:subjectId/entries/:entryId
// @Summary Update an entry
// @Description Only fields present in the body change; only the entry's author may update it
// @Tags Metrics
// @Accept json
// @Produce json
// @Param kind path string true "Metric kind"
// @Param subjectId path string true "Subject ID"
// @Param entryId path string true "Entry ID"
// @Param body body EntryBody true "Fields to change"
// @Success 200 {object} services.EntryResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /metrics/{kind}/{subjectId}/entries/{entryId} [patch]
func (h *MetricHandler) UpdateEntry(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	var body EntryBody
	if err := parseBody(c, &body); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	result, err := h.Metrics.UpdateEntry(c.UserContext(), c.Params("kind"), c.Params("subjectId"), c.Params("entryId"), actor, body.input())
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// DeleteEntry handles DELETE /api/metrics/:kind/:subjectId/entries/:entryId
// @Summary Delete an entry
// @Description Only the entry's author may delete it
// @Tags Metrics
// @Produce json
// @Param kind path string true "Metric kind"
// @Param subjectId path string true "Subject ID"
// @Param entryId path string true "Entry ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /metrics/{kind}/{subjectId}/entries/{entryId} [delete]
func (h *MetricHandler) DeleteEntry(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	version, err := h.Metrics.DeleteEntry(c.UserContext(), c.Params("kind"), c.Params("subjectId"), c.Params("entryId"), actor)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return utils.MutationSuccessResponse(c, version, 1)
}

// GetOverlay handles GET /api/growth/:kind/:subjectId
// @Summary Growth overlay
// @Description Entries with age in months and the WHO percentiles for the child's gender
// @Tags Growth
// @Produce json
// @Param kind path string true "weight, height or head-circumference"
// @Param subjectId path string true "Subject ID"
// @Success 200 {object} services.GrowthOverlay
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /growth/{kind}/{subjectId} [get]
func (h *MetricHandler) GetOverlay(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	overlay, err := h.Growth.Overlay(c.UserContext(), c.Params("kind"), c.Params("subjectId"), actor)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(overlay)
}

// CurveResponse is a reference table for one metric and gender.
type CurveResponse struct {
	Metric growth.Metric `json:"metric"`
	Gender growth.Gender `json:"gender"`
	Rows   []growth.Row  `json:"rows"`
}

// GetCurves handles GET /api/growth/curves/:kind
// @Summary Reference curves
// @Description WHO percentile rows; both genders unless gender is given
// @Tags Growth
// @Produce json
// @Param kind path string true "weight, height or head-circumference"
// @Param gender query string false "male or female"
// @Success 200 {array} CurveResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /growth/curves/{kind} [get]
func (h *MetricHandler) GetCurves(c *fiber.Ctx) error {
	metric := growth.ParseMetric(c.Params("kind"))
	if !growth.HasCurve(metric) {
		return utils.DomainErrorResponse(c, types.Validation("kind", "weight|height|head-circumference", "no reference curve for %q", metric), h.Log)
	}

	genders := []growth.Gender{growth.Male, growth.Female}
	if g := c.Query("gender"); g != "" {
		gender := growth.ParseGender(g)
		if gender != growth.Male && gender != growth.Female {
			return utils.DomainErrorResponse(c, types.Validation("gender", "male|female", "invalid gender %q", g), h.Log)
		}
		genders = []growth.Gender{gender}
	}

	out := make([]CurveResponse, 0, len(genders))
	for _, g := range genders {
		if rows := growth.Curve(g, metric); rows != nil {
			out = append(out, CurveResponse{Metric: metric, Gender: g, Rows: rows})
		}
	}
	return c.Status(fiber.StatusOK).JSON(out)
}
