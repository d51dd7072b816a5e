// nutrition.go
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
	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/services"
	"github.com/localnerve/growthdb/internal/types"
	"github.com/localnerve/growthdb/internal/utils"
	"github.com/rs/zerolog"
)

// NutritionHandler handles fluid and solid intake routes
type NutritionHandler struct {
	Engine *services.NutritionEngine
	Log    zerolog.Logger
}

// FluidBody is one fluid record, or the changed fields of one
type FluidBody struct {
	ChildName *string            `json:"childName"`
	FluidType *string            `json:"fluidType"`
	Amount    *types.FlexFloat64 `json:"amount"`
	Unit      *string            `json:"unit"`
	Time      *types.FlexTime    `json:"time"`
	Notes     *string            `json:"notes"`
}

func (b FluidBody) input() services.FluidInput {
	return services.FluidInput{
		ChildName: b.ChildName,
		FluidType: b.FluidType,
		Amount:    b.Amount.Ptr(),
		Unit:      b.Unit,
		Time:      b.Time.Ptr(),
		Notes:     b.Notes,
	}
}

// SolidBody is one solid record, or the changed fields of one
type SolidBody struct {
	ChildName *string            `json:"childName"`
	FoodType  *string            `json:"foodType"`
	FoodName  *string            `json:"foodName"`
	MealTime  *string            `json:"mealTime"`
	Amount    *types.FlexFloat64 `json:"amount"`
	Unit      *string            `json:"unit"`
	Time      *types.FlexTime    `json:"time"`
	Notes     *string            `json:"notes"`
	Reaction  *string            `json:"reaction"`
}

func (b SolidBody) input() services.SolidInput {
	return services.SolidInput{
		ChildName: b.ChildName,
		FoodType:  b.FoodType,
		FoodName:  b.FoodName,
		MealTime:  b.MealTime,
		Amount:    b.Amount.Ptr(),
		Unit:      b.Unit,
		Time:      b.Time.Ptr(),
		Notes:     b.Notes,
		Reaction:  b.Reaction,
	}
}

// ListFluids handles GET /api/nutrition/fluids
// @Summary List fluid records
// @Description Parents see their own records; providers see connected parents, optionally one parentId
// @Tags Nutrition
// @Produce json
// @Param parentId query string false "Parent ID (providers)"
// @Param childName query string false "Exact child name"
// @Param startDate query string false "Inclusive start, RFC3339 or YYYY-MM-DD"
// @Param endDate query string false "Inclusive end, RFC3339 or YYYY-MM-DD"
// @Success 200 {array} models.FluidRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /nutrition/fluids [get]
func (h *NutritionHandler) ListFluids(c *fiber.Ctx) error {
	actor, filter, err := h.readRequest(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	records, err := h.Engine.ListFluids(c.UserContext(), actor, filter)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(records)
}

// SummarizeFluids handles GET /api/nutrition/fluids/summary
// @Summary Summarize fluid intake
// @Description Count, total and average amount per fluid type over the filtered records
// @Tags Nutrition
// @Produce json
// @Param parentId query string false "Parent ID (providers)"
// @Param childName query string false "Exact child name"
// @Param startDate query string false "Inclusive start"
// @Param endDate query string false "Inclusive end"
// @Success 200 {object} services.FluidSummary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /nutrition/fluids/summary [get]
func (h *NutritionHandler) SummarizeFluids(c *fiber.Ctx) error {
	actor, filter, err := h.readRequest(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	summary, err := h.Engine.SummarizeFluids(c.UserContext(), actor, filter)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(summary)
}

// CreateFluids handles POST /api/nutrition/fluids
// @Summary Record fluid intake
// @Description Accepts one record or an array of records
// @Tags Nutrition
// @Accept json
// @Produce json
// @Param body body FluidBody true "Record or array of records"
// @Success 201 {array} models.FluidRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /nutrition/fluids [post]
func (h *NutritionHandler) CreateFluids(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	var body types.FlexList[FluidBody]
	if err := parseBody(c, &body); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	inputs := make([]services.FluidInput, 0, len(body))
	for _, b := range body.Slice() {
		inputs = append(inputs, b.input())
	}
	records, err := h.Engine.CreateFluids(c.UserContext(), actor, inputs)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusCreated).JSON(records)
}

// UpdateFluid handles PATCH /api/nutrition/fluids/:id
// @Summary Update a fluid record
// @Tags Nutrition
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param body body FluidBody true "Fields to change"
// @Success 200 {object} models.FluidRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /nutrition/fluids/{id} [patch]
func (h *NutritionHandler) UpdateFluid(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	var body FluidBody
	if err := parseBody(c, &body); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	record, err := h.Engine.UpdateFluid(c.UserContext(), actor, c.Params("id"), body.input())
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(record)
}

// DeleteFluid handles DELETE /api/nutrition/fluids/:id
// @Summary Delete a fluid record
// @Tags Nutrition
// @Param id path string true "Record ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /nutrition/fluids/{id} [delete]
func (h *NutritionHandler) DeleteFluid(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	if err := h.Engine.DeleteFluid(c.UserContext(), actor, c.Params("id")); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSolids handles GET /api/nutrition/solids
// @Summary List solid records
// @Tags Nutrition
// @Produce json
// @Param parentId query string false "Parent ID (providers)"
// @Param childName query string false "Exact child name"
// @Param startDate query string false "Inclusive start"
// @Param endDate query string false "Inclusive end"
// @Success 200 {array} models.SolidRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /nutrition/solids [get]
func (h *NutritionHandler) ListSolids(c *fiber.Ctx) error {
	actor, filter, err := h.readRequest(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	records, err := h.Engine.ListSolids(c.UserContext(), actor, filter)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(records)
}

// SummarizeSolids handles GET /api/nutrition/solids/summary
// @Summary Summarize solid intake
// @Description Statistics by food type and by meal, with foods seen and reactions reported
// @Tags Nutrition
// @Produce json
// @Param parentId query string false "Parent ID (providers)"
// @Param childName query string false "Exact child name"
// @Param startDate query string false "Inclusive start"
// @Param endDate query string false "Inclusive end"
// @Success 200 {object} services.SolidSummary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /nutrition/solids/summary [get]
func (h *NutritionHandler) SummarizeSolids(c *fiber.Ctx) error {
	actor, filter, err := h.readRequest(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	summary, err := h.Engine.SummarizeSolids(c.UserContext(), actor, filter)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(summary)
}

// CreateSolids handles POST /api/nutrition/solids
// @Summary Record solid intake
// @Description Accepts one record or an array; mealTime is derived from time when omitted
// @Tags Nutrition
// @Accept json
// @Produce json
// @Param body body SolidBody true "Record or array of records"
// @Success 201 {array} models.SolidRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /nutrition/solids [post]
func (h *NutritionHandler) CreateSolids(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	var body types.FlexList[SolidBody]
	if err := parseBody(c, &body); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	inputs := make([]services.SolidInput, 0, len(body))
	for _, b := range body.Slice() {
		inputs = append(inputs, b.input())
	}
	records, err := h.Engine.CreateSolids(c.UserContext(), actor, inputs)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusCreated).JSON(records)
}

// UpdateSolid handles PATCH /api/nutrition/solids/:id
// @Summary Update a solid record
// @Tags Nutrition
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param body body SolidBody true "Fields to change"
// @Success 200 {object} models.SolidRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /nutrition/solids/{id} [patch]
func (h *NutritionHandler) UpdateSolid(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	var body SolidBody
	if err := parseBody(c, &body); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	record, err := h.Engine.UpdateSolid(c.UserContext(), actor, c.Params("id"), body.input())
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(record)
}

// DeleteSolid handles DELETE /api/nutrition/solids/:id
// @Summary Delete a solid record
// @Tags Nutrition
// @Param id path string true "Record ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /nutrition/solids/{id} [delete]
func (h *NutritionHandler) DeleteSolid(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	if err := h.Engine.DeleteSolid(c.UserContext(), actor, c.Params("id")); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NutritionHandler) readRequest(c *fiber.Ctx) (actor models.Actor, filter services.RecordFilter, err error) {
	if actor, err = getActor(c); err != nil {
		return
	}
	filter, err = parseRecordFilter(c)
	return
}
