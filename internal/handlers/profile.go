package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/growthdb/internal/services"
	"github.com/localnerve/growthdb/internal/types"
	"github.com/localnerve/growthdb/internal/utils"
	"github.com/rs/zerolog"
)

// ProfileHandler handles child profile and account routes
type ProfileHandler struct {
	Profiles *services.ProfileService
	Users    *services.UserService
	Log      zerolog.Logger
}

// ProfileBody is the body of PUT /profile
type ProfileBody struct {
	ChildName   string         `json:"childName"`
	DateOfBirth types.FlexTime `json:"dateOfBirth"`
	Gender      string         `json:"gender"`
}

// MeBody is the body of PUT /me
type MeBody struct {
	Name string `json:"name"`
}

// PutProfile handles PUT /api/profile
// @Summary Save the child profile
// @Description Parents describe their child; the date of birth drives growth overlays
// @Tags Profile
// @Accept json
// @Produce json
// @Param body body ProfileBody true "Profile"
// @Success 200 {object} models.ChildProfile
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /profile [put]
func (h *ProfileHandler) PutProfile(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	var body ProfileBody
	if err := parseBody(c, &body); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	profile, err := h.Profiles.Upsert(c.UserContext(), actor, services.ProfileInput{
		ChildName:   body.ChildName,
		DateOfBirth: body.DateOfBirth.Time,
		Gender:      body.Gender,
	})
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// GetProfile handles GET /api/profile/:subjectId
// @Summary Get a child profile
// @Tags Profile
// @Produce json
// @Param subjectId path string true "Subject ID"
// @Success 200 {object} models.ChildProfile
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /profile/{subjectId} [get]
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	profile, err := h.Profiles.Get(c.UserContext(), actor, c.Params("subjectId"))
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// PutMe handles PUT /api/me
// @Summary Set display name
// @Description The name shown to connections created from now on
// @Tags Profile
// @Accept json
// @Produce json
// @Param body body MeBody true "Display name"
// @Success 200 {object} models.Actor
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /me [put]
func (h *ProfileHandler) PutMe(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	var body MeBody
	if err := parseBody(c, &body); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	user, err := h.Users.SetName(c.UserContext(), actor, body.Name)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(user.Actor())
}
