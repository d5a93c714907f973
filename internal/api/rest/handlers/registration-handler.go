package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ibrahimchallal/tournament_service/internal/dto"
	"github.com/ibrahimchallal/tournament_service/internal/helper/utils"
	"github.com/ibrahimchallal/tournament_service/internal/services"
)

type RegistrationHandler struct {
	svc services.RegistrationService
}

func NewRegistrationHandler(svc services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

func (h *RegistrationHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	reg := api.Group("/registrations")
	reg.Post("/", h.Submit)
	reg.Get("/meta", h.Meta)
}

// Submit accepts the public registration form.
func (h *RegistrationHandler) Submit(ctx *fiber.Ctx) error {
	var requestBody dto.RegistrationRequest

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	saved, fieldErr, err := h.svc.Submit(requestBody)
	if fieldErr != nil {
		return utils.ResponseFieldError(ctx, fieldErr.Field, fieldErr.Message)
	}
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, dto.RegistrationResponse{
		ID:        saved.ID,
		CreatedAt: saved.CreatedAt,
		GroupCode: saved.GroupCode,
		FullName:  saved.FullName,
		Phone:     saved.Phone,
		Email:     saved.Email,
	})
}

// Meta returns the group options the form renders.
func (h *RegistrationHandler) Meta(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"groups": h.svc.GroupOptions(),
	})
}
