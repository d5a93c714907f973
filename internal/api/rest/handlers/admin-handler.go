package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ibrahimchallal/tournament_service/internal/api/rest/middleware"
	"github.com/ibrahimchallal/tournament_service/internal/domain"
	"github.com/ibrahimchallal/tournament_service/internal/dto"
	"github.com/ibrahimchallal/tournament_service/internal/helper"
	"github.com/ibrahimchallal/tournament_service/internal/helper/utils"
	"github.com/ibrahimchallal/tournament_service/internal/repository"
	"github.com/ibrahimchallal/tournament_service/internal/services"
)

type AdminHandler struct {
	userSvc      services.UserService
	dashboards   *services.DashboardService
	auth         helper.Auth
	broker       *services.SessionBroker
	userRoleRepo repository.UserRoleRepository
	audit        repository.AuditRepository
}

func NewAdminHandler(
	userSvc services.UserService,
	dashboards *services.DashboardService,
	auth helper.Auth,
	broker *services.SessionBroker,
	userRoleRepo repository.UserRoleRepository,
	audit repository.AuditRepository,
) *AdminHandler {
	return &AdminHandler{
		userSvc:      userSvc,
		dashboards:   dashboards,
		auth:         auth,
		broker:       broker,
		userRoleRepo: userRoleRepo,
		audit:        audit,
	}
}

// recordAudit is best effort. A failed audit write is logged by the
// repository and never blocks the request.
func (h *AdminHandler) recordAudit(actorID uint, action, entity, note string) {
	if h.audit == nil {
		return
	}
	_ = h.audit.Record(&domain.AuditLog{
		ActorID: actorID,
		Action:  action,
		Entity:  entity,
		Note:    note,
	})
}

func (h *AdminHandler) SetupRoutes(app *fiber.App) {
	admin := app.Group("/api/admin")

	// Auth
	admin.Post("/signup", h.SignUp)
	admin.Post("/login", h.Login)

	// Everything below requires a live session; the data routes also pass
	// the admin gate.
	admin.Use(middleware.AuthMiddleware(h.auth, h.broker))
	admin.Post("/logout", h.Logout)
	admin.Get("/me", h.Me)
	admin.Put("/profile", h.UpdateProfile)

	data := admin.Group("/registrations", middleware.AdminGate(h.broker, h.userRoleRepo))
	data.Get("/", h.ListRegistrations)
	data.Delete("/", h.ClearRegistrations)

	audit := admin.Group("/audit", middleware.AdminGate(h.broker, h.userRoleRepo))
	audit.Get("/", h.ListAudit)
}

func (h *AdminHandler) SignUp(ctx *fiber.Ctx) error {
	var requestBody dto.AdminSignup

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	usr, err := h.userSvc.SignUp(requestBody)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{
		"id":          usr.ID,
		"email":       usr.Email,
		"redirect_to": requestBody.RedirectTo,
	})
}

func (h *AdminHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.AdminLogin

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}

	resp, err := h.userSvc.SignIn(requestBody)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	h.recordAudit(resp.User.ID, domain.AuditAdminLogin, "users", resp.User.Email)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *AdminHandler) Logout(ctx *fiber.Ctx) error {
	sessionID, _ := ctx.Locals("sessionID").(string)

	if err := h.userSvc.SignOut(sessionID); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "signed out")
}

// Me reports the signed-in account and whether it holds the admin role, so
// the client can decide which views to offer.
func (h *AdminHandler) Me(ctx *fiber.Ctx) error {
	userID, _ := ctx.Locals("userID").(uint)

	profile, err := h.userSvc.Profile(userID)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, profile)
}

func (h *AdminHandler) UpdateProfile(ctx *fiber.Ctx) error {
	var requestBody dto.UpdateProfileRequest

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	userID, _ := ctx.Locals("userID").(uint)
	user, err := h.userSvc.UpdateDisplayName(userID, requestBody.DisplayName)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
	})
}

// ListAudit serves the recent admin action trail.
func (h *AdminHandler) ListAudit(ctx *fiber.Ctx) error {
	if h.audit == nil {
		return utils.ResponseSuccess(ctx, fiber.StatusOK, []domain.AuditLog{})
	}

	entries, err := h.audit.ListRecent(ctx.QueryInt("limit", 50))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadGateway, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, entries)
}

// ListRegistrations serves the dashboard table: every list view re-fetches
// the record set, then applies the search/category predicate.
func (h *AdminHandler) ListRegistrations(ctx *fiber.Ctx) error {
	sessionID, _ := ctx.Locals("sessionID").(string)
	dashboard := h.dashboards.ForSession(sessionID)

	if err := dashboard.Refresh(); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadGateway, err.Error())
	}

	search := ctx.Query("search")
	group := ctx.Query("group", "all")

	visible := dashboard.Visible(search, group)
	all := dashboard.Records()

	out := make([]dto.RegistrationResponse, 0, len(visible))
	for _, r := range visible {
		out = append(out, toRegistrationResponse(r))
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.RegistrationListResponse{
		Registrations: out,
		Total:         len(all),
		Visible:       len(out),
	})
}

// ClearRegistrations is the bulk delete. It refuses without explicit
// confirmation; on success the session's snapshot is already emptied, so the
// client does not need to re-fetch.
func (h *AdminHandler) ClearRegistrations(ctx *fiber.Ctx) error {
	var requestBody dto.ClearAllRequest

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	sessionID, _ := ctx.Locals("sessionID").(string)
	dashboard := h.dashboards.ForSession(sessionID)

	if err := dashboard.ClearAll(requestBody.Confirm); err != nil {
		if err == services.ErrConfirmRequired {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
		}
		return utils.ResponseError(ctx, fiber.StatusBadGateway, err.Error())
	}

	userID, _ := ctx.Locals("userID").(uint)
	h.recordAudit(userID, domain.AuditClearAll, "registrations", "")
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "all registrations deleted")
}

func toRegistrationResponse(r domain.Registration) dto.RegistrationResponse {
	return dto.RegistrationResponse{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		GroupCode: r.GroupCode,
		FullName:  r.FullName,
		Phone:     r.Phone,
		Email:     r.Email,
	}
}
