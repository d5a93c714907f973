package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/ibrahimchallal/tournament_service/internal/domain"
	"github.com/ibrahimchallal/tournament_service/internal/gate"
	"github.com/ibrahimchallal/tournament_service/internal/helper"
	"github.com/ibrahimchallal/tournament_service/internal/helper/utils"
	"github.com/ibrahimchallal/tournament_service/internal/repository"
	"github.com/ibrahimchallal/tournament_service/internal/services"
)

const AdminLoginPath = "/api/admin/login"

// AuthMiddleware verifies the bearer token and stores the verified claims in
// the request context. The token alone is not enough: the session must still
// be live in the broker (sign-out revokes it before expiry).
func AuthMiddleware(auth helper.Auth, broker *services.SessionBroker) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// 1) try cookie first
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))

		// 2) fallback to Authorization header
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}

		user, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return utils.ResponseRedirect(ctx, fiber.StatusUnauthorized, err.Error(),
				gate.LoginRedirect(AdminLoginPath, ctx.OriginalURL()))
		}

		if broker.Current(user.SessionID) == nil {
			return utils.ResponseRedirect(ctx, fiber.StatusUnauthorized, "session ended",
				gate.LoginRedirect(AdminLoginPath, ctx.OriginalURL()))
		}

		ctx.Locals("userID", user.UserID)
		ctx.Locals("sessionID", user.SessionID)
		ctx.Locals("user", user)
		return ctx.Next()
	}
}

// AdminGate runs the access gate for the request's session: listener first,
// then the one-shot session check and the on-demand role lookup. Anonymous
// callers get a sign-in redirect carrying the original path; authenticated
// callers without the admin role get a static access-denied; only
// AuthenticatedAdmin continues to the data operations.
func AdminGate(broker *services.SessionBroker, userRoleRepo repository.UserRoleRepository) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sessionID, _ := ctx.Locals("sessionID").(string)

		g := gate.New(
			brokerSource{broker: broker, sessionID: sessionID},
			nil,
			roleChecker{repo: userRoleRepo},
		)
		defer g.Close()

		if err := g.Start(); err != nil {
			return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
		}

		switch err := g.RequireAdmin(); err {
		case nil:
			ctx.Locals("gateState", g.State())
			return ctx.Next()
		case gate.ErrNotSignedIn:
			return utils.ResponseRedirect(ctx, fiber.StatusUnauthorized, "sign in required",
				gate.LoginRedirect(AdminLoginPath, ctx.OriginalURL()))
		case gate.ErrNotAdmin:
			return utils.ResponseError(ctx, fiber.StatusForbidden, "access denied: admin only")
		default:
			return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
		}
	}
}

// brokerSource adapts the session broker to the gate's auth surface for one
// session id.
type brokerSource struct {
	broker    *services.SessionBroker
	sessionID string
}

func (b brokerSource) CurrentSession() (*gate.Session, error) {
	return toGateSession(b.broker.Current(b.sessionID)), nil
}

func (b brokerSource) Subscribe(fn func(*gate.Session)) func() {
	return b.broker.Subscribe(b.sessionID, func(s *services.Session) {
		fn(toGateSession(s))
	})
}

func toGateSession(s *services.Session) *gate.Session {
	if s == nil {
		return nil
	}
	return &gate.Session{ID: s.ID, UserID: s.UserID, Email: s.Email}
}

type roleChecker struct {
	repo repository.UserRoleRepository
}

func (r roleChecker) HasAdminRole(userID uint) (bool, error) {
	return r.repo.UserHasRole(userID, domain.RoleAdmin)
}
