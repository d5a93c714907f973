package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/ibrahimchallal/tournament_service/internal/domain"
	"github.com/ibrahimchallal/tournament_service/internal/dto"
	"github.com/ibrahimchallal/tournament_service/internal/helper"
	"github.com/ibrahimchallal/tournament_service/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- fakes ----------

type fakeRegistrationRepo struct {
	records   []domain.Registration
	listErr   error
	deleteErr error
}

func (f *fakeRegistrationRepo) Create(reg *domain.Registration) (*domain.Registration, error) {
	reg.ID = uint(len(f.records) + 1)
	f.records = append(f.records, *reg)
	return reg, nil
}

func (f *fakeRegistrationRepo) ListAll() ([]domain.Registration, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Registration, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeRegistrationRepo) DeleteAll() error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.records = nil
	return nil
}

func (f *fakeRegistrationRepo) Count() (int64, error) {
	return int64(len(f.records)), nil
}

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	user.ID = f.nextID
	f.nextID++
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) FindUserByEmail(email string) (*domain.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (f *fakeUserRepo) FindUserById(userID uint) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (f *fakeUserRepo) SaveUser(user *domain.User) error {
	f.users[user.Email] = user
	return nil
}

type fakeAuditRepo struct {
	entries []domain.AuditLog
}

func (f *fakeAuditRepo) Record(entry *domain.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) ListRecent(limit int) ([]domain.AuditLog, error) {
	return f.entries, nil
}

type fakeUserRoleRepo struct {
	admins  map[uint]bool
	lookups int
}

func (f *fakeUserRoleRepo) AssignRole(userID uint, roleID uint) error {
	f.admins[userID] = true
	return nil
}

func (f *fakeUserRoleRepo) UserHasRole(userID uint, roleCode string) (bool, error) {
	f.lookups++
	return f.admins[userID] && roleCode == domain.RoleAdmin, nil
}

// ---------- harness ----------

type harness struct {
	app       *fiber.App
	regRepo   *fakeRegistrationRepo
	userRepo  *fakeUserRepo
	roleRepo  *fakeUserRoleRepo
	auditRepo *fakeAuditRepo
	userSvc   services.UserService
	broker    *services.SessionBroker
	authHelpr helper.Auth
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	regRepo := &fakeRegistrationRepo{}
	userRepo := newFakeUserRepo()
	roleRepo := &fakeUserRoleRepo{admins: make(map[uint]bool)}
	auditRepo := &fakeAuditRepo{}

	authHelper := helper.SetupAuth("test-secret")
	broker := services.NewSessionBroker()
	userSvc := services.NewUserService(userRepo, roleRepo, authHelper, broker)
	dashboards := services.NewDashboardService(regRepo, broker)

	app := fiber.New()
	NewRegistrationHandler(services.NewRegistrationService(regRepo, nil)).SetupRoutes(app)
	NewAdminHandler(userSvc, dashboards, authHelper, broker, roleRepo, auditRepo).SetupRoutes(app)

	return &harness{
		app:       app,
		regRepo:   regRepo,
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		auditRepo: auditRepo,
		userSvc:   userSvc,
		broker:    broker,
		authHelpr: authHelper,
	}
}

func (h *harness) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

// signInAdmin provisions an account, grants it the admin role and returns a
// live token.
func (h *harness) signInAdmin(t *testing.T) string {
	t.Helper()

	usr, err := h.userSvc.SignUp(dto.AdminSignup{
		Email:    "organizer@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	h.roleRepo.admins[usr.ID] = true

	resp, err := h.userSvc.SignIn(dto.AdminLogin{
		Email:    "organizer@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return resp.Token
}

func (h *harness) seedRegistrations(t *testing.T) {
	t.Helper()
	h.regRepo.records = []domain.Registration{
		{ID: 1, FullName: "Amine", Email: "1234567890123@ofppt-edu.ma", GroupCode: "DD101", Phone: "0612345678"},
		{ID: 2, FullName: "Sara", Email: "9999999999999@ofppt-edu.ma", GroupCode: "ID101", Phone: "0698765432"},
	}
}

// ---------- public form ----------

func TestSubmitRegistration(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, fiber.MethodPost, "/api/registrations/", "", dto.RegistrationRequest{
		Group:    "DD101",
		FullName: "Amine Benali",
		Phone:    "06 12 34 56 78",
		Email:    "1234567890123@ofppt-edu.ma",
	})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "0612345678", data["phone"], "phone stored normalized")
	assert.Len(t, h.regRepo.records, 1)
}

func TestSubmitRegistration_FieldErrorNamesField(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, fiber.MethodPost, "/api/registrations/", "", dto.RegistrationRequest{
		Group:    "DD101",
		FullName: "Amine Benali",
		Phone:    "0612345678",
		Email:    "not-a-school-email@gmail.com",
	})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "email", body["field"])
	assert.NotEmpty(t, body["error"])
	assert.Empty(t, h.regRepo.records)
}

func TestRegistrationMeta(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, fiber.MethodGet, "/api/registrations/meta", "", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["groups"], 19)
}

// ---------- admin gate ----------

func TestAdminList_RequiresSession(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, fiber.MethodGet, "/api/admin/registrations/", "", nil)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	redirect, _ := body["redirect"].(string)
	assert.Contains(t, redirect, "/api/admin/login?redirect=")
	assert.Contains(t, redirect, "registrations")
}

func TestAdminList_DeniedWithoutAdminRole(t *testing.T) {
	h := newHarness(t)

	_, err := h.userSvc.SignUp(dto.AdminSignup{Email: "viewer@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	login, err := h.userSvc.SignIn(dto.AdminLogin{Email: "viewer@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	h.seedRegistrations(t)
	resp, body := h.do(t, fiber.MethodGet, "/api/admin/registrations/", login.Token, nil)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body["error"], "access denied")
}

func TestAdminList_AdminSeesRecords(t *testing.T) {
	h := newHarness(t)
	token := h.signInAdmin(t)
	h.seedRegistrations(t)

	resp, body := h.do(t, fiber.MethodGet, "/api/admin/registrations/", token, nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 2, data["total"])
	assert.Len(t, data["registrations"], 2)
}

func TestAdminList_SearchAndGroupFilter(t *testing.T) {
	h := newHarness(t)
	token := h.signInAdmin(t)
	h.seedRegistrations(t)

	_, body := h.do(t, fiber.MethodGet, "/api/admin/registrations/?search=ami", token, nil)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["visible"])

	_, body = h.do(t, fiber.MethodGet, "/api/admin/registrations/?group=ID", token, nil)
	data = body["data"].(map[string]interface{})
	regs := data["registrations"].([]interface{})
	require.Len(t, regs, 1)
	first := regs[0].(map[string]interface{})
	assert.Equal(t, "ID101", first["group_code"])
}

func TestAdminList_RefreshesEachRequest(t *testing.T) {
	h := newHarness(t)
	token := h.signInAdmin(t)
	h.seedRegistrations(t)

	_, body := h.do(t, fiber.MethodGet, "/api/admin/registrations/", token, nil)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 2, data["total"])

	// a submission landing after the first view shows up on the next one
	resp, _ := h.do(t, fiber.MethodPost, "/api/registrations/", "", dto.RegistrationRequest{
		Group:    "DD102",
		FullName: "Yassine Alaoui",
		Phone:    "0611111111",
		Email:    "5555555555555@ofppt-edu.ma",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	_, body = h.do(t, fiber.MethodGet, "/api/admin/registrations/", token, nil)
	data = body["data"].(map[string]interface{})
	assert.EqualValues(t, 3, data["total"])
}

func TestAdminClearAll(t *testing.T) {
	h := newHarness(t)
	token := h.signInAdmin(t)
	h.seedRegistrations(t)

	h.do(t, fiber.MethodGet, "/api/admin/registrations/", token, nil)

	// refused without confirmation
	resp, _ := h.do(t, fiber.MethodDelete, "/api/admin/registrations/", token, dto.ClearAllRequest{Confirm: false})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Len(t, h.regRepo.records, 2)

	// confirmed delete clears the store
	resp, _ = h.do(t, fiber.MethodDelete, "/api/admin/registrations/", token, dto.ClearAllRequest{Confirm: true})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, h.regRepo.records)

	last := h.auditRepo.entries[len(h.auditRepo.entries)-1]
	assert.Equal(t, domain.AuditClearAll, last.Action)
	assert.NotZero(t, last.ActorID)

	_, body := h.do(t, fiber.MethodGet, "/api/admin/registrations/", token, nil)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 0, data["total"])
}

func TestAdminClearAll_StoreFailureSurfacedListUnchanged(t *testing.T) {
	h := newHarness(t)
	token := h.signInAdmin(t)
	h.seedRegistrations(t)
	h.do(t, fiber.MethodGet, "/api/admin/registrations/", token, nil)

	h.regRepo.deleteErr = errors.New("failed to delete registrations")
	resp, body := h.do(t, fiber.MethodDelete, "/api/admin/registrations/", token, dto.ClearAllRequest{Confirm: true})

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.NotEmpty(t, body["error"])

	h.regRepo.deleteErr = nil
	_, listBody := h.do(t, fiber.MethodGet, "/api/admin/registrations/", token, nil)
	data := listBody["data"].(map[string]interface{})
	assert.EqualValues(t, 2, data["total"], "records intact after failed delete")
}

func TestAdminLogout_EndsSession(t *testing.T) {
	h := newHarness(t)
	token := h.signInAdmin(t)

	resp, _ := h.do(t, fiber.MethodPost, "/api/admin/logout", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// the token still carries a valid signature, but the session is gone
	resp, body := h.do(t, fiber.MethodGet, "/api/admin/registrations/", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	redirect, _ := body["redirect"].(string)
	assert.Contains(t, redirect, "/api/admin/login?redirect=")
}

func TestAdminLoginEndpoint(t *testing.T) {
	h := newHarness(t)

	_, err := h.userSvc.SignUp(dto.AdminSignup{Email: "organizer@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	resp, body := h.do(t, fiber.MethodPost, "/api/admin/login", "", dto.AdminLogin{
		Email:    "organizer@example.com",
		Password: "s3cret-pass",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	resp, _ = h.do(t, fiber.MethodPost, "/api/admin/login", "", dto.AdminLogin{
		Email:    "organizer@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminMe_ReportsAdminMembership(t *testing.T) {
	h := newHarness(t)

	_, err := h.userSvc.SignUp(dto.AdminSignup{Email: "viewer@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	login, err := h.userSvc.SignIn(dto.AdminLogin{Email: "viewer@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	resp, body := h.do(t, fiber.MethodGet, "/api/admin/me", login.Token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "viewer@example.com", data["email"])
	assert.Equal(t, false, data["is_admin"])

	adminToken := h.signInAdmin(t)
	_, body = h.do(t, fiber.MethodGet, "/api/admin/me", adminToken, nil)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, true, data["is_admin"])
}

func TestAdminUpdateProfile(t *testing.T) {
	h := newHarness(t)
	token := h.signInAdmin(t)

	resp, body := h.do(t, fiber.MethodPut, "/api/admin/profile", token, dto.UpdateProfileRequest{
		DisplayName: "Tournament Desk",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Tournament Desk", data["display_name"])

	// the change sticks
	_, body = h.do(t, fiber.MethodGet, "/api/admin/me", token, nil)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, "Tournament Desk", data["display_name"])

	resp, _ = h.do(t, fiber.MethodPut, "/api/admin/profile", token, dto.UpdateProfileRequest{
		DisplayName: "   ",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminAuditTrail(t *testing.T) {
	h := newHarness(t)
	token := h.signInAdmin(t)
	h.seedRegistrations(t)

	resp, _ := h.do(t, fiber.MethodDelete, "/api/admin/registrations/", token, dto.ClearAllRequest{Confirm: true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := h.do(t, fiber.MethodGet, "/api/admin/audit/", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	entries := body["data"].([]interface{})
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1].(map[string]interface{})
	assert.Equal(t, domain.AuditClearAll, last["action"])
}

func TestAdminAuditTrail_DeniedWithoutAdminRole(t *testing.T) {
	h := newHarness(t)

	_, err := h.userSvc.SignUp(dto.AdminSignup{Email: "viewer@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	login, err := h.userSvc.SignIn(dto.AdminLogin{Email: "viewer@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	resp, _ := h.do(t, fiber.MethodGet, "/api/admin/audit/", login.Token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminSignupEchoesRedirectTarget(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, fiber.MethodPost, "/api/admin/signup", "", dto.AdminSignup{
		Email:      "new-admin@example.com",
		Password:   "s3cret-pass",
		RedirectTo: "/api/admin/registrations",
	})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "/api/admin/registrations", data["redirect_to"])
}
