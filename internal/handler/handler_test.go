package handler_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/org-directory-api/internal/auth"
	"github.com/org-directory-api/internal/domain"
	"github.com/org-directory-api/internal/dto"
	"github.com/org-directory-api/internal/handler"
	"github.com/org-directory-api/internal/repository"
	"github.com/org-directory-api/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testServer struct {
	server *httptest.Server
	store  *repository.Store
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	err = db.AutoMigrate(
		&domain.Company{},
		&domain.User{},
		&domain.Department{},
		&domain.Position{},
		&domain.UserPosition{},
		&domain.InviteChallenge{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	issuer := auth.NewTokenIssuer(key, &key.PublicKey, 15*time.Minute)

	store := repository.NewStore(db)

	authService := service.NewAuthService(store, issuer)
	userService := service.NewUserService(store)
	deptService := service.NewDepartmentService(store)
	positionService := service.NewPositionService(store)

	router := handler.NewRouter(
		handler.NewAuthHandler(authService, logger),
		handler.NewUserHandler(userService, logger),
		handler.NewDepartmentHandler(deptService, logger),
		handler.NewPositionHandler(positionService, logger),
		issuer,
		store.Users,
		logger,
	)

	ts := &testServer{
		server: httptest.NewServer(router.Setup()),
		store:  store,
	}
	t.Cleanup(ts.server.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body map[string]any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return out
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d", resp.StatusCode, want)
	}
}

// registerCompany проводит полный цикл регистрации компании и возвращает
// токен доступа её администратора
func registerCompany(t *testing.T, ts *testServer, companyName, account string) string {
	t.Helper()

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/auth/check_account/"+account, "", nil)
	wantStatus(t, resp, http.StatusOK)
	invite := decodeBody[dto.InviteChallengeResponse](t, resp)

	resp = doJSON(t, http.MethodPost, ts.server.URL+"/auth/sign-up", "", map[string]any{
		"account":      account,
		"invite_token": invite.InviteToken,
	})
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, ts.server.URL+"/auth/sign-up-complete", "", map[string]any{
		"company_name": companyName,
		"first_name":   "Ivan",
		"last_name":    "Petrov",
		"account":      account,
		"password":     "s3cret-password",
	})
	wantStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	return login(t, ts, account, "s3cret-password")
}

func login(t *testing.T, ts *testServer, account, password string) string {
	t.Helper()

	resp, err := http.PostForm(ts.server.URL+"/auth/jwt/login", url.Values{
		"username": {account},
		"password": {password},
	})
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	wantStatus(t, resp, http.StatusOK)
	token := decodeBody[dto.AccessTokenResponse](t, resp)
	if token.TokenType != "bearer" {
		t.Fatalf("token_type = %q, want %q", token.TokenType, "bearer")
	}
	return token.AccessToken
}

func TestHealthz(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.server.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	wantStatus(t, resp, http.StatusOK)
}

func TestCheckAccount_IssuesInvite(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/auth/check_account/a@b.com", "", nil)
	wantStatus(t, resp, http.StatusOK)
	invite := decodeBody[dto.InviteChallengeResponse](t, resp)

	if invite.Account != "a@b.com" {
		t.Errorf("account = %q, want %q", invite.Account, "a@b.com")
	}
	if len(invite.InviteToken) != 64 {
		t.Errorf("invite token length = %d, want 64", len(invite.InviteToken))
	}

	// Повторный запрос до завершения регистрации отклоняется
	resp = doJSON(t, http.MethodGet, ts.server.URL+"/auth/check_account/a@b.com", "", nil)
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()
}

func TestCheckAccount_ExistingUser(t *testing.T) {
	ts := setupTestServer(t)
	registerCompany(t, ts, "Acme", "admin@acme.com")

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/auth/check_account/admin@acme.com", "", nil)
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()
}

func TestSignUp_InvalidToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/auth/check_account/a@b.com", "", nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	wrong := make([]byte, 64)
	for i := range wrong {
		wrong[i] = 'f'
	}
	resp = doJSON(t, http.MethodPost, ts.server.URL+"/auth/sign-up", "", map[string]any{
		"account":      "a@b.com",
		"invite_token": string(wrong),
	})
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestSignUpComplete_ConsumesInvite(t *testing.T) {
	ts := setupTestServer(t)
	registerCompany(t, ts, "Acme", "admin@acme.com")

	// Приглашение одноразовое: повторная регистрация по нему невозможна
	resp := doJSON(t, http.MethodPost, ts.server.URL+"/auth/sign-up-complete", "", map[string]any{
		"company_name": "Acme Again",
		"first_name":   "Ivan",
		"last_name":    "Petrov",
		"account":      "admin@acme.com",
		"password":     "s3cret-password",
	})
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestSignUpComplete_CompanyGone(t *testing.T) {
	ts := setupTestServer(t)

	// Приглашение ссылается на компанию, которой уже нет
	missing := int64(9000)
	invite := &domain.InviteChallenge{
		Account:     "ghost@acme.com",
		InviteToken: strings.Repeat("a", 64),
		CompanyID:   &missing,
	}
	if err := ts.store.Invites.Create(context.Background(), invite); err != nil {
		t.Fatalf("failed to seed invite: %v", err)
	}

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/auth/sign-up-complete", "", map[string]any{
		"first_name": "Ivan",
		"last_name":  "Petrov",
		"account":    "ghost@acme.com",
		"password":   "s3cret-password",
	})
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	registerCompany(t, ts, "Acme", "admin@acme.com")

	resp, err := http.PostForm(ts.server.URL+"/auth/jwt/login", url.Values{
		"username": {"admin@acme.com"},
		"password": {"wrong-password"},
	})
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	wantStatus(t, resp, http.StatusUnauthorized)
}

func TestUsersMe(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/users/me", token, nil)
	wantStatus(t, resp, http.StatusOK)
	user := decodeBody[dto.UserResponse](t, resp)

	if user.Account != "admin@acme.com" {
		t.Errorf("account = %q, want %q", user.Account, "admin@acme.com")
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("role = %q, want %q", user.Role, domain.RoleAdmin)
	}

	// Без токена доступ закрыт
	resp = doJSON(t, http.MethodGet, ts.server.URL+"/users/me", "", nil)
	wantStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

// inviteEmployee приглашает сотрудника от имени администратора
// и завершает его регистрацию
func inviteEmployee(t *testing.T, ts *testServer, adminToken, account string) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/users/invite", adminToken, map[string]any{
		"account": account,
	})
	wantStatus(t, resp, http.StatusCreated)
	invite := decodeBody[dto.InviteChallengeResponse](t, resp)

	resp = doJSON(t, http.MethodPost, ts.server.URL+"/auth/sign-up", "", map[string]any{
		"account":      account,
		"invite_token": invite.InviteToken,
	})
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, ts.server.URL+"/auth/sign-up-complete", "", map[string]any{
		"first_name": "Petr",
		"last_name":  "Ivanov",
		"account":    account,
		"password":   "s3cret-password",
	})
	wantStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	return login(t, ts, account, "s3cret-password")
}

func TestInviteEmployee_JoinsCompany(t *testing.T) {
	ts := setupTestServer(t)
	adminToken := registerCompany(t, ts, "Acme", "admin@acme.com")
	employeeToken := inviteEmployee(t, ts, adminToken, "employee@acme.com")

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/users/me", adminToken, nil)
	wantStatus(t, resp, http.StatusOK)
	admin := decodeBody[dto.UserResponse](t, resp)

	resp = doJSON(t, http.MethodGet, ts.server.URL+"/users/me", employeeToken, nil)
	wantStatus(t, resp, http.StatusOK)
	employee := decodeBody[dto.UserResponse](t, resp)

	if employee.CompanyID != admin.CompanyID {
		t.Errorf("employee company = %d, want %d", employee.CompanyID, admin.CompanyID)
	}
	if employee.Role != domain.RoleUser {
		t.Errorf("employee role = %q, want %q", employee.Role, domain.RoleUser)
	}
}

func TestInviteEmployee_NonAdminForbidden(t *testing.T) {
	ts := setupTestServer(t)
	adminToken := registerCompany(t, ts, "Acme", "admin@acme.com")
	employeeToken := inviteEmployee(t, ts, adminToken, "employee@acme.com")

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/users/invite", employeeToken, map[string]any{
		"account": "another@acme.com",
	})
	wantStatus(t, resp, http.StatusForbidden)
	resp.Body.Close()
}

func TestInviteEmployee_ExistingAccount(t *testing.T) {
	ts := setupTestServer(t)
	adminToken := registerCompany(t, ts, "Acme", "admin@acme.com")

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/users/invite", adminToken, map[string]any{
		"account": "admin@acme.com",
	})
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()
}

func TestChangeAccount(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")

	resp := doJSON(t, http.MethodPatch, ts.server.URL+"/users/change-account", token, map[string]any{
		"account": "new-admin@acme.com",
	})
	wantStatus(t, resp, http.StatusOK)
	user := decodeBody[dto.UserResponse](t, resp)
	if user.Account != "new-admin@acme.com" {
		t.Errorf("account = %q, want %q", user.Account, "new-admin@acme.com")
	}

	// Под новым account можно войти со старым паролем
	login(t, ts, "new-admin@acme.com", "s3cret-password")
}

func TestChangeAccount_Taken(t *testing.T) {
	ts := setupTestServer(t)
	adminToken := registerCompany(t, ts, "Acme", "admin@acme.com")
	inviteEmployee(t, ts, adminToken, "employee@acme.com")

	resp := doJSON(t, http.MethodPatch, ts.server.URL+"/users/change-account", adminToken, map[string]any{
		"account": "employee@acme.com",
	})
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()
}

func TestChangeCredentials(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")

	resp := doJSON(t, http.MethodPatch, ts.server.URL+"/users/change-credentials", token, map[string]any{
		"first_name": "Sergey",
		"password":   "new-s3cret-password",
	})
	wantStatus(t, resp, http.StatusOK)
	user := decodeBody[dto.UserResponse](t, resp)
	if user.FirstName != "Sergey" {
		t.Errorf("first_name = %q, want %q", user.FirstName, "Sergey")
	}

	login(t, ts, "admin@acme.com", "new-s3cret-password")
}

func createDepartment(t *testing.T, ts *testServer, token, name string, parentID *int64) dto.DepartmentResponse {
	t.Helper()

	body := map[string]any{"name": name}
	if parentID != nil {
		body["parent_id"] = *parentID
	}
	resp := doJSON(t, http.MethodPost, ts.server.URL+"/departments/create", token, body)
	wantStatus(t, resp, http.StatusCreated)
	return decodeBody[dto.DepartmentResponse](t, resp)
}

func TestCreateDepartment(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")

	root := createDepartment(t, ts, token, "Engineering", nil)
	if root.Path != "Engineering" {
		t.Errorf("root path = %q, want %q", root.Path, "Engineering")
	}

	child := createDepartment(t, ts, token, "Backend", &root.ID)
	if child.Path != "Engineering.Backend" {
		t.Errorf("child path = %q, want %q", child.Path, "Engineering.Backend")
	}
}

func TestCreateDepartment_ParentNotFound(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/departments/create", token, map[string]any{
		"name":      "Backend",
		"parent_id": 9000,
	})
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestCreateDepartment_InvalidName(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")

	root := createDepartment(t, ts, token, "R", nil)

	// Разделитель в имени сделал бы корень "R.D" мнимым потомком "R"
	resp := doJSON(t, http.MethodPost, ts.server.URL+"/departments/create", token, map[string]any{
		"name": "R.D",
	})
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, ts.server.URL+"/departments/create", token, map[string]any{
		"name": "   ",
	})
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	// Переименование подчиняется тем же правилам, что и создание
	resp = doJSON(t, http.MethodPatch, ts.server.URL+fmt.Sprintf("/departments/%d", root.ID), token, map[string]any{
		"name": "R.D",
	})
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, ts.server.URL+fmt.Sprintf("/departments/%d/sub_departments", root.ID), token, nil)
	wantStatus(t, resp, http.StatusOK)
	subs := decodeBody[[]dto.DepartmentResponse](t, resp)
	if len(subs) != 0 {
		t.Errorf("tree of R must stay empty, got %v", subs)
	}
}

func TestCreateDepartment_Duplicate(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")
	createDepartment(t, ts, token, "Engineering", nil)

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/departments/create", token, map[string]any{
		"name": "Engineering",
	})
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()
}

func TestSubDepartments(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")

	root := createDepartment(t, ts, token, "Engineering", nil)
	backend := createDepartment(t, ts, token, "Backend", &root.ID)
	createDepartment(t, ts, token, "Core", &backend.ID)
	createDepartment(t, ts, token, "Sales", nil)

	resp := doJSON(t, http.MethodGet, ts.server.URL+fmt.Sprintf("/departments/%d/sub_departments", root.ID), token, nil)
	wantStatus(t, resp, http.StatusOK)
	subs := decodeBody[[]dto.DepartmentResponse](t, resp)

	if len(subs) != 2 {
		t.Fatalf("got %d sub-departments, want 2", len(subs))
	}
}

func TestSubDepartments_CrossTenant(t *testing.T) {
	ts := setupTestServer(t)
	acmeToken := registerCompany(t, ts, "Acme", "admin@acme.com")
	globexToken := registerCompany(t, ts, "Globex", "admin@globex.com")

	root := createDepartment(t, ts, acmeToken, "Engineering", nil)
	createDepartment(t, ts, acmeToken, "Backend", &root.ID)

	// Чужой компании дерево не видно даже по верному ID
	resp := doJSON(t, http.MethodGet, ts.server.URL+fmt.Sprintf("/departments/%d/sub_departments", root.ID), globexToken, nil)
	wantStatus(t, resp, http.StatusOK)
	subs := decodeBody[[]dto.DepartmentResponse](t, resp)
	if len(subs) != 0 {
		t.Errorf("cross-tenant listing must be empty, got %d", len(subs))
	}
}

func TestRenameDepartment_CascadesPaths(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")

	root := createDepartment(t, ts, token, "Engineering", nil)
	backend := createDepartment(t, ts, token, "Backend", &root.ID)

	resp := doJSON(t, http.MethodPatch, ts.server.URL+fmt.Sprintf("/departments/%d", root.ID), token, map[string]any{
		"name": "Eng Team",
	})
	wantStatus(t, resp, http.StatusOK)
	renamed := decodeBody[dto.DepartmentResponse](t, resp)
	if renamed.Path != "Eng_Team" {
		t.Errorf("renamed path = %q, want %q", renamed.Path, "Eng_Team")
	}

	resp = doJSON(t, http.MethodGet, ts.server.URL+fmt.Sprintf("/departments/%d/sub_departments", root.ID), token, nil)
	wantStatus(t, resp, http.StatusOK)
	subs := decodeBody[[]dto.DepartmentResponse](t, resp)

	if len(subs) != 1 || subs[0].ID != backend.ID || subs[0].Path != "Eng_Team.Backend" {
		t.Errorf("descendant not rewritten: %+v", subs)
	}
}

func TestMoveDepartment_RewritesSubtree(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")

	root := createDepartment(t, ts, token, "Engineering", nil)
	backend := createDepartment(t, ts, token, "Backend", &root.ID)
	core := createDepartment(t, ts, token, "Core", &backend.ID)
	ops := createDepartment(t, ts, token, "Ops", nil)

	// Перенос Backend под Ops
	resp := doJSON(t, http.MethodPatch, ts.server.URL+fmt.Sprintf("/departments/%d", backend.ID), token, map[string]any{
		"parent_id": ops.ID,
	})
	wantStatus(t, resp, http.StatusOK)
	moved := decodeBody[dto.DepartmentResponse](t, resp)
	if moved.Path != "Ops.Backend" {
		t.Errorf("moved path = %q, want %q", moved.Path, "Ops.Backend")
	}

	resp = doJSON(t, http.MethodGet, ts.server.URL+fmt.Sprintf("/departments/%d/sub_departments", ops.ID), token, nil)
	wantStatus(t, resp, http.StatusOK)
	subs := decodeBody[[]dto.DepartmentResponse](t, resp)

	paths := make(map[int64]string, len(subs))
	for _, d := range subs {
		paths[d.ID] = d.Path
	}
	if paths[backend.ID] != "Ops.Backend" || paths[core.ID] != "Ops.Backend.Core" {
		t.Errorf("subtree not rewritten: %v", paths)
	}
}

func TestMoveDepartment_CycleForbidden(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")

	root := createDepartment(t, ts, token, "Engineering", nil)
	backend := createDepartment(t, ts, token, "Backend", &root.ID)

	// Перенос в собственного потомка
	resp := doJSON(t, http.MethodPatch, ts.server.URL+fmt.Sprintf("/departments/%d", root.ID), token, map[string]any{
		"parent_id": backend.ID,
	})
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()

	// Подразделение не может быть родителем самого себя
	resp = doJSON(t, http.MethodPatch, ts.server.URL+fmt.Sprintf("/departments/%d", root.ID), token, map[string]any{
		"parent_id": root.ID,
	})
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestDeleteDepartment(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")

	root := createDepartment(t, ts, token, "Engineering", nil)
	backend := createDepartment(t, ts, token, "Backend", &root.ID)

	// Подразделение с потомками удалить нельзя
	resp := doJSON(t, http.MethodDelete, ts.server.URL+fmt.Sprintf("/departments/%d", root.ID), token, nil)
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, ts.server.URL+fmt.Sprintf("/departments/%d", backend.ID), token, nil)
	wantStatus(t, resp, http.StatusNoContent)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, ts.server.URL+fmt.Sprintf("/departments/%d", root.ID), token, nil)
	wantStatus(t, resp, http.StatusNoContent)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, ts.server.URL+fmt.Sprintf("/departments/%d", root.ID), token, nil)
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestSetDepartmentHead(t *testing.T) {
	ts := setupTestServer(t)
	adminToken := registerCompany(t, ts, "Acme", "admin@acme.com")
	inviteEmployee(t, ts, adminToken, "employee@acme.com")

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/users/me", adminToken, nil)
	wantStatus(t, resp, http.StatusOK)
	admin := decodeBody[dto.UserResponse](t, resp)

	dept := createDepartment(t, ts, adminToken, "Engineering", nil)

	resp = doJSON(t, http.MethodPost, ts.server.URL+fmt.Sprintf("/departments/%d/set_head", dept.ID), adminToken, map[string]any{
		"user_id": admin.ID,
	})
	wantStatus(t, resp, http.StatusOK)
	updated := decodeBody[dto.DepartmentResponse](t, resp)
	if updated.HeadID == nil || *updated.HeadID != admin.ID {
		t.Errorf("head_id = %v, want %d", updated.HeadID, admin.ID)
	}

	// Повторное назначение руководителя отклоняется
	resp = doJSON(t, http.MethodPost, ts.server.URL+fmt.Sprintf("/departments/%d/set_head", dept.ID), adminToken, map[string]any{
		"user_id": admin.ID,
	})
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()
}

func TestSetDepartmentHead_CrossTenant(t *testing.T) {
	ts := setupTestServer(t)
	acmeToken := registerCompany(t, ts, "Acme", "admin@acme.com")
	globexToken := registerCompany(t, ts, "Globex", "admin@globex.com")

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/users/me", globexToken, nil)
	wantStatus(t, resp, http.StatusOK)
	outsider := decodeBody[dto.UserResponse](t, resp)

	dept := createDepartment(t, ts, acmeToken, "Engineering", nil)

	resp = doJSON(t, http.MethodPost, ts.server.URL+fmt.Sprintf("/departments/%d/set_head", dept.ID), acmeToken, map[string]any{
		"user_id": outsider.ID,
	})
	wantStatus(t, resp, http.StatusForbidden)
	resp.Body.Close()
}

func createPosition(t *testing.T, ts *testServer, token, title string, departmentID int64) dto.PositionResponse {
	t.Helper()

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/positions/create", token, map[string]any{
		"title":         title,
		"department_id": departmentID,
	})
	wantStatus(t, resp, http.StatusCreated)
	return decodeBody[dto.PositionResponse](t, resp)
}

func TestCreatePosition_DuplicateTitle(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")
	dept := createDepartment(t, ts, token, "Engineering", nil)

	createPosition(t, ts, token, "Lead", dept.ID)

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/positions/create", token, map[string]any{
		"title":         "Lead",
		"department_id": dept.ID,
	})
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()
}

func TestCreatePosition_BlankTitle(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")
	dept := createDepartment(t, ts, token, "Engineering", nil)

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/positions/create", token, map[string]any{
		"title":         "   ",
		"department_id": dept.ID,
	})
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	position := createPosition(t, ts, token, "Lead", dept.ID)
	resp = doJSON(t, http.MethodPatch, ts.server.URL+fmt.Sprintf("/positions/%d", position.ID), token, map[string]any{
		"title": "   ",
	})
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestAssignPosition(t *testing.T) {
	ts := setupTestServer(t)
	adminToken := registerCompany(t, ts, "Acme", "admin@acme.com")

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/users/me", adminToken, nil)
	wantStatus(t, resp, http.StatusOK)
	admin := decodeBody[dto.UserResponse](t, resp)

	dept := createDepartment(t, ts, adminToken, "Engineering", nil)
	position := createPosition(t, ts, adminToken, "Lead", dept.ID)

	resp = doJSON(t, http.MethodPost, ts.server.URL+fmt.Sprintf("/positions/%d/assign", position.ID), adminToken, map[string]any{
		"user_id": admin.ID,
	})
	wantStatus(t, resp, http.StatusCreated)
	assigned := decodeBody[dto.UserPositionResponse](t, resp)
	if assigned.UserID != admin.ID || assigned.Position.ID != position.ID {
		t.Errorf("assignment = %+v, want user %d position %d", assigned, admin.ID, position.ID)
	}

	// Повторное назначение на ту же должность отклоняется
	resp = doJSON(t, http.MethodPost, ts.server.URL+fmt.Sprintf("/positions/%d/assign", position.ID), adminToken, map[string]any{
		"user_id": admin.ID,
	})
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()
}

func TestAssignPosition_CrossTenant(t *testing.T) {
	ts := setupTestServer(t)
	acmeToken := registerCompany(t, ts, "Acme", "admin@acme.com")
	globexToken := registerCompany(t, ts, "Globex", "admin@globex.com")

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/users/me", globexToken, nil)
	wantStatus(t, resp, http.StatusOK)
	outsider := decodeBody[dto.UserResponse](t, resp)

	dept := createDepartment(t, ts, acmeToken, "Engineering", nil)
	position := createPosition(t, ts, acmeToken, "Lead", dept.ID)

	resp = doJSON(t, http.MethodPost, ts.server.URL+fmt.Sprintf("/positions/%d/assign", position.ID), acmeToken, map[string]any{
		"user_id": outsider.ID,
	})
	wantStatus(t, resp, http.StatusForbidden)
	resp.Body.Close()

	// Чужая компания вовсе не видит должность
	resp = doJSON(t, http.MethodGet, ts.server.URL+fmt.Sprintf("/positions/%d", position.ID), globexToken, nil)
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestUpdatePosition(t *testing.T) {
	ts := setupTestServer(t)
	token := registerCompany(t, ts, "Acme", "admin@acme.com")
	dept := createDepartment(t, ts, token, "Engineering", nil)
	position := createPosition(t, ts, token, "Lead", dept.ID)

	resp := doJSON(t, http.MethodPatch, ts.server.URL+fmt.Sprintf("/positions/%d", position.ID), token, map[string]any{
		"title": "Staff Engineer",
	})
	wantStatus(t, resp, http.StatusOK)
	updated := decodeBody[dto.PositionResponse](t, resp)
	if updated.Title != "Staff Engineer" {
		t.Errorf("title = %q, want %q", updated.Title, "Staff Engineer")
	}
}

func TestDeletePosition(t *testing.T) {
	ts := setupTestServer(t)
	adminToken := registerCompany(t, ts, "Acme", "admin@acme.com")

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/users/me", adminToken, nil)
	wantStatus(t, resp, http.StatusOK)
	admin := decodeBody[dto.UserResponse](t, resp)

	dept := createDepartment(t, ts, adminToken, "Engineering", nil)
	position := createPosition(t, ts, adminToken, "Lead", dept.ID)

	resp = doJSON(t, http.MethodPost, ts.server.URL+fmt.Sprintf("/positions/%d/assign", position.ID), adminToken, map[string]any{
		"user_id": admin.ID,
	})
	wantStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	// Должность с назначенными сотрудниками удалить нельзя
	resp = doJSON(t, http.MethodDelete, ts.server.URL+fmt.Sprintf("/positions/%d", position.ID), adminToken, nil)
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()

	vacant := createPosition(t, ts, adminToken, "Architect", dept.ID)
	resp = doJSON(t, http.MethodDelete, ts.server.URL+fmt.Sprintf("/positions/%d", vacant.ID), adminToken, nil)
	wantStatus(t, resp, http.StatusNoContent)
	resp.Body.Close()
}
