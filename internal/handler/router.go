package handler

import (
	"log/slog"
	"net/http"

	"github.com/org-directory-api/internal/auth"
	"github.com/org-directory-api/internal/middleware"
	"github.com/org-directory-api/internal/repository"
)

// Router настраивает маршруты API
type Router struct {
	mux             *http.ServeMux
	logger          *slog.Logger
	issuer          *auth.TokenIssuer
	users           repository.UserRepository
	authHandler     *AuthHandler
	userHandler     *UserHandler
	deptHandler     *DepartmentHandler
	positionHandler *PositionHandler
}

// NewRouter создаёт новый роутер
func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	deptHandler *DepartmentHandler,
	positionHandler *PositionHandler,
	issuer *auth.TokenIssuer,
	users repository.UserRepository,
	logger *slog.Logger,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		logger:          logger,
		issuer:          issuer,
		users:           users,
		authHandler:     authHandler,
		userHandler:     userHandler,
		deptHandler:     deptHandler,
		positionHandler: positionHandler,
	}
}

// Setup настраивает все маршруты
func (r *Router) Setup() http.Handler {
	// Публичные маршруты
	r.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.mux.HandleFunc("POST /auth/jwt/login", r.authHandler.Login)
	r.mux.HandleFunc("GET /auth/check_account/{account}", r.authHandler.CheckAccount)
	r.mux.HandleFunc("POST /auth/sign-up", r.authHandler.SignUp)
	r.mux.HandleFunc("POST /auth/sign-up-complete", r.authHandler.SignUpComplete)

	// Маршруты, требующие bearer-токена
	authRequired := middleware.Auth(r.issuer, r.users, r.logger)
	protected := func(pattern string, h http.HandlerFunc) {
		r.mux.Handle(pattern, authRequired(h))
	}

	protected("GET /users/me", r.userHandler.Me)
	protected("POST /users/invite", r.userHandler.Invite)
	protected("PATCH /users/change-account", r.userHandler.ChangeAccount)
	protected("PATCH /users/change-credentials", r.userHandler.ChangeCredentials)

	protected("POST /departments/create", r.deptHandler.Create)
	protected("GET /departments/{id}/sub_departments", r.deptHandler.SubDepartments)
	protected("POST /departments/{id}/set_head", r.deptHandler.SetHead)
	protected("PATCH /departments/{id}", r.deptHandler.Update)
	protected("DELETE /departments/{id}", r.deptHandler.Delete)

	protected("POST /positions/create", r.positionHandler.Create)
	protected("POST /positions/{id}/assign", r.positionHandler.Assign)
	protected("GET /positions/{id}", r.positionHandler.Get)
	protected("PATCH /positions/{id}", r.positionHandler.Update)
	protected("DELETE /positions/{id}", r.positionHandler.Delete)

	// Применяем middleware
	handler := middleware.ContentType(r.mux)
	handler = middleware.Logger(r.logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recoverer(r.logger)(handler)

	return handler
}
