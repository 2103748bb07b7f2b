package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/org-directory-api/internal/domain"
	"github.com/org-directory-api/internal/dto"
	"github.com/org-directory-api/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	validator   *validator.Validate
	logger      *slog.Logger
}

func NewAuthHandler(authService service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   newValidator(),
		logger:      logger,
	}
}

// Login выдаёт токен доступа по форме в стиле OAuth2 (username/password)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid form body", err.Error())
		return
	}

	account := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if account == "" || password == "" {
		respondError(w, h.logger, http.StatusBadRequest, "username and password are required", "")
		return
	}

	token, err := h.authService.Login(r.Context(), account, password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, dto.AccessTokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (h *AuthHandler) CheckAccount(w http.ResponseWriter, r *http.Request) {
	account := r.PathValue("account")
	if err := h.validator.Var(account, "required,email"); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid account", err.Error())
		return
	}

	invite, err := h.authService.CheckAccount(r.Context(), account)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toInviteChallengeResponse(invite))
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	if err := h.authService.SignUp(r.Context(), req.Account, req.InviteToken); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, dto.StatusResponse{Status: "OK"})
}

func (h *AuthHandler) SignUpComplete(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	user, err := h.authService.SignUpComplete(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, toUserResponse(user))
}

func toInviteChallengeResponse(invite *domain.InviteChallenge) dto.InviteChallengeResponse {
	return dto.InviteChallengeResponse{
		ID:          invite.ID,
		Account:     invite.Account,
		InviteToken: invite.InviteToken,
	}
}

func toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Account:   user.Account,
		Role:      user.Role,
		CompanyID: user.CompanyID,
		CreatedAt: user.CreatedAt,
	}
}
