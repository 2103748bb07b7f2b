package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/org-directory-api/internal/domain"
	"github.com/org-directory-api/internal/dto"
)

// handleServiceError транслирует бизнес-ошибки в HTTP статусы
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrDepartmentNotFound):
		respondError(w, logger, http.StatusNotFound, "department not found", "")
	case errors.Is(err, domain.ErrParentDepartmentNotFound):
		respondError(w, logger, http.StatusNotFound, "parent department with specified id does not exist", "")
	case errors.Is(err, domain.ErrPositionNotFound):
		respondError(w, logger, http.StatusNotFound, "position not found", "")
	case errors.Is(err, domain.ErrUserNotFound):
		respondError(w, logger, http.StatusNotFound, "user not found", "")
	case errors.Is(err, domain.ErrCompanyNotFound):
		respondError(w, logger, http.StatusNotFound, "company not found", "")

	case errors.Is(err, domain.ErrDuplicateDepartment):
		respondError(w, logger, http.StatusConflict, "department with the same name or path already exists", "")
	case errors.Is(err, domain.ErrDepartmentHasChildren):
		respondError(w, logger, http.StatusConflict,
			"cannot delete department, as it has child sub-departments attached to it", "")
	case errors.Is(err, domain.ErrDepartmentHasHead):
		respondError(w, logger, http.StatusConflict, "department already has head", "")
	case errors.Is(err, domain.ErrCyclicReference):
		respondError(w, logger, http.StatusConflict, "moving department would create a cycle", "")
	case errors.Is(err, domain.ErrDuplicatePositionTitle):
		respondError(w, logger, http.StatusConflict, "position with this title already exists in the department", "")
	case errors.Is(err, domain.ErrPositionHasEmployees):
		respondError(w, logger, http.StatusConflict, "cannot delete position with assigned users", "")
	case errors.Is(err, domain.ErrAlreadyAssigned):
		respondError(w, logger, http.StatusConflict, "requested user is already assigned to specified position", "")
	case errors.Is(err, domain.ErrAccountTaken):
		respondError(w, logger, http.StatusConflict, "email already taken", "")
	case errors.Is(err, domain.ErrInviteAlreadyIssued):
		respondError(w, logger, http.StatusConflict, "invite token for that email already exists", "")
	case errors.Is(err, domain.ErrDuplicateCompanyName):
		respondError(w, logger, http.StatusConflict, "company with this name already exists", "")

	case errors.Is(err, domain.ErrUserNotInCompany):
		respondError(w, logger, http.StatusForbidden, "requested user is not in the specified company", "")
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, logger, http.StatusForbidden, "operation is not permitted for this user", "")

	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(w, logger, http.StatusUnauthorized, "invalid username or password", "")
	case errors.Is(err, domain.ErrInvalidToken):
		respondError(w, logger, http.StatusUnauthorized, "could not validate credentials", "")

	case errors.Is(err, domain.ErrInvalidDepartmentName):
		respondError(w, logger, http.StatusBadRequest, "department name must not be blank or contain the path separator", "")
	case errors.Is(err, domain.ErrSelfReference):
		respondError(w, logger, http.StatusBadRequest, "department cannot be its own parent", "")
	case errors.Is(err, domain.ErrCompanyNameRequired):
		respondError(w, logger, http.StatusBadRequest, "company_name is required to register a new company", "")
	case errors.Is(err, domain.ErrInviteNotFound):
		respondError(w, logger, http.StatusBadRequest, "either token or email is invalid", "")

	default:
		logger.Error("internal error", slog.Any("error", err))
		respondError(w, logger, http.StatusInternalServerError, "internal server error", "")
	}
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, errMsg, details string) {
	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: errMsg}
	if details != "" {
		resp.Message = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode error response", slog.Any("error", err))
	}
}
