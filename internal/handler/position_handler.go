package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/org-directory-api/internal/domain"
	"github.com/org-directory-api/internal/dto"
	"github.com/org-directory-api/internal/middleware"
	"github.com/org-directory-api/internal/service"
)

type PositionHandler struct {
	positionService service.PositionService
	validator       *validator.Validate
	logger          *slog.Logger
}

func NewPositionHandler(positionService service.PositionService, logger *slog.Logger) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
		validator:       newValidator(),
		logger:          logger,
	}
}

func (h *PositionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, http.StatusUnauthorized, "could not validate credentials", "")
		return
	}

	var req dto.CreatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	position, err := h.positionService.Create(r.Context(), user.CompanyID, &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, toPositionResponse(position))
}

func (h *PositionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, http.StatusUnauthorized, "could not validate credentials", "")
		return
	}

	id, err := extractID(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid position id", err.Error())
		return
	}

	position, err := h.positionService.Get(r.Context(), user.CompanyID, id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toPositionResponse(position))
}

func (h *PositionHandler) Assign(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, http.StatusUnauthorized, "could not validate credentials", "")
		return
	}

	id, err := extractID(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid position id", err.Error())
		return
	}

	var req dto.AssignPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	userPosition, err := h.positionService.Assign(r.Context(), user.CompanyID, id, req.UserID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	position, err := h.positionService.Get(r.Context(), user.CompanyID, id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, dto.UserPositionResponse{
		ID:       userPosition.ID,
		UserID:   userPosition.UserID,
		Position: toPositionResponse(position),
	})
}

func (h *PositionHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, http.StatusUnauthorized, "could not validate credentials", "")
		return
	}

	id, err := extractID(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid position id", err.Error())
		return
	}

	var req dto.UpdatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	position, err := h.positionService.Update(r.Context(), user.CompanyID, id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toPositionResponse(position))
}

func (h *PositionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, http.StatusUnauthorized, "could not validate credentials", "")
		return
	}

	id, err := extractID(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid position id", err.Error())
		return
	}

	if err := h.positionService.Delete(r.Context(), user.CompanyID, id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toPositionResponse(position *domain.Position) dto.PositionResponse {
	return dto.PositionResponse{
		ID:           position.ID,
		Title:        position.Title,
		DepartmentID: position.DepartmentID,
		CreatedAt:    position.CreatedAt,
	}
}
