package service

import (
	"context"
	"strings"

	"github.com/org-directory-api/internal/domain"
	"github.com/org-directory-api/internal/dto"
	"github.com/org-directory-api/internal/repository"
)

// PositionService определяет интерфейс бизнес-логики для должностей
type PositionService interface {
	Create(ctx context.Context, companyID int64, req *dto.CreatePositionRequest) (*domain.Position, error)
	Get(ctx context.Context, companyID, id int64) (*domain.Position, error)
	Assign(ctx context.Context, companyID, positionID, userID int64) (*domain.UserPosition, error)
	Update(ctx context.Context, companyID, id int64, req *dto.UpdatePositionRequest) (*domain.Position, error)
	Delete(ctx context.Context, companyID, id int64) error
}

type positionService struct {
	store *repository.Store
}

// NewPositionService создаёт новый экземпляр сервиса
func NewPositionService(store *repository.Store) PositionService {
	return &positionService{store: store}
}

func (s *positionService) Create(ctx context.Context, companyID int64, req *dto.CreatePositionRequest) (*domain.Position, error) {
	position := &domain.Position{
		Title:        strings.TrimSpace(req.Title),
		DepartmentID: req.DepartmentID,
	}

	err := s.store.Atomic(ctx, func(st *repository.Store) error {
		// Подразделение должно принадлежать компании вызывающего
		if _, err := st.Departments.GetByID(ctx, companyID, req.DepartmentID); err != nil {
			return err
		}
		return st.Positions.Create(ctx, position)
	})
	if err != nil {
		return nil, err
	}
	return position, nil
}

func (s *positionService) Get(ctx context.Context, companyID, id int64) (*domain.Position, error) {
	return s.store.Positions.GetByID(ctx, companyID, id)
}

func (s *positionService) Assign(ctx context.Context, companyID, positionID, userID int64) (*domain.UserPosition, error) {
	userPosition := &domain.UserPosition{
		UserID:     userID,
		PositionID: positionID,
	}

	err := s.store.Atomic(ctx, func(st *repository.Store) error {
		position, err := st.Positions.GetByID(ctx, companyID, positionID)
		if err != nil {
			return err
		}

		// Назначать можно только сотрудника компании, которой
		// принадлежит подразделение должности
		inCompany, err := st.Users.IsInCompany(ctx, userID, companyID)
		if err != nil {
			return err
		}
		if !inCompany {
			return domain.ErrUserNotInCompany
		}

		assigned, err := st.Positions.HasAssignment(ctx, userID, position.ID)
		if err != nil {
			return err
		}
		if assigned {
			return domain.ErrAlreadyAssigned
		}

		return st.Positions.Assign(ctx, userPosition)
	})
	if err != nil {
		return nil, err
	}
	return userPosition, nil
}

func (s *positionService) Update(ctx context.Context, companyID, id int64, req *dto.UpdatePositionRequest) (*domain.Position, error) {
	var position *domain.Position

	err := s.store.Atomic(ctx, func(st *repository.Store) error {
		var err error
		position, err = st.Positions.GetByID(ctx, companyID, id)
		if err != nil {
			return err
		}

		if req.Title != nil {
			position.Title = strings.TrimSpace(*req.Title)
		}
		return st.Positions.Update(ctx, position)
	})
	if err != nil {
		return nil, err
	}
	return position, nil
}

func (s *positionService) Delete(ctx context.Context, companyID, id int64) error {
	return s.store.Atomic(ctx, func(st *repository.Store) error {
		position, err := st.Positions.GetByID(ctx, companyID, id)
		if err != nil {
			return err
		}

		hasUsers, err := st.Positions.HasAssignedUsers(ctx, position.ID)
		if err != nil {
			return err
		}
		if hasUsers {
			return domain.ErrPositionHasEmployees
		}

		return st.Positions.Delete(ctx, position.ID)
	})
}
