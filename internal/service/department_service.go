package service

import (
	"context"
	"errors"
	"strings"

	"github.com/org-directory-api/internal/domain"
	"github.com/org-directory-api/internal/dto"
	"github.com/org-directory-api/internal/repository"
)

// DepartmentService определяет интерфейс бизнес-логики для подразделений.
// Все операции выполняются от имени компании аутентифицированного пользователя.
type DepartmentService interface {
	Create(ctx context.Context, companyID int64, req *dto.CreateDepartmentRequest) (*domain.Department, error)
	GetSubDepartments(ctx context.Context, companyID, id int64) ([]domain.Department, error)
	SetHead(ctx context.Context, companyID, id, userID int64) (*domain.Department, error)
	Update(ctx context.Context, companyID, id int64, req *dto.UpdateDepartmentRequest) (*domain.Department, error)
	Delete(ctx context.Context, companyID, id int64) error
}

type departmentService struct {
	store *repository.Store
}

// NewDepartmentService создаёт новый экземпляр сервиса
func NewDepartmentService(store *repository.Store) DepartmentService {
	return &departmentService{store: store}
}

func (s *departmentService) Create(ctx context.Context, companyID int64, req *dto.CreateDepartmentRequest) (*domain.Department, error) {
	// Имя станет меткой пути: пустая метка или разделитель в ней
	// сломали бы префиксные выборки по дереву
	if !domain.IsValidLabel(req.Name) {
		return nil, domain.ErrInvalidDepartmentName
	}

	dept := &domain.Department{
		Name:      strings.TrimSpace(req.Name),
		ParentID:  req.ParentID,
		CompanyID: companyID,
	}

	err := s.store.Atomic(ctx, func(st *repository.Store) error {
		return st.Departments.Create(ctx, dept)
	})
	if err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) GetSubDepartments(ctx context.Context, companyID, id int64) ([]domain.Department, error) {
	return s.store.Departments.GetSubDepartments(ctx, companyID, id)
}

func (s *departmentService) SetHead(ctx context.Context, companyID, id, userID int64) (*domain.Department, error) {
	var dept *domain.Department

	err := s.store.Atomic(ctx, func(st *repository.Store) error {
		var err error
		dept, err = st.Departments.GetByID(ctx, companyID, id)
		if err != nil {
			return err
		}
		if dept.HeadID != nil {
			return domain.ErrDepartmentHasHead
		}

		// Руководителем может стать только сотрудник той же компании
		inCompany, err := st.Users.IsInCompany(ctx, userID, companyID)
		if err != nil {
			return err
		}
		if !inCompany {
			return domain.ErrUserNotInCompany
		}

		dept.HeadID = &userID
		return st.Departments.Update(ctx, dept)
	})
	if err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) Update(ctx context.Context, companyID, id int64, req *dto.UpdateDepartmentRequest) (*domain.Department, error) {
	var dept *domain.Department

	err := s.store.Atomic(ctx, func(st *repository.Store) error {
		var err error
		dept, err = st.Departments.GetByID(ctx, companyID, id)
		if err != nil {
			return err
		}

		name := dept.Name
		if req.Name != nil {
			name = strings.TrimSpace(*req.Name)
			if !domain.IsValidLabel(name) {
				return domain.ErrInvalidDepartmentName
			}
		}

		parentID := dept.ParentID
		if req.ParentID != nil {
			parentID = req.ParentID
		}

		parentPath := ""
		if parentID != nil {
			// Проверка: нельзя сделать подразделение родителем самого себя
			if *parentID == dept.ID {
				return domain.ErrSelfReference
			}

			parent, err := st.Departments.GetByID(ctx, companyID, *parentID)
			if err != nil {
				if errors.Is(err, domain.ErrDepartmentNotFound) {
					return domain.ErrParentDepartmentNotFound
				}
				return err
			}

			// Проверка на циклическую ссылку: нельзя переместить в своего потомка
			if domain.IsDescendantPath(parent.Path, dept.Path) {
				return domain.ErrCyclicReference
			}

			parentPath = parent.Path
		}

		oldPath := dept.Path
		newPath := domain.BuildPath(name, parentPath)

		dept.Name = name
		dept.ParentID = parentID
		dept.Path = newPath
		if err := st.Departments.Update(ctx, dept); err != nil {
			return err
		}

		// Перенос префикса на всё поддерево в той же транзакции,
		// что и обновление самой записи
		if newPath != oldPath {
			return st.Departments.RewritePaths(ctx, companyID, oldPath, newPath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) Delete(ctx context.Context, companyID, id int64) error {
	return s.store.Atomic(ctx, func(st *repository.Store) error {
		dept, err := st.Departments.GetByID(ctx, companyID, id)
		if err != nil {
			return err
		}

		hasChildren, err := st.Departments.HasSubDepartments(ctx, dept)
		if err != nil {
			return err
		}
		if hasChildren {
			return domain.ErrDepartmentHasChildren
		}

		return st.Departments.Delete(ctx, companyID, id)
	})
}
