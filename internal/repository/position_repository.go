package repository

import (
	"context"
	"errors"

	"github.com/org-directory-api/internal/domain"
	"gorm.io/gorm"
)

// PositionRepository определяет интерфейс для работы с должностями
// и назначениями сотрудников на них
type PositionRepository interface {
	Create(ctx context.Context, position *domain.Position) error
	GetByID(ctx context.Context, companyID, id int64) (*domain.Position, error)
	Update(ctx context.Context, position *domain.Position) error
	Delete(ctx context.Context, id int64) error
	Assign(ctx context.Context, userPosition *domain.UserPosition) error
	HasAssignment(ctx context.Context, userID, positionID int64) (bool, error)
	HasAssignedUsers(ctx context.Context, positionID int64) (bool, error)
}

type positionRepository struct {
	db *gorm.DB
}

// NewPositionRepository создаёт новый экземпляр репозитория
func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{db: db}
}

func (r *positionRepository) Create(ctx context.Context, position *domain.Position) error {
	if err := r.db.WithContext(ctx).Create(position).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicatePositionTitle
		}
		return err
	}
	return nil
}

// GetByID возвращает должность, принадлежащую компании вызывающего
// пользователя: принадлежность проверяется через подразделение должности
func (r *positionRepository) GetByID(ctx context.Context, companyID, id int64) (*domain.Position, error) {
	var position domain.Position
	err := r.db.WithContext(ctx).
		Joins("JOIN departments ON departments.id = positions.department_id").
		Where("positions.id = ? AND departments.company_id = ?", id, companyID).
		First(&position).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPositionNotFound
		}
		return nil, err
	}
	return &position, nil
}

func (r *positionRepository) Update(ctx context.Context, position *domain.Position) error {
	if err := r.db.WithContext(ctx).Save(position).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicatePositionTitle
		}
		return err
	}
	return nil
}

func (r *positionRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Position{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPositionNotFound
	}
	return nil
}

func (r *positionRepository) Assign(ctx context.Context, userPosition *domain.UserPosition) error {
	return r.db.WithContext(ctx).Create(userPosition).Error
}

func (r *positionRepository) HasAssignment(ctx context.Context, userID, positionID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserPosition{}).
		Where("user_id = ? AND position_id = ?", userID, positionID).
		Count(&count).Error
	return count > 0, err
}

func (r *positionRepository) HasAssignedUsers(ctx context.Context, positionID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserPosition{}).
		Where("position_id = ?", positionID).
		Count(&count).Error
	return count > 0, err
}
