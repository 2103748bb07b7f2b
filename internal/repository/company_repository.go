package repository

import (
	"context"
	"errors"

	"github.com/org-directory-api/internal/domain"
	"gorm.io/gorm"
)

// CompanyRepository определяет интерфейс для работы с компаниями
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository создаёт новый экземпляр репозитория
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateCompanyName
		}
		return err
	}
	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).First(&company, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}
