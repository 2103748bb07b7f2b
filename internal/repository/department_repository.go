package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/org-directory-api/internal/domain"
	"gorm.io/gorm"
)

// DepartmentRepository определяет интерфейс для работы с подразделениями.
// Все выборки ограничены компанией вызывающего пользователя.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, companyID, id int64) (*domain.Department, error)
	GetSubDepartments(ctx context.Context, companyID, id int64) ([]domain.Department, error)
	HasSubDepartments(ctx context.Context, dept *domain.Department) (bool, error)
	Update(ctx context.Context, dept *domain.Department) error
	RewritePaths(ctx context.Context, companyID int64, oldPath, newPath string) error
	Delete(ctx context.Context, companyID, id int64) error
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository создаёт новый экземпляр репозитория
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

// likePrefixPattern строит LIKE-шаблон для выборки строгих потомков пути.
// Спецсимволы LIKE в метках экранируются: подчёркивание появляется
// в каждой метке с пробелом в исходном имени.
func likePrefixPattern(path string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return escaper.Replace(path) + domain.PathSeparator + "%"
}

// Create создаёт подразделение, вычисляя его путь от родителя.
// Уникальность пути и имени в рамках компании гарантируется
// ограничениями БД, а не блокировками приложения.
func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	parentPath := ""
	if dept.ParentID != nil {
		parent, err := r.GetByID(ctx, dept.CompanyID, *dept.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrDepartmentNotFound) {
				return domain.ErrParentDepartmentNotFound
			}
			return err
		}
		parentPath = parent.Path
	}
	dept.Path = domain.BuildPath(dept.Name, parentPath)

	if err := r.db.WithContext(ctx).Create(dept).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateDepartment
		}
		return err
	}
	return nil
}

func (r *departmentRepository) GetByID(ctx context.Context, companyID, id int64) (*domain.Department, error) {
	var dept domain.Department
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&dept, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &dept, nil
}

// GetSubDepartments возвращает всех строгих потомков подразделения.
// Для несуществующего подразделения возвращается пустой список.
func (r *departmentRepository) GetSubDepartments(ctx context.Context, companyID, id int64) ([]domain.Department, error) {
	dept, err := r.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, domain.ErrDepartmentNotFound) {
			return []domain.Department{}, nil
		}
		return nil, err
	}

	var departments []domain.Department
	err = r.db.WithContext(ctx).
		Where(`company_id = ? AND path LIKE ? ESCAPE '\' AND id != ?`,
			companyID, likePrefixPattern(dept.Path), dept.ID).
		Order("path ASC").
		Find(&departments).Error
	if err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *departmentRepository) HasSubDepartments(ctx context.Context, dept *domain.Department) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Department{}).
		Where(`company_id = ? AND path LIKE ? ESCAPE '\' AND id != ?`,
			dept.CompanyID, likePrefixPattern(dept.Path), dept.ID).
		Count(&count).Error
	return count > 0, err
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	if err := r.db.WithContext(ctx).Save(dept).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateDepartment
		}
		return err
	}
	return nil
}

// RewritePaths заменяет префикс oldPath на newPath у всех потомков
// одним массовым UPDATE: частично переписанных состояний не бывает.
// Длина префикса вычисляется на стороне БД, чтобы не расходиться
// с её подсчётом символов на не-ASCII метках.
func (r *departmentRepository) RewritePaths(ctx context.Context, companyID int64, oldPath, newPath string) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Department{}).
		Where(`company_id = ? AND path LIKE ? ESCAPE '\'`, companyID, likePrefixPattern(oldPath)).
		Update("path", gorm.Expr("? || substr(path, length(?) + 1)", newPath, oldPath)).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateDepartment
	}
	return err
}

func (r *departmentRepository) Delete(ctx context.Context, companyID, id int64) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&domain.Department{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrDepartmentNotFound
	}
	return nil
}
