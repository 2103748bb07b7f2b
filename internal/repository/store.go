package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store объединяет репозитории над одним подключением к БД.
// Atomic выполняет переданную функцию над репозиториями,
// привязанными к одной транзакции: коммит при отсутствии ошибки,
// откат в противном случае.
type Store struct {
	db *gorm.DB

	Companies   CompanyRepository
	Users       UserRepository
	Departments DepartmentRepository
	Positions   PositionRepository
	Invites     InviteRepository
}

// NewStore создаёт новый экземпляр Store
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Companies:   NewCompanyRepository(db),
		Users:       NewUserRepository(db),
		Departments: NewDepartmentRepository(db),
		Positions:   NewPositionRepository(db),
		Invites:     NewInviteRepository(db),
	}
}

// Atomic выполняет fn в рамках одной транзакции БД
func (s *Store) Atomic(ctx context.Context, fn func(*Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
