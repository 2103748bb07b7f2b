package repository

import (
	"context"
	"errors"

	"github.com/org-directory-api/internal/domain"
	"gorm.io/gorm"
)

// InviteRepository определяет интерфейс для работы с приглашениями.
// Проверочные выборки возвращают признак наличия, а не ошибку:
// отсутствие записи здесь - штатный исход проверки, не сбой.
type InviteRepository interface {
	Create(ctx context.Context, invite *domain.InviteChallenge) error
	ExistsByAccount(ctx context.Context, account string) (bool, error)
	Verify(ctx context.Context, account, inviteToken string) (bool, error)
	GetByAccount(ctx context.Context, account string) (*domain.InviteChallenge, error)
	DeleteByAccount(ctx context.Context, account string) error
}

type inviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository создаёт новый экземпляр репозитория
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(ctx context.Context, invite *domain.InviteChallenge) error {
	if err := r.db.WithContext(ctx).Create(invite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrInviteAlreadyIssued
		}
		return err
	}
	return nil
}

func (r *inviteRepository) ExistsByAccount(ctx context.Context, account string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.InviteChallenge{}).
		Where("account = ?", account).
		Count(&count).Error
	return count > 0, err
}

func (r *inviteRepository) Verify(ctx context.Context, account, inviteToken string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.InviteChallenge{}).
		Where("account = ? AND invite_token = ?", account, inviteToken).
		Count(&count).Error
	return count > 0, err
}

func (r *inviteRepository) GetByAccount(ctx context.Context, account string) (*domain.InviteChallenge, error) {
	var invite domain.InviteChallenge
	err := r.db.WithContext(ctx).Where("account = ?", account).First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) DeleteByAccount(ctx context.Context, account string) error {
	return r.db.WithContext(ctx).
		Where("account = ?", account).
		Delete(&domain.InviteChallenge{}).Error
}
