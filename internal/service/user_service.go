package service

import (
	"context"
	"strings"

	"github.com/org-directory-api/internal/auth"
	"github.com/org-directory-api/internal/domain"
	"github.com/org-directory-api/internal/dto"
	"github.com/org-directory-api/internal/repository"
)

// UserService определяет интерфейс бизнес-логики для пользователей
type UserService interface {
	Invite(ctx context.Context, inviter *domain.User, account string) (*domain.InviteChallenge, error)
	ChangeAccount(ctx context.Context, user *domain.User, account string) (*domain.User, error)
	ChangeCredentials(ctx context.Context, user *domain.User, req *dto.ChangeCredentialsRequest) (*domain.User, error)
}

type userService struct {
	store *repository.Store
}

// NewUserService создаёт новый экземпляр сервиса
func NewUserService(store *repository.Store) UserService {
	return &userService{store: store}
}

// Invite выдаёт приглашение сотруднику в компанию администратора
func (s *userService) Invite(ctx context.Context, inviter *domain.User, account string) (*domain.InviteChallenge, error) {
	if inviter.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	account = normalizeAccount(account)

	var invite *domain.InviteChallenge
	err := s.store.Atomic(ctx, func(st *repository.Store) error {
		taken, err := st.Users.AccountExists(ctx, account)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrAccountTaken
		}

		issued, err := st.Invites.ExistsByAccount(ctx, account)
		if err != nil {
			return err
		}
		if issued {
			return domain.ErrInviteAlreadyIssued
		}

		token, err := auth.GenerateInviteToken()
		if err != nil {
			return err
		}
		companyID := inviter.CompanyID
		invite = &domain.InviteChallenge{
			Account:     account,
			InviteToken: token,
			CompanyID:   &companyID,
		}
		return st.Invites.Create(ctx, invite)
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

func (s *userService) ChangeAccount(ctx context.Context, user *domain.User, account string) (*domain.User, error) {
	account = normalizeAccount(account)

	err := s.store.Atomic(ctx, func(st *repository.Store) error {
		if account != user.Account {
			taken, err := st.Users.AccountExists(ctx, account)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrAccountTaken
			}
		}
		user.Account = account
		return st.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ChangeCredentials(ctx context.Context, user *domain.User, req *dto.ChangeCredentialsRequest) (*domain.User, error) {
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	err := s.store.Atomic(ctx, func(st *repository.Store) error {
		return st.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
