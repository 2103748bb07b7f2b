package service

import (
	"context"
	"strings"

	"github.com/org-directory-api/internal/auth"
	"github.com/org-directory-api/internal/domain"
	"github.com/org-directory-api/internal/dto"
	"github.com/org-directory-api/internal/repository"
)

// AuthService определяет интерфейс аутентификации и регистрации компаний.
// Поток регистрации: check_account выдаёт одноразовое приглашение,
// sign_up проверяет пару email/токен, sign_up_complete атомарно создаёт
// компанию с первым администратором и гасит приглашение.
type AuthService interface {
	Login(ctx context.Context, account, password string) (string, error)
	CurrentUser(ctx context.Context, account string) (*domain.User, error)
	CheckAccount(ctx context.Context, account string) (*domain.InviteChallenge, error)
	SignUp(ctx context.Context, account, inviteToken string) error
	SignUpComplete(ctx context.Context, req *dto.SignUpCompleteRequest) (*domain.User, error)
}

type authService struct {
	store  *repository.Store
	issuer *auth.TokenIssuer
}

// NewAuthService создаёт новый экземпляр сервиса
func NewAuthService(store *repository.Store, issuer *auth.TokenIssuer) AuthService {
	return &authService{
		store:  store,
		issuer: issuer,
	}
}

func (s *authService) Login(ctx context.Context, account, password string) (string, error) {
	user, err := s.store.Users.GetByAccount(ctx, normalizeAccount(account))
	if err != nil {
		// Не раскрываем, что именно неверно: логин или пароль
		return "", domain.ErrInvalidCredentials
	}
	if !auth.VerifyPassword(password, user.Password) {
		return "", domain.ErrInvalidCredentials
	}
	return s.issuer.Issue(user)
}

func (s *authService) CurrentUser(ctx context.Context, account string) (*domain.User, error) {
	return s.store.Users.GetByAccount(ctx, account)
}

func (s *authService) CheckAccount(ctx context.Context, account string) (*domain.InviteChallenge, error) {
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
		invite = &domain.InviteChallenge{
			Account:     account,
			InviteToken: token,
		}
		return st.Invites.Create(ctx, invite)
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

func (s *authService) SignUp(ctx context.Context, account, inviteToken string) error {
	valid, err := s.store.Invites.Verify(ctx, normalizeAccount(account), inviteToken)
	if err != nil {
		return err
	}
	if !valid {
		return domain.ErrInviteNotFound
	}
	return nil
}

func (s *authService) SignUpComplete(ctx context.Context, req *dto.SignUpCompleteRequest) (*domain.User, error) {
	account := normalizeAccount(req.Account)

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var user *domain.User
	err = s.store.Atomic(ctx, func(st *repository.Store) error {
		invite, err := st.Invites.GetByAccount(ctx, account)
		if err != nil {
			return err
		}

		companyID := int64(0)
		role := domain.RoleAdmin
		if invite.CompanyID != nil {
			// Приглашение от администратора: новый пользователь
			// вступает в существующую компанию
			if _, err := st.Companies.GetByID(ctx, *invite.CompanyID); err != nil {
				return err
			}
			companyID = *invite.CompanyID
			role = domain.RoleUser
		} else {
			company := &domain.Company{
				CompanyName: strings.TrimSpace(req.CompanyName),
			}
			if company.CompanyName == "" {
				return domain.ErrCompanyNameRequired
			}
			if err := st.Companies.Create(ctx, company); err != nil {
				return err
			}
			companyID = company.ID
		}

		user = &domain.User{
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Account:   account,
			Password:  hashed,
			Role:      role,
			CompanyID: companyID,
		}
		if err := st.Users.Create(ctx, user); err != nil {
			return err
		}

		// Приглашение одноразовое: гасим его в той же транзакции
		return st.Invites.DeleteByAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// normalizeAccount приводит email к канонической форме хранения
func normalizeAccount(account string) string {
	return strings.ToLower(strings.TrimSpace(account))
}
