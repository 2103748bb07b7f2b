package dto

import (
	"time"

	"github.com/org-directory-api/internal/domain"
)

// SignUpRequest - запрос на проверку пары email/токен приглашения
type SignUpRequest struct {
	Account     string `json:"account" validate:"required,email"`
	InviteToken string `json:"invite_token" validate:"required,len=64,hexadecimal"`
}

// SignUpCompleteRequest - запрос на завершение регистрации.
// CompanyName обязателен только при регистрации новой компании;
// для приглашённых сотрудников компания берётся из приглашения.
type SignUpCompleteRequest struct {
	CompanyName string `json:"company_name" validate:"omitempty,notblank,max=200"`
	FirstName   string `json:"first_name" validate:"required,notblank,max=200"`
	LastName    string `json:"last_name" validate:"required,notblank,max=200"`
	Account     string `json:"account" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

// InviteUserRequest - запрос администратора на приглашение сотрудника
type InviteUserRequest struct {
	Account string `json:"account" validate:"required,email"`
}

// ChangeAccountRequest - запрос на смену email текущего пользователя
type ChangeAccountRequest struct {
	Account string `json:"account" validate:"required,email"`
}

// ChangeCredentialsRequest - запрос на смену личных данных и пароля
type ChangeCredentialsRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,notblank,max=200"`
	LastName  *string `json:"last_name" validate:"omitempty,notblank,max=200"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=72"`
}

// CreateDepartmentRequest - запрос на создание подразделения
type CreateDepartmentRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=200"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,min=1"`
}

// UpdateDepartmentRequest - запрос на обновление подразделения
type UpdateDepartmentRequest struct {
	Name     *string `json:"name" validate:"omitempty,notblank,max=200"`
	ParentID *int64  `json:"parent_id" validate:"omitempty,min=1"`
}

// SetDepartmentHeadRequest - запрос на назначение руководителя подразделения
type SetDepartmentHeadRequest struct {
	UserID int64 `json:"user_id" validate:"required,min=1"`
}

// CreatePositionRequest - запрос на создание должности
type CreatePositionRequest struct {
	Title        string `json:"title" validate:"required,notblank,max=200"`
	DepartmentID int64  `json:"department_id" validate:"required,min=1"`
}

// UpdatePositionRequest - запрос на обновление должности
type UpdatePositionRequest struct {
	Title *string `json:"title" validate:"omitempty,notblank,max=200"`
}

// AssignPositionRequest - запрос на назначение сотрудника на должность
type AssignPositionRequest struct {
	UserID int64 `json:"user_id" validate:"required,min=1"`
}

// AccessTokenResponse - ответ с bearer-токеном доступа
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// InviteChallengeResponse - ответ с выданным приглашением
type InviteChallengeResponse struct {
	ID          int64  `json:"id"`
	Account     string `json:"account"`
	InviteToken string `json:"invite_token"`
}

// StatusResponse - ответ простых операций без тела
type StatusResponse struct {
	Status string `json:"status"`
}

// UserResponse - ответ с данными пользователя
type UserResponse struct {
	ID        int64       `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Account   string      `json:"account"`
	Role      domain.Role `json:"role"`
	CompanyID int64       `json:"company_id"`
	CreatedAt time.Time   `json:"created_at"`
}

// DepartmentResponse - ответ с данными подразделения
type DepartmentResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	ParentID  *int64    `json:"parent_id"`
	CompanyID int64     `json:"company_id"`
	HeadID    *int64    `json:"head_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PositionResponse - ответ с данными должности
type PositionResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	DepartmentID int64     `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserPositionResponse - ответ с данными назначения на должность
type UserPositionResponse struct {
	ID       int64            `json:"id"`
	UserID   int64            `json:"user_id"`
	Position PositionResponse `json:"position"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
