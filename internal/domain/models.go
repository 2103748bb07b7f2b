package domain

import (
	"time"
)

// Role представляет роль пользователя в компании
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Company представляет компанию - корень арендатора (tenant)
type Company struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CompanyName string    `json:"company_name" gorm:"type:varchar(200);not null;uniqueIndex:uniq_company_name"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	Users       []User       `json:"-" gorm:"foreignKey:CompanyID"`
	Departments []Department `json:"-" gorm:"foreignKey:CompanyID"`
}

// TableName задаёт имя таблицы для GORM
func (Company) TableName() string {
	return "companies"
}

// User представляет сотрудника компании
type User struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName string    `json:"first_name" gorm:"type:varchar(200);not null"`
	LastName  string    `json:"last_name" gorm:"type:varchar(200);not null"`
	Account   string    `json:"account" gorm:"type:varchar(320);not null;uniqueIndex:uniq_user_account"`
	Password  string    `json:"-" gorm:"type:varchar(100);not null"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null"`
	CompanyID int64     `json:"company_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Company *Company `json:"-" gorm:"foreignKey:CompanyID"`
}

// TableName задаёт имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// Department представляет подразделение компании.
// Дерево подразделений хранится в виде материализованного пути:
// path содержит метки всех предков, разделённые точками.
type Department struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(200);not null;uniqueIndex:uniq_department_name,priority:2"`
	Path      string    `json:"path" gorm:"type:text;not null;uniqueIndex:uniq_department_path,priority:2"`
	ParentID  *int64    `json:"parent_id" gorm:"index"`
	CompanyID int64     `json:"company_id" gorm:"not null;uniqueIndex:uniq_department_name,priority:1;uniqueIndex:uniq_department_path,priority:1"`
	HeadID    *int64    `json:"head_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Parent    *Department  `json:"-" gorm:"foreignKey:ParentID"`
	Children  []Department `json:"-" gorm:"foreignKey:ParentID"`
	Positions []Position   `json:"-" gorm:"foreignKey:DepartmentID"`
	Head      *User        `json:"-" gorm:"foreignKey:HeadID"`
}

// TableName задаёт имя таблицы для GORM
func (Department) TableName() string {
	return "departments"
}

// Position представляет должность в подразделении
type Position struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string    `json:"title" gorm:"type:varchar(200);not null;uniqueIndex:uniq_position_title,priority:2"`
	DepartmentID int64     `json:"department_id" gorm:"not null;uniqueIndex:uniq_position_title,priority:1"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	Department *Department `json:"-" gorm:"foreignKey:DepartmentID"`
}

// TableName задаёт имя таблицы для GORM
func (Position) TableName() string {
	return "positions"
}

// UserPosition связывает сотрудника с должностью (многие ко многим)
type UserPosition struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     int64     `json:"user_id" gorm:"not null;index"`
	PositionID int64     `json:"position_id" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	User     *User     `json:"-" gorm:"foreignKey:UserID"`
	Position *Position `json:"-" gorm:"foreignKey:PositionID"`
}

// TableName задаёт имя таблицы для GORM
func (UserPosition) TableName() string {
	return "user_positions"
}

// InviteChallenge представляет одноразовое приглашение на регистрацию.
// CompanyID заполняется для приглашений сотрудников в существующую компанию.
type InviteChallenge struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Account     string    `json:"account" gorm:"type:varchar(320);not null;uniqueIndex:uniq_invite_challenge,priority:1"`
	InviteToken string    `json:"invite_token" gorm:"type:varchar(64);not null;uniqueIndex:uniq_invite_challenge,priority:2"`
	CompanyID   *int64    `json:"company_id,omitempty" gorm:"index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName задаёт имя таблицы для GORM
func (InviteChallenge) TableName() string {
	return "invite_challenges"
}
