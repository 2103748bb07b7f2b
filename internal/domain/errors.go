package domain

import "errors"

// Определение бизнес-ошибок
var (
	ErrDepartmentNotFound       = errors.New("department not found")
	ErrInvalidDepartmentName    = errors.New("department name must not be blank or contain the path separator")
	ErrParentDepartmentNotFound = errors.New("parent department with specified id does not exist")
	ErrDuplicateDepartment      = errors.New("department with the same name or path already exists in this company")
	ErrDepartmentHasChildren    = errors.New("department has child sub-departments attached to it")
	ErrDepartmentHasHead        = errors.New("department already has head")
	ErrSelfReference            = errors.New("department cannot be its own parent")
	ErrCyclicReference          = errors.New("moving department would create a cycle")

	ErrPositionNotFound       = errors.New("position not found")
	ErrDuplicatePositionTitle = errors.New("position with this title already exists in the department")
	ErrPositionHasEmployees   = errors.New("position has assigned users")
	ErrAlreadyAssigned        = errors.New("user is already assigned to the position")

	ErrUserNotFound     = errors.New("user not found")
	ErrUserNotInCompany = errors.New("user is not a member of the requested company")
	ErrAccountTaken     = errors.New("account is already taken")
	ErrForbidden        = errors.New("operation is not permitted for this user")

	ErrCompanyNotFound      = errors.New("company not found")
	ErrDuplicateCompanyName = errors.New("company with this name already exists")
	ErrCompanyNameRequired  = errors.New("company_name is required to register a new company")

	ErrInviteAlreadyIssued = errors.New("invite token for that account already exists")
	ErrInviteNotFound      = errors.New("either token or account is invalid")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
)
