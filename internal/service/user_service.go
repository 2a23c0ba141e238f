package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"realty-dashboard/internal/model"
	"realty-dashboard/internal/repository"
	"realty-dashboard/pkg/validator"
)

var (
	ErrEmailExists       = errors.New("email already exists")
	ErrRoleNotFound      = errors.New("role not found")
	ErrPlatformPrivilege = errors.New("platform privileges cannot be granted to agency users")
)

// UserService manages admin-panel accounts. Every call takes the caller's
// tenant: a non-nil agencyID confines the call to that agency's users, nil
// is the platform view over every user.
type UserService interface {
	CreateUser(agencyID *uuid.UUID, req *CreateUserRequest, creatorID string) (*model.User, error)
	UpdateUser(agencyID *uuid.UUID, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error)
	DeleteUser(agencyID *uuid.UUID, userID uuid.UUID, deleterID string) error
	UpdateUserPrivileges(agencyID *uuid.UUID, userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.User, error)
	GetAllUsers(agencyID *uuid.UUID) ([]model.UserResponse, error)
	GetUserByID(agencyID *uuid.UUID, id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=6"`
	FullName string     `json:"full_name" validate:"required"`
	RoleID   uint       `json:"role_id" validate:"required"`
	AgencyID *uuid.UUID `json:"agency_id"` // honoured for platform callers only
}

type UpdateUserRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	FullName string  `json:"full_name" validate:"required"`
	RoleID   uint    `json:"role_id" validate:"required"`
	IsActive *bool   `json:"is_active"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
	}
}

// sameTenant reports whether user is visible from the caller's tenant.
func sameTenant(agencyID *uuid.UUID, user *model.User) bool {
	if agencyID == nil {
		return true
	}
	return user.AgencyID != nil && *user.AgencyID == *agencyID
}

// grantable drops platform privileges for agency users.
func grantable(userAgency *uuid.UUID, privileges []model.Privilege) []model.Privilege {
	if userAgency == nil {
		return privileges
	}
	out := make([]model.Privilege, 0, len(privileges))
	for _, p := range privileges {
		if !model.IsPlatformPrivilege(p.Code) {
			out = append(out, p)
		}
	}
	return out
}

func (s *userService) find(agencyID *uuid.UUID, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil || !sameTenant(agencyID, user) {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) CreateUser(agencyID *uuid.UUID, req *CreateUserRequest, creatorID string) (*model.User, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, ErrEmailExists
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, ErrRoleNotFound
	}

	userAgency := agencyID
	if agencyID == nil {
		userAgency = req.AgencyID
	}

	user := &model.User{
		Email:    strings.TrimSpace(req.Email),
		FullName: req.FullName,
		AgencyID: userAgency,
		RoleID:   &role.ID,
		IsActive: true,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	// privileges follow the role
	user.Privileges = grantable(userAgency, role.Privileges)

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(agencyID *uuid.UUID, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	user, err := s.find(agencyID, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != user.Email {
		if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
			return nil, ErrEmailExists
		}
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, ErrRoleNotFound
	}

	user.Email = req.Email
	user.FullName = req.FullName
	user.RoleID = &role.ID
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updaterID

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdatePrivileges(userID, grantable(user.AgencyID, role.Privileges)); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(userID)
}

func (s *userService) DeleteUser(agencyID *uuid.UUID, userID uuid.UUID, deleterID string) error {
	if _, err := s.find(agencyID, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(userID, deleterID)
}

func (s *userService) UpdateUserPrivileges(agencyID *uuid.UUID, userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.User, error) {
	user, err := s.find(agencyID, userID)
	if err != nil {
		return nil, err
	}

	privileges, err := s.privilegeRepo.FindByCodes(privilegeCodes)
	if err != nil {
		return nil, errors.New("failed to find privileges")
	}
	if user.AgencyID != nil && len(grantable(user.AgencyID, privileges)) != len(privileges) {
		return nil, ErrPlatformPrivilege
	}

	if err := s.userRepo.UpdatePrivileges(userID, privileges); err != nil {
		return nil, err
	}

	user.UpdatedBy = updaterID
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(userID)
}

func (s *userService) GetAllUsers(agencyID *uuid.UUID) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(agencyID)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(agencyID *uuid.UUID, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.find(agencyID, id)
	if err != nil {
		return nil, err
	}
	response := user.ToResponse()
	return &response, nil
}
