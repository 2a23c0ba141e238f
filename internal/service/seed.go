package service

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"realty-dashboard/internal/model"
	"realty-dashboard/internal/repository"
)

// Seeder creates the default privileges, roles and platform admin.
type Seeder struct {
	Privileges repository.PrivilegeRepository
	Roles      repository.RoleRepository
	Users      repository.UserRepository
	Log        *logrus.Logger
}

// Seed is idempotent: existing rows are left alone.
func (s *Seeder) Seed(adminEmail, adminPassword string) error {
	// 1. Privileges first, roles reference them
	if err := s.Privileges.SeedDefaults(); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}

	// 2. Roles with their starting privileges
	if err := s.Roles.SeedDefaults(); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	// 3. Platform admin
	if adminEmail == "" {
		return nil
	}
	_, err := s.Users.FindByEmail(adminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	role, err := s.Roles.FindByCode(model.RolePlatformAdmin)
	if err != nil {
		return fmt.Errorf("find platform role: %w", err)
	}

	admin := &model.User{
		Email:      adminEmail,
		FullName:   "Platform Administrator",
		RoleID:     &role.ID,
		IsActive:   true,
		Privileges: role.Privileges,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(adminPassword); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := s.Users.Create(admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	s.Log.WithField("email", adminEmail).Info("platform admin created")
	return nil
}
