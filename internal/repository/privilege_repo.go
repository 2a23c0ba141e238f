package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"realty-dashboard/internal/model"
)

type PrivilegeRepository interface {
	FindByCodes(codes []string) ([]model.Privilege, error)
	// FindAll lists the catalogue ordered by code. Without platform,
	// privileges reserved to platform admins are left out.
	FindAll(platform bool) ([]model.Privilege, error)
	SeedDefaults() error
}

type privilegeRepo struct {
	db *gorm.DB
}

func NewPrivilegeRepo(db *gorm.DB) PrivilegeRepository {
	return &privilegeRepo{db}
}

func (r *privilegeRepo) FindByCodes(codes []string) ([]model.Privilege, error) {
	privileges := []model.Privilege{}
	if len(codes) == 0 {
		return privileges, nil
	}
	err := r.db.Where("code IN ?", codes).Order("code").Find(&privileges).Error
	return privileges, err
}

func (r *privilegeRepo) FindAll(platform bool) ([]model.Privilege, error) {
	var all []model.Privilege
	if err := r.db.Order("code").Find(&all).Error; err != nil {
		return nil, err
	}
	if platform {
		return all, nil
	}

	visible := all[:0]
	for _, p := range all {
		if !model.IsPlatformPrivilege(p.Code) {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

// SeedDefaults inserts missing privileges and refreshes display names of
// existing ones.
func (r *privilegeRepo) SeedDefaults() error {
	defaults := make([]model.Privilege, len(model.DefaultPrivileges))
	copy(defaults, model.DefaultPrivileges)

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&defaults).Error
}
