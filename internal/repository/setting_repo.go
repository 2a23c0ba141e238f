package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"realty-dashboard/internal/model"
)

type SettingRepository interface {
	FindAll(agencyID uuid.UUID) ([]model.Setting, error)
	FindByCategory(agencyID uuid.UUID, category model.SettingCategory) ([]model.Setting, error)
	FindByKey(agencyID uuid.UUID, key string) (*model.Setting, error)
	Upsert(setting *model.Setting) error
	UpsertMany(settings []model.Setting) error
}

type settingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db}
}

func (r *settingRepo) FindAll(agencyID uuid.UUID) ([]model.Setting, error) {
	var settings []model.Setting
	err := r.db.Where("agency_id = ?", agencyID).Order("category ASC, key ASC").Find(&settings).Error
	return settings, err
}

func (r *settingRepo) FindByCategory(agencyID uuid.UUID, category model.SettingCategory) ([]model.Setting, error) {
	var settings []model.Setting
	err := r.db.Where("agency_id = ? AND category = ?", agencyID, category).
		Order("key ASC").
		Find(&settings).Error
	return settings, err
}

func (r *settingRepo) FindByKey(agencyID uuid.UUID, key string) (*model.Setting, error) {
	var setting model.Setting
	if err := r.db.First(&setting, "agency_id = ? AND key = ?", agencyID, key).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// upsertClause overwrites the existing row for (agency_id, key), reviving it
// if it was soft deleted.
var upsertClause = clause.OnConflict{
	Columns:   []clause.Column{{Name: "agency_id"}, {Name: "key"}},
	DoUpdates: clause.AssignmentColumns([]string{"category", "value", "updated_at", "updated_by", "deleted_at"}),
}

// Upsert writes the setting and reloads it so setting carries the stored row.
func (r *settingRepo) Upsert(setting *model.Setting) error {
	if err := r.db.Clauses(upsertClause).Create(setting).Error; err != nil {
		return err
	}
	stored, err := r.FindByKey(setting.AgencyID, setting.Key)
	if err != nil {
		return err
	}
	*setting = *stored
	return nil
}

func (r *settingRepo) UpsertMany(settings []model.Setting) error {
	if len(settings) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range settings {
			if err := tx.Clauses(upsertClause).Create(&settings[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
