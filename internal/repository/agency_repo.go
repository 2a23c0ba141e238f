package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"realty-dashboard/internal/model"
)

type AgencyRepository interface {
	FindAll() ([]model.Agency, error)
	FindActive() ([]model.Agency, error)
	FindByID(id uuid.UUID) (*model.Agency, error)
	Create(agency *model.Agency) error
	Update(agency *model.Agency) error
	Delete(id uuid.UUID, deletedBy string) error
}

type agencyRepo struct {
	db *gorm.DB
}

func NewAgencyRepo(db *gorm.DB) AgencyRepository {
	return &agencyRepo{db}
}

func (r *agencyRepo) FindAll() ([]model.Agency, error) {
	var agencies []model.Agency
	err := r.db.Order("name ASC").Find(&agencies).Error
	return agencies, err
}

func (r *agencyRepo) FindActive() ([]model.Agency, error) {
	var agencies []model.Agency
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&agencies).Error
	return agencies, err
}

func (r *agencyRepo) FindByID(id uuid.UUID) (*model.Agency, error) {
	var agency model.Agency
	if err := r.db.First(&agency, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &agency, nil
}

func (r *agencyRepo) Create(agency *model.Agency) error {
	return r.db.Create(agency).Error
}

func (r *agencyRepo) Update(agency *model.Agency) error {
	return r.db.Save(agency).Error
}

func (r *agencyRepo) Delete(id uuid.UUID, deletedBy string) error {
	res := r.db.Model(&model.Agency{}).Where("id = ?", id).Updates(map[string]interface{}{
		"deleted_at": time.Now(),
		"deleted_by": deletedBy,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
