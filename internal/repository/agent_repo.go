package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"realty-dashboard/internal/model"
)

type AgentRepository interface {
	FindByAgency(agencyID uuid.UUID) ([]model.Agent, error)
	FindByID(agencyID, id uuid.UUID) (*model.Agent, error)
	Create(agent *model.Agent) error
	Update(agent *model.Agent) error
	Delete(agencyID, id uuid.UUID, deletedBy string) error
	WithTx(tx *gorm.DB) AgentRepository
}

type agentRepo struct {
	db *gorm.DB
}

func NewAgentRepo(db *gorm.DB) AgentRepository {
	return &agentRepo{db}
}

func (r *agentRepo) WithTx(tx *gorm.DB) AgentRepository {
	return &agentRepo{tx}
}

func (r *agentRepo) FindByAgency(agencyID uuid.UUID) ([]model.Agent, error) {
	var agents []model.Agent
	err := r.db.Where("agency_id = ?", agencyID).Order("name ASC").Find(&agents).Error
	return agents, err
}

// FindByID only finds agents of the given agency.
func (r *agentRepo) FindByID(agencyID, id uuid.UUID) (*model.Agent, error) {
	var agent model.Agent
	if err := r.db.First(&agent, "id = ? AND agency_id = ?", id, agencyID).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepo) Create(agent *model.Agent) error {
	return r.db.Create(agent).Error
}

func (r *agentRepo) Update(agent *model.Agent) error {
	return r.db.Save(agent).Error
}

func (r *agentRepo) Delete(agencyID, id uuid.UUID, deletedBy string) error {
	res := r.db.Model(&model.Agent{}).
		Where("id = ? AND agency_id = ?", id, agencyID).
		Updates(map[string]interface{}{
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
