package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"realty-dashboard/internal/model"
)

type TransactionRepository interface {
	FindByAgency(agencyID uuid.UUID) ([]model.Transaction, error)
	FindByAgent(agencyID, agentID uuid.UUID) ([]model.Transaction, error)
	FindByID(agencyID, id uuid.UUID) (*model.Transaction, error)
	Create(transaction *model.Transaction) error
	Update(transaction *model.Transaction) error
	UpdateStatus(agencyID, id uuid.UUID, status model.TransactionStatus, saleDate *time.Time, updatedBy string) error
	Delete(agencyID, id uuid.UUID, deletedBy string) error
	CountByStatus(agencyID uuid.UUID) (map[model.TransactionStatus]int64, error)
	WithTx(tx *gorm.DB) TransactionRepository
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) WithTx(tx *gorm.DB) TransactionRepository {
	return &transactionRepo{tx}
}

// FindByAgency returns every live transaction of the agency with its agent.
func (r *transactionRepo) FindByAgency(agencyID uuid.UUID) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Agent").
		Where("agency_id = ?", agencyID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByAgent(agencyID, agentID uuid.UUID) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Agent").
		Where("agency_id = ? AND agent_id = ?", agencyID, agentID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(agencyID, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Agent").First(&transaction, "id = ? AND agency_id = ?", id, agencyID).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) Create(transaction *model.Transaction) error {
	return r.db.Omit("Agent").Create(transaction).Error
}

func (r *transactionRepo) Update(transaction *model.Transaction) error {
	return r.db.Omit("Agent").Save(transaction).Error
}

// UpdateStatus moves a transaction to status. A nil saleDate leaves the
// stored date untouched.
func (r *transactionRepo) UpdateStatus(agencyID, id uuid.UUID, status model.TransactionStatus, saleDate *time.Time, updatedBy string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_by": updatedBy,
	}
	if saleDate != nil {
		updates["transaction_date"] = *saleDate
	}

	res := r.db.Model(&model.Transaction{}).
		Where("id = ? AND agency_id = ?", id, agencyID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *transactionRepo) Delete(agencyID, id uuid.UUID, deletedBy string) error {
	res := r.db.Model(&model.Transaction{}).
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

// CountByStatus groups the agency's live transactions by status.
func (r *transactionRepo) CountByStatus(agencyID uuid.UUID) (map[model.TransactionStatus]int64, error) {
	rows, err := r.db.Model(&model.Transaction{}).
		Select("status, COUNT(*) as total").
		Where("agency_id = ?", agencyID).
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[model.TransactionStatus]int64{}
	for rows.Next() {
		var status string
		var total int64
		if err := rows.Scan(&status, &total); err != nil {
			return nil, err
		}
		counts[model.TransactionStatus(status)] = total
	}
	return counts, rows.Err()
}
