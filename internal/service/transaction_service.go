package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"realty-dashboard/internal/listing"
	"realty-dashboard/internal/model"
	"realty-dashboard/internal/repository"
	"realty-dashboard/internal/ws"
	"realty-dashboard/pkg/validator"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDatesOutOfOrder     = errors.New("transaction_date cannot be before listed_date")
	ErrInvalidDateFormat   = errors.New("invalid date format, use YYYY-MM-DD")
	ErrAgentNotInAgency    = errors.New("agent does not belong to this agency")
)

type TransactionService interface {
	List(agencyID uuid.UUID, q listing.Query) (listing.Page[model.Transaction], error)
	Get(agencyID, id uuid.UUID) (*model.Transaction, error)
	Create(agencyID uuid.UUID, req *TransactionRequest, actor string) (*model.Transaction, error)
	Update(agencyID, id uuid.UUID, req *TransactionRequest, actor string) (*model.Transaction, error)
	UpdateStatus(agencyID, id uuid.UUID, req *StatusRequest, actor string) (*model.Transaction, error)
	Delete(agencyID, id uuid.UUID, actor string) error
}

type TransactionRequest struct {
	AgentID         *uuid.UUID `json:"agent_id"`
	Address         string     `json:"address" validate:"required"`
	Suburb          string     `json:"suburb"`
	Postcode        string     `json:"postcode"`
	PropertyType    string     `json:"property_type" validate:"required"`
	Bedrooms        int        `json:"bedrooms"`
	Bathrooms       int        `json:"bathrooms"`
	Price           string     `json:"price" validate:"required"`
	Commission      string     `json:"commission"`
	Status          string     `json:"status" validate:"required"`
	ListedDate      *string    `json:"listed_date"`      // YYYY-MM-DD
	TransactionDate *string    `json:"transaction_date"` // YYYY-MM-DD
	Notes           string     `json:"notes"`
}

type StatusRequest struct {
	Status          string  `json:"status" validate:"required"`
	TransactionDate *string `json:"transaction_date"`
}

type transactionService struct {
	txRepo    repository.TransactionRepository
	agentRepo repository.AgentRepository
	publisher ws.Publisher
	now       func() time.Time
}

func NewTransactionService(txRepo repository.TransactionRepository, agentRepo repository.AgentRepository, publisher ws.Publisher) TransactionService {
	return &transactionService{
		txRepo:    txRepo,
		agentRepo: agentRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

// parseDate accepts an optional YYYY-MM-DD string; empty means no date.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*s))
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	return &parsed, nil
}

func (s *transactionService) List(agencyID uuid.UUID, q listing.Query) (listing.Page[model.Transaction], error) {
	txs, err := s.txRepo.FindByAgency(agencyID)
	if err != nil {
		return listing.Page[model.Transaction]{}, err
	}
	return listing.Apply(txs, q, TransactionSchema(s.now())), nil
}

func (s *transactionService) Get(agencyID, id uuid.UUID) (*model.Transaction, error) {
	tx, err := s.txRepo.FindByID(agencyID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	return tx, err
}

// apply copies req onto tx and checks the result.
func (s *transactionService) apply(agencyID uuid.UUID, tx *model.Transaction, req *TransactionRequest) error {
	if err := validator.Check(req); err != nil {
		return err
	}

	listed, err := parseDate(req.ListedDate)
	if err != nil {
		return err
	}
	sold, err := parseDate(req.TransactionDate)
	if err != nil {
		return err
	}

	if req.AgentID != nil {
		if _, err := s.agentRepo.FindByID(agencyID, *req.AgentID); err != nil {
			return ErrAgentNotInAgency
		}
	}

	tx.AgencyID = agencyID
	tx.AgentID = req.AgentID
	tx.Agent = nil
	tx.Address = strings.TrimSpace(req.Address)
	tx.Suburb = strings.TrimSpace(req.Suburb)
	tx.Postcode = strings.TrimSpace(req.Postcode)
	tx.PropertyType = model.PropertyType(req.PropertyType)
	tx.Bedrooms = req.Bedrooms
	tx.Bathrooms = req.Bathrooms
	tx.Price = strings.TrimSpace(req.Price)
	tx.Commission = strings.TrimSpace(req.Commission)
	tx.Status = model.TransactionStatus(req.Status)
	tx.ListedDate = listed
	tx.SaleDate = sold
	tx.Notes = req.Notes

	if err := validator.Check(tx); err != nil {
		return err
	}
	if !tx.DatesOrdered() {
		return ErrDatesOutOfOrder
	}
	return nil
}

func (s *transactionService) Create(agencyID uuid.UUID, req *TransactionRequest, actor string) (*model.Transaction, error) {
	tx := &model.Transaction{}
	if err := s.apply(agencyID, tx, req); err != nil {
		return nil, err
	}
	tx.CreatedBy = actor
	tx.UpdatedBy = actor

	if err := s.txRepo.Create(tx); err != nil {
		return nil, err
	}
	s.changed(agencyID, "created", tx)
	return tx, nil
}

func (s *transactionService) Update(agencyID, id uuid.UUID, req *TransactionRequest, actor string) (*model.Transaction, error) {
	tx, err := s.Get(agencyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(agencyID, tx, req); err != nil {
		return nil, err
	}
	tx.UpdatedBy = actor

	if err := s.txRepo.Update(tx); err != nil {
		return nil, err
	}
	s.changed(agencyID, "updated", tx)
	return tx, nil
}

// UpdateStatus moves a transaction through the pipeline. Moving to sold or
// settled without a sale date stamps today's date.
func (s *transactionService) UpdateStatus(agencyID, id uuid.UUID, req *StatusRequest, actor string) (*model.Transaction, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	status := model.TransactionStatus(req.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: Field 'StatusRequest.Status' failed on tag 'transaction_status'", validator.ErrValidation)
	}
	saleDate, err := parseDate(req.TransactionDate)
	if err != nil {
		return nil, err
	}

	tx, err := s.Get(agencyID, id)
	if err != nil {
		return nil, err
	}
	if saleDate == nil && tx.SaleDate == nil && (status == model.StatusSold || status == model.StatusSettled) {
		now := s.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		saleDate = &today
	}

	check := *tx
	if saleDate != nil {
		check.SaleDate = saleDate
	}
	if !check.DatesOrdered() {
		return nil, ErrDatesOutOfOrder
	}

	if err := s.txRepo.UpdateStatus(agencyID, id, status, saleDate, actor); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	updated, err := s.Get(agencyID, id)
	if err != nil {
		return nil, err
	}
	s.changed(agencyID, "status_changed", updated)
	return updated, nil
}

func (s *transactionService) Delete(agencyID, id uuid.UUID, actor string) error {
	if err := s.txRepo.Delete(agencyID, id, actor); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}
	s.changed(agencyID, "deleted", map[string]string{"id": id.String()})
	return nil
}

func (s *transactionService) changed(agencyID uuid.UUID, action string, payload interface{}) {
	s.publisher.Publish(ws.EventTransactionChanged, &agencyID, map[string]interface{}{
		"action":      action,
		"transaction": payload,
	})
}
