package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"realty-dashboard/internal/model"
	"realty-dashboard/internal/repository"
	"realty-dashboard/pkg/validator"
)

var ErrAgencyNotFound = errors.New("agency not found")

type AgencyService interface {
	List() ([]model.Agency, error)
	Get(id uuid.UUID) (*model.Agency, error)
	Create(req *AgencyRequest, actor string) (*model.Agency, error)
	Update(id uuid.UUID, req *AgencyRequest, actor string) (*model.Agency, error)
	Delete(id uuid.UUID, actor string) error
}

type AgencyRequest struct {
	Name         string   `json:"name" validate:"required"`
	Email        string   `json:"email" validate:"omitempty,email"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	RLANumber    string   `json:"rla_number" validate:"required"`
	LogoURL      string   `json:"logo_url" validate:"omitempty,url"`
	ServiceAreas []string `json:"service_areas"`
	IsActive     *bool    `json:"is_active"`
}

type agencyService struct {
	agencyRepo repository.AgencyRepository
}

func NewAgencyService(agencyRepo repository.AgencyRepository) AgencyService {
	return &agencyService{agencyRepo: agencyRepo}
}

func (s *agencyService) List() ([]model.Agency, error) {
	return s.agencyRepo.FindAll()
}

func (s *agencyService) Get(id uuid.UUID) (*model.Agency, error) {
	agency, err := s.agencyRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgencyNotFound
	}
	return agency, err
}

func applyAgency(agency *model.Agency, req *AgencyRequest) error {
	if err := validator.Check(req); err != nil {
		return err
	}
	agency.Name = strings.TrimSpace(req.Name)
	agency.Email = strings.TrimSpace(req.Email)
	agency.Phone = strings.TrimSpace(req.Phone)
	agency.Address = strings.TrimSpace(req.Address)
	agency.RLANumber = strings.TrimSpace(req.RLANumber)
	agency.LogoURL = req.LogoURL
	agency.ServiceAreas = model.StringList(req.ServiceAreas)
	if req.IsActive != nil {
		agency.IsActive = *req.IsActive
	}
	return nil
}

func (s *agencyService) Create(req *AgencyRequest, actor string) (*model.Agency, error) {
	agency := &model.Agency{IsActive: true}
	if err := applyAgency(agency, req); err != nil {
		return nil, err
	}
	agency.CreatedBy = actor
	agency.UpdatedBy = actor

	if err := s.agencyRepo.Create(agency); err != nil {
		return nil, err
	}
	return agency, nil
}

func (s *agencyService) Update(id uuid.UUID, req *AgencyRequest, actor string) (*model.Agency, error) {
	agency, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := applyAgency(agency, req); err != nil {
		return nil, err
	}
	agency.UpdatedBy = actor

	if err := s.agencyRepo.Update(agency); err != nil {
		return nil, err
	}
	return agency, nil
}

func (s *agencyService) Delete(id uuid.UUID, actor string) error {
	if err := s.agencyRepo.Delete(id, actor); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAgencyNotFound
		}
		return err
	}
	return nil
}
