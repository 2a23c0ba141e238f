package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"realty-dashboard/internal/listing"
	"realty-dashboard/internal/model"
	"realty-dashboard/internal/repository"
	"realty-dashboard/internal/ws"
	"realty-dashboard/pkg/validator"
)

var ErrAgentNotFound = errors.New("agent not found")

type AgentService interface {
	List(agencyID uuid.UUID, q listing.Query) (listing.Page[model.Agent], error)
	Get(agencyID, id uuid.UUID) (*model.Agent, error)
	Create(agencyID uuid.UUID, req *AgentRequest, actor string) (*model.Agent, error)
	Update(agencyID, id uuid.UUID, req *AgentRequest, actor string) (*model.Agent, error)
	Delete(agencyID, id uuid.UUID, actor string) error
}

type AgentRequest struct {
	Name              string   `json:"name" validate:"required"`
	Email             string   `json:"email" validate:"omitempty,email"`
	Phone             string   `json:"phone"`
	Role              string   `json:"role"`
	ProfilePictureURL string   `json:"profile_picture_url" validate:"omitempty,url"`
	Specialties       []string `json:"specialties"`
	IsActive          *bool    `json:"is_active"`
}

type agentService struct {
	agentRepo repository.AgentRepository
	publisher ws.Publisher
}

func NewAgentService(agentRepo repository.AgentRepository, publisher ws.Publisher) AgentService {
	return &agentService{agentRepo: agentRepo, publisher: publisher}
}

func (s *agentService) List(agencyID uuid.UUID, q listing.Query) (listing.Page[model.Agent], error) {
	agents, err := s.agentRepo.FindByAgency(agencyID)
	if err != nil {
		return listing.Page[model.Agent]{}, err
	}
	return listing.Apply(agents, q, AgentSchema()), nil
}

func (s *agentService) Get(agencyID, id uuid.UUID) (*model.Agent, error) {
	agent, err := s.agentRepo.FindByID(agencyID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgentNotFound
	}
	return agent, err
}

func applyAgent(agent *model.Agent, req *AgentRequest) error {
	if err := validator.Check(req); err != nil {
		return err
	}
	agent.Name = strings.TrimSpace(req.Name)
	agent.Email = strings.TrimSpace(req.Email)
	agent.Phone = strings.TrimSpace(req.Phone)
	agent.ProfilePictureURL = req.ProfilePictureURL
	agent.Specialties = model.StringList(req.Specialties)
	if req.Role != "" {
		agent.Role = model.AgentRole(req.Role)
	} else if agent.Role == "" {
		agent.Role = model.AgentRoleSalesAgent
	}
	if req.IsActive != nil {
		agent.IsActive = *req.IsActive
	}
	return validator.Check(agent)
}

func (s *agentService) Create(agencyID uuid.UUID, req *AgentRequest, actor string) (*model.Agent, error) {
	agent := &model.Agent{AgencyID: agencyID, IsActive: true}
	if err := applyAgent(agent, req); err != nil {
		return nil, err
	}
	agent.CreatedBy = actor
	agent.UpdatedBy = actor

	if err := s.agentRepo.Create(agent); err != nil {
		return nil, err
	}
	s.publisher.Publish(ws.EventAgentChanged, &agencyID, agent)
	return agent, nil
}

func (s *agentService) Update(agencyID, id uuid.UUID, req *AgentRequest, actor string) (*model.Agent, error) {
	agent, err := s.Get(agencyID, id)
	if err != nil {
		return nil, err
	}
	if err := applyAgent(agent, req); err != nil {
		return nil, err
	}
	agent.UpdatedBy = actor

	if err := s.agentRepo.Update(agent); err != nil {
		return nil, err
	}
	s.publisher.Publish(ws.EventAgentChanged, &agencyID, agent)
	return agent, nil
}

func (s *agentService) Delete(agencyID, id uuid.UUID, actor string) error {
	if err := s.agentRepo.Delete(agencyID, id, actor); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAgentNotFound
		}
		return err
	}
	s.publisher.Publish(ws.EventAgentChanged, &agencyID, map[string]string{"id": id.String(), "action": "deleted"})
	return nil
}
