package service

import (
	"time"

	"github.com/google/uuid"

	"realty-dashboard/internal/listing"
	"realty-dashboard/internal/model"
	"realty-dashboard/internal/repository"
)

// Overview is the landing-page summary of one agency.
type Overview struct {
	Stats        *model.SalesStats                 `json:"stats"`
	StatusCounts map[model.TransactionStatus]int64 `json:"status_counts"`
	Recent       []model.Transaction               `json:"recent"`
}

type DashboardService interface {
	Overview(agencyID uuid.UUID, recent int) (*Overview, error)
}

type dashboardService struct {
	txRepo       repository.TransactionRepository
	statsService StatsService
}

func NewDashboardService(txRepo repository.TransactionRepository, statsService StatsService) DashboardService {
	return &dashboardService{txRepo: txRepo, statsService: statsService}
}

func (s *dashboardService) Overview(agencyID uuid.UUID, recent int) (*Overview, error) {
	current, err := s.statsService.Current(agencyID)
	if err != nil {
		return nil, err
	}

	counts, err := s.txRepo.CountByStatus(agencyID)
	if err != nil {
		return nil, err
	}

	txs, err := s.txRepo.FindByAgency(agencyID)
	if err != nil {
		return nil, err
	}
	if recent <= 0 {
		recent = 5
	}
	latest := listing.Apply(txs, listing.Query{
		Sort:     listing.SortState{Key: "createdAt", Direction: listing.Desc},
		PageSize: recent,
	}, TransactionSchema(time.Now()))

	return &Overview{
		Stats:        current,
		StatusCounts: counts,
		Recent:       latest.Data,
	}, nil
}
