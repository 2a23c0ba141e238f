package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"realty-dashboard/internal/model"
	"realty-dashboard/internal/repository"
	"realty-dashboard/internal/ws"
	"realty-dashboard/pkg/validator"
)

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrUnknownCategory = errors.New("unknown settings category")
)

type SettingService interface {
	List(agencyID uuid.UUID, category string) ([]model.Setting, error)
	Get(agencyID uuid.UUID, key string) (*model.Setting, error)
	Put(agencyID uuid.UUID, req *SettingRequest, actor string) (*model.Setting, error)
	PutMany(agencyID uuid.UUID, reqs []SettingRequest, actor string) ([]model.Setting, error)
}

type SettingRequest struct {
	Category string `json:"category" validate:"required,oneof=branding tv_view general"`
	Key      string `json:"key" validate:"required,max=100"`
	Value    string `json:"value"`
}

type settingService struct {
	settingRepo repository.SettingRepository
	publisher   ws.Publisher
}

func NewSettingService(settingRepo repository.SettingRepository, publisher ws.Publisher) SettingService {
	return &settingService{settingRepo: settingRepo, publisher: publisher}
}

// List returns every setting of the agency, or one category when category
// is not empty.
func (s *settingService) List(agencyID uuid.UUID, category string) ([]model.Setting, error) {
	if category == "" {
		return s.settingRepo.FindAll(agencyID)
	}
	switch c := model.SettingCategory(category); c {
	case model.SettingBranding, model.SettingTVView, model.SettingGeneral:
		return s.settingRepo.FindByCategory(agencyID, c)
	}
	return nil, ErrUnknownCategory
}

func (s *settingService) Get(agencyID uuid.UUID, key string) (*model.Setting, error) {
	setting, err := s.settingRepo.FindByKey(agencyID, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingNotFound
	}
	return setting, err
}

func newSetting(agencyID uuid.UUID, req *SettingRequest, actor string) (*model.Setting, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	setting := &model.Setting{
		AgencyID: agencyID,
		Category: model.SettingCategory(req.Category),
		Key:      req.Key,
		Value:    req.Value,
	}
	setting.CreatedBy = actor
	setting.UpdatedBy = actor
	return setting, nil
}

func (s *settingService) Put(agencyID uuid.UUID, req *SettingRequest, actor string) (*model.Setting, error) {
	setting, err := newSetting(agencyID, req, actor)
	if err != nil {
		return nil, err
	}
	if err := s.settingRepo.Upsert(setting); err != nil {
		return nil, err
	}
	s.publisher.Publish(ws.EventSettingsChanged, &agencyID, []model.Setting{*setting})
	return setting, nil
}

// PutMany validates every entry before writing any of them.
func (s *settingService) PutMany(agencyID uuid.UUID, reqs []SettingRequest, actor string) ([]model.Setting, error) {
	settings := make([]model.Setting, 0, len(reqs))
	for i := range reqs {
		setting, err := newSetting(agencyID, &reqs[i], actor)
		if err != nil {
			return nil, err
		}
		settings = append(settings, *setting)
	}
	if err := s.settingRepo.UpsertMany(settings); err != nil {
		return nil, err
	}

	stored, err := s.settingRepo.FindAll(agencyID)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ws.EventSettingsChanged, &agencyID, stored)
	return stored, nil
}
