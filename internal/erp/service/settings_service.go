package service

import (
	"context"
	"fmt"

	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
)

type SettingsService struct {
	repo *repository.SettingsRepository
}

func NewSettingsService(repo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) Get(ctx context.Context) (*entity.Settings, error) {
	return s.repo.Get(ctx)
}

type UpdateSettingsRequest struct {
	AutomaticInvoicing *bool   `json:"automatic_invoicing"`
	SupportEmail       *string `json:"support_email"`
}

func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest) (*entity.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if req.AutomaticInvoicing != nil {
		settings.AutomaticInvoicing = *req.AutomaticInvoicing
	}
	if req.SupportEmail != nil {
		settings.SupportEmail = *req.SupportEmail
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("保存设置失败: %w", err)
	}
	return settings, nil
}
