package repository

import (
	"context"
	"errors"

	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get 读取单行设置，不存在时返回默认值
func (r *SettingsRepository) Get(ctx context.Context) (*entity.Settings, error) {
	return r.GetWith(r.db.WithContext(ctx))
}

// GetWith 在指定事务内读取设置
func (r *SettingsRepository) GetWith(tx *gorm.DB) (*entity.Settings, error) {
	var s entity.Settings
	err := tx.Where("id = ?", 1).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entity.Settings{ID: 1}, nil
	}
	return &s, err
}

func (r *SettingsRepository) Save(ctx context.Context, s *entity.Settings) error {
	s.ID = 1
	return r.db.WithContext(ctx).Save(s).Error
}
