package repository

import (
	"context"

	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	var p entity.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	return &p, err
}

type PaymentListParams struct {
	PaymentType string
	Page        int
	Size        int
}

func (r *PaymentRepository) List(ctx context.Context, params PaymentListParams) ([]entity.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Payment{})
	if params.PaymentType != "" {
		query = query.Where("payment_type = ?", params.PaymentType)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var payments []entity.Payment
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&payments).Error
	return payments, total, err
}
