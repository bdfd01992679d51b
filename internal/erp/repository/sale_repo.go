package repository

import (
	"context"

	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// Create 创建订单及明细（一次事务）
func (r *SaleRepository) Create(ctx context.Context, so *entity.SaleOrder) error {
	return r.db.WithContext(ctx).Create(so).Error
}

func (r *SaleRepository) GetByID(ctx context.Context, id string) (*entity.SaleOrder, error) {
	var so entity.SaleOrder
	err := r.db.WithContext(ctx).
		Preload("Customer").Preload("Lines").Preload("Lines.Product").
		Where("id = ? AND deleted_at IS NULL", id).First(&so).Error
	return &so, err
}

type SaleOrderListParams struct {
	Status     string
	CustomerID string
	Keyword    string
	Page       int
	Size       int
}

func (r *SaleRepository) List(ctx context.Context, params SaleOrderListParams) ([]entity.SaleOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.SaleOrder{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.CustomerID != "" {
		query = query.Where("customer_id = ?", params.CustomerID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("order_number ILIKE ? OR coupon_code ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var orders []entity.SaleOrder
	err := query.Preload("Customer").Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&orders).Error
	return orders, total, err
}
