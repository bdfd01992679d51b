package repository

import (
	"context"

	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	var c entity.Contact
	err := r.db.WithContext(ctx).Where("id = ? AND deleted_at IS NULL", id).First(&c).Error
	return &c, err
}

type ContactListParams struct {
	Type    string
	Keyword string
	Page    int
	Size    int
}

func (r *ContactRepository) List(ctx context.Context, params ContactListParams) ([]entity.Contact, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Contact{}).Where("deleted_at IS NULL")
	if params.Type != "" {
		query = query.Where("type = ? OR type = ?", params.Type, entity.ContactTypeBoth)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var contacts []entity.Contact
	err := query.Order("created_at DESC").Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&contacts).Error
	return contacts, total, err
}

// --- Payment Term ---

func (r *ContactRepository) CreatePaymentTerm(ctx context.Context, pt *entity.PaymentTerm) error {
	return r.db.WithContext(ctx).Create(pt).Error
}

func (r *ContactRepository) GetPaymentTermByID(ctx context.Context, id string) (*entity.PaymentTerm, error) {
	var pt entity.PaymentTerm
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pt).Error
	return &pt, err
}

func (r *ContactRepository) ListPaymentTerms(ctx context.Context) ([]entity.PaymentTerm, error) {
	var terms []entity.PaymentTerm
	err := r.db.WithContext(ctx).Order("days ASC").Find(&terms).Error
	return terms, err
}

// CountOrdersByPaymentTerm 统计引用该付款条件的订单数（销售+采购）
func (r *ContactRepository) CountOrdersByPaymentTerm(ctx context.Context, id string) (int64, error) {
	var soCount, poCount int64
	if err := r.db.WithContext(ctx).Model(&entity.SaleOrder{}).
		Where("payment_term_id = ? AND deleted_at IS NULL", id).Count(&soCount).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).
		Where("payment_term_id = ? AND deleted_at IS NULL", id).Count(&poCount).Error; err != nil {
		return 0, err
	}
	return soCount + poCount, nil
}

func (r *ContactRepository) DeletePaymentTerm(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.PaymentTerm{}).Error
}
