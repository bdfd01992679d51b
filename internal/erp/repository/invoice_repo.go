package repository

import (
	"context"

	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// DB 返回底层db用于事务
func (r *InvoiceRepository) DB() *gorm.DB {
	return r.db
}

// --- Customer Invoice ---

func (r *InvoiceRepository) GetInvoiceByID(ctx context.Context, id string) (*entity.CustomerInvoice, error) {
	var inv entity.CustomerInvoice
	err := r.db.WithContext(ctx).
		Preload("Customer").Preload("Order").Preload("Payments").
		Where("id = ?", id).First(&inv).Error
	return &inv, err
}

type InvoiceListParams struct {
	Status     string
	CustomerID string
	Page       int
	Size       int
}

func (r *InvoiceRepository) ListInvoices(ctx context.Context, params InvoiceListParams) ([]entity.CustomerInvoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.CustomerInvoice{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.CustomerID != "" {
		query = query.Where("customer_id = ?", params.CustomerID)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var invoices []entity.CustomerInvoice
	err := query.Preload("Customer").Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&invoices).Error
	return invoices, total, err
}

// --- Vendor Bill ---

func (r *InvoiceRepository) GetBillByID(ctx context.Context, id string) (*entity.VendorBill, error) {
	var bill entity.VendorBill
	err := r.db.WithContext(ctx).
		Preload("Vendor").Preload("Order").Preload("Payments").
		Where("id = ?", id).First(&bill).Error
	return &bill, err
}

func (r *InvoiceRepository) UpdateBill(ctx context.Context, bill *entity.VendorBill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

func (r *InvoiceRepository) DeleteBill(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.VendorBill{}).Error
}

// CountPaymentsForBill 账单下的付款数
func (r *InvoiceRepository) CountPaymentsForBill(ctx context.Context, billID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("vendor_bill_id = ?", billID).Count(&count).Error
	return count, err
}
