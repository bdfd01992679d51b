package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"github.com/stitchlabs/stitch-erp/internal/erp/errs"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
	"gorm.io/gorm"
)

// defaultDueDays 未指定付款条件时的默认账期
const defaultDueDays = 30

type BillingService struct {
	repo         *repository.InvoiceRepository
	saleRepo     *repository.SaleRepository
	purchaseRepo *repository.PurchaseRepository
	contactRepo  *repository.ContactRepository
}

func NewBillingService(
	repo *repository.InvoiceRepository,
	saleRepo *repository.SaleRepository,
	purchaseRepo *repository.PurchaseRepository,
	contactRepo *repository.ContactRepository,
) *BillingService {
	return &BillingService{repo: repo, saleRepo: saleRepo, purchaseRepo: purchaseRepo, contactRepo: contactRepo}
}

type GenerateInvoiceRequest struct {
	SaleOrderID string  `json:"sale_order_id" binding:"required"`
	DueDate     *string `json:"due_date"` // YYYY-MM-DD
	AsDraft     bool    `json:"as_draft"`
}

// GenerateInvoice 从已确认的销售订单派生发票
// 纯派生：金额逐项复制，不触碰库存和优惠券
func (s *BillingService) GenerateInvoice(ctx context.Context, req GenerateInvoiceRequest) (*entity.CustomerInvoice, error) {
	so, err := s.saleRepo.GetByID(ctx, req.SaleOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &errs.NotFoundError{Entity: "销售订单", ID: req.SaleOrderID}
		}
		return nil, err
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	var inv *entity.CustomerInvoice
	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err = s.invoiceFromOrder(tx, so, dueDate, req.AsDraft)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetInvoiceByID(ctx, inv.ID)
}

// invoiceFromOrder 在事务内从订单派生发票，订单必须已确认且尚未开票
func (s *BillingService) invoiceFromOrder(tx *gorm.DB, so *entity.SaleOrder, dueDate *time.Time, asDraft bool) (*entity.CustomerInvoice, error) {
	if so.Status == entity.SOStatusDraft {
		return nil, &errs.InvalidStateError{Entity: "销售订单", State: so.Status, Op: "开票"}
	}
	if so.Status == entity.SOStatusCancelled {
		return nil, &errs.InvalidStateError{Entity: "销售订单", State: so.Status, Op: "开票"}
	}

	var existing entity.CustomerInvoice
	err := tx.Select("id").Where("order_id = ?", so.ID).First(&existing).Error
	if err == nil {
		return nil, &errs.DuplicateDocumentError{OrderID: so.ID}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	status := entity.DocStatusUnpaid
	if asDraft {
		status = entity.DocStatusDraft
	}
	inv := &entity.CustomerInvoice{
		InvoiceNumber: newDocNumber("INV"),
		OrderID:       so.ID,
		CustomerID:    so.CustomerID,
		Subtotal:      so.Subtotal,
		TaxAmount:     so.TaxAmount,
		TotalAmount:   so.TotalAmount,
		PaidAmount:    0,
		Status:        status,
		DueDate:       s.resolveDueDate(tx, dueDate, so.PaymentTermID),
	}
	if err := tx.Create(inv).Error; err != nil {
		return nil, fmt.Errorf("创建发票失败: %w", err)
	}
	return inv, nil
}

type GenerateBillRequest struct {
	OrderID string  `json:"order_id" binding:"required"`
	DueDate *string `json:"due_date"`
	AsDraft bool    `json:"as_draft"`
}

// GenerateBill 从已确认的采购订单派生供应商账单
func (s *BillingService) GenerateBill(ctx context.Context, req GenerateBillRequest) (*entity.VendorBill, error) {
	po, err := s.purchaseRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &errs.NotFoundError{Entity: "采购订单", ID: req.OrderID}
		}
		return nil, err
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	var bill *entity.VendorBill
	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if po.Status == entity.POStatusDraft || po.Status == entity.POStatusCancelled {
			return &errs.InvalidStateError{Entity: "采购订单", State: po.Status, Op: "开账单"}
		}

		var existing entity.VendorBill
		err := tx.Select("id").Where("order_id = ?", po.ID).First(&existing).Error
		if err == nil {
			return &errs.DuplicateDocumentError{OrderID: po.ID}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		status := entity.DocStatusUnpaid
		if req.AsDraft {
			status = entity.DocStatusDraft
		}
		bill = &entity.VendorBill{
			BillNumber:  newDocNumber("BILL"),
			OrderID:     po.ID,
			VendorID:    po.VendorID,
			Subtotal:    po.Subtotal,
			TaxAmount:   po.TaxAmount,
			TotalAmount: po.TotalAmount,
			PaidAmount:  0,
			Status:      status,
			DueDate:     s.resolveDueDate(tx, dueDate, po.PaymentTermID),
		}
		if err := tx.Create(bill).Error; err != nil {
			return fmt.Errorf("创建账单失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetBillByID(ctx, bill.ID)
}

// resolveDueDate 到期日: 显式指定 > 付款条件天数 > 默认30天
func (s *BillingService) resolveDueDate(tx *gorm.DB, dueDate *time.Time, paymentTermID *string) time.Time {
	if dueDate != nil {
		return *dueDate
	}
	days := defaultDueDays
	if paymentTermID != nil {
		var pt entity.PaymentTerm
		if err := tx.Where("id = ?", *paymentTermID).First(&pt).Error; err == nil && pt.Days > 0 {
			days = pt.Days
		}
	}
	return time.Now().AddDate(0, 0, days)
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, &errs.ValidationError{Field: "due_date", Message: "日期格式应为 YYYY-MM-DD"}
	}
	return &t, nil
}

func (s *BillingService) GetInvoice(ctx context.Context, id string) (*entity.CustomerInvoice, error) {
	inv, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &errs.NotFoundError{Entity: "发票", ID: id}
		}
		return nil, err
	}
	return inv, nil
}

func (s *BillingService) ListInvoices(ctx context.Context, params repository.InvoiceListParams) ([]entity.CustomerInvoice, int64, error) {
	return s.repo.ListInvoices(ctx, params)
}

func (s *BillingService) GetBill(ctx context.Context, id string) (*entity.VendorBill, error) {
	bill, err := s.repo.GetBillByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &errs.NotFoundError{Entity: "账单", ID: id}
		}
		return nil, err
	}
	return bill, nil
}

type UpdateBillRequest struct {
	DueDate *string `json:"due_date"`
	Notes   *string `json:"notes"`
	Confirm bool    `json:"confirm"` // DRAFT→UNPAID
}

// UpdateBill 更新账单的到期日/备注，或将草稿转为待付
func (s *BillingService) UpdateBill(ctx context.Context, id string, req UpdateBillRequest) (*entity.VendorBill, error) {
	bill, err := s.GetBill(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DueDate != nil {
		t, err := parseDueDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		if t != nil {
			bill.DueDate = *t
		}
	}
	if req.Notes != nil {
		bill.Notes = *req.Notes
	}
	if req.Confirm {
		if bill.Status != entity.DocStatusDraft {
			return nil, &errs.InvalidStateError{Entity: "账单", State: bill.Status, Op: "确认"}
		}
		bill.Status = entity.DocStatusUnpaid
	}
	if err := s.repo.UpdateBill(ctx, bill); err != nil {
		return nil, fmt.Errorf("更新账单失败: %w", err)
	}
	return s.repo.GetBillByID(ctx, id)
}

// DeleteBill 删除账单，存在付款记录时拒绝
func (s *BillingService) DeleteBill(ctx context.Context, id string) error {
	if _, err := s.GetBill(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountPaymentsForBill(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &errs.DependencyInUseError{Message: "账单下存在付款记录，不能删除"}
	}
	return s.repo.DeleteBill(ctx, id)
}
