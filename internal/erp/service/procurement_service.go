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

type ProcurementService struct {
	repo        *repository.PurchaseRepository
	contactRepo *repository.ContactRepository
	db          *gorm.DB
}

func NewProcurementService(repo *repository.PurchaseRepository, contactRepo *repository.ContactRepository, db *gorm.DB) *ProcurementService {
	return &ProcurementService{repo: repo, contactRepo: contactRepo, db: db}
}

type CreatePurchaseOrderRequest struct {
	VendorID      string                    `json:"vendor_id" binding:"required"`
	PaymentTermID *string                   `json:"payment_term_id"`
	Notes         string                    `json:"notes"`
	Lines         []CreatePurchaseOrderLine `json:"lines" binding:"required,min=1,dive"`
}

type CreatePurchaseOrderLine struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
	TaxRate   float64 `json:"tax_rate" binding:"gte=0"`
}

// Create 创建采购订单（DRAFT），无优惠/折扣
func (s *ProcurementService) Create(ctx context.Context, req CreatePurchaseOrderRequest, userID string) (*entity.PurchaseOrder, error) {
	vendor, err := s.contactRepo.GetByID(ctx, req.VendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &errs.NotFoundError{Entity: "供应商", ID: req.VendorID}
		}
		return nil, fmt.Errorf("查询供应商失败: %w", err)
	}
	if vendor.Type == entity.ContactTypeCustomer {
		return nil, &errs.ValidationError{Field: "vendor_id", Message: "联系人不是供应商"}
	}

	now := time.Now()
	po := &entity.PurchaseOrder{
		OrderNumber:   newDocNumber("PO"),
		VendorID:      req.VendorID,
		PaymentTermID: req.PaymentTermID,
		Status:        entity.POStatusDraft,
		OrderDate:     &now,
		Notes:         req.Notes,
		CreatedBy:     userID,
	}

	var subtotal, taxAmount float64
	lines := make([]entity.PurchaseOrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lineTotal := float64(l.Quantity) * l.UnitPrice * (1 + l.TaxRate/100)
		subtotal += float64(l.Quantity) * l.UnitPrice
		taxAmount += float64(l.Quantity) * l.UnitPrice * l.TaxRate / 100
		lines = append(lines, entity.PurchaseOrderLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			TaxRate:   l.TaxRate,
			LineTotal: lineTotal,
		})
	}
	po.Subtotal = subtotal
	po.TaxAmount = taxAmount
	po.TotalAmount = subtotal + taxAmount
	po.Lines = lines

	if err := s.repo.Create(ctx, po); err != nil {
		return nil, fmt.Errorf("创建采购订单失败: %w", err)
	}
	return s.repo.GetByID(ctx, po.ID)
}

func (s *ProcurementService) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &errs.NotFoundError{Entity: "采购订单", ID: id}
		}
		return nil, err
	}
	return po, nil
}

func (s *ProcurementService) List(ctx context.Context, params repository.PurchaseOrderListParams) ([]entity.PurchaseOrder, int64, error) {
	return s.repo.List(ctx, params)
}

// Confirm 确认采购订单: DRAFT→CONFIRMED，确认即收货，库存按明细增加
func (s *ProcurementService) Confirm(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var po entity.PurchaseOrder
		if err := tx.Preload("Lines").
			Where("id = ? AND deleted_at IS NULL", id).First(&po).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &errs.NotFoundError{Entity: "采购订单", ID: id}
			}
			return err
		}
		if po.Status != entity.POStatusDraft {
			return &errs.InvalidStateError{Entity: "采购订单", State: po.Status, Op: "确认"}
		}

		for _, line := range po.Lines {
			ok, err := repository.TryAdjustStock(tx, line.ProductID, line.Quantity)
			if err != nil {
				return fmt.Errorf("入库失败: %w", err)
			}
			if !ok {
				return &errs.NotFoundError{Entity: "商品", ID: line.ProductID}
			}
		}

		return tx.Model(&entity.PurchaseOrder{}).Where("id = ?", po.ID).
			Update("status", entity.POStatusConfirmed).Error
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Cancel 取消采购订单，与销售侧对称：
// 已确认的订单冲回当初入库的数量，收货已被消耗时冲回失败
func (s *ProcurementService) Cancel(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var po entity.PurchaseOrder
		if err := tx.Preload("Lines").
			Where("id = ? AND deleted_at IS NULL", id).First(&po).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &errs.NotFoundError{Entity: "采购订单", ID: id}
			}
			return err
		}
		switch po.Status {
		case entity.POStatusPaid:
			return &errs.InvalidStateError{Entity: "采购订单", State: po.Status, Op: "取消"}
		case entity.POStatusCancelled:
			return nil
		case entity.POStatusConfirmed:
			for _, line := range po.Lines {
				ok, err := repository.TryAdjustStock(tx, line.ProductID, -line.Quantity)
				if err != nil {
					return fmt.Errorf("冲回库存失败: %w", err)
				}
				if !ok {
					var p entity.Product
					if err := tx.Where("id = ?", line.ProductID).First(&p).Error; err != nil {
						return &errs.NotFoundError{Entity: "商品", ID: line.ProductID}
					}
					return &errs.InsufficientStockError{
						ProductID:   p.ID,
						ProductName: p.Name,
						Requested:   line.Quantity,
						Available:   p.Stock,
					}
				}
			}
		}
		return tx.Model(&entity.PurchaseOrder{}).Where("id = ?", po.ID).
			Update("status", entity.POStatusCancelled).Error
	})
}
