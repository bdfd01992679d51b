package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"github.com/stitchlabs/stitch-erp/internal/erp/errs"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
	"github.com/stitchlabs/stitch-erp/internal/notify"
	"gorm.io/gorm"
)

type SalesService struct {
	repo         *repository.SaleRepository
	contactRepo  *repository.ContactRepository
	couponRepo   *repository.CouponRepository
	settingsRepo *repository.SettingsRepository
	billing      *BillingService
	db           *gorm.DB
	notifier     *notify.Notifier
}

func NewSalesService(
	repo *repository.SaleRepository,
	contactRepo *repository.ContactRepository,
	couponRepo *repository.CouponRepository,
	settingsRepo *repository.SettingsRepository,
	billing *BillingService,
	db *gorm.DB,
	notifier *notify.Notifier,
) *SalesService {
	return &SalesService{
		repo:         repo,
		contactRepo:  contactRepo,
		couponRepo:   couponRepo,
		settingsRepo: settingsRepo,
		billing:      billing,
		db:           db,
		notifier:     notifier,
	}
}

type CreateSaleOrderRequest struct {
	CustomerID    string                `json:"customer_id" binding:"required"`
	PaymentTermID *string               `json:"payment_term_id"`
	CouponCode    string                `json:"coupon_code"`
	Notes         string                `json:"notes"`
	Lines         []CreateSaleOrderLine `json:"lines" binding:"required,min=1,dive"`
}

type CreateSaleOrderLine struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
	TaxRate   float64 `json:"tax_rate" binding:"gte=0"`
}

// Create 创建销售订单（DRAFT）
// 明细随订单原子创建；优惠码有效时按小计计算折扣，无效时折扣为 0 且不落到订单上
func (s *SalesService) Create(ctx context.Context, req CreateSaleOrderRequest, userID string) (*entity.SaleOrder, error) {
	customer, err := s.contactRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &errs.NotFoundError{Entity: "客户", ID: req.CustomerID}
		}
		return nil, fmt.Errorf("查询客户失败: %w", err)
	}
	if customer.Type == entity.ContactTypeVendor {
		return nil, &errs.ValidationError{Field: "customer_id", Message: "联系人不是客户"}
	}

	now := time.Now()
	so := &entity.SaleOrder{
		OrderNumber:   newDocNumber("SO"),
		CustomerID:    req.CustomerID,
		PaymentTermID: req.PaymentTermID,
		Status:        entity.SOStatusDraft,
		OrderDate:     &now,
		Notes:         req.Notes,
		CreatedBy:     userID,
	}

	var subtotal, taxAmount float64
	lines := make([]entity.SaleOrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lineTotal := float64(l.Quantity) * l.UnitPrice * (1 + l.TaxRate/100)
		subtotal += float64(l.Quantity) * l.UnitPrice
		taxAmount += float64(l.Quantity) * l.UnitPrice * l.TaxRate / 100
		lines = append(lines, entity.SaleOrderLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			TaxRate:   l.TaxRate,
			LineTotal: lineTotal,
		})
	}

	var discount float64
	if req.CouponCode != "" {
		discount = s.couponDiscount(ctx, req.CouponCode, req.CustomerID, subtotal, now)
		if discount > 0 {
			so.CouponCode = req.CouponCode
		}
	}

	so.Subtotal = subtotal
	so.TaxAmount = taxAmount
	so.DiscountAmount = discount
	so.TotalAmount = subtotal + taxAmount - discount
	so.Lines = lines

	if err := s.repo.Create(ctx, so); err != nil {
		return nil, fmt.Errorf("创建销售订单失败: %w", err)
	}
	return s.repo.GetByID(ctx, so.ID)
}

// couponDiscount 创建时刻的折扣计算，券无效则返回 0
func (s *SalesService) couponDiscount(ctx context.Context, code, customerID string, subtotal float64, now time.Time) float64 {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return 0
	}
	if coupon.Status != entity.CouponStatusUnused {
		return 0
	}
	if coupon.ExpirationDate != nil && coupon.ExpirationDate.Before(now) {
		return 0
	}
	if coupon.ContactID != nil && *coupon.ContactID != customerID {
		return 0
	}
	if coupon.Offer == nil || now.Before(coupon.Offer.StartDate) || now.After(coupon.Offer.EndDate) {
		return 0
	}
	return subtotal * coupon.Offer.DiscountPercentage / 100
}

func (s *SalesService) GetByID(ctx context.Context, id string) (*entity.SaleOrder, error) {
	so, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &errs.NotFoundError{Entity: "销售订单", ID: id}
		}
		return nil, err
	}
	return so, nil
}

func (s *SalesService) List(ctx context.Context, params repository.SaleOrderListParams) ([]entity.SaleOrder, int64, error) {
	return s.repo.List(ctx, params)
}

// Confirm 确认订单: DRAFT→CONFIRMED
// 单事务内完成状态变更、逐行扣库存、优惠券核销（以及配置开启时的自动开票），
// 任一明细库存不足则整体回滚
func (s *SalesService) Confirm(ctx context.Context, id string) (*entity.SaleOrder, error) {
	var confirmed *entity.SaleOrder

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var so entity.SaleOrder
		if err := tx.Preload("Customer").Preload("Lines").
			Where("id = ? AND deleted_at IS NULL", id).First(&so).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &errs.NotFoundError{Entity: "销售订单", ID: id}
			}
			return err
		}
		if so.Status != entity.SOStatusDraft {
			return &errs.InvalidStateError{Entity: "销售订单", State: so.Status, Op: "确认"}
		}

		for _, line := range so.Lines {
			ok, err := repository.TryAdjustStock(tx, line.ProductID, -line.Quantity)
			if err != nil {
				return fmt.Errorf("扣减库存失败: %w", err)
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

		if so.CouponCode != "" {
			now := time.Now()
			res := tx.Model(&entity.Coupon{}).
				Where("code = ? AND status = ?", so.CouponCode, entity.CouponStatusUnused).
				Updates(map[string]interface{}{"status": entity.CouponStatusUsed, "used_at": now})
			if res.Error != nil {
				return fmt.Errorf("核销优惠券失败: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				// 并发订单抢先核销了同一张券
				return &errs.InvalidStateError{Entity: "优惠券", State: entity.CouponStatusUsed, Op: "核销"}
			}
		}

		if err := tx.Model(&entity.SaleOrder{}).Where("id = ?", so.ID).
			Update("status", entity.SOStatusConfirmed).Error; err != nil {
			return fmt.Errorf("更新订单状态失败: %w", err)
		}

		settings, err := s.settingsRepo.GetWith(tx)
		if err != nil {
			return fmt.Errorf("读取设置失败: %w", err)
		}
		if settings.AutomaticInvoicing {
			so.Status = entity.SOStatusConfirmed
			if _, err := s.billing.invoiceFromOrder(tx, &so, nil, false); err != nil {
				return err
			}
		}

		confirmed = &so
		confirmed.Status = entity.SOStatusConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}

	if confirmed.Customer != nil {
		s.notifier.Send(notify.Event{
			TriggerType:   notify.TriggerOrderConfirmation,
			CustomerName:  confirmed.Customer.Name,
			CustomerEmail: []string{confirmed.Customer.Email},
			OrderID:       confirmed.OrderNumber,
			OrderStatus:   confirmed.Status,
			OrderTotal:    confirmed.TotalAmount,
		})
	}
	return s.repo.GetByID(ctx, id)
}

// Cancel 取消订单
// PAID 不允许取消；重复取消为幂等空操作；已确认的订单回补库存
func (s *SalesService) Cancel(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var so entity.SaleOrder
		if err := tx.Preload("Lines").
			Where("id = ? AND deleted_at IS NULL", id).First(&so).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &errs.NotFoundError{Entity: "销售订单", ID: id}
			}
			return err
		}
		switch so.Status {
		case entity.SOStatusPaid:
			return &errs.InvalidStateError{Entity: "销售订单", State: so.Status, Op: "取消"}
		case entity.SOStatusCancelled:
			return nil
		case entity.SOStatusConfirmed:
			for _, line := range so.Lines {
				ok, err := repository.TryAdjustStock(tx, line.ProductID, line.Quantity)
				if err != nil {
					return fmt.Errorf("回补库存失败: %w", err)
				}
				if !ok {
					// 正向调整只会因商品被删除而影响 0 行
					return &errs.NotFoundError{Entity: "商品", ID: line.ProductID}
				}
			}
		}
		return tx.Model(&entity.SaleOrder{}).Where("id = ?", so.ID).
			Update("status", entity.SOStatusCancelled).Error
	})
}
