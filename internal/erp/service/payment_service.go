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
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService struct {
	repo         *repository.PaymentRepository
	invoiceRepo  *repository.InvoiceRepository
	settingsRepo *repository.SettingsRepository
	db           *gorm.DB
	notifier     *notify.Notifier
	logger       *zap.Logger
}

func NewPaymentService(
	repo *repository.PaymentRepository,
	invoiceRepo *repository.InvoiceRepository,
	settingsRepo *repository.SettingsRepository,
	db *gorm.DB,
	notifier *notify.Notifier,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		repo:         repo,
		invoiceRepo:  invoiceRepo,
		settingsRepo: settingsRepo,
		db:           db,
		notifier:     notifier,
		logger:       logger,
	}
}

type RegisterPaymentRequest struct {
	Amount            float64 `json:"amount" binding:"required,gt=0"`
	Method            string  `json:"method"`
	Date              string  `json:"date"` // YYYY-MM-DD，缺省为当天
	Note              string  `json:"note"`
	CustomerInvoiceID *string `json:"customer_invoice_id"`
	VendorBillID      *string `json:"vendor_bill_id"`
}

// docStatusFor 账单状态阈值（发票与账单同一策略）
// 超付被接受，状态封顶在 PAID
func docStatusFor(paid, total float64) string {
	switch {
	case paid >= total:
		return entity.DocStatusPaid
	case paid > 0:
		return entity.DocStatusPartial
	default:
		return entity.DocStatusUnpaid
	}
}

// Register 登记付款并对账
// 单事务内：创建付款、累加已付金额、按阈值重算状态、
// 转为 PAID 时级联将所属订单置为 PAID
func (s *PaymentService) Register(ctx context.Context, req RegisterPaymentRequest, userID string) (*entity.Payment, error) {
	if req.Amount <= 0 {
		return nil, &errs.ValidationError{Field: "amount", Message: "金额必须大于0"}
	}
	hasInvoice := req.CustomerInvoiceID != nil && *req.CustomerInvoiceID != ""
	hasBill := req.VendorBillID != nil && *req.VendorBillID != ""
	if hasInvoice == hasBill {
		return nil, &errs.ValidationError{Field: "customer_invoice_id", Message: "必须且只能指定发票或账单之一"}
	}

	method := req.Method
	if method == "" {
		method = entity.PaymentMethodBank
	}
	date := time.Now()
	if req.Date != "" {
		t, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, &errs.ValidationError{Field: "date", Message: "日期格式应为 YYYY-MM-DD"}
		}
		date = t
	}

	payment := &entity.Payment{
		PaymentNumber: newDocNumber("PAY"),
		Amount:        req.Amount,
		Method:        method,
		Date:          date,
		Note:          req.Note,
		CreatedBy:     userID,
	}

	var paidInvoice *entity.CustomerInvoice

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if hasInvoice {
			payment.PaymentType = entity.PaymentTypeInbound
			payment.CustomerInvoiceID = req.CustomerInvoiceID

			var inv entity.CustomerInvoice
			if err := tx.Preload("Customer").Preload("Order").
				Where("id = ?", *req.CustomerInvoiceID).First(&inv).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &errs.NotFoundError{Entity: "发票", ID: *req.CustomerInvoiceID}
				}
				return err
			}
			if err := tx.Create(payment).Error; err != nil {
				return fmt.Errorf("创建付款失败: %w", err)
			}
			if err := s.applyToInvoice(tx, &inv, req.Amount); err != nil {
				return err
			}
			paidInvoice = &inv
			return nil
		}

		payment.PaymentType = entity.PaymentTypeOutbound
		payment.VendorBillID = req.VendorBillID

		var bill entity.VendorBill
		if err := tx.Where("id = ?", *req.VendorBillID).First(&bill).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &errs.NotFoundError{Entity: "账单", ID: *req.VendorBillID}
			}
			return err
		}
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("创建付款失败: %w", err)
		}
		return s.applyToBill(tx, &bill, req.Amount)
	})
	if err != nil {
		return nil, err
	}

	// 仅客户发票付款触发通知
	if paidInvoice != nil && paidInvoice.Customer != nil {
		settings, err := s.settingsRepo.Get(ctx)
		if err != nil {
			// 通知内容缺个客服邮箱不值得让付款失败
			s.logger.Warn("读取设置失败", zap.Error(err))
		}
		orderID := paidInvoice.InvoiceNumber
		if paidInvoice.Order != nil {
			orderID = paidInvoice.Order.OrderNumber
		}
		s.notifier.Send(notify.Event{
			TriggerType:   notify.TriggerPaymentReceived,
			CustomerName:  paidInvoice.Customer.Name,
			CustomerEmail: []string{paidInvoice.Customer.Email},
			OrderID:       orderID,
			OrderStatus:   paidInvoice.Status,
			OrderTotal:    paidInvoice.TotalAmount,
			SupportEmail:  settings.SupportEmail,
		})
	}

	return s.repo.GetByID(ctx, payment.ID)
}

// applyToInvoice 累加发票已付金额并重算状态，转 PAID 时级联订单
func (s *PaymentService) applyToInvoice(tx *gorm.DB, inv *entity.CustomerInvoice, amount float64) error {
	newPaid := inv.PaidAmount + amount
	newStatus := docStatusFor(newPaid, inv.TotalAmount)

	updates := map[string]interface{}{
		"paid_amount": newPaid,
		"status":      newStatus,
	}
	if newStatus == entity.DocStatusPaid && inv.Status != entity.DocStatusPaid {
		updates["paid_on"] = time.Now()
	} else if newStatus != entity.DocStatusPaid {
		updates["paid_on"] = nil
	}
	if err := tx.Model(&entity.CustomerInvoice{}).Where("id = ?", inv.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("更新发票失败: %w", err)
	}

	if newStatus == entity.DocStatusPaid {
		if err := tx.Model(&entity.SaleOrder{}).Where("id = ?", inv.OrderID).
			Update("status", entity.SOStatusPaid).Error; err != nil {
			return fmt.Errorf("级联订单状态失败: %w", err)
		}
	}

	inv.PaidAmount = newPaid
	inv.Status = newStatus
	return nil
}

// applyToBill 与发票同一套阈值策略
func (s *PaymentService) applyToBill(tx *gorm.DB, bill *entity.VendorBill, amount float64) error {
	newPaid := bill.PaidAmount + amount
	newStatus := docStatusFor(newPaid, bill.TotalAmount)

	updates := map[string]interface{}{
		"paid_amount": newPaid,
		"status":      newStatus,
	}
	if newStatus == entity.DocStatusPaid && bill.Status != entity.DocStatusPaid {
		updates["paid_on"] = time.Now()
	} else if newStatus != entity.DocStatusPaid {
		updates["paid_on"] = nil
	}
	if err := tx.Model(&entity.VendorBill{}).Where("id = ?", bill.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("更新账单失败: %w", err)
	}

	if newStatus == entity.DocStatusPaid {
		if err := tx.Model(&entity.PurchaseOrder{}).Where("id = ?", bill.OrderID).
			Update("status", entity.POStatusPaid).Error; err != nil {
			return fmt.Errorf("级联订单状态失败: %w", err)
		}
	}

	bill.PaidAmount = newPaid
	bill.Status = newStatus
	return nil
}

func (s *PaymentService) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &errs.NotFoundError{Entity: "付款", ID: id}
		}
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) List(ctx context.Context, params repository.PaymentListParams) ([]entity.Payment, int64, error) {
	return s.repo.List(ctx, params)
}

// Delete 删除付款并冲销其对账单的影响
// 已付金额按付款额回退（下限0），状态按阈值重算，
// 当初级联出的订单 PAID 状态不回退（既有行为，见 DESIGN.md）
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment entity.Payment
		if err := tx.Where("id = ?", id).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &errs.NotFoundError{Entity: "付款", ID: id}
			}
			return err
		}

		if payment.CustomerInvoiceID != nil {
			var inv entity.CustomerInvoice
			if err := tx.Where("id = ?", *payment.CustomerInvoiceID).First(&inv).Error; err != nil {
				return err
			}
			newPaid := inv.PaidAmount - payment.Amount
			if newPaid < 0 {
				newPaid = 0
			}
			newStatus := docStatusFor(newPaid, inv.TotalAmount)
			updates := map[string]interface{}{
				"paid_amount": newPaid,
				"status":      newStatus,
			}
			if newStatus != entity.DocStatusPaid {
				updates["paid_on"] = nil
			}
			if err := tx.Model(&entity.CustomerInvoice{}).Where("id = ?", inv.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("冲销发票失败: %w", err)
			}
		} else if payment.VendorBillID != nil {
			var bill entity.VendorBill
			if err := tx.Where("id = ?", *payment.VendorBillID).First(&bill).Error; err != nil {
				return err
			}
			newPaid := bill.PaidAmount - payment.Amount
			if newPaid < 0 {
				newPaid = 0
			}
			newStatus := docStatusFor(newPaid, bill.TotalAmount)
			updates := map[string]interface{}{
				"paid_amount": newPaid,
				"status":      newStatus,
			}
			if newStatus != entity.DocStatusPaid {
				updates["paid_on"] = nil
			}
			if err := tx.Model(&entity.VendorBill{}).Where("id = ?", bill.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("冲销账单失败: %w", err)
			}
		}

		return tx.Delete(&entity.Payment{}, "id = ?", payment.ID).Error
	})
}
