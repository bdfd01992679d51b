package entity

import (
	"time"
)

// PaymentType 收付方向
const (
	PaymentTypeInbound  = "INBOUND"  // 客户付款
	PaymentTypeOutbound = "OUTBOUND" // 付给供应商
)

// PaymentMethod 支付方式
const (
	PaymentMethodBank = "BANK"
	PaymentMethodCash = "CASH"
	PaymentMethodCard = "CARD"
)

// Payment 付款记录
// customer_invoice_id 与 vendor_bill_id 互斥，有且仅有一个
type Payment struct {
	ID                string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PaymentNumber     string    `json:"payment_number" gorm:"size:50;not null;uniqueIndex"`
	Amount            float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Method            string    `json:"method" gorm:"size:20;not null;default:BANK"`
	PaymentType       string    `json:"payment_type" gorm:"size:20;not null"`
	Date              time.Time `json:"date"`
	Note              string    `json:"note" gorm:"type:text"`
	CustomerInvoiceID *string   `json:"customer_invoice_id" gorm:"type:uuid;index"`
	VendorBillID      *string   `json:"vendor_bill_id" gorm:"type:uuid;index"`
	CreatedBy         string    `json:"created_by" gorm:"size:64"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "erp_payments"
}
