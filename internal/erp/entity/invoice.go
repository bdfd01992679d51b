package entity

import (
	"time"
)

// 账单状态（发票与供应商账单共用同一套阈值策略）
// paid_amount >= total_amount ⇒ PAID
// 0 < paid_amount < total_amount ⇒ PARTIAL
// paid_amount == 0 ⇒ UNPAID
const (
	DocStatusDraft   = "DRAFT"
	DocStatusUnpaid  = "UNPAID"
	DocStatusPartial = "PARTIAL"
	DocStatusPaid    = "PAID"
)

// CustomerInvoice 客户发票
// 由已确认的销售订单派生，每张订单至多一张
type CustomerInvoice struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	InvoiceNumber string     `json:"invoice_number" gorm:"size:50;not null;uniqueIndex"`
	OrderID       string     `json:"order_id" gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID    string     `json:"customer_id" gorm:"type:uuid;not null;index"`
	Subtotal      float64    `json:"subtotal" gorm:"type:decimal(12,2);not null;default:0"`
	TaxAmount     float64    `json:"tax_amount" gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount   float64    `json:"total_amount" gorm:"type:decimal(12,2);not null;default:0"`
	PaidAmount    float64    `json:"paid_amount" gorm:"type:decimal(12,2);not null;default:0"`
	Status        string     `json:"status" gorm:"size:20;not null;default:UNPAID"`
	DueDate       time.Time  `json:"due_date"`
	PaidOn        *time.Time `json:"paid_on"`
	Notes         string     `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Order    *SaleOrder `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Customer *Contact   `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Payments []Payment  `json:"payments,omitempty" gorm:"foreignKey:CustomerInvoiceID"`
}

func (CustomerInvoice) TableName() string {
	return "erp_customer_invoices"
}

// VendorBill 供应商账单
// 与客户发票对称，由已确认的采购订单派生
type VendorBill struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	BillNumber  string     `json:"bill_number" gorm:"size:50;not null;uniqueIndex"`
	OrderID     string     `json:"order_id" gorm:"type:uuid;not null;uniqueIndex"`
	VendorID    string     `json:"vendor_id" gorm:"type:uuid;not null;index"`
	Subtotal    float64    `json:"subtotal" gorm:"type:decimal(12,2);not null;default:0"`
	TaxAmount   float64    `json:"tax_amount" gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount float64    `json:"total_amount" gorm:"type:decimal(12,2);not null;default:0"`
	PaidAmount  float64    `json:"paid_amount" gorm:"type:decimal(12,2);not null;default:0"`
	Status      string     `json:"status" gorm:"size:20;not null;default:UNPAID"`
	DueDate     time.Time  `json:"due_date"`
	PaidOn      *time.Time `json:"paid_on"`
	Notes       string     `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Order    *PurchaseOrder `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Vendor   *Contact       `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Payments []Payment      `json:"payments,omitempty" gorm:"foreignKey:VendorBillID"`
}

func (VendorBill) TableName() string {
	return "erp_vendor_bills"
}
