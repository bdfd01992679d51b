package entity

import (
	"time"
)

// PurchaseOrderStatus 采购订单状态（与销售订单对称）
const (
	POStatusDraft     = "DRAFT"
	POStatusConfirmed = "CONFIRMED"
	POStatusCancelled = "CANCELLED"
	POStatusPaid      = "PAID"
)

// PurchaseOrder 采购订单
// 确认即收货：库存按明细增加
type PurchaseOrder struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderNumber   string     `json:"order_number" gorm:"size:50;not null;uniqueIndex"`
	VendorID      string     `json:"vendor_id" gorm:"type:uuid;not null;index"`
	PaymentTermID *string    `json:"payment_term_id" gorm:"type:uuid"`
	Subtotal      float64    `json:"subtotal" gorm:"type:decimal(12,2);not null;default:0"`
	TaxAmount     float64    `json:"tax_amount" gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount   float64    `json:"total_amount" gorm:"type:decimal(12,2);not null;default:0"`
	Status        string     `json:"status" gorm:"size:20;not null;default:DRAFT"`
	OrderDate     *time.Time `json:"order_date"`
	Notes         string     `json:"notes" gorm:"type:text"`
	CreatedBy     string     `json:"created_by" gorm:"size:64"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at" gorm:"index"`

	Vendor *Contact            `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Lines  []PurchaseOrderLine `json:"lines,omitempty" gorm:"foreignKey:OrderID"`
}

func (PurchaseOrder) TableName() string {
	return "erp_purchase_orders"
}

// PurchaseOrderLine 采购订单明细
type PurchaseOrderLine struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderID   string    `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID string    `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	TaxRate   float64   `json:"tax_rate" gorm:"type:decimal(5,2);not null;default:0"`
	LineTotal float64   `json:"line_total" gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (PurchaseOrderLine) TableName() string {
	return "erp_purchase_order_lines"
}
