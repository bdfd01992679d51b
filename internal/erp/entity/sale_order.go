package entity

import (
	"time"
)

// SaleOrderStatus 销售订单状态
// DRAFT → CONFIRMED → CANCELLED / PAID，CANCELLED 和 PAID 为终态
const (
	SOStatusDraft     = "DRAFT"
	SOStatusConfirmed = "CONFIRMED"
	SOStatusCancelled = "CANCELLED"
	SOStatusPaid      = "PAID"
)

// SaleOrder 销售订单
// 不变量: total_amount = subtotal + tax_amount - discount_amount
type SaleOrder struct {
	ID             string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderNumber    string     `json:"order_number" gorm:"size:50;not null;uniqueIndex"`
	CustomerID     string     `json:"customer_id" gorm:"type:uuid;not null;index"`
	PaymentTermID  *string    `json:"payment_term_id" gorm:"type:uuid"`
	CouponCode     string     `json:"coupon_code" gorm:"size:50"`
	Subtotal       float64    `json:"subtotal" gorm:"type:decimal(12,2);not null;default:0"`
	TaxAmount      float64    `json:"tax_amount" gorm:"type:decimal(12,2);not null;default:0"`
	DiscountAmount float64    `json:"discount_amount" gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount    float64    `json:"total_amount" gorm:"type:decimal(12,2);not null;default:0"`
	Status         string     `json:"status" gorm:"size:20;not null;default:DRAFT"`
	OrderDate      *time.Time `json:"order_date"`
	Notes          string     `json:"notes" gorm:"type:text"`
	CreatedBy      string     `json:"created_by" gorm:"size:64"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at" gorm:"index"`

	Customer *Contact        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Lines    []SaleOrderLine `json:"lines,omitempty" gorm:"foreignKey:OrderID"`
}

func (SaleOrder) TableName() string {
	return "erp_sale_orders"
}

// SaleOrderLine 销售订单明细
// 随订单一次性创建，创建后不可修改
// line_total = quantity * unit_price * (1 + tax_rate/100)
type SaleOrderLine struct {
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

func (SaleOrderLine) TableName() string {
	return "erp_sale_order_lines"
}
