package entity

import (
	"time"
)

// ContactType 联系人类型
const (
	ContactTypeCustomer = "CUSTOMER"
	ContactTypeVendor   = "VENDOR"
	ContactTypeBoth     = "BOTH"
)

// Contact 联系人（客户/供应商）
type Contact struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name      string     `json:"name" gorm:"size:200;not null"`
	Type      string     `json:"type" gorm:"size:20;not null;default:CUSTOMER"`
	Email     string     `json:"email" gorm:"size:100"`
	Phone     string     `json:"phone" gorm:"size:20"`
	Address   string     `json:"address" gorm:"size:500"`
	City      string     `json:"city" gorm:"size:100"`
	Country   string     `json:"country" gorm:"size:100"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`
}

func (Contact) TableName() string {
	return "erp_contacts"
}

// PaymentTerm 付款条件（如 Net 30）
type PaymentTerm struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Days      int       `json:"days" gorm:"not null;default:30"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PaymentTerm) TableName() string {
	return "erp_payment_terms"
}
