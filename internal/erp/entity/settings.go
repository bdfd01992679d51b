package entity

import (
	"time"
)

// Settings 系统设置（单行）
type Settings struct {
	ID                 int       `json:"id" gorm:"primaryKey"`
	AutomaticInvoicing bool      `json:"automatic_invoicing" gorm:"not null;default:false"`
	SupportEmail       string    `json:"support_email" gorm:"size:100"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Settings) TableName() string {
	return "erp_settings"
}
