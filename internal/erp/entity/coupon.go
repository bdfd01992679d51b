package entity

import (
	"time"
)

// CouponStatus 优惠券状态，UNUSED→USED 只发生一次
const (
	CouponStatusUnused = "UNUSED"
	CouponStatusUsed   = "USED"
)

// DiscountOffer 折扣活动
// 有效窗口 [start_date, end_date]
type DiscountOffer struct {
	ID                 string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name               string    `json:"name" gorm:"size:200;not null"`
	DiscountPercentage float64   `json:"discount_percentage" gorm:"type:decimal(5,2);not null"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	AvailableOn        string    `json:"available_on" gorm:"size:50"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Coupons []Coupon `json:"coupons,omitempty" gorm:"foreignKey:DiscountOfferID"`
}

func (DiscountOffer) TableName() string {
	return "erp_discount_offers"
}

// Coupon 优惠券
// contact_id 非空时仅限该客户使用
// 在订单确认时刻消费（而非创建/校验时刻）
type Coupon struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code            string     `json:"code" gorm:"size:50;not null;uniqueIndex"`
	DiscountOfferID string     `json:"discount_offer_id" gorm:"type:uuid;not null;index"`
	ContactID       *string    `json:"contact_id" gorm:"type:uuid"`
	ExpirationDate  *time.Time `json:"expiration_date"`
	Status          string     `json:"status" gorm:"size:20;not null;default:UNUSED"`
	UsedAt          *time.Time `json:"used_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Offer *DiscountOffer `json:"offer,omitempty" gorm:"foreignKey:DiscountOfferID"`
}

func (Coupon) TableName() string {
	return "erp_coupons"
}
