package entity

import (
	"time"
)

// ProductCategory 商品品类
const (
	CategoryTops      = "TOPS"
	CategoryBottoms   = "BOTTOMS"
	CategoryOuterwear = "OUTERWEAR"
	CategoryFootwear  = "FOOTWEAR"
	CategoryAccessory = "ACCESSORY"
)

// ProductMaterial 商品面料
const (
	MaterialCotton    = "COTTON"
	MaterialLinen     = "LINEN"
	MaterialWool      = "WOOL"
	MaterialDenim     = "DENIM"
	MaterialSynthetic = "SYNTHETIC"
)

// Product 商品
// 库存只能由订单确认/取消和收货修改，校验后不允许为负
type Product struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name       string     `json:"name" gorm:"size:200;not null"`
	Category   string     `json:"category" gorm:"size:20;not null;default:TOPS"`
	Material   string     `json:"material" gorm:"size:20"`
	SalesPrice float64    `json:"sales_price" gorm:"type:decimal(12,2);not null;default:0"`
	Stock      int        `json:"stock" gorm:"not null;default:0"`
	Published  bool       `json:"published" gorm:"not null;default:false"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at" gorm:"index"`
}

func (Product) TableName() string {
	return "erp_products"
}
