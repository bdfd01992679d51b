package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 基础数据
		&Product{},
		&Contact{},
		&PaymentTerm{},

		// 销售
		&SaleOrder{},
		&SaleOrderLine{},

		// 采购
		&PurchaseOrder{},
		&PurchaseOrderLine{},

		// 财务
		&CustomerInvoice{},
		&VendorBill{},
		&Payment{},

		// 优惠
		&DiscountOffer{},
		&Coupon{},

		// 系统设置
		&Settings{},
	)
}
