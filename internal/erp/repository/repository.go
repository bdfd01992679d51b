package repository

import "gorm.io/gorm"

// Repositories 仓库集合
type Repositories struct {
	Product  *ProductRepository
	Contact  *ContactRepository
	Sale     *SaleRepository
	Purchase *PurchaseRepository
	Invoice  *InvoiceRepository
	Payment  *PaymentRepository
	Coupon   *CouponRepository
	Report   *ReportRepository
	Settings *SettingsRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Product:  NewProductRepository(db),
		Contact:  NewContactRepository(db),
		Sale:     NewSaleRepository(db),
		Purchase: NewPurchaseRepository(db),
		Invoice:  NewInvoiceRepository(db),
		Payment:  NewPaymentRepository(db),
		Coupon:   NewCouponRepository(db),
		Report:   NewReportRepository(db),
		Settings: NewSettingsRepository(db),
	}
}
