package service

import (
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
	"github.com/stitchlabs/stitch-erp/internal/notify"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services 服务集合
type Services struct {
	Sales       *SalesService
	Procurement *ProcurementService
	Billing     *BillingService
	Payment     *PaymentService
	Coupon      *CouponService
	Report      *ReportService
	Settings    *SettingsService
	Contact     *ContactService
	Product     *ProductService
}

// Deps 服务外部依赖，redis / minio 可为 nil
type Deps struct {
	DB       *gorm.DB
	Notifier *notify.Notifier
	Logger   *zap.Logger
	Redis    *redis.Client
	MinIO    *minio.Client
	Bucket   string
}

func NewServices(repos *repository.Repositories, deps Deps) *Services {
	billing := NewBillingService(repos.Invoice, repos.Sale, repos.Purchase, repos.Contact)
	return &Services{
		Sales:       NewSalesService(repos.Sale, repos.Contact, repos.Coupon, repos.Settings, billing, deps.DB, deps.Notifier),
		Procurement: NewProcurementService(repos.Purchase, repos.Contact, deps.DB),
		Billing:     billing,
		Payment:     NewPaymentService(repos.Payment, repos.Invoice, repos.Settings, deps.DB, deps.Notifier, deps.Logger),
		Coupon:      NewCouponService(repos.Coupon, repos.Contact),
		Report:      NewReportService(repos.Report, deps.Redis, deps.MinIO, deps.Bucket, deps.Logger),
		Settings:    NewSettingsService(repos.Settings),
		Contact:     NewContactService(repos.Contact),
		Product:     NewProductService(repos.Product),
	}
}

// newDocNumber 生成带前缀的单据号，ULID 保证唯一且可按时间排序
func newDocNumber(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, ulid.Make().String())
}
