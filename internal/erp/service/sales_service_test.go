package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"github.com/stitchlabs/stitch-erp/internal/erp/errs"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
	"github.com/stitchlabs/stitch-erp/internal/erp/testutil"
	"github.com/stitchlabs/stitch-erp/internal/notify"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupServices(t *testing.T) (*gorm.DB, *Services) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svcs := NewServices(repos, Deps{
		DB:       db,
		Notifier: notify.New("", zap.NewNop()),
		Logger:   zap.NewNop(),
	})
	return db, svcs
}

func TestCreateSaleOrderTotals(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	customer := testutil.SeedContact(t, db, "客户A", entity.ContactTypeCustomer)
	product := testutil.SeedProduct(t, db, "棉T恤", 1000, 10)

	so, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID: customer.ID,
		Lines: []CreateSaleOrderLine{
			{ProductID: product.ID, Quantity: 2, UnitPrice: 1000, TaxRate: 10},
		},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if so.Status != entity.SOStatusDraft {
		t.Errorf("status = %s, want DRAFT", so.Status)
	}
	if so.Subtotal != 2000 {
		t.Errorf("subtotal = %v, want 2000", so.Subtotal)
	}
	if so.TaxAmount != 200 {
		t.Errorf("tax_amount = %v, want 200", so.TaxAmount)
	}
	if so.TotalAmount != 2200 {
		t.Errorf("total_amount = %v, want 2200", so.TotalAmount)
	}
	if len(so.Lines) != 1 || so.Lines[0].LineTotal != 2200 {
		t.Errorf("line_total = %v, want 2200", so.Lines[0].LineTotal)
	}
	if so.OrderNumber == "" {
		t.Error("order_number is empty")
	}
}

func TestCreateSaleOrderWithCoupon(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	customer := testutil.SeedContact(t, db, "客户B", entity.ContactTypeCustomer)
	product := testutil.SeedProduct(t, db, "牛仔裤", 1000, 10)
	offer := testutil.SeedOffer(t, db, "十周年", 10)
	testutil.SeedCoupon(t, db, offer.ID, "TENOFF", nil)

	so, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID: customer.ID,
		CouponCode: "TENOFF",
		Lines: []CreateSaleOrderLine{
			{ProductID: product.ID, Quantity: 1, UnitPrice: 1000, TaxRate: 0},
		},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// 10%折扣按小计计算
	if so.DiscountAmount != 100 {
		t.Errorf("discount_amount = %v, want 100", so.DiscountAmount)
	}
	if so.TotalAmount != 900 {
		t.Errorf("total_amount = %v, want 900", so.TotalAmount)
	}
	if so.CouponCode != "TENOFF" {
		t.Errorf("coupon_code = %q, want TENOFF", so.CouponCode)
	}

	// 创建时刻不核销
	var coupon entity.Coupon
	db.Where("code = ?", "TENOFF").First(&coupon)
	if coupon.Status != entity.CouponStatusUnused {
		t.Errorf("coupon status = %s, want UNUSED before confirm", coupon.Status)
	}
}

func TestCreateSaleOrderInvalidCouponIgnored(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	customer := testutil.SeedContact(t, db, "客户C", entity.ContactTypeCustomer)
	product := testutil.SeedProduct(t, db, "风衣", 500, 10)

	so, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID: customer.ID,
		CouponCode: "NO-SUCH-CODE",
		Lines: []CreateSaleOrderLine{
			{ProductID: product.ID, Quantity: 1, UnitPrice: 500, TaxRate: 0},
		},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// 无效券不报错，折扣为0，券码不落到订单上
	if so.DiscountAmount != 0 {
		t.Errorf("discount_amount = %v, want 0", so.DiscountAmount)
	}
	if so.CouponCode != "" {
		t.Errorf("coupon_code = %q, want empty", so.CouponCode)
	}
}

func TestCreateSaleOrderVendorRejected(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	vendor := testutil.SeedContact(t, db, "面料厂", entity.ContactTypeVendor)
	product := testutil.SeedProduct(t, db, "衬衫", 300, 10)

	_, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID: vendor.ID,
		Lines: []CreateSaleOrderLine{
			{ProductID: product.ID, Quantity: 1, UnitPrice: 300},
		},
	}, "test-user")

	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestConfirmSaleOrderAdjustsStock(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	customer := testutil.SeedContact(t, db, "客户D", entity.ContactTypeCustomer)
	product := testutil.SeedProduct(t, db, "卫衣", 400, 10)

	so, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID: customer.ID,
		Lines: []CreateSaleOrderLine{
			{ProductID: product.ID, Quantity: 3, UnitPrice: 400},
		},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	confirmed, err := svcs.Sales.Confirm(ctx, so.ID)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if confirmed.Status != entity.SOStatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", confirmed.Status)
	}

	var p entity.Product
	db.Where("id = ?", product.ID).First(&p)
	if p.Stock != 7 {
		t.Errorf("stock = %d, want 7", p.Stock)
	}

	// 重复确认失败
	_, err = svcs.Sales.Confirm(ctx, so.ID)
	var ise *errs.InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("second confirm err = %v, want InvalidStateError", err)
	}
}

func TestConfirmSaleOrderInsufficientStock(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	customer := testutil.SeedContact(t, db, "客户E", entity.ContactTypeCustomer)
	product := testutil.SeedProduct(t, db, "大衣", 2000, 1)

	so, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID: customer.ID,
		Lines: []CreateSaleOrderLine{
			{ProductID: product.ID, Quantity: 2, UnitPrice: 2000},
		},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = svcs.Sales.Confirm(ctx, so.ID)
	var sse *errs.InsufficientStockError
	if !errors.As(err, &sse) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if sse.Requested != 2 || sse.Available != 1 {
		t.Errorf("requested=%d available=%d, want 2/1", sse.Requested, sse.Available)
	}

	// 整体回滚：库存和状态都不变
	var p entity.Product
	db.Where("id = ?", product.ID).First(&p)
	if p.Stock != 1 {
		t.Errorf("stock = %d, want 1 after rollback", p.Stock)
	}
	reloaded, _ := svcs.Sales.GetByID(ctx, so.ID)
	if reloaded.Status != entity.SOStatusDraft {
		t.Errorf("status = %s, want DRAFT after rollback", reloaded.Status)
	}
}

func TestConfirmConsumesCouponOnce(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	customer := testutil.SeedContact(t, db, "客户F", entity.ContactTypeCustomer)
	product := testutil.SeedProduct(t, db, "夹克", 800, 100)
	offer := testutil.SeedOffer(t, db, "夏促", 20)
	testutil.SeedCoupon(t, db, offer.ID, "SUMMER20", nil)

	// 两张草稿订单引用同一张券
	orderA, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID: customer.ID,
		CouponCode: "SUMMER20",
		Lines:      []CreateSaleOrderLine{{ProductID: product.ID, Quantity: 1, UnitPrice: 800}},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create A failed: %v", err)
	}
	orderB, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID: customer.ID,
		CouponCode: "SUMMER20",
		Lines:      []CreateSaleOrderLine{{ProductID: product.ID, Quantity: 1, UnitPrice: 800}},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create B failed: %v", err)
	}

	if _, err := svcs.Sales.Confirm(ctx, orderA.ID); err != nil {
		t.Fatalf("Confirm A failed: %v", err)
	}

	var coupon entity.Coupon
	db.Where("code = ?", "SUMMER20").First(&coupon)
	if coupon.Status != entity.CouponStatusUsed {
		t.Errorf("coupon status = %s, want USED", coupon.Status)
	}
	if coupon.UsedAt == nil {
		t.Error("used_at not set")
	}

	// 后确认的订单不能再核销同一张券，且整体回滚
	_, err = svcs.Sales.Confirm(ctx, orderB.ID)
	var ise *errs.InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("Confirm B err = %v, want InvalidStateError", err)
	}
	var p entity.Product
	db.Where("id = ?", product.ID).First(&p)
	if p.Stock != 99 {
		t.Errorf("stock = %d, want 99 after B rollback", p.Stock)
	}
}

func TestConfirmWithAutomaticInvoicing(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	if _, err := svcs.Settings.Update(ctx, UpdateSettingsRequest{
		AutomaticInvoicing: boolPtr(true),
	}); err != nil {
		t.Fatalf("Update settings failed: %v", err)
	}

	customer := testutil.SeedContact(t, db, "客户G", entity.ContactTypeCustomer)
	product := testutil.SeedProduct(t, db, "毛衣", 600, 5)

	so, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID: customer.ID,
		Lines:      []CreateSaleOrderLine{{ProductID: product.ID, Quantity: 1, UnitPrice: 600, TaxRate: 5}},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svcs.Sales.Confirm(ctx, so.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	var inv entity.CustomerInvoice
	if err := db.Where("order_id = ?", so.ID).First(&inv).Error; err != nil {
		t.Fatalf("auto invoice not created: %v", err)
	}
	if inv.Status != entity.DocStatusUnpaid {
		t.Errorf("invoice status = %s, want UNPAID", inv.Status)
	}
	if inv.TotalAmount != so.TotalAmount {
		t.Errorf("invoice total = %v, want %v", inv.TotalAmount, so.TotalAmount)
	}
}

func TestCancelSaleOrder(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	customer := testutil.SeedContact(t, db, "客户H", entity.ContactTypeCustomer)
	product := testutil.SeedProduct(t, db, "短裤", 200, 10)

	so, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID: customer.ID,
		Lines:      []CreateSaleOrderLine{{ProductID: product.ID, Quantity: 4, UnitPrice: 200}},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svcs.Sales.Confirm(ctx, so.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	if err := svcs.Sales.Cancel(ctx, so.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	// 已确认订单取消后回补库存
	var p entity.Product
	db.Where("id = ?", product.ID).First(&p)
	if p.Stock != 10 {
		t.Errorf("stock = %d, want 10 after cancel", p.Stock)
	}

	reloaded, _ := svcs.Sales.GetByID(ctx, so.ID)
	if reloaded.Status != entity.SOStatusCancelled {
		t.Errorf("status = %s, want CANCELLED", reloaded.Status)
	}

	// 重复取消幂等，库存不重复回补
	if err := svcs.Sales.Cancel(ctx, so.ID); err != nil {
		t.Fatalf("second Cancel failed: %v", err)
	}
	db.Where("id = ?", product.ID).First(&p)
	if p.Stock != 10 {
		t.Errorf("stock = %d, want 10 after idempotent cancel", p.Stock)
	}
}

func TestCancelPaidOrderRejected(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	customer := testutil.SeedContact(t, db, "客户I", entity.ContactTypeCustomer)
	product := testutil.SeedProduct(t, db, "外套", 1500, 10)

	so, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID: customer.ID,
		Lines:      []CreateSaleOrderLine{{ProductID: product.ID, Quantity: 1, UnitPrice: 1500}},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svcs.Sales.Confirm(ctx, so.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	db.Model(&entity.SaleOrder{}).Where("id = ?", so.ID).Update("status", entity.SOStatusPaid)

	err = svcs.Sales.Cancel(ctx, so.ID)
	var ise *errs.InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("err = %v, want InvalidStateError", err)
	}
}

func boolPtr(b bool) *bool { return &b }

func TestCancelFailsWhenProductDeleted(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	customer := testutil.SeedContact(t, db, "客户M", entity.ContactTypeCustomer)
	product := testutil.SeedProduct(t, db, "风衣", 800, 10)

	so, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID: customer.ID,
		Lines:      []CreateSaleOrderLine{{ProductID: product.ID, Quantity: 2, UnitPrice: 800}},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svcs.Sales.Confirm(ctx, so.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	// 商品被软删后回补无处可去，取消应当失败而非静默丢库存
	if err := db.Model(&entity.Product{}).Where("id = ?", product.ID).
		Update("deleted_at", time.Now()).Error; err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	err = svcs.Sales.Cancel(ctx, so.ID)
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Cancel error = %v, want NotFoundError", err)
	}

	// 整个事务回滚，订单仍是已确认
	reloaded, _ := svcs.Sales.GetByID(ctx, so.ID)
	if reloaded.Status != entity.SOStatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", reloaded.Status)
	}
}
