package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"github.com/stitchlabs/stitch-erp/internal/erp/errs"
	"github.com/stitchlabs/stitch-erp/internal/erp/testutil"
)

func TestConfirmPurchaseOrderIncreasesStock(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	vendor := testutil.SeedContact(t, db, "供应商A", entity.ContactTypeVendor)
	product := testutil.SeedProduct(t, db, "面料卷", 50, 5)

	po, err := svcs.Procurement.Create(ctx, CreatePurchaseOrderRequest{
		VendorID: vendor.ID,
		Lines:    []CreatePurchaseOrderLine{{ProductID: product.ID, Quantity: 20, UnitPrice: 50}},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if po.Status != entity.POStatusDraft {
		t.Errorf("status = %s, want DRAFT", po.Status)
	}

	confirmed, err := svcs.Procurement.Confirm(ctx, po.ID)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if confirmed.Status != entity.POStatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", confirmed.Status)
	}

	var p entity.Product
	db.Where("id = ?", product.ID).First(&p)
	if p.Stock != 25 {
		t.Errorf("stock = %d, want 25 after receipt", p.Stock)
	}
}

func TestConfirmPurchaseOrderNotDraft(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	vendor := testutil.SeedContact(t, db, "供应商B", entity.ContactTypeVendor)
	product := testutil.SeedProduct(t, db, "辅料", 10, 0)

	po, err := svcs.Procurement.Create(ctx, CreatePurchaseOrderRequest{
		VendorID: vendor.ID,
		Lines:    []CreatePurchaseOrderLine{{ProductID: product.ID, Quantity: 5, UnitPrice: 10}},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svcs.Procurement.Confirm(ctx, po.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	_, err = svcs.Procurement.Confirm(ctx, po.ID)
	var ise *errs.InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("err = %v, want InvalidStateError", err)
	}
}

func TestCancelConfirmedPurchaseOrderRevertsStock(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	vendor := testutil.SeedContact(t, db, "供应商C", entity.ContactTypeVendor)
	product := testutil.SeedProduct(t, db, "拉链", 2, 0)

	po, err := svcs.Procurement.Create(ctx, CreatePurchaseOrderRequest{
		VendorID: vendor.ID,
		Lines:    []CreatePurchaseOrderLine{{ProductID: product.ID, Quantity: 30, UnitPrice: 2}},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svcs.Procurement.Confirm(ctx, po.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	if err := svcs.Procurement.Cancel(ctx, po.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	var p entity.Product
	db.Where("id = ?", product.ID).First(&p)
	if p.Stock != 0 {
		t.Errorf("stock = %d, want 0 after cancel", p.Stock)
	}

	reloaded, _ := svcs.Procurement.GetByID(ctx, po.ID)
	if reloaded.Status != entity.POStatusCancelled {
		t.Errorf("status = %s, want CANCELLED", reloaded.Status)
	}
}

func TestCancelConfirmedPurchaseOrderInsufficientStock(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	vendor := testutil.SeedContact(t, db, "供应商D", entity.ContactTypeVendor)
	product := testutil.SeedProduct(t, db, "纽扣", 1, 0)

	po, err := svcs.Procurement.Create(ctx, CreatePurchaseOrderRequest{
		VendorID: vendor.ID,
		Lines:    []CreatePurchaseOrderLine{{ProductID: product.ID, Quantity: 10, UnitPrice: 1}},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svcs.Procurement.Confirm(ctx, po.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	// 入库后的货已部分卖出，取消时无法全额扣回
	db.Model(&entity.Product{}).Where("id = ?", product.ID).Update("stock", 4)

	err = svcs.Procurement.Cancel(ctx, po.ID)
	var sse *errs.InsufficientStockError
	if !errors.As(err, &sse) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}

	// 回滚后状态与库存不变
	var p entity.Product
	db.Where("id = ?", product.ID).First(&p)
	if p.Stock != 4 {
		t.Errorf("stock = %d, want 4 after rollback", p.Stock)
	}
	reloaded, _ := svcs.Procurement.GetByID(ctx, po.ID)
	if reloaded.Status != entity.POStatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED after rollback", reloaded.Status)
	}
}
