package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"github.com/stitchlabs/stitch-erp/internal/erp/errs"
	"github.com/stitchlabs/stitch-erp/internal/erp/testutil"
	"gorm.io/gorm"
)

func seedConfirmedSaleOrder(t *testing.T, db *gorm.DB, svcs *Services) *entity.SaleOrder {
	t.Helper()
	ctx := context.Background()
	customer := testutil.SeedContact(t, db, "开票客户", entity.ContactTypeCustomer)
	product := testutil.SeedProduct(t, db, "开票商品", 100, 50)

	so, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID: customer.ID,
		Lines:      []CreateSaleOrderLine{{ProductID: product.ID, Quantity: 2, UnitPrice: 100, TaxRate: 10}},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create sale order failed: %v", err)
	}
	if _, err := svcs.Sales.Confirm(ctx, so.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	so, _ = svcs.Sales.GetByID(ctx, so.ID)
	return so
}

func seedConfirmedPurchaseOrder(t *testing.T, db *gorm.DB, svcs *Services) *entity.PurchaseOrder {
	t.Helper()
	ctx := context.Background()
	vendor := testutil.SeedContact(t, db, "账单供应商", entity.ContactTypeVendor)
	product := testutil.SeedProduct(t, db, "进货商品", 40, 0)

	po, err := svcs.Procurement.Create(ctx, CreatePurchaseOrderRequest{
		VendorID: vendor.ID,
		Lines:    []CreatePurchaseOrderLine{{ProductID: product.ID, Quantity: 10, UnitPrice: 40}},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create purchase order failed: %v", err)
	}
	if _, err := svcs.Procurement.Confirm(ctx, po.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	po, _ = svcs.Procurement.GetByID(ctx, po.ID)
	return po
}

func TestGenerateInvoiceFromOrder(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	so := seedConfirmedSaleOrder(t, db, svcs)

	inv, err := svcs.Billing.GenerateInvoice(ctx, GenerateInvoiceRequest{SaleOrderID: so.ID})
	if err != nil {
		t.Fatalf("GenerateInvoice failed: %v", err)
	}

	// 金额逐项复制
	if inv.Subtotal != so.Subtotal || inv.TaxAmount != so.TaxAmount || inv.TotalAmount != so.TotalAmount {
		t.Errorf("invoice amounts %v/%v/%v, want %v/%v/%v",
			inv.Subtotal, inv.TaxAmount, inv.TotalAmount, so.Subtotal, so.TaxAmount, so.TotalAmount)
	}
	if inv.Status != entity.DocStatusUnpaid {
		t.Errorf("status = %s, want UNPAID", inv.Status)
	}
	if inv.PaidAmount != 0 {
		t.Errorf("paid_amount = %v, want 0", inv.PaidAmount)
	}

	// 缺省账期30天
	wantDue := time.Now().AddDate(0, 0, defaultDueDays)
	if inv.DueDate.Sub(wantDue) > time.Hour || wantDue.Sub(inv.DueDate) > time.Hour {
		t.Errorf("due_date = %v, want ~%v", inv.DueDate, wantDue)
	}
}

func TestGenerateInvoiceDuplicateRejected(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	so := seedConfirmedSaleOrder(t, db, svcs)

	if _, err := svcs.Billing.GenerateInvoice(ctx, GenerateInvoiceRequest{SaleOrderID: so.ID}); err != nil {
		t.Fatalf("first GenerateInvoice failed: %v", err)
	}

	_, err := svcs.Billing.GenerateInvoice(ctx, GenerateInvoiceRequest{SaleOrderID: so.ID})
	var dup *errs.DuplicateDocumentError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateDocumentError", err)
	}
}

func TestGenerateInvoiceDraftOrderRejected(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	customer := testutil.SeedContact(t, db, "草稿客户", entity.ContactTypeCustomer)
	product := testutil.SeedProduct(t, db, "草稿商品", 100, 10)
	so, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID: customer.ID,
		Lines:      []CreateSaleOrderLine{{ProductID: product.ID, Quantity: 1, UnitPrice: 100}},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = svcs.Billing.GenerateInvoice(ctx, GenerateInvoiceRequest{SaleOrderID: so.ID})
	var ise *errs.InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("err = %v, want InvalidStateError", err)
	}
}

func TestGenerateInvoiceDueDateFromPaymentTerm(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	pt, err := svcs.Contact.CreatePaymentTerm(ctx, CreatePaymentTermRequest{Name: "Net 45", Days: 45})
	if err != nil {
		t.Fatalf("CreatePaymentTerm failed: %v", err)
	}

	customer := testutil.SeedContact(t, db, "账期客户", entity.ContactTypeCustomer)
	product := testutil.SeedProduct(t, db, "账期商品", 100, 10)
	so, err := svcs.Sales.Create(ctx, CreateSaleOrderRequest{
		CustomerID:    customer.ID,
		PaymentTermID: &pt.ID,
		Lines:         []CreateSaleOrderLine{{ProductID: product.ID, Quantity: 1, UnitPrice: 100}},
	}, "test-user")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svcs.Sales.Confirm(ctx, so.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	inv, err := svcs.Billing.GenerateInvoice(ctx, GenerateInvoiceRequest{SaleOrderID: so.ID})
	if err != nil {
		t.Fatalf("GenerateInvoice failed: %v", err)
	}

	wantDue := time.Now().AddDate(0, 0, 45)
	if inv.DueDate.Sub(wantDue) > time.Hour || wantDue.Sub(inv.DueDate) > time.Hour {
		t.Errorf("due_date = %v, want ~%v", inv.DueDate, wantDue)
	}
}

func TestGenerateBillAndConfirmDraft(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	po := seedConfirmedPurchaseOrder(t, db, svcs)

	bill, err := svcs.Billing.GenerateBill(ctx, GenerateBillRequest{OrderID: po.ID, AsDraft: true})
	if err != nil {
		t.Fatalf("GenerateBill failed: %v", err)
	}
	if bill.Status != entity.DocStatusDraft {
		t.Errorf("status = %s, want DRAFT", bill.Status)
	}
	if bill.TotalAmount != po.TotalAmount {
		t.Errorf("bill total = %v, want %v", bill.TotalAmount, po.TotalAmount)
	}

	updated, err := svcs.Billing.UpdateBill(ctx, bill.ID, UpdateBillRequest{Confirm: true})
	if err != nil {
		t.Fatalf("UpdateBill failed: %v", err)
	}
	if updated.Status != entity.DocStatusUnpaid {
		t.Errorf("status = %s, want UNPAID after confirm", updated.Status)
	}

	// 已非草稿不可重复确认
	_, err = svcs.Billing.UpdateBill(ctx, bill.ID, UpdateBillRequest{Confirm: true})
	var ise *errs.InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("err = %v, want InvalidStateError", err)
	}
}

func TestDeleteBillWithPaymentsRejected(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	po := seedConfirmedPurchaseOrder(t, db, svcs)
	bill, err := svcs.Billing.GenerateBill(ctx, GenerateBillRequest{OrderID: po.ID})
	if err != nil {
		t.Fatalf("GenerateBill failed: %v", err)
	}

	if _, err := svcs.Payment.Register(ctx, RegisterPaymentRequest{
		Amount:       100,
		VendorBillID: &bill.ID,
	}, "test-user"); err != nil {
		t.Fatalf("Register payment failed: %v", err)
	}

	err = svcs.Billing.DeleteBill(ctx, bill.ID)
	var du *errs.DependencyInUseError
	if !errors.As(err, &du) {
		t.Fatalf("err = %v, want DependencyInUseError", err)
	}
}

func TestDeleteBillWithoutPayments(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	po := seedConfirmedPurchaseOrder(t, db, svcs)
	bill, err := svcs.Billing.GenerateBill(ctx, GenerateBillRequest{OrderID: po.ID})
	if err != nil {
		t.Fatalf("GenerateBill failed: %v", err)
	}

	if err := svcs.Billing.DeleteBill(ctx, bill.ID); err != nil {
		t.Fatalf("DeleteBill failed: %v", err)
	}

	_, err = svcs.Billing.GetBill(ctx, bill.ID)
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError after delete", err)
	}
}
