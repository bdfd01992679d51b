package service

import (
	"context"
	"testing"
	"time"

	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"github.com/stitchlabs/stitch-erp/internal/erp/testutil"
)

func TestCreateOfferWindowInclusive(t *testing.T) {
	_, svcs := setupServices(t)
	ctx := context.Background()

	offer, err := svcs.Coupon.CreateOffer(ctx, CreateOfferRequest{
		Name:               "秋季促销",
		DiscountPercentage: 15,
		StartDate:          "2026-09-01",
		EndDate:            "2026-09-30",
	})
	if err != nil {
		t.Fatalf("CreateOffer failed: %v", err)
	}

	// 结束日含当天
	lastMoment := time.Date(2026, 9, 30, 23, 0, 0, 0, time.UTC)
	if offer.EndDate.Before(lastMoment) {
		t.Errorf("end_date = %v, should cover the whole last day", offer.EndDate)
	}
}

func TestCreateOfferEndBeforeStart(t *testing.T) {
	_, svcs := setupServices(t)
	ctx := context.Background()

	_, err := svcs.Coupon.CreateOffer(ctx, CreateOfferRequest{
		Name:               "倒置窗口",
		DiscountPercentage: 10,
		StartDate:          "2026-09-30",
		EndDate:            "2026-09-01",
	})
	if err == nil {
		t.Fatal("expected error for end before start")
	}
}

func TestGenerateCouponsByCount(t *testing.T) {
	_, svcs := setupServices(t)
	ctx := context.Background()

	offer := mustCreateOffer(t, svcs, 10)

	coupons, err := svcs.Coupon.GenerateCoupons(ctx, GenerateCouponsRequest{
		OfferID: offer.ID,
		Count:   5,
	})
	if err != nil {
		t.Fatalf("GenerateCoupons failed: %v", err)
	}
	if len(coupons) != 5 {
		t.Fatalf("generated %d coupons, want 5", len(coupons))
	}

	seen := map[string]bool{}
	for _, c := range coupons {
		if c.Status != entity.CouponStatusUnused {
			t.Errorf("coupon status = %s, want UNUSED", c.Status)
		}
		if c.ContactID != nil {
			t.Error("count-based coupon should not be customer-restricted")
		}
		if seen[c.Code] {
			t.Errorf("duplicate code %s", c.Code)
		}
		seen[c.Code] = true
	}
}

func TestGenerateCouponsPerContact(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	offer := mustCreateOffer(t, svcs, 10)
	alice := testutil.SeedContact(t, db, "Alice", entity.ContactTypeCustomer)
	bob := testutil.SeedContact(t, db, "Bob", entity.ContactTypeCustomer)

	coupons, err := svcs.Coupon.GenerateCoupons(ctx, GenerateCouponsRequest{
		OfferID:    offer.ID,
		ContactIDs: []string{alice.ID, bob.ID},
	})
	if err != nil {
		t.Fatalf("GenerateCoupons failed: %v", err)
	}
	if len(coupons) != 2 {
		t.Fatalf("generated %d coupons, want 2", len(coupons))
	}
	for _, c := range coupons {
		if c.ContactID == nil {
			t.Error("per-contact coupon missing contact_id")
		}
	}
}

func TestValidateCoupon(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	offer := testutil.SeedOffer(t, db, "当前活动", 25)
	alice := testutil.SeedContact(t, db, "AliceV", entity.ContactTypeCustomer)
	bob := testutil.SeedContact(t, db, "BobV", entity.ContactTypeCustomer)

	testutil.SeedCoupon(t, db, offer.ID, "OPEN25", nil)
	testutil.SeedCoupon(t, db, offer.ID, "ALICE25", &alice.ID)

	used := testutil.SeedCoupon(t, db, offer.ID, "USED25", nil)
	db.Model(used).Updates(map[string]interface{}{"status": entity.CouponStatusUsed})

	expired := testutil.SeedCoupon(t, db, offer.ID, "OLD25", nil)
	past := time.Now().Add(-time.Hour)
	db.Model(expired).Update("expiration_date", past)

	staleOffer := testutil.SeedOffer(t, db, "过期活动", 5)
	db.Model(staleOffer).Updates(map[string]interface{}{
		"start_date": time.Now().Add(-48 * time.Hour),
		"end_date":   time.Now().Add(-24 * time.Hour),
	})
	testutil.SeedCoupon(t, db, staleOffer.ID, "STALE5", nil)

	cases := []struct {
		name       string
		code       string
		customerID string
		wantValid  bool
	}{
		{"valid open coupon", "OPEN25", "", true},
		{"valid restricted coupon", "ALICE25", alice.ID, true},
		{"wrong customer", "ALICE25", bob.ID, false},
		{"already used", "USED25", "", false},
		{"expired coupon", "OLD25", "", false},
		{"offer window closed", "STALE5", "", false},
		{"unknown code", "NOPE", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svcs.Coupon.Validate(ctx, ValidateCouponRequest{
				Code:       tc.code,
				CustomerID: tc.customerID,
			})
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if result.Valid != tc.wantValid {
				t.Errorf("valid = %v (reason %q), want %v", result.Valid, result.Reason, tc.wantValid)
			}
			if tc.wantValid && result.DiscountPercentage != 25 {
				t.Errorf("discount = %v, want 25", result.DiscountPercentage)
			}
		})
	}
}

func mustCreateOffer(t *testing.T, svcs *Services, pct float64) *entity.DiscountOffer {
	t.Helper()
	today := time.Now().Format("2006-01-02")
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	offer, err := svcs.Coupon.CreateOffer(context.Background(), CreateOfferRequest{
		Name:               "测试活动",
		DiscountPercentage: pct,
		StartDate:          today,
		EndDate:            tomorrow,
	})
	if err != nil {
		t.Fatalf("CreateOffer failed: %v", err)
	}
	return offer
}
