package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"github.com/stitchlabs/stitch-erp/internal/erp/errs"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
	"gorm.io/gorm"
)

type CouponService struct {
	repo        *repository.CouponRepository
	contactRepo *repository.ContactRepository
}

func NewCouponService(repo *repository.CouponRepository, contactRepo *repository.ContactRepository) *CouponService {
	return &CouponService{repo: repo, contactRepo: contactRepo}
}

type CreateOfferRequest struct {
	Name               string  `json:"name" binding:"required"`
	DiscountPercentage float64 `json:"discount_percentage" binding:"required,gt=0,lte=100"`
	StartDate          string  `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate            string  `json:"end_date" binding:"required"`
	AvailableOn        string  `json:"available_on"`
}

// CreateOffer 创建折扣活动
func (s *CouponService) CreateOffer(ctx context.Context, req CreateOfferRequest) (*entity.DiscountOffer, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, &errs.ValidationError{Field: "start_date", Message: "日期格式应为 YYYY-MM-DD"}
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, &errs.ValidationError{Field: "end_date", Message: "日期格式应为 YYYY-MM-DD"}
	}
	if end.Before(start) {
		return nil, &errs.ValidationError{Field: "end_date", Message: "结束日期不能早于开始日期"}
	}

	offer := &entity.DiscountOffer{
		Name:               req.Name,
		DiscountPercentage: req.DiscountPercentage,
		StartDate:          start,
		EndDate:            end.Add(24*time.Hour - time.Second), // 含当天
		AvailableOn:        req.AvailableOn,
	}
	if err := s.repo.CreateOffer(ctx, offer); err != nil {
		return nil, fmt.Errorf("创建折扣活动失败: %w", err)
	}
	return offer, nil
}

type GenerateCouponsRequest struct {
	OfferID        string   `json:"offer_id" binding:"required"`
	Count          int      `json:"count"`
	ContactIDs     []string `json:"contact_ids"`
	ExpirationDate *string  `json:"expiration_date"` // YYYY-MM-DD
}

// GenerateCoupons 批量生成优惠券
// 指定 contact_ids 时每个客户一张限定券，否则生成 count 张不限客户的券
func (s *CouponService) GenerateCoupons(ctx context.Context, req GenerateCouponsRequest) ([]entity.Coupon, error) {
	offer, err := s.repo.GetOfferByID(ctx, req.OfferID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &errs.NotFoundError{Entity: "折扣活动", ID: req.OfferID}
		}
		return nil, err
	}

	var expiration *time.Time
	if req.ExpirationDate != nil && *req.ExpirationDate != "" {
		t, err := time.Parse("2006-01-02", *req.ExpirationDate)
		if err != nil {
			return nil, &errs.ValidationError{Field: "expiration_date", Message: "日期格式应为 YYYY-MM-DD"}
		}
		expiration = &t
	}

	var coupons []entity.Coupon
	if len(req.ContactIDs) > 0 {
		for _, contactID := range req.ContactIDs {
			if _, err := s.contactRepo.GetByID(ctx, contactID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, &errs.NotFoundError{Entity: "客户", ID: contactID}
				}
				return nil, err
			}
			cid := contactID
			coupons = append(coupons, entity.Coupon{
				Code:            newCouponCode(),
				DiscountOfferID: offer.ID,
				ContactID:       &cid,
				ExpirationDate:  expiration,
				Status:          entity.CouponStatusUnused,
			})
		}
	} else {
		if req.Count <= 0 {
			return nil, &errs.ValidationError{Field: "count", Message: "数量必须大于0"}
		}
		for i := 0; i < req.Count; i++ {
			coupons = append(coupons, entity.Coupon{
				Code:            newCouponCode(),
				DiscountOfferID: offer.ID,
				ExpirationDate:  expiration,
				Status:          entity.CouponStatusUnused,
			})
		}
	}

	if err := s.repo.CreateCoupons(ctx, coupons); err != nil {
		return nil, fmt.Errorf("生成优惠券失败: %w", err)
	}
	return coupons, nil
}

// newCouponCode 随机券码，唯一性由 code 列的唯一索引兜底
func newCouponCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

type ValidateCouponRequest struct {
	Code       string `json:"code" binding:"required"`
	CustomerID string `json:"customer_id"`
}

// ValidationResult 校验结果
type ValidationResult struct {
	Valid              bool    `json:"valid"`
	Reason             string  `json:"reason,omitempty"`
	DiscountPercentage float64 `json:"discount_percentage,omitempty"`
}

// Validate 结账前的只读校验
// 仅供前置提示，真正的核销发生在订单确认时刻
func (s *CouponService) Validate(ctx context.Context, req ValidateCouponRequest) (*ValidationResult, error) {
	coupon, err := s.repo.GetByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationResult{Valid: false, Reason: "优惠券不存在"}, nil
		}
		return nil, err
	}

	now := time.Now()
	switch {
	case coupon.Status == entity.CouponStatusUsed:
		return &ValidationResult{Valid: false, Reason: "优惠券已使用"}, nil
	case coupon.ExpirationDate != nil && coupon.ExpirationDate.Before(now):
		return &ValidationResult{Valid: false, Reason: "优惠券已过期"}, nil
	case coupon.Offer == nil || now.Before(coupon.Offer.StartDate) || now.After(coupon.Offer.EndDate):
		return &ValidationResult{Valid: false, Reason: "不在活动有效期内"}, nil
	case coupon.ContactID != nil && *coupon.ContactID != req.CustomerID:
		return &ValidationResult{Valid: false, Reason: "优惠券仅限指定客户使用"}, nil
	}

	return &ValidationResult{
		Valid:              true,
		DiscountPercentage: coupon.Offer.DiscountPercentage,
	}, nil
}
