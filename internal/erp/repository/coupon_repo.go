package repository

import (
	"context"

	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) CreateOffer(ctx context.Context, offer *entity.DiscountOffer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *CouponRepository) GetOfferByID(ctx context.Context, id string) (*entity.DiscountOffer, error) {
	var offer entity.DiscountOffer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&offer).Error
	return &offer, err
}

// GetByCode 按券码查询，带折扣活动
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	var coupon entity.Coupon
	err := r.db.WithContext(ctx).Preload("Offer").Where("code = ?", code).First(&coupon).Error
	return &coupon, err
}

// CreateCoupons 批量生成优惠券
func (r *CouponRepository) CreateCoupons(ctx context.Context, coupons []entity.Coupon) error {
	return r.db.WithContext(ctx).Create(&coupons).Error
}
