package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"github.com/stitchlabs/stitch-erp/internal/erp/errs"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
	"gorm.io/gorm"
)

type ProductService struct {
	repo *repository.ProductRepository
}

func NewProductService(repo *repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

type CreateProductRequest struct {
	Name       string  `json:"name" binding:"required"`
	Category   string  `json:"category" binding:"omitempty,oneof=TOPS BOTTOMS OUTERWEAR FOOTWEAR ACCESSORY"`
	Material   string  `json:"material" binding:"omitempty,oneof=COTTON LINEN WOOL DENIM SYNTHETIC"`
	SalesPrice float64 `json:"sales_price" binding:"gte=0"`
	Stock      int     `json:"stock" binding:"gte=0"`
	Published  bool    `json:"published"`
}

func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*entity.Product, error) {
	category := req.Category
	if category == "" {
		category = entity.CategoryTops
	}
	p := &entity.Product{
		Name:       req.Name,
		Category:   category,
		Material:   req.Material,
		SalesPrice: req.SalesPrice,
		Stock:      req.Stock,
		Published:  req.Published,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("创建商品失败: %w", err)
	}
	return p, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &errs.NotFoundError{Entity: "商品", ID: id}
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, params repository.ProductListParams) ([]entity.Product, int64, error) {
	return s.repo.List(ctx, params)
}
