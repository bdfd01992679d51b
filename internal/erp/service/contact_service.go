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

type ContactService struct {
	repo *repository.ContactRepository
}

func NewContactService(repo *repository.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

type CreateContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"omitempty,oneof=CUSTOMER VENDOR BOTH"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

func (s *ContactService) Create(ctx context.Context, req CreateContactRequest) (*entity.Contact, error) {
	contactType := req.Type
	if contactType == "" {
		contactType = entity.ContactTypeCustomer
	}
	contact := &entity.Contact{
		Name:    req.Name,
		Type:    contactType,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		Country: req.Country,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("创建联系人失败: %w", err)
	}
	return contact, nil
}

func (s *ContactService) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &errs.NotFoundError{Entity: "联系人", ID: id}
		}
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) List(ctx context.Context, params repository.ContactListParams) ([]entity.Contact, int64, error) {
	return s.repo.List(ctx, params)
}

// --- Payment Term ---

type CreatePaymentTermRequest struct {
	Name string `json:"name" binding:"required"`
	Days int    `json:"days" binding:"required,gt=0"`
}

func (s *ContactService) CreatePaymentTerm(ctx context.Context, req CreatePaymentTermRequest) (*entity.PaymentTerm, error) {
	pt := &entity.PaymentTerm{Name: req.Name, Days: req.Days}
	if err := s.repo.CreatePaymentTerm(ctx, pt); err != nil {
		return nil, fmt.Errorf("创建付款条件失败: %w", err)
	}
	return pt, nil
}

func (s *ContactService) ListPaymentTerms(ctx context.Context) ([]entity.PaymentTerm, error) {
	return s.repo.ListPaymentTerms(ctx)
}

// DeletePaymentTerm 删除付款条件，被订单引用时拒绝
func (s *ContactService) DeletePaymentTerm(ctx context.Context, id string) error {
	if _, err := s.repo.GetPaymentTermByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &errs.NotFoundError{Entity: "付款条件", ID: id}
		}
		return err
	}
	count, err := s.repo.CountOrdersByPaymentTerm(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &errs.DependencyInUseError{Message: "付款条件已被订单引用，不能删除"}
	}
	return s.repo.DeletePaymentTerm(ctx, id)
}
