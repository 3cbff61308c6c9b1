package customers

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/printberry/printberry/internal/platform/httpx"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req UpsertCustomerRequest) (Customer, error) {
	if err := s.validate.Struct(req); err != nil {
		return Customer{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error())
	}
	return s.repo.Create(ctx, Customer{
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	})
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertCustomerRequest) (Customer, error) {
	if err := s.validate.Struct(req); err != nil {
		return Customer{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error())
	}
	err := s.repo.Update(ctx, id, Customer{
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		return Customer{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}
