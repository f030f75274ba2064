package service

import (
	"context"

	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/restaurant/internal/pkg/apperr"
)

type ICustomerService interface {
	ListCustomers(ctx context.Context) ([]model.Customer, error)
}

type CustomerService struct {
	customerRepo db.ICustomerRepository
}

func NewCustomerService(customerRepo db.ICustomerRepository) ICustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

func (c *CustomerService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	customers, err := c.customerRepo.ListCustomers(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.PersistenceCode, err, "Failed to load customers.")
	}
	return customers, nil
}
