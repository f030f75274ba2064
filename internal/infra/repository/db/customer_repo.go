package db

import (
	"context"

	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
)

type ICustomerRepository interface {
	CreateCustomer(ctx context.Context, customer *model.Customer) error
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	GetCustomerByID(ctx context.Context, id uint) (*model.Customer, error)
	GetCustomerByName(ctx context.Context, name string) (*model.Customer, error)
}

type CustomerRepo struct {
	db *DbDao
}

func NewCustomerRepo(db *DbDao) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (c *CustomerRepo) CreateCustomer(ctx context.Context, customer *model.Customer) error {
	return translateErr(c.db.WithContext(ctx).Create(customer).Error)
}

func (c *CustomerRepo) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := c.db.WithContext(ctx).Order("id").Find(&customers).Error
	return customers, translateErr(err)
}

func (c *CustomerRepo) GetCustomerByID(ctx context.Context, id uint) (*model.Customer, error) {
	var customer model.Customer
	err := c.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &customer, nil
}

func (c *CustomerRepo) GetCustomerByName(ctx context.Context, name string) (*model.Customer, error) {
	var customer model.Customer
	err := c.db.WithContext(ctx).Where("name = ?", name).First(&customer).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &customer, nil
}
