package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RoyceAzure/lab/restaurant/internal/config"
	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db"
	"github.com/rs/zerolog/log"
)

type SeedService struct {
	menuRepo     db.IMenuRepository
	customerRepo db.ICustomerRepository
}

func NewSeedService(menuRepo db.IMenuRepository, customerRepo db.ICustomerRepository) *SeedService {
	return &SeedService{
		menuRepo:     menuRepo,
		customerRepo: customerRepo,
	}
}

// Seed 名稱已存在的資料會略過, 可重複執行
func (s *SeedService) Seed(ctx context.Context, cf *config.SeedConfig) error {
	if cf == nil {
		return nil
	}

	createdItems := 0
	for _, item := range cf.MenuItems {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		_, err := s.menuRepo.GetMenuItemByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, db.ErrRecordNotFound) {
			return fmt.Errorf("seed menu item %q: %w", name, err)
		}
		price, err := parseAmount(item.Price)
		if err != nil {
			return fmt.Errorf("seed menu item %q has invalid price %q: %w", name, item.Price, err)
		}
		if err := s.menuRepo.CreateMenuItem(ctx, &model.MenuItem{Name: name, Price: price}); err != nil {
			return fmt.Errorf("seed menu item %q: %w", name, err)
		}
		createdItems++
	}

	createdCustomers := 0
	for _, c := range cf.Customers {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		_, err := s.customerRepo.GetCustomerByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, db.ErrRecordNotFound) {
			return fmt.Errorf("seed customer %q: %w", name, err)
		}
		if err := s.customerRepo.CreateCustomer(ctx, &model.Customer{Name: name, ContactInfo: c.ContactInfo}); err != nil {
			return fmt.Errorf("seed customer %q: %w", name, err)
		}
		createdCustomers++
	}

	log.Info().Int("menu_items", createdItems).Int("customers", createdCustomers).Msg("seed data applied")
	return nil
}
