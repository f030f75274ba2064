package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/restaurant/internal/config"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db/dbtest"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	dao := dbtest.NewDao(t)
	menuRepo := db.NewMenuRepo(dao)
	customerRepo := db.NewCustomerRepo(dao)
	seeder := NewSeedService(menuRepo, customerRepo)
	ctx := context.Background()

	cf := &config.SeedConfig{
		MenuItems: []config.SeedMenuItem{{Name: "Tea", Price: "20"}, {Name: "Coffee", Price: "45.5"}, {Name: " "}},
		Customers: []config.SeedCustomer{{Name: "Alice", ContactInfo: "alice@example.com"}},
	}
	require.NoError(t, seeder.Seed(ctx, cf))
	require.NoError(t, seeder.Seed(ctx, cf))

	items, err := menuRepo.ListMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Tea", items[0].Name)

	customers, err := customerRepo.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)

	require.NoError(t, seeder.Seed(ctx, nil))
}

func TestSeedInvalidPrice(t *testing.T) {
	dao := dbtest.NewDao(t)
	seeder := NewSeedService(db.NewMenuRepo(dao), db.NewCustomerRepo(dao))
	err := seeder.Seed(context.Background(), &config.SeedConfig{
		MenuItems: []config.SeedMenuItem{{Name: "Tea", Price: "free"}},
	})
	require.Error(t, err)
}
