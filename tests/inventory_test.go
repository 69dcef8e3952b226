package tests

import (
	"context"
	"testing"

	"barpos/internal/dto"
	"barpos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInventorySvc() (service.InventoryService, *saleSvcStubs) {
	inv := newStubInventoryRepo()
	barrels := newStubBarrelRepo()
	products := newStubProductRepo(inv, barrels)
	svc := service.NewInventoryService(inv, products)
	return svc, &saleSvcStubs{products: products, inventory: inv, barrels: barrels}
}

func TestSetQuantity(t *testing.T) {
	svc, stubs := buildInventorySvc()
	p := seedUnitProduct(stubs, "Pale Ale", "10.00", 5)

	resp, err := svc.SetQuantity(context.Background(), p.ID, dto.SetQuantityRequest{Quantity: 42})
	require.NoError(t, err)
	assert.Equal(t, 42, resp.Quantity)
	assert.Equal(t, 42, stubs.inventory.snapshot(p.ID).Quantity)
}

func TestSetQuantity_FractionedProductRejected(t *testing.T) {
	svc, stubs := buildInventorySvc()
	barrel := seedBarrel(stubs, "Keg", 1000, 1000, 0)
	p := seedFractionedProduct(stubs, "Pint", "8.00", barrel, 300)

	_, err := svc.SetQuantity(context.Background(), p.ID, dto.SetQuantityRequest{Quantity: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "barrel")
}

func TestSetQuantity_UnknownProduct(t *testing.T) {
	svc, _ := buildInventorySvc()

	_, err := svc.SetQuantity(context.Background(), uuid.New(), dto.SetQuantityRequest{Quantity: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product not found")
}

func TestStockAlerts(t *testing.T) {
	svc, stubs := buildInventorySvc()

	low := seedUnitProduct(stubs, "Running Out", "10.00", 2)
	stubs.inventory.rows[low.ID].MinQuantity = 5

	fine := seedUnitProduct(stubs, "Well Stocked", "10.00", 50)
	stubs.inventory.rows[fine.ID].MinQuantity = 5

	alerts, err := svc.Alerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Running Out", alerts[0].Product)
	assert.Equal(t, 2, alerts[0].Quantity)
	assert.Equal(t, 5, alerts[0].MinQuantity)
}
