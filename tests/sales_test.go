package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"barpos/internal/dto"
	"barpos/internal/model"
	"barpos/internal/repository"
	"barpos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubInventoryRepo is an in-memory InventoryRepository keyed by product ID.
// The conditional decrement is guarded by a mutex so concurrency tests
// exercise the same "loser matches zero rows" semantics as the SQL version.
type stubInventoryRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*model.Inventory
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{rows: make(map[uuid.UUID]*model.Inventory)}
}

func (r *stubInventoryRepo) Create(_ context.Context, _ *gorm.DB, inv *model.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.rows[inv.ProductID] = inv
	return nil
}

func (r *stubInventoryRepo) FindByProductID(_ context.Context, productID uuid.UUID) (*model.Inventory, error) {
	if inv := r.snapshot(productID); inv != nil {
		return inv, nil
	}
	return nil, errors.New("not found")
}

func (r *stubInventoryRepo) List(_ context.Context) ([]model.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Inventory, 0, len(r.rows))
	for _, inv := range r.rows {
		out = append(out, *inv)
	}
	return out, nil
}

func (r *stubInventoryRepo) SetQuantity(_ context.Context, productID uuid.UUID, quantity int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.rows[productID]
	if !ok {
		return 0, nil
	}
	inv.Quantity = quantity
	return 1, nil
}

func (r *stubInventoryRepo) LowStock(_ context.Context) ([]model.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Inventory
	for _, inv := range r.rows {
		if inv.Quantity <= inv.MinQuantity {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) DecrementStockTx(_ *gorm.DB, productID uuid.UUID, quantity int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.rows[productID]
	if !ok || inv.Quantity < quantity {
		return 0, nil
	}
	inv.Quantity -= quantity
	return 1, nil
}

func (r *stubInventoryRepo) QuantityTx(_ *gorm.DB, productID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.rows[productID]
	if !ok {
		return 0, errors.New("not found")
	}
	return inv.Quantity, nil
}

// snapshot returns a copy so callers never share mutable state with the stub.
func (r *stubInventoryRepo) snapshot(productID uuid.UUID) *model.Inventory {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.rows[productID]
	if !ok {
		return nil
	}
	cp := *inv
	return &cp
}

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

// stubBarrelRepo is an in-memory BarrelRepository with a movement ledger.
type stubBarrelRepo struct {
	mu        sync.Mutex
	barrels   map[uuid.UUID]*model.Barrel
	movements []model.BarrelMovement
}

func newStubBarrelRepo() *stubBarrelRepo {
	return &stubBarrelRepo{barrels: make(map[uuid.UUID]*model.Barrel)}
}

func (r *stubBarrelRepo) DB() *gorm.DB { return nil }

func (r *stubBarrelRepo) Create(_ context.Context, _ *gorm.DB, b *model.Barrel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.barrels[b.ID] = b
	return nil
}

func (r *stubBarrelRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Barrel, error) {
	if b := r.snapshot(id); b != nil {
		return b, nil
	}
	return nil, errors.New("not found")
}

func (r *stubBarrelRepo) List(_ context.Context, includeAll bool) ([]model.Barrel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Barrel, 0, len(r.barrels))
	for _, b := range r.barrels {
		if !includeAll && b.Status == model.BarrelStatusClosed {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *stubBarrelRepo) UpdateStatus(_ context.Context, _ *gorm.DB, id uuid.UUID, status model.BarrelStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.barrels[id]
	if !ok {
		return errors.New("not found")
	}
	b.Status = status
	return nil
}

func (r *stubBarrelRepo) DecrementVolumeTx(_ *gorm.DB, id uuid.UUID, volumeMl int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.barrels[id]
	if !ok || b.VolumeAvailableMl < volumeMl {
		return 0, nil
	}
	b.VolumeAvailableMl -= volumeMl
	return 1, nil
}

func (r *stubBarrelRepo) VolumeAvailableTx(_ *gorm.DB, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.barrels[id]
	if !ok {
		return 0, errors.New("not found")
	}
	return b.VolumeAvailableMl, nil
}

func (r *stubBarrelRepo) AdjustVolumeTx(_ *gorm.DB, id uuid.UUID, deltaMl int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.barrels[id]
	if !ok {
		return 0, nil
	}
	next := b.VolumeAvailableMl + deltaMl
	if next < 0 || next > b.VolumeTotalMl {
		return 0, nil
	}
	b.VolumeAvailableMl = next
	return 1, nil
}

func (r *stubBarrelRepo) CreateMovementTx(_ *gorm.DB, m *model.BarrelMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubBarrelRepo) ListMovements(_ context.Context, barrelID uuid.UUID) ([]model.BarrelMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.BarrelMovement
	for _, m := range r.movements {
		if m.BarrelID == barrelID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubBarrelRepo) snapshot(id uuid.UUID) *model.Barrel {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.barrels[id]
	if !ok {
		return nil
	}
	cp := *b
	return &cp
}

func (r *stubBarrelRepo) movementsOfType(barrelID uuid.UUID, movementType string) []model.BarrelMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.BarrelMovement
	for _, m := range r.movements {
		if m.BarrelID == barrelID && m.Type == movementType {
			out = append(out, m)
		}
	}
	return out
}

var _ repository.BarrelRepository = (*stubBarrelRepo)(nil)

// stubProductRepo resolves products with their stock associations attached,
// mirroring the Preload behavior of the GORM implementation.
type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
	inv      *stubInventoryRepo
	barrels  *stubBarrelRepo
}

func newStubProductRepo(inv *stubInventoryRepo, barrels *stubBarrelRepo) *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		inv:      inv,
		barrels:  barrels,
	}
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) Create(_ context.Context, _ *gorm.DB, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	p, ok := r.products[id]
	if !ok {
		r.mu.Unlock()
		return nil, errors.New("not found")
	}
	cp := *p
	r.mu.Unlock()

	cp.Inventory = r.inv.snapshot(cp.ID)
	if cp.BarrelID != nil {
		cp.Barrel = r.barrels.snapshot(*cp.BarrelID)
	}
	return &cp, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	r.mu.Lock()
	var found *model.Product
	for _, p := range r.products {
		if p.Barcode != nil && *p.Barcode == barcode && p.IsActive {
			found = p
			break
		}
	}
	r.mu.Unlock()
	if found == nil {
		return nil, errors.New("not found")
	}
	return r.FindByID(context.Background(), found.ID)
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return errors.New("not found")
	}
	p.IsActive = false
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return errors.New("not found")
	}
	p.IsActive = true
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo stores sales and assigns the IDs the database would generate.
type stubSaleRepo struct {
	mu         sync.Mutex
	sales      map[uuid.UUID]*model.Sale
	lastFilter dto.SaleFilter
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *s
	return &cp, nil
}

func (r *stubSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sales)
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubTicketRepo stores vouchers and resolves the sale join via stubSaleRepo.
type stubTicketRepo struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]*model.Ticket
	byQR    map[string]uuid.UUID
	sales   *stubSaleRepo
}

func newStubTicketRepo(sales *stubSaleRepo) *stubTicketRepo {
	return &stubTicketRepo{
		tickets: make(map[uuid.UUID]*model.Ticket),
		byQR:    make(map[string]uuid.UUID),
		sales:   sales,
	}
}

func (r *stubTicketRepo) CreateBatchTx(_ *gorm.DB, tickets []model.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range tickets {
		t := tickets[i]
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		t.CreatedAt = time.Now()
		cp := t
		r.tickets[t.ID] = &cp
		r.byQR[t.QRCode] = t.ID
	}
	return nil
}

func (r *stubTicketRepo) FindByQRCode(_ context.Context, qrCode string) (*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byQR[qrCode]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *r.tickets[id]
	return &cp, nil
}

func (r *stubTicketRepo) ListBySale(_ context.Context, saleID uuid.UUID) ([]model.Ticket, error) {
	sale, err := r.sales.FindByID(context.Background(), saleID)
	if err != nil {
		return nil, err
	}
	itemIDs := make(map[uuid.UUID]bool, len(sale.Items))
	for _, item := range sale.Items {
		itemIDs[item.ID] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Ticket
	for _, t := range r.tickets {
		if itemIDs[t.SaleItemID] {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) ListPendingByBarrel(_ context.Context, barrelID uuid.UUID) ([]model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Ticket
	for _, t := range r.tickets {
		if t.BarrelID == barrelID && t.Status == model.TicketStatusPending {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) Redeem(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok || t.Status != model.TicketStatusPending {
		return 0, nil
	}
	now := time.Now()
	t.Status = model.TicketStatusRedeemed
	t.RedeemedAt = &now
	return 1, nil
}

func (r *stubTicketRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickets)
}

var _ repository.TicketRepository = (*stubTicketRepo)(nil)

// ── Fixture helpers ───────────────────────────────────────────────────────────

type saleSvcStubs struct {
	products  *stubProductRepo
	inventory *stubInventoryRepo
	barrels   *stubBarrelRepo
	sales     *stubSaleRepo
	tickets   *stubTicketRepo
}

// buildSaleSvc wires the sale engine against in-memory stubs. The nil
// dispatcher skips the async receipt job; a nil repo DB makes the engine run
// its transaction body directly.
func buildSaleSvc() (service.SaleService, *saleSvcStubs) {
	inv := newStubInventoryRepo()
	barrels := newStubBarrelRepo()
	products := newStubProductRepo(inv, barrels)
	sales := newStubSaleRepo()
	tickets := newStubTicketRepo(sales)

	svc := service.NewSaleService(sales, products, inv, barrels, tickets, nil)
	return svc, &saleSvcStubs{
		products:  products,
		inventory: inv,
		barrels:   barrels,
		sales:     sales,
		tickets:   tickets,
	}
}

func seedUnitProduct(s *saleSvcStubs, name, price string, quantity int) *model.Product {
	p := &model.Product{
		ID:          uuid.New(),
		Name:        name,
		Price:       decimal.RequireFromString(price),
		CategoryID:  uuid.New(),
		UnitID:      uuid.New(),
		IsActive:    true,
		ProductType: model.ProductTypeUnit,
	}
	s.products.products[p.ID] = p
	inv := &model.Inventory{
		ID:        uuid.New(),
		ProductID: p.ID,
		Quantity:  quantity,
		Product:   p,
	}
	s.inventory.rows[p.ID] = inv
	return p
}

func seedBarrel(s *saleSvcStubs, name string, totalMl, availableMl, minResidueMl int) *model.Barrel {
	b := &model.Barrel{
		ID:                uuid.New(),
		Name:              name,
		VolumeTotalMl:     totalMl,
		VolumeAvailableMl: availableMl,
		MinResidueMl:      minResidueMl,
		Status:            model.BarrelStatusActive,
	}
	s.barrels.barrels[b.ID] = b
	return b
}

func seedFractionedProduct(s *saleSvcStubs, name, price string, barrel *model.Barrel, dispenseMl int) *model.Product {
	p := &model.Product{
		ID:                  uuid.New(),
		Name:                name,
		Price:               decimal.RequireFromString(price),
		CategoryID:          uuid.New(),
		UnitID:              uuid.New(),
		IsActive:            true,
		ProductType:         model.ProductTypeFractioned,
		VolumePerDispenseMl: &dispenseMl,
		BarrelID:            &barrel.ID,
	}
	s.products.products[p.ID] = p
	return p
}

func cartLine(p *model.Product, quantity int) dto.SaleItemRequest {
	return dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Quantity:  quantity,
		Price:     p.Price,
	}
}

// ── ProcessSale ───────────────────────────────────────────────────────────────

func TestProcessSale_UnitProduct(t *testing.T) {
	svc, stubs := buildSaleSvc()
	p := seedUnitProduct(stubs, "IPA Bottle 500ml", "10.50", 5)

	resp, err := svc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
		Items:         []dto.SaleItemRequest{cartLine(p, 3)},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	assert.Equal(t, "sale completed", resp.Message)
	assert.Equal(t, 0, resp.TicketsGenerated)
	assert.Equal(t, "COMPLETED", resp.Sale.Status)
	assert.True(t, resp.Sale.Total.Equal(decimal.RequireFromString("31.50")),
		"total = %s", resp.Sale.Total)
	require.Len(t, resp.Sale.Items, 1)
	assert.Equal(t, "IPA Bottle 500ml", resp.Sale.Items[0].Product)
	assert.Nil(t, resp.Sale.Items[0].VolumeDispensedMl)

	// Stock decremented and the sale persisted.
	assert.Equal(t, 2, stubs.inventory.snapshot(p.ID).Quantity)
	assert.Equal(t, 1, stubs.sales.count())
}

func TestProcessSale_FractionedIssuesTickets(t *testing.T) {
	svc, stubs := buildSaleSvc()
	barrel := seedBarrel(stubs, "Lager Keg 50L", 1000, 1000, 100)
	p := seedFractionedProduct(stubs, "Lager Pint", "8.00", barrel, 300)

	resp, err := svc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
		Items:         []dto.SaleItemRequest{cartLine(p, 2)},
		PaymentMethod: "debit",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TicketsGenerated)
	assert.Equal(t, 400, stubs.barrels.snapshot(barrel.ID).VolumeAvailableMl)

	require.Len(t, resp.Sale.Items, 1)
	require.NotNil(t, resp.Sale.Items[0].VolumeDispensedMl)
	assert.Equal(t, 600, *resp.Sale.Items[0].VolumeDispensedMl)

	// One ticket per unit sold, sequence 1..N, deterministic QR codes.
	require.Len(t, resp.Sale.Tickets, 2)
	saleID := resp.Sale.ID
	itemID := resp.Sale.Items[0].ID
	for i, ticket := range resp.Sale.Tickets {
		assert.Equal(t, i+1, ticket.Sequence)
		assert.Equal(t, 2, ticket.TotalTickets)
		assert.Equal(t, string(model.TicketStatusPending), ticket.Status)
		assert.Equal(t, fmt.Sprintf("%s-%s-%d", saleID, itemID, i+1), ticket.QRCode)
	}

	// The draw is recorded in the barrel ledger.
	saleMovements := stubs.barrels.movementsOfType(barrel.ID, model.BarrelMovementSale)
	require.Len(t, saleMovements, 1)
	assert.Equal(t, 600, saleMovements[0].VolumeMl)
	assert.Contains(t, saleMovements[0].Reference, saleID)
}

func TestProcessSale_MixedCart(t *testing.T) {
	svc, stubs := buildSaleSvc()
	bottled := seedUnitProduct(stubs, "Stout Bottle", "12.00", 10)
	barrel := seedBarrel(stubs, "IPA Keg", 2000, 2000, 200)
	draft := seedFractionedProduct(stubs, "IPA Pint", "9.00", barrel, 500)

	resp, err := svc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
		Items: []dto.SaleItemRequest{
			cartLine(bottled, 2),
			cartLine(draft, 3),
		},
		PaymentMethod: "credit",
	})
	require.NoError(t, err)

	// 2×12 + 3×9 = 51
	assert.True(t, resp.Sale.Total.Equal(decimal.RequireFromString("51")))
	assert.Equal(t, 3, resp.TicketsGenerated)
	assert.Equal(t, 8, stubs.inventory.snapshot(bottled.ID).Quantity)
	assert.Equal(t, 500, stubs.barrels.snapshot(barrel.ID).VolumeAvailableMl)
}

func TestProcessSale_DiscountApplied(t *testing.T) {
	svc, stubs := buildSaleSvc()
	p := seedUnitProduct(stubs, "Pale Ale", "10.00", 5)

	resp, err := svc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
		Items:         []dto.SaleItemRequest{cartLine(p, 3)},
		PaymentMethod: "cash",
		Discount:      decimal.RequireFromString("5.50"),
	})
	require.NoError(t, err)

	assert.True(t, resp.Sale.Subtotal.Equal(decimal.RequireFromString("30")))
	assert.True(t, resp.Sale.Total.Equal(decimal.RequireFromString("24.50")))
}

func TestProcessSale_DiscountExceedsSubtotal(t *testing.T) {
	svc, stubs := buildSaleSvc()
	p := seedUnitProduct(stubs, "Pale Ale", "10.00", 5)

	_, err := svc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
		Items:         []dto.SaleItemRequest{cartLine(p, 1)},
		PaymentMethod: "cash",
		Discount:      decimal.RequireFromString("10.01"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrDiscountExceedsSubtotal))
	assert.True(t, service.IsSaleRejection(err))

	// Nothing was written.
	assert.Equal(t, 0, stubs.sales.count())
	assert.Equal(t, 5, stubs.inventory.snapshot(p.ID).Quantity)
}

func TestProcessSale_InsufficientStockRejectsWholeCart(t *testing.T) {
	svc, stubs := buildSaleSvc()
	plenty := seedUnitProduct(stubs, "Water", "2.00", 100)
	scarce := seedUnitProduct(stubs, "Limited Batch", "20.00", 4)

	_, err := svc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
		Items: []dto.SaleItemRequest{
			cartLine(plenty, 1),
			cartLine(scarce, 10),
		},
		PaymentMethod: "cash",
	})
	require.Error(t, err)

	var stockErr *service.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Limited Batch", stockErr.Name)
	assert.Equal(t, 4, stockErr.Available)
	assert.Equal(t, 10, stockErr.Requested)
	assert.True(t, service.IsSaleRejection(err))

	// All-or-nothing: the valid line was not charged either.
	assert.Equal(t, 0, stubs.sales.count())
	assert.Equal(t, 100, stubs.inventory.snapshot(plenty.ID).Quantity)
	assert.Equal(t, 4, stubs.inventory.snapshot(scarce.ID).Quantity)
}

func TestProcessSale_InsufficientVolume(t *testing.T) {
	svc, stubs := buildSaleSvc()
	barrel := seedBarrel(stubs, "Almost Empty Keg", 1000, 250, 100)
	p := seedFractionedProduct(stubs, "Pint", "8.00", barrel, 300)

	_, err := svc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
		Items:         []dto.SaleItemRequest{cartLine(p, 1)},
		PaymentMethod: "cash",
	})
	require.Error(t, err)

	var volErr *service.InsufficientVolumeError
	require.True(t, errors.As(err, &volErr))
	assert.Equal(t, 250, volErr.AvailableMl)
	assert.Equal(t, 300, volErr.NeededMl)

	assert.Equal(t, 250, stubs.barrels.snapshot(barrel.ID).VolumeAvailableMl)
	assert.Equal(t, 0, stubs.tickets.count())
}

func TestProcessSale_LowVolumeBarrelStillSells(t *testing.T) {
	svc, stubs := buildSaleSvc()
	// 150ml left is below the 500ml warning threshold but fits one dispense.
	barrel := seedBarrel(stubs, "Last Call Keg", 1000, 150, 500)
	p := seedFractionedProduct(stubs, "Half Pint", "5.00", barrel, 150)

	resp, err := svc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
		Items:         []dto.SaleItemRequest{cartLine(p, 1)},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TicketsGenerated)
	assert.Equal(t, 0, stubs.barrels.snapshot(barrel.ID).VolumeAvailableMl)
}

func TestProcessSale_InactiveProduct(t *testing.T) {
	svc, stubs := buildSaleSvc()
	p := seedUnitProduct(stubs, "Seasonal Ale", "10.00", 5)
	p.IsActive = false

	_, err := svc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
		Items:         []dto.SaleItemRequest{cartLine(p, 1)},
		PaymentMethod: "cash",
	})
	require.Error(t, err)

	var inactiveErr *service.ProductInactiveError
	assert.True(t, errors.As(err, &inactiveErr))
}

func TestProcessSale_UnknownProduct(t *testing.T) {
	svc, _ := buildSaleSvc()

	_, err := svc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
		Items: []dto.SaleItemRequest{{
			ProductID: uuid.NewString(),
			Quantity:  1,
			Price:     decimal.RequireFromString("10"),
		}},
		PaymentMethod: "cash",
	})
	require.Error(t, err)

	var notFoundErr *service.ProductNotFoundError
	assert.True(t, errors.As(err, &notFoundErr))
}

func TestProcessSale_FractionedWithoutBarrel(t *testing.T) {
	svc, stubs := buildSaleSvc()
	dispense := 300
	p := &model.Product{
		ID:                  uuid.New(),
		Name:                "Orphan Draft",
		Price:               decimal.RequireFromString("8.00"),
		IsActive:            true,
		ProductType:         model.ProductTypeFractioned,
		VolumePerDispenseMl: &dispense,
		// BarrelID deliberately missing
	}
	stubs.products.products[p.ID] = p

	_, err := svc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
		Items:         []dto.SaleItemRequest{cartLine(p, 1)},
		PaymentMethod: "cash",
	})
	require.Error(t, err)

	var noBarrelErr *service.ProductNotLinkedToBarrelError
	assert.True(t, errors.As(err, &noBarrelErr))
}

func TestProcessSale_RequiresOperator(t *testing.T) {
	svc, stubs := buildSaleSvc()
	p := seedUnitProduct(stubs, "Pale Ale", "10.00", 5)

	_, err := svc.ProcessSale(context.Background(), uuid.Nil, dto.ProcessSaleRequest{
		Items:         []dto.SaleItemRequest{cartLine(p, 1)},
		PaymentMethod: "cash",
	})
	assert.True(t, errors.Is(err, service.ErrUnauthorized))
}

func TestProcessSale_ConcurrentSalesNeverOversell(t *testing.T) {
	svc, stubs := buildSaleSvc()
	p := seedUnitProduct(stubs, "Last Cases", "10.00", 5)

	// Two cashiers race for the same stock; only one qty=4 sale can fit.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
				Items:         []dto.SaleItemRequest{cartLine(p, 4)},
				PaymentMethod: "cash",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var stockErr *service.InsufficientStockError
			assert.True(t, errors.As(err, &stockErr), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, stubs.inventory.snapshot(p.ID).Quantity)
}

func TestProcessSale_ConcurrentDispensesNeverOverdraw(t *testing.T) {
	svc, stubs := buildSaleSvc()
	barrel := seedBarrel(stubs, "Contested Keg", 1000, 500, 0)
	p := seedFractionedProduct(stubs, "Pint", "8.00", barrel, 300)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
				Items:         []dto.SaleItemRequest{cartLine(p, 1)},
				PaymentMethod: "cash",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var volErr *service.InsufficientVolumeError
			assert.True(t, errors.As(err, &volErr), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 200, stubs.barrels.snapshot(barrel.ID).VolumeAvailableMl)
	assert.Equal(t, 1, stubs.tickets.count())
}

// ── Queries ───────────────────────────────────────────────────────────────────

func TestGetSale(t *testing.T) {
	svc, stubs := buildSaleSvc()

	p := seedUnitProduct(stubs, "Pale Ale", "10.00", 5)
	resp, err := svc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
		Items:         []dto.SaleItemRequest{cartLine(p, 2)},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	saleID := uuid.MustParse(resp.Sale.ID)
	got, err := svc.GetSale(context.Background(), saleID)
	require.NoError(t, err)
	assert.Equal(t, resp.Sale.ID, got.ID)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("20")))
}

func TestListSales_DefaultFilter(t *testing.T) {
	svc, stubs := buildSaleSvc()

	resp, err := svc.ListSales(context.Background(), dto.SaleFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 50, resp.Limit)
	assert.Equal(t, "COMPLETED", stubs.sales.lastFilter.Status)
}
