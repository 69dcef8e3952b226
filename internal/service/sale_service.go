package service

import (
	"context"
	"fmt"

	"barpos/internal/dto"
	"barpos/internal/model"
	"barpos/internal/repository"
	"barpos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	ProcessSale(ctx context.Context, userID uuid.UUID, req dto.ProcessSaleRequest) (*dto.ProcessSaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo          repository.SaleRepository
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	barrelRepo    repository.BarrelRepository
	ticketRepo    repository.TicketRepository
	dispatcher    *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	barrelRepo repository.BarrelRepository,
	ticketRepo repository.TicketRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:          repo,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		barrelRepo:    barrelRepo,
		ticketRepo:    ticketRepo,
		dispatcher:    dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// resolvedLine carries a validated cart line into the write phase.
type resolvedLine struct {
	product   *model.Product
	quantity  int
	unitPrice decimal.Decimal
	subtotal  decimal.Decimal
	neededMl  int       // FRACTIONED only
	barrelID  uuid.UUID // FRACTIONED only
}

// ── ProcessSale ───────────────────────────────────────────────────────────────
// All-or-nothing checkout:
//   1. Validate every cart line before touching anything — a failure on any
//      line rejects the whole sale.
//   2. Compute subtotals and total (caller price is trusted; discount may
//      never exceed the subtotal sum).
//   3. Single ACID transaction: insert sale + items, issue tickets for
//      fractional lines, decrement inventory / barrel volume via conditional
//      atomic updates. A conditional update matching zero rows means another
//      sale won the race — the transaction rolls back with the matching
//      insufficiency error, so overselling is impossible.
//   4. (async) enqueue the receipt job, best-effort.

func (s *saleService) ProcessSale(ctx context.Context, userID uuid.UUID, req dto.ProcessSaleRequest) (*dto.ProcessSaleResponse, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	// 1. Pre-flight validation over the whole cart, outside the TX.
	resolved := make([]resolvedLine, 0, len(req.Items))
	subtotal := decimal.Zero

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		if !p.IsActive {
			return nil, &ProductInactiveError{Name: p.Name}
		}

		line := resolvedLine{
			product:   p,
			quantity:  item.Quantity,
			unitPrice: item.Price,
			subtotal:  item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}

		if p.IsFractioned() {
			if p.BarrelID == nil || p.Barrel == nil || p.VolumePerDispenseMl == nil {
				return nil, &ProductNotLinkedToBarrelError{Name: p.Name}
			}
			line.neededMl = item.Quantity * *p.VolumePerDispenseMl
			line.barrelID = *p.BarrelID
			if p.Barrel.VolumeAvailableMl < line.neededMl {
				return nil, &InsufficientVolumeError{
					Name:        p.Name,
					AvailableMl: p.Barrel.VolumeAvailableMl,
					NeededMl:    line.neededMl,
				}
			}
		} else {
			if p.Inventory == nil || p.Inventory.Quantity < item.Quantity {
				available := 0
				if p.Inventory != nil {
					available = p.Inventory.Quantity
				}
				return nil, &InsufficientStockError{
					Name:      p.Name,
					Available: available,
					Requested: item.Quantity,
				}
			}
		}

		subtotal = subtotal.Add(line.subtotal)
		resolved = append(resolved, line)
	}

	// 2. Totals. A discount larger than the cart subtotal is rejected rather
	// than producing a negative total.
	if req.Discount.GreaterThan(subtotal) {
		return nil, ErrDiscountExceedsSubtotal
	}
	total := subtotal.Sub(req.Discount)

	// 3. ACID transaction.
	var sale model.Sale
	var tickets []model.Ticket

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale = model.Sale{
			UserID:        userID,
			Total:         total,
			Discount:      req.Discount,
			PaymentMethod: req.PaymentMethod,
			Status:        "COMPLETED",
		}
		for _, line := range resolved {
			item := model.SaleItem{
				ProductID: line.product.ID,
				Quantity:  line.quantity,
				UnitPrice: line.unitPrice,
				Subtotal:  line.subtotal,
			}
			if line.product.IsFractioned() {
				ml := line.neededMl
				item.VolumeDispensedMl = &ml
			}
			sale.Items = append(sale.Items, item)
		}

		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		tickets = tickets[:0]
		for i, line := range resolved {
			saleItem := &sale.Items[i]

			if line.product.IsFractioned() {
				// Draw volume from the barrel; zero rows means a concurrent
				// sale drained it between validation and now.
				rows, err := s.barrelRepo.DecrementVolumeTx(tx, line.barrelID, line.neededMl)
				if err != nil {
					return err
				}
				if rows == 0 {
					available, _ := s.barrelRepo.VolumeAvailableTx(tx, line.barrelID)
					return &InsufficientVolumeError{
						Name:        line.product.Name,
						AvailableMl: available,
						NeededMl:    line.neededMl,
					}
				}

				actor := userID
				if err := s.barrelRepo.CreateMovementTx(tx, &model.BarrelMovement{
					BarrelID:  line.barrelID,
					Type:      model.BarrelMovementSale,
					VolumeMl:  line.neededMl,
					Reference: fmt.Sprintf("Sale %s", sale.ID),
					UserID:    &actor,
				}); err != nil {
					return err
				}

				// One ticket per unit sold: sequence 1..N, shared totalTickets,
				// QR derived from {saleID, saleItemID, sequence}.
				for seq := 1; seq <= line.quantity; seq++ {
					tickets = append(tickets, model.Ticket{
						SaleItemID:   saleItem.ID,
						ProductID:    line.product.ID,
						BarrelID:     line.barrelID,
						Sequence:     seq,
						TotalTickets: line.quantity,
						Status:       model.TicketStatusPending,
						QRCode:       fmt.Sprintf("%s-%s-%d", sale.ID, saleItem.ID, seq),
					})
				}
			} else {
				rows, err := s.inventoryRepo.DecrementStockTx(tx, line.product.ID, line.quantity)
				if err != nil {
					return err
				}
				if rows == 0 {
					available, _ := s.inventoryRepo.QuantityTx(tx, line.product.ID)
					return &InsufficientStockError{
						Name:      line.product.Name,
						Available: available,
						Requested: line.quantity,
					}
				}
			}
		}

		return s.ticketRepo.CreateBatchTx(tx, tickets)
	})
	if txErr != nil {
		if IsSaleRejection(txErr) {
			return nil, txErr
		}
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, txErr)
	}

	// 4. Async receipt job — fire & forget.
	if s.dispatcher != nil {
		payload := worker.ReceiptJobPayload{SaleID: sale.ID.String()}
		if req.CustomerEmail != nil && *req.CustomerEmail != "" {
			payload.CustomerEmail = *req.CustomerEmail
		}
		_ = s.dispatcher.EnqueueReceipt(ctx, payload)
	}

	resp := s.buildResponse(&sale, resolved, tickets, subtotal)
	return &dto.ProcessSaleResponse{
		Message:          "sale completed",
		Sale:             *resp,
		TicketsGenerated: len(tickets),
	}, nil
}

func (s *saleService) buildResponse(sale *model.Sale, resolved []resolvedLine, tickets []model.Ticket, subtotal decimal.Decimal) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for i, item := range sale.Items {
		unit := ""
		if u := resolved[i].product.Unit; u != nil {
			unit = u.Abbreviation
		}
		items = append(items, dto.SaleItemResponse{
			ID:                item.ID.String(),
			Product:           resolved[i].product.Name,
			Unit:              unit,
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
			Subtotal:          item.Subtotal,
			VolumeDispensedMl: item.VolumeDispensedMl,
		})
	}

	ticketResponses := make([]dto.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		ticketResponses = append(ticketResponses, ticketToResponse(&t))
	}

	return &dto.SaleResponse{
		ID:            sale.ID.String(),
		UserID:        sale.UserID.String(),
		Items:         items,
		Subtotal:      subtotal,
		Discount:      sale.Discount,
		Total:         sale.Total,
		PaymentMethod: sale.PaymentMethod,
		Status:        sale.Status,
		Tickets:       ticketResponses,
		CreatedAt:     sale.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func ticketToResponse(t *model.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:           t.ID.String(),
		SaleItemID:   t.SaleItemID.String(),
		ProductID:    t.ProductID.String(),
		BarrelID:     t.BarrelID.String(),
		Sequence:     t.Sequence,
		TotalTickets: t.TotalTickets,
		Status:       string(t.Status),
		QRCode:       t.QRCode,
	}
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

// ListSales returns a paginated list filtered by date and status.
// Default filter: today's completed sales.
func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Status == "" {
		filter.Status = "COMPLETED"
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for _, sale := range sales {
		data = append(data, *saleToResponse(&sale))
	}
	return &dto.SaleListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// saleToResponse maps a persisted sale (with preloaded associations).
func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	subtotal := decimal.Zero
	var tickets []dto.TicketResponse

	for _, item := range sale.Items {
		name, unit := "", ""
		if item.Product != nil {
			name = item.Product.Name
			if item.Product.Unit != nil {
				unit = item.Product.Unit.Abbreviation
			}
		}
		items = append(items, dto.SaleItemResponse{
			ID:                item.ID.String(),
			Product:           name,
			Unit:              unit,
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
			Subtotal:          item.Subtotal,
			VolumeDispensedMl: item.VolumeDispensedMl,
		})
		subtotal = subtotal.Add(item.Subtotal)
		for _, t := range item.Tickets {
			tickets = append(tickets, ticketToResponse(&t))
		}
	}

	cashier := ""
	if sale.User != nil {
		cashier = sale.User.Name
	}

	return &dto.SaleResponse{
		ID:            sale.ID.String(),
		UserID:        sale.UserID.String(),
		Cashier:       cashier,
		Items:         items,
		Subtotal:      subtotal,
		Discount:      sale.Discount,
		Total:         sale.Total,
		PaymentMethod: sale.PaymentMethod,
		Status:        sale.Status,
		Tickets:       tickets,
		CreatedAt:     sale.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
