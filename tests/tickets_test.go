package tests

import (
	"context"
	"testing"
	"time"

	"barpos/internal/dto"
	"barpos/internal/model"
	"barpos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTicket(repo *stubTicketRepo, barrelID uuid.UUID, qr string) *model.Ticket {
	t := &model.Ticket{
		ID:           uuid.New(),
		SaleItemID:   uuid.New(),
		ProductID:    uuid.New(),
		BarrelID:     barrelID,
		Sequence:     1,
		TotalTickets: 1,
		Status:       model.TicketStatusPending,
		QRCode:       qr,
		CreatedAt:    time.Now(),
	}
	repo.tickets[t.ID] = t
	repo.byQR[t.QRCode] = t.ID
	return t
}

func TestRedeemTicket(t *testing.T) {
	repo := newStubTicketRepo(newStubSaleRepo())
	svc := service.NewTicketService(repo)
	seedTicket(repo, uuid.New(), "qr-ticket-1")

	resp, err := svc.Redeem(context.Background(), dto.RedeemTicketRequest{QRCode: "qr-ticket-1"})
	require.NoError(t, err)
	assert.Equal(t, string(model.TicketStatusRedeemed), resp.Status)
	require.NotNil(t, resp.RedeemedAt)
}

func TestRedeemTicket_OnlyOnce(t *testing.T) {
	repo := newStubTicketRepo(newStubSaleRepo())
	svc := service.NewTicketService(repo)
	seedTicket(repo, uuid.New(), "qr-ticket-2")

	_, err := svc.Redeem(context.Background(), dto.RedeemTicketRequest{QRCode: "qr-ticket-2"})
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), dto.RedeemTicketRequest{QRCode: "qr-ticket-2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already redeemed")
}

func TestRedeemTicket_UnknownCode(t *testing.T) {
	repo := newStubTicketRepo(newStubSaleRepo())
	svc := service.NewTicketService(repo)

	_, err := svc.Redeem(context.Background(), dto.RedeemTicketRequest{QRCode: "no-such-code"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListPendingByBarrel(t *testing.T) {
	repo := newStubTicketRepo(newStubSaleRepo())
	svc := service.NewTicketService(repo)
	barrelID := uuid.New()

	seedTicket(repo, barrelID, "qr-a")
	redeemed := seedTicket(repo, barrelID, "qr-b")
	now := time.Now()
	redeemed.Status = model.TicketStatusRedeemed
	redeemed.RedeemedAt = &now
	seedTicket(repo, uuid.New(), "qr-other-barrel")

	pending, err := svc.ListPendingByBarrel(context.Background(), barrelID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "qr-a", pending[0].QRCode)
}

// Checkout and the tap station share one voucher store: every ticket a
// fractional sale issues is redeemable exactly once.
func TestSaleTicketsAreRedeemableOnce(t *testing.T) {
	saleSvc, stubs := buildSaleSvc()
	ticketSvc := service.NewTicketService(stubs.tickets)

	barrel := seedBarrel(stubs, "Keg", 2000, 2000, 0)
	p := seedFractionedProduct(stubs, "Pint", "8.00", barrel, 500)

	resp, err := saleSvc.ProcessSale(context.Background(), uuid.New(), dto.ProcessSaleRequest{
		Items:         []dto.SaleItemRequest{cartLine(p, 2)},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	require.Len(t, resp.Sale.Tickets, 2)

	for _, ticket := range resp.Sale.Tickets {
		redeemed, err := ticketSvc.Redeem(context.Background(), dto.RedeemTicketRequest{QRCode: ticket.QRCode})
		require.NoError(t, err)
		assert.Equal(t, string(model.TicketStatusRedeemed), redeemed.Status)
	}

	_, err = ticketSvc.Redeem(context.Background(), dto.RedeemTicketRequest{QRCode: resp.Sale.Tickets[0].QRCode})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already redeemed")

	// Listing by sale shows the redeemed vouchers.
	saleTickets, err := ticketSvc.ListBySale(context.Background(), uuid.MustParse(resp.Sale.ID))
	require.NoError(t, err)
	assert.Len(t, saleTickets, 2)
}
