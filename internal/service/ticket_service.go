package service

import (
	"context"
	"errors"

	"barpos/internal/dto"
	"barpos/internal/model"
	"barpos/internal/repository"

	"github.com/google/uuid"
)

// TicketService handles pickup voucher lookup and redemption.
// Redemption is one-way and race-safe: the PENDING → REDEEMED flip is a
// conditional update, so presenting the same QR code twice fails the second
// time even under concurrent scans.
type TicketService interface {
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]dto.TicketDetailResponse, error)
	ListPendingByBarrel(ctx context.Context, barrelID uuid.UUID) ([]dto.TicketDetailResponse, error)
	Redeem(ctx context.Context, req dto.RedeemTicketRequest) (*dto.TicketDetailResponse, error)
}

type ticketService struct {
	repo repository.TicketRepository
}

func NewTicketService(repo repository.TicketRepository) TicketService {
	return &ticketService{repo: repo}
}

func (s *ticketService) ListBySale(ctx context.Context, saleID uuid.UUID) ([]dto.TicketDetailResponse, error) {
	tickets, err := s.repo.ListBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return ticketsToDetail(tickets), nil
}

func (s *ticketService) ListPendingByBarrel(ctx context.Context, barrelID uuid.UUID) ([]dto.TicketDetailResponse, error) {
	tickets, err := s.repo.ListPendingByBarrel(ctx, barrelID)
	if err != nil {
		return nil, err
	}
	return ticketsToDetail(tickets), nil
}

func (s *ticketService) Redeem(ctx context.Context, req dto.RedeemTicketRequest) (*dto.TicketDetailResponse, error) {
	ticket, err := s.repo.FindByQRCode(ctx, req.QRCode)
	if err != nil {
		return nil, errors.New("ticket not found")
	}
	if ticket.Status == model.TicketStatusRedeemed {
		return nil, errors.New("ticket already redeemed")
	}

	rows, err := s.repo.Redeem(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Lost the race against a concurrent scan of the same code.
		return nil, errors.New("ticket already redeemed")
	}

	redeemed, err := s.repo.FindByQRCode(ctx, req.QRCode)
	if err != nil {
		return nil, err
	}
	resp := ticketToDetail(redeemed)
	return &resp, nil
}

func ticketsToDetail(tickets []model.Ticket) []dto.TicketDetailResponse {
	out := make([]dto.TicketDetailResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, ticketToDetail(&tickets[i]))
	}
	return out
}

func ticketToDetail(t *model.Ticket) dto.TicketDetailResponse {
	resp := dto.TicketDetailResponse{
		ID:           t.ID.String(),
		SaleItemID:   t.SaleItemID.String(),
		BarrelID:     t.BarrelID.String(),
		Sequence:     t.Sequence,
		TotalTickets: t.TotalTickets,
		Status:       string(t.Status),
		QRCode:       t.QRCode,
		CreatedAt:    t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if t.Product != nil {
		resp.Product = t.Product.Name
	}
	if t.RedeemedAt != nil {
		ts := t.RedeemedAt.Format("2006-01-02T15:04:05Z")
		resp.RedeemedAt = &ts
	}
	return resp
}
