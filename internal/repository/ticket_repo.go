package repository

import (
	"context"
	"time"

	"barpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketRepository interface {
	CreateBatchTx(tx *gorm.DB, tickets []model.Ticket) error
	FindByQRCode(ctx context.Context, qrCode string) (*model.Ticket, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]model.Ticket, error)
	ListPendingByBarrel(ctx context.Context, barrelID uuid.UUID) ([]model.Ticket, error)

	// Redeem flips PENDING → REDEEMED as a single conditional update.
	// Returns rows affected: 0 means the ticket was already redeemed.
	Redeem(ctx context.Context, id uuid.UUID) (int64, error)
}

type ticketRepo struct{ db *gorm.DB }

func NewTicketRepository(db *gorm.DB) TicketRepository { return &ticketRepo{db: db} }

func (r *ticketRepo) CreateBatchTx(tx *gorm.DB, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	return tx.Create(&tickets).Error
}

func (r *ticketRepo) FindByQRCode(ctx context.Context, qrCode string) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).Preload("Product").Where("qr_code = ?", qrCode).First(&t).Error
	return &t, err
}

func (r *ticketRepo) ListBySale(ctx context.Context, saleID uuid.UUID) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := r.db.WithContext(ctx).
		Joins("JOIN sale_items ON sale_items.id = tickets.sale_item_id").
		Where("sale_items.sale_id = ?", saleID).
		Preload("Product").
		Order("tickets.sale_item_id, tickets.sequence").
		Find(&tickets).Error
	return tickets, err
}

func (r *ticketRepo) ListPendingByBarrel(ctx context.Context, barrelID uuid.UUID) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := r.db.WithContext(ctx).
		Where("barrel_id = ? AND status = ?", barrelID, model.TicketStatusPending).
		Preload("Product").
		Order("created_at ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *ticketRepo) Redeem(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("id = ? AND status = ?", id, model.TicketStatusPending).
		Updates(map[string]interface{}{
			"status":      model.TicketStatusRedeemed,
			"redeemed_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}
