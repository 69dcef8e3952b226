package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"barpos/internal/infra"
	"barpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptWorker generates the PDF receipt for a committed sale and,
// when the customer left an email at checkout, sends it as an attachment.
// SMTP calls go through a circuit breaker so a flapping mail relay
// cannot pile up retries across the pool.
type ReceiptWorker struct {
	saleRepo    repository.SaleRepository
	mailer      *infra.Mailer
	smtpBreaker *infra.CircuitBreaker
	business    string
	storagePath string
}

func NewReceiptWorker(saleRepo repository.SaleRepository, mailer *infra.Mailer, smtpBreaker *infra.CircuitBreaker, business, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{
		saleRepo:    saleRepo,
		mailer:      mailer,
		smtpBreaker: smtpBreaker,
		business:    business,
		storagePath: storagePath,
	}
}

// Handle implements the receipt job. PDF generation failures are retryable;
// a missing sale is not (the job is poison and should reach the DLQ fast,
// so we still return the error and let the attempt counter run out).
func (w *ReceiptWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var job ReceiptJobPayload
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("receipt: decode payload: %w", err)
	}

	saleID, err := uuid.Parse(job.SaleID)
	if err != nil {
		return fmt.Errorf("receipt: invalid sale id %q: %w", job.SaleID, err)
	}

	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return fmt.Errorf("receipt: load sale %s: %w", job.SaleID, err)
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.business, w.storagePath)
	if err != nil {
		return fmt.Errorf("receipt: generate pdf: %w", err)
	}
	log.Info().Str("sale_id", job.SaleID).Str("pdf", pdfPath).Msg("receipt generated")

	if job.CustomerEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("%s — your receipt", w.business)
	body := fmt.Sprintf("Thank you for your purchase. Your receipt for sale %s is attached.", sale.ID)

	sendErr := w.smtpBreaker.Execute(func() error {
		return w.mailer.SendReceipt(job.CustomerEmail, subject, body, pdfPath)
	})
	if sendErr != nil {
		return fmt.Errorf("receipt: email %s: %w", job.CustomerEmail, sendErr)
	}

	log.Info().Str("sale_id", job.SaleID).Str("to", job.CustomerEmail).Msg("receipt emailed")
	return nil
}
