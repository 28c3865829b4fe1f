package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/transaction"
)

type transactionResponse struct {
	ID          uuid.UUID          `json:"id"`
	Type        transaction.Type   `json:"type"`
	Amount      int64              `json:"amount"`
	Status      transaction.Status `json:"status"`
	Description string             `json:"description"`
	BookingID   *uuid.UUID         `json:"booking_id,omitempty"`
	ExternalRef string             `json:"external_ref,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Type:        tx.Type,
		Amount:      tx.Amount,
		Status:      tx.Status,
		Description: tx.Description,
		BookingID:   tx.BookingID,
		ExternalRef: tx.ExternalRef,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
