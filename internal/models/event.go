package models

import "time"

// Event announces that a transaction reached a terminal state.
type Event struct {
	EventType string    `json:"event_type"`
	Data      EventData `json:"data"`
}

type EventData struct {
	CorrelationID     string    `json:"correlation_id"`
	Kind              Kind      `json:"kind"`
	Status            Status    `json:"status"`
	Amount            int64     `json:"amount"`
	AmountPaid        int64     `json:"amount_paid,omitempty"`
	Currency          string    `json:"currency"`
	ReceiptID         string    `json:"receipt_id,omitempty"`
	OriginalReference string    `json:"original_reference,omitempty"`
	ResultDesc        string    `json:"result_desc,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

const (
	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
)

func NewSettlementEvent(tx *Transaction, at time.Time) Event {
	eventType := EventPaymentFailed
	if tx.Status == StatusCompleted {
		eventType = EventPaymentCompleted
	}
	return Event{
		EventType: eventType,
		Data: EventData{
			CorrelationID:     tx.CorrelationID,
			Kind:              tx.Kind,
			Status:            tx.Status,
			Amount:            tx.Amount,
			AmountPaid:        tx.AmountPaid,
			Currency:          tx.Currency,
			ReceiptID:         tx.SettlementReceiptID,
			OriginalReference: tx.OriginalReference,
			ResultDesc:        tx.ResultDesc,
			OccurredAt:        at,
		},
	}
}
