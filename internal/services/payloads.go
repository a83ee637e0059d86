package services

import (
	"encoding/json"

	"github.com/opencart/opencart-gobackend/internal/models"
)

// Amounts arrive raw so a non-numeric value is reported as a validation
// failure rather than a decode error.

type PushPayload struct {
	Phone            string          `json:"phone"`
	Amount           json.RawMessage `json:"amount"`
	AccountReference string          `json:"accountReference"`
	Description      string          `json:"description"`
}

type BankPayload struct {
	AccountNumber string          `json:"accountNumber"`
	Amount        json.RawMessage `json:"amount"`
	BankCode      string          `json:"bankCode"`
	AccountName   string          `json:"accountName"`
	Remarks       string          `json:"remarks"`
}

type CardPayload struct {
	Amount      json.RawMessage `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	OrderID     string          `json:"orderId"`
}

type QueryPayload struct {
	TransactionID string `json:"transactionId"`
	Reference     string `json:"reference"`
}

type ReversalPayload struct {
	TransactionID string          `json:"transactionId"`
	Amount        json.RawMessage `json:"amount"`
	Remarks       string          `json:"remarks"`
}

// RefundPayload refunds part of a card payment; an absent amount refunds it in full.
type RefundPayload struct {
	Amount  json.RawMessage `json:"amount"`
	Remarks string          `json:"remarks"`
}

// Receipt is what an initiation returns to its caller.
type Receipt struct {
	CorrelationID          string        `json:"correlationId"`
	SecondaryCorrelationID string        `json:"secondaryCorrelationId,omitempty"`
	Kind                   models.Kind   `json:"kind"`
	Status                 models.Status `json:"status"`
	Amount                 int64         `json:"amount"`
	Currency               string        `json:"currency"`
	OriginalReference      string        `json:"originalReference,omitempty"`
	ResponseDescription    string        `json:"responseDescription,omitempty"`
	ClientSecret           string        `json:"clientSecret,omitempty"`
}

func receiptFor(tx *models.Transaction, description string) *Receipt {
	return &Receipt{
		CorrelationID:          tx.CorrelationID,
		SecondaryCorrelationID: tx.SecondaryCorrelationID,
		Kind:                   tx.Kind,
		Status:                 tx.Status,
		Amount:                 tx.Amount,
		Currency:               tx.Currency,
		OriginalReference:      tx.OriginalReference,
		ResponseDescription:    description,
	}
}

// StatusReport answers a synchronous status query.
type StatusReport struct {
	CorrelationID       string              `json:"correlationId"`
	Status              models.Status       `json:"status,omitempty"`
	ProviderStatus      string              `json:"providerStatus,omitempty"`
	ResultCode          *int                `json:"resultCode,omitempty"`
	ResultDesc          string              `json:"resultDesc,omitempty"`
	ResponseDescription string              `json:"responseDescription,omitempty"`
	QueryCorrelationID  string              `json:"queryCorrelationId,omitempty"`
	Transaction         *models.Transaction `json:"transaction,omitempty"`
}
