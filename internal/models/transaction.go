package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind identifies what a transaction record moves and through which rail.
type Kind string

const (
	KindMobileMoneyCollection Kind = "mobile-money-collection"
	KindBankCredit            Kind = "bank-credit"
	KindBankDebit             Kind = "bank-debit"
	KindReversal              Kind = "reversal"
	KindCardPayment           Kind = "card-payment"
	KindCardRefund            Kind = "card-refund"
)

// Status of a transaction record. Only pending and queried records can move.
type Status string

const (
	StatusPending   Status = "pending"
	StatusQueried   Status = "queried"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []Status{StatusPending, StatusQueried, StatusCompleted, StatusFailed}

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransition reports whether a record in status s may move to next.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending, StatusQueried:
		return next == StatusQueried || next == StatusCompleted || next == StatusFailed
	}
	return false
}

// Sources returns the statuses a record may be in to move to s.
func (s Status) Sources() []Status {
	var from []Status
	for _, candidate := range Statuses {
		if candidate.CanTransition(s) {
			from = append(from, candidate)
		}
	}
	return from
}

// Transaction is one payment attempt acknowledged by a provider.
// CorrelationID is the provider-issued key every later callback and query uses.
type Transaction struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CorrelationID          string             `bson:"correlation_id" json:"correlation_id"`
	SecondaryCorrelationID string             `bson:"secondary_correlation_id,omitempty" json:"secondary_correlation_id,omitempty"`
	Kind                   Kind               `bson:"kind" json:"kind"`
	Amount                 int64              `bson:"amount" json:"amount"`
	Currency               string             `bson:"currency" json:"currency"`
	CounterpartyReference  string             `bson:"counterparty_reference" json:"counterparty_reference"`
	AccountReference       string             `bson:"account_reference,omitempty" json:"account_reference,omitempty"`
	AccountName            string             `bson:"account_name,omitempty" json:"account_name,omitempty"`
	BankCode               string             `bson:"bank_code,omitempty" json:"bank_code,omitempty"`
	Description            string             `bson:"description,omitempty" json:"description,omitempty"`
	OriginalReference      string             `bson:"original_reference,omitempty" json:"original_reference,omitempty"`
	Status                 Status             `bson:"status" json:"status"`
	ResultCode             *int               `bson:"result_code,omitempty" json:"result_code,omitempty"`
	ResultDesc             string             `bson:"result_desc,omitempty" json:"result_desc,omitempty"`
	SettlementReceiptID    string             `bson:"settlement_receipt_id,omitempty" json:"settlement_receipt_id,omitempty"`
	SettlementTime         *time.Time         `bson:"settlement_time,omitempty" json:"settlement_time,omitempty"`
	AmountPaid             int64              `bson:"amount_paid,omitempty" json:"amount_paid,omitempty"`
	PayerReference         string             `bson:"payer_reference,omitempty" json:"payer_reference,omitempty"`
	LastQueryDesc          string             `bson:"last_query_desc,omitempty" json:"last_query_desc,omitempty"`
	CreatedAt              time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time          `bson:"updated_at" json:"updated_at"`
}

// Settlement is the terminal outcome applied to a transaction by a callback.
type Settlement struct {
	Status         Status
	ResultCode     int
	ResultDesc     string
	ReceiptID      string
	SettledAt      *time.Time
	AmountPaid     int64
	PayerReference string
}

// Family names the collection a transaction kind is stored in.
type Family string

const (
	FamilyMobileMoney Family = "mpesa"
	FamilyBank        Family = "bank"
	FamilyCard        Family = "card"
)

// FamilyOf returns the storage family for k.
func FamilyOf(k Kind) Family {
	switch k {
	case KindMobileMoneyCollection:
		return FamilyMobileMoney
	case KindCardPayment, KindCardRefund:
		return FamilyCard
	}
	return FamilyBank
}
