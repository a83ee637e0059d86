package services

import (
	"context"
	"time"

	"github.com/opencart/opencart-gobackend/internal/gateways"
	"github.com/opencart/opencart-gobackend/internal/models"
)

// The services depend on these interfaces, not on the Mongo store or the
// provider clients directly.
//
//go:generate mockgen -destination=mocks/mock_services.go -package=mock_services -source=interface.go
type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	FindByCorrelationID(ctx context.Context, family models.Family, id string) (*models.Transaction, error)
	Settle(ctx context.Context, family models.Family, id string, st models.Settlement) (*models.Transaction, error)
	MarkQueried(ctx context.Context, family models.Family, id, desc string) error
	ListByStatus(ctx context.Context, family models.Family, status models.Status, since time.Time, limit int64) ([]models.Transaction, error)
}

type MobileMoneyGateway interface {
	InitiatePush(ctx context.Context, req gateways.PushRequest) (*gateways.Initiation, error)
	QueryPush(ctx context.Context, checkoutRequestID string) (*gateways.PushStatus, error)
}

type BankGateway interface {
	InitiateCredit(ctx context.Context, req gateways.TransferRequest) (*gateways.Initiation, error)
	InitiateDebit(ctx context.Context, req gateways.TransferRequest) (*gateways.Initiation, error)
	QueryStatus(ctx context.Context, transactionID, reference string) (*gateways.Initiation, error)
	Reverse(ctx context.Context, transactionID string, amount int64, remarks string) (*gateways.Initiation, error)
	CheckBalance(ctx context.Context) (*gateways.Initiation, error)
}

type CardGateway interface {
	CreatePaymentIntent(ctx context.Context, req gateways.CardRequest) (*gateways.CardIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*gateways.CardIntent, error)
	Refund(ctx context.Context, intentID string, amount int64, remarks string) (*gateways.Initiation, error)
	ParseWebhook(raw []byte, signature string) (*gateways.CardEvent, error)
}

// EventPublisher announces settled transactions to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}
