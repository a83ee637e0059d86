package gateways

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
	"github.com/stripe/stripe-go/v72/webhook"
	"go.uber.org/zap"

	"github.com/opencart/opencart-gobackend/internal/apperrors"
	"github.com/opencart/opencart-gobackend/internal/models"
)

const ProviderStripe = "stripe"

var ErrInvalidSignature = errors.New("invalid webhook signature")

type CardRequest struct {
	Amount      int64
	Currency    string
	Description string
	Metadata    map[string]string
}

type CardIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret,omitempty"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// CardEvent is a webhook event reduced to what reconciliation needs.
// Terminal is false for events that carry no final outcome. A declined
// attempt is not terminal: the customer may retry on the same intent, so it
// comes back with Status queried and the decline message in ResultDesc.
type CardEvent struct {
	ID            string
	Type          string
	CorrelationID string
	Terminal      bool
	Status        models.Status
	ResultDesc    string
	ReceiptID     string
	AmountPaid    int64
	OccurredAt    time.Time
}

// StripeGateway takes card payments through Stripe payment intents.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	logger        *zap.Logger
}

// NewStripeGateway builds a gateway with its own client; backends may be nil
// to use Stripe's defaults.
func NewStripeGateway(secretKey, webhookSecret string, backends *stripe.Backends, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{
		api:           client.New(secretKey, backends),
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req CardRequest) (*CardIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, stripeError("create payment intent", err)
	}
	return toCardIntent(pi), nil
}

func (g *StripeGateway) GetPaymentIntent(ctx context.Context, id string) (*CardIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, stripeError("get payment intent", err)
	}
	return toCardIntent(pi), nil
}

// Refund asks Stripe to return amount (or the full charge when amount is 0)
// of a captured payment intent. The refund id correlates its webhook.
func (g *StripeGateway) Refund(ctx context.Context, intentID string, amount int64, remarks string) (*Initiation, error) {
	params := &stripe.RefundParams{PaymentIntent: stripe.String(intentID)}
	if amount > 0 {
		params.Amount = stripe.Int64(amount)
	}
	if remarks != "" {
		params.AddMetadata("remarks", remarks)
	}
	params.Context = ctx

	rf, err := g.api.Refunds.New(params)
	if err != nil {
		return nil, stripeError("refund", err)
	}
	return &Initiation{
		CorrelationID:          rf.ID,
		SecondaryCorrelationID: intentID,
		ResponseDescription:    string(rf.Status),
	}, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event.
func (g *StripeGateway) ParseWebhook(raw []byte, signature string) (*CardEvent, error) {
	if signature == "" {
		return nil, fmt.Errorf("missing signature: %w", ErrInvalidSignature)
	}
	event, err := webhook.ConstructEvent(raw, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidSignature)
	}

	out := &CardEvent{ID: event.ID, Type: event.Type, OccurredAt: time.Unix(event.Created, 0)}
	if event.Data == nil {
		return out, nil
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed", "payment_intent.canceled":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("decode payment intent: %w", err)
		}
		out.CorrelationID = pi.ID
		switch event.Type {
		case "payment_intent.succeeded":
			out.Terminal = true
			out.Status = models.StatusCompleted
			out.ResultDesc = "succeeded"
			out.AmountPaid = pi.AmountReceived
			if pi.Charges != nil && len(pi.Charges.Data) > 0 {
				out.ReceiptID = pi.Charges.Data[0].ID
			}
		case "payment_intent.payment_failed":
			out.Status = models.StatusQueried
			out.ResultDesc = "payment failed"
			if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
				out.ResultDesc = pi.LastPaymentError.Msg
			}
		default:
			out.Terminal = true
			out.Status = models.StatusFailed
			out.ResultDesc = "canceled"
			if pi.CancellationReason != "" {
				out.ResultDesc = "canceled: " + string(pi.CancellationReason)
			}
		}

	case "charge.refund.updated", "refund.created", "refund.updated":
		var rf stripe.Refund
		if err := json.Unmarshal(event.Data.Raw, &rf); err != nil {
			return nil, fmt.Errorf("decode refund: %w", err)
		}
		out.CorrelationID = rf.ID
		out.ResultDesc = string(rf.Status)
		switch string(rf.Status) {
		case "succeeded":
			out.Terminal = true
			out.Status = models.StatusCompleted
			out.ReceiptID = rf.ID
			out.AmountPaid = rf.Amount
		case "failed", "canceled":
			out.Terminal = true
			out.Status = models.StatusFailed
			if rf.FailureReason != "" {
				out.ResultDesc = string(rf.Status) + ": " + string(rf.FailureReason)
			}
		}

	default:
		g.logger.Debug("stripe event carries no settlement", zap.String("event_id", event.ID), zap.String("type", event.Type))
	}
	return out, nil
}

func toCardIntent(pi *stripe.PaymentIntent) *CardIntent {
	return &CardIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}
}

func stripeError(op string, err error) error {
	out := &apperrors.AdapterError{Provider: ProviderStripe, Op: op, Err: err}
	var se *stripe.Error
	if errors.As(err, &se) {
		out.StatusCode = se.HTTPStatusCode
	}
	return out
}
