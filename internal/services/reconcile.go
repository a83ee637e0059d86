package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/opencart/opencart-gobackend/internal/apperrors"
	"github.com/opencart/opencart-gobackend/internal/gateways"
	"github.com/opencart/opencart-gobackend/internal/models"
)

const publishTimeout = 3 * time.Second

// Outcome says what a callback did to the store.
type Outcome string

const (
	OutcomeApplied  Outcome = "applied"
	OutcomeReplayed Outcome = "replayed"
	OutcomeNoted    Outcome = "noted"
	OutcomeOrphan   Outcome = "orphan"
	OutcomeRejected Outcome = "rejected"
	OutcomeIgnored  Outcome = "ignored"
	OutcomeFault    Outcome = "fault"
)

// Ack returns the acknowledgment Daraja should receive for o. Only a
// malformed body or a storage fault asks the provider to redeliver.
func (o Outcome) Ack() models.Ack {
	switch o {
	case OutcomeRejected:
		return models.AckRejected("Rejected: malformed callback")
	case OutcomeFault:
		return models.AckRejected("Temporarily unable to record result")
	}
	return models.AckAccepted()
}

// ReconciliationService applies provider callbacks to pending transactions.
// It holds no locks: the store's conditional update decides which of two
// concurrent deliveries wins, and the loser is treated as a replay.
type ReconciliationService struct {
	store     TransactionStore
	card      CardGateway
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewReconciliationService(store TransactionStore, card CardGateway, publisher EventPublisher, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{
		store:     store,
		card:      card,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ReconcilePush handles an STK push callback.
func (s *ReconciliationService) ReconcilePush(ctx context.Context, body []byte) (models.Ack, Outcome) {
	var env models.STKCallbackEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		s.logger.Warn("malformed stk callback", zap.Error(err))
		return OutcomeRejected.Ack(), OutcomeRejected
	}
	cb := env.Body.StkCallback
	if cb == nil || cb.CheckoutRequestID == "" || cb.ResultCode == nil {
		s.logger.Warn("stk callback missing stkCallback, CheckoutRequestID or ResultCode")
		return OutcomeRejected.Ack(), OutcomeRejected
	}

	st := models.Settlement{
		Status:     models.StatusFailed,
		ResultCode: int(*cb.ResultCode),
		ResultDesc: cb.ResultDesc,
	}
	if st.ResultCode == 0 {
		st.Status = models.StatusCompleted
		var items []models.MetadataItem
		if cb.CallbackMetadata != nil {
			items = cb.CallbackMetadata.Item
		}
		meta := models.ExtractSTKMetadata(items)
		st.ReceiptID = meta.ReceiptNumber
		st.SettledAt = meta.TransactionDate
		st.AmountPaid = meta.Amount
		st.PayerReference = meta.PhoneNumber
	}

	outcome, _ := s.apply(ctx, models.FamilyMobileMoney, st, cb.CheckoutRequestID, cb.MerchantRequestID)
	return outcome.Ack(), outcome
}

// ReconcileBankResult handles a result-URL callback for a transfer, a
// reversal or a status query. It matches on ConversationID first and
// OriginatorConversationID second.
func (s *ReconciliationService) ReconcileBankResult(ctx context.Context, body []byte) (models.Ack, Outcome) {
	var env models.ResultEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		s.logger.Warn("malformed result callback", zap.Error(err))
		return OutcomeRejected.Ack(), OutcomeRejected
	}
	r := env.Result
	if r == nil || r.ResultCode == nil || (r.ConversationID == "" && r.OriginatorConversationID == "") {
		s.logger.Warn("result callback missing Result, ResultCode or conversation ids")
		return OutcomeRejected.Ack(), OutcomeRejected
	}

	st := models.Settlement{
		Status:     models.StatusFailed,
		ResultCode: int(*r.ResultCode),
		ResultDesc: r.ResultDesc,
	}
	if st.ResultCode == 0 {
		st.Status = models.StatusCompleted
		var params models.ParameterList
		if r.ResultParameters != nil {
			params = r.ResultParameters.ResultParameter
		}
		res := models.ExtractResultParameters(params)
		st.ReceiptID = res.Receipt
		if st.ReceiptID == "" {
			st.ReceiptID = r.TransactionID
		}
		st.SettledAt = res.CompletedAt
		st.AmountPaid = res.Amount
		st.PayerReference = res.ReceiverName
	}

	outcome, _ := s.apply(ctx, models.FamilyBank, st, r.ConversationID, r.OriginatorConversationID)
	return outcome.Ack(), outcome
}

// ReconcileBankTimeout handles a queue-timeout notice. The request may still
// complete, so the record is left for its result callback or a status query.
func (s *ReconciliationService) ReconcileBankTimeout(_ context.Context, body []byte) (models.Ack, Outcome) {
	var env models.ResultEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		s.logger.Warn("malformed queue timeout callback", zap.Error(err))
		return OutcomeRejected.Ack(), OutcomeRejected
	}
	fields := []zap.Field{}
	if env.Result != nil {
		fields = append(fields,
			zap.String("correlation_id", env.Result.ConversationID),
			zap.String("secondary_correlation_id", env.Result.OriginatorConversationID),
			zap.String("result_desc", env.Result.ResultDesc),
		)
	}
	s.logger.Warn("bank request timed out in provider queue", fields...)
	return OutcomeIgnored.Ack(), OutcomeIgnored
}

// ReconcileCard verifies and applies a Stripe webhook. A bad signature or an
// undecodable body is OutcomeRejected; a storage failure is OutcomeFault and
// returns the error so the webhook is retried.
func (s *ReconciliationService) ReconcileCard(ctx context.Context, raw []byte, signature string) (Outcome, error) {
	ev, err := s.card.ParseWebhook(raw, signature)
	if err != nil {
		s.logger.Warn("stripe webhook rejected", zap.Error(err))
		if errors.Is(err, gateways.ErrInvalidSignature) {
			return OutcomeRejected, err
		}
		return OutcomeRejected, apperrors.Invalid("payload", err.Error())
	}
	if ev.CorrelationID == "" || (!ev.Terminal && ev.Status != models.StatusQueried) {
		s.logger.Debug("stripe event ignored", zap.String("event_id", ev.ID), zap.String("type", ev.Type))
		return OutcomeIgnored, nil
	}
	if !ev.Terminal {
		return s.noteDeclined(ctx, ev)
	}

	st := models.Settlement{
		Status:     ev.Status,
		ResultDesc: ev.ResultDesc,
		ReceiptID:  ev.ReceiptID,
		AmountPaid: ev.AmountPaid,
	}
	if ev.Status != models.StatusCompleted {
		st.ResultCode = 1
	}
	if !ev.OccurredAt.IsZero() {
		at := ev.OccurredAt
		st.SettledAt = &at
	}
	return s.apply(ctx, models.FamilyCard, st, ev.CorrelationID)
}

// noteDeclined records a declined card attempt without settling it, so a
// retry on the same intent can still complete the payment.
func (s *ReconciliationService) noteDeclined(ctx context.Context, ev *gateways.CardEvent) (Outcome, error) {
	log := s.logger.With(zap.String("correlation_id", ev.CorrelationID), zap.String("event_id", ev.ID))
	err := s.store.MarkQueried(ctx, models.FamilyCard, ev.CorrelationID, ev.ResultDesc)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		log.Info("declined attempt for unknown or settled card payment acknowledged")
		return OutcomeIgnored, nil
	case err != nil:
		log.Error("declined attempt could not be recorded", zap.Error(err))
		return OutcomeFault, err
	}
	log.Info("card attempt declined, awaiting retry", zap.String("result_desc", ev.ResultDesc))
	return OutcomeNoted, nil
}

// apply settles the record matching the first known id in ids.
func (s *ReconciliationService) apply(ctx context.Context, family models.Family, st models.Settlement, ids ...string) (Outcome, error) {
	tx, err := s.find(ctx, family, ids)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Info("orphan callback acknowledged", zap.Strings("correlation_ids", ids), zap.String("family", string(family)))
		return OutcomeOrphan, nil
	}
	if err != nil {
		s.logger.Error("callback lookup failed", zap.Strings("correlation_ids", ids), zap.Error(err))
		return OutcomeFault, err
	}

	log := s.logger.With(zap.String("correlation_id", tx.CorrelationID), zap.String("kind", string(tx.Kind)))
	if tx.Status.Terminal() {
		log.Info("replayed callback for settled transaction", zap.String("status", string(tx.Status)))
		return OutcomeReplayed, nil
	}

	updated, err := s.store.Settle(ctx, family, tx.CorrelationID, st)
	if errors.Is(err, apperrors.ErrNotFound) {
		log.Info("transaction settled concurrently, treating callback as replay")
		return OutcomeReplayed, nil
	}
	if err != nil {
		log.Error("callback could not be recorded", zap.Error(err))
		return OutcomeFault, err
	}

	log.Info("transaction settled",
		zap.String("status", string(updated.Status)),
		zap.Int("result_code", st.ResultCode),
		zap.String("receipt", updated.SettlementReceiptID),
	)
	s.publish(ctx, updated)
	return OutcomeApplied, nil
}

func (s *ReconciliationService) find(ctx context.Context, family models.Family, ids []string) (*models.Transaction, error) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		tx, err := s.store.FindByCorrelationID(ctx, family, id)
		if errors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		return tx, err
	}
	return nil, apperrors.ErrNotFound
}

// publish runs before the provider is acknowledged, so it gets a short
// deadline of its own that the request's cancellation does not cut.
func (s *ReconciliationService) publish(ctx context.Context, tx *models.Transaction) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, models.NewSettlementEvent(tx, s.now().UTC())); err != nil {
		s.logger.Warn("settlement event not published", zap.String("correlation_id", tx.CorrelationID), zap.Error(err))
	}
}
