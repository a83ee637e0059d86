package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opencart/opencart-gobackend/internal/apperrors"
	"github.com/opencart/opencart-gobackend/internal/banks"
	"github.com/opencart/opencart-gobackend/internal/gateways"
	"github.com/opencart/opencart-gobackend/internal/models"
)

const (
	DefaultProviderTimeout = 30 * time.Second
	defaultCurrency        = "KES"
)

// PaymentService validates payment requests, hands them to a provider and
// records every attempt the provider accepts as a pending transaction.
type PaymentService struct {
	store   TransactionStore
	mpesa   MobileMoneyGateway
	bank    BankGateway
	card    CardGateway
	logger  *zap.Logger
	timeout time.Duration
}

func NewPaymentService(store TransactionStore, mpesa MobileMoneyGateway, bank BankGateway, card CardGateway, logger *zap.Logger, timeout time.Duration) *PaymentService {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &PaymentService{
		store:   store,
		mpesa:   mpesa,
		bank:    bank,
		card:    card,
		logger:  logger,
		timeout: timeout,
	}
}

// InitiatePush asks the payer's phone to approve a payment to the business.
func (s *PaymentService) InitiatePush(ctx context.Context, p PushPayload) (*Receipt, error) {
	if err := requireFields(field{"phone", p.Phone}); err != nil {
		return nil, err
	}
	if err := requireAmount(p.Amount); err != nil {
		return nil, err
	}
	if err := requireFields(field{"accountReference", p.AccountReference}); err != nil {
		return nil, err
	}
	amount, err := ParseAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	phone, err := NormalizePhone(p.Phone)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(p.Description)
	if description == "" {
		description = "Payment for " + p.AccountReference
	}

	callCtx, cancel := s.providerContext(ctx)
	defer cancel()

	accepted, err := s.mpesa.InitiatePush(callCtx, gateways.PushRequest{
		Phone:            phone,
		Amount:           amount,
		AccountReference: p.AccountReference,
		Description:      description,
	})
	if err := checkAccepted(gateways.ProviderMpesa, "stk push", accepted, err); err != nil {
		s.logger.Warn("stk push not accepted", zap.String("account_reference", p.AccountReference), zap.Error(err))
		return nil, err
	}

	tx := &models.Transaction{
		CorrelationID:          accepted.CorrelationID,
		SecondaryCorrelationID: accepted.SecondaryCorrelationID,
		Kind:                   models.KindMobileMoneyCollection,
		Amount:                 amount,
		Currency:               defaultCurrency,
		CounterpartyReference:  phone,
		AccountReference:       p.AccountReference,
		Description:            description,
	}
	if err := s.record(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("stk push accepted", zap.String("correlation_id", tx.CorrelationID), zap.Int64("amount", amount))
	return receiptFor(tx, accepted.ResponseDescription), nil
}

// SendToBank pays amount out of the business shortcode into a bank account.
func (s *PaymentService) SendToBank(ctx context.Context, p BankPayload) (*Receipt, error) {
	return s.transfer(ctx, models.KindBankCredit, p)
}

// CollectFromBank pulls amount from a bank account into the business shortcode.
func (s *PaymentService) CollectFromBank(ctx context.Context, p BankPayload) (*Receipt, error) {
	return s.transfer(ctx, models.KindBankDebit, p)
}

func (s *PaymentService) transfer(ctx context.Context, kind models.Kind, p BankPayload) (*Receipt, error) {
	if err := requireFields(field{"accountNumber", p.AccountNumber}); err != nil {
		return nil, err
	}
	if err := requireAmount(p.Amount); err != nil {
		return nil, err
	}
	if err := requireFields(field{"bankCode", p.BankCode}, field{"accountName", p.AccountName}); err != nil {
		return nil, err
	}
	amount, err := ParseAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	bank, err := ResolveBank(p.BankCode)
	if err != nil {
		return nil, err
	}

	remarks := strings.TrimSpace(p.Remarks)
	if remarks == "" {
		remarks = "Bank transfer"
	}
	req := gateways.TransferRequest{
		AccountNumber: strings.TrimSpace(p.AccountNumber),
		Amount:        amount,
		BankCode:      bank.Value,
		AccountName:   strings.TrimSpace(p.AccountName),
		Remarks:       remarks,
	}

	callCtx, cancel := s.providerContext(ctx)
	defer cancel()

	var accepted *gateways.Initiation
	op := "bank credit"
	if kind == models.KindBankDebit {
		op = "bank debit"
		accepted, err = s.bank.InitiateDebit(callCtx, req)
	} else {
		accepted, err = s.bank.InitiateCredit(callCtx, req)
	}
	if err := checkAccepted(gateways.ProviderBank, op, accepted, err); err != nil {
		s.logger.Warn("bank transfer not accepted", zap.String("kind", string(kind)), zap.String("bank", bank.Code), zap.Error(err))
		return nil, err
	}

	tx := &models.Transaction{
		CorrelationID:          accepted.CorrelationID,
		SecondaryCorrelationID: accepted.SecondaryCorrelationID,
		Kind:                   kind,
		Amount:                 amount,
		Currency:               defaultCurrency,
		CounterpartyReference:  req.AccountNumber,
		AccountName:            req.AccountName,
		BankCode:               bank.Code,
		Description:            remarks,
	}
	if err := s.record(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("bank transfer accepted",
		zap.String("correlation_id", tx.CorrelationID),
		zap.String("kind", string(kind)),
		zap.String("bank", bank.Code),
		zap.Int64("amount", amount),
	)
	return receiptFor(tx, accepted.ResponseDescription), nil
}

// CreateCardPayment opens a Stripe payment intent. The client secret in the
// receipt is what the storefront confirms the card with.
func (s *PaymentService) CreateCardPayment(ctx context.Context, p CardPayload) (*Receipt, error) {
	if err := requireAmount(p.Amount); err != nil {
		return nil, err
	}
	if err := requireFields(field{"currency", p.Currency}); err != nil {
		return nil, err
	}
	amount, err := ParseAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	currency, err := NormalizeCurrency(p.Currency)
	if err != nil {
		return nil, err
	}

	req := gateways.CardRequest{
		Amount:      amount,
		Currency:    currency,
		Description: p.Description,
	}
	if p.OrderID != "" {
		req.Metadata = map[string]string{"order_id": p.OrderID}
	}

	callCtx, cancel := s.providerContext(ctx)
	defer cancel()

	intent, err := s.card.CreatePaymentIntent(callCtx, req)
	if err == nil && (intent == nil || intent.ID == "") {
		err = &apperrors.AdapterError{Provider: gateways.ProviderStripe, Op: "create payment intent", Err: errors.New("accepted without an intent id")}
	}
	if err != nil {
		s.logger.Warn("card payment not accepted", zap.String("order_id", p.OrderID), zap.Error(err))
		return nil, err
	}

	tx := &models.Transaction{
		CorrelationID:         intent.ID,
		Kind:                  models.KindCardPayment,
		Amount:                amount,
		Currency:              currency,
		CounterpartyReference: p.OrderID,
		AccountReference:      p.OrderID,
		Description:           p.Description,
	}
	if err := s.record(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("card payment intent created", zap.String("correlation_id", tx.CorrelationID), zap.Int64("amount", amount), zap.String("currency", currency))
	receipt := receiptFor(tx, intent.Status)
	receipt.ClientSecret = intent.ClientSecret
	return receipt, nil
}

// QueryPushStatus asks Daraja for the state of an STK push identified by its
// CheckoutRequestID or MerchantRequestID. A known record still awaiting its
// callback is marked queried; it is never settled from here.
func (s *PaymentService) QueryPushStatus(ctx context.Context, p QueryPayload) (*StatusReport, error) {
	if err := requireFields(field{"transactionId", p.TransactionID}); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(p.TransactionID)

	tx, err := s.lookup(ctx, models.FamilyMobileMoney, id)
	if err != nil {
		return nil, err
	}
	checkoutID := id
	if tx != nil {
		checkoutID = tx.CorrelationID
	}

	callCtx, cancel := s.providerContext(ctx)
	defer cancel()

	status, err := s.mpesa.QueryPush(callCtx, checkoutID)
	if err != nil {
		s.logger.Warn("stk status query failed", zap.String("correlation_id", checkoutID), zap.Error(err))
		return nil, err
	}

	report := &StatusReport{
		CorrelationID:       checkoutID,
		ResultCode:          status.ResultCode,
		ResultDesc:          status.ResultDesc,
		ResponseDescription: status.ResponseDescription,
		Transaction:         tx,
	}
	desc := status.ResultDesc
	if desc == "" {
		desc = status.ResponseDescription
	}
	s.markQueried(ctx, models.FamilyMobileMoney, tx, desc, report)
	return report, nil
}

// QueryBankStatus submits a transaction status query. The answer arrives later
// on the result URL; reference names the local record it concerns, if any.
func (s *PaymentService) QueryBankStatus(ctx context.Context, p QueryPayload) (*StatusReport, error) {
	if err := requireFields(field{"transactionId", p.TransactionID}); err != nil {
		return nil, err
	}
	transactionID := strings.TrimSpace(p.TransactionID)
	reference := strings.TrimSpace(p.Reference)

	var tx *models.Transaction
	if reference != "" {
		var err error
		if tx, err = s.lookup(ctx, models.FamilyBank, reference); err != nil {
			return nil, err
		}
	}

	callCtx, cancel := s.providerContext(ctx)
	defer cancel()

	accepted, err := s.bank.QueryStatus(callCtx, transactionID, reference)
	if err := checkAccepted(gateways.ProviderBank, "status query", accepted, err); err != nil {
		s.logger.Warn("bank status query failed", zap.String("transaction_id", transactionID), zap.Error(err))
		return nil, err
	}

	report := &StatusReport{
		CorrelationID:       transactionID,
		ResponseDescription: accepted.ResponseDescription,
		QueryCorrelationID:  accepted.CorrelationID,
		Transaction:         tx,
	}
	s.markQueried(ctx, models.FamilyBank, tx, accepted.ResponseDescription, report)
	return report, nil
}

// QueryCardStatus reads a payment intent back from Stripe.
func (s *PaymentService) QueryCardStatus(ctx context.Context, intentID string) (*StatusReport, error) {
	intentID = strings.TrimSpace(intentID)
	if err := requireFields(field{"id", intentID}); err != nil {
		return nil, err
	}

	tx, err := s.lookup(ctx, models.FamilyCard, intentID)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := s.providerContext(ctx)
	defer cancel()

	intent, err := s.card.GetPaymentIntent(callCtx, intentID)
	if err != nil {
		s.logger.Warn("card status query failed", zap.String("correlation_id", intentID), zap.Error(err))
		return nil, err
	}

	report := &StatusReport{
		CorrelationID:  intentID,
		ProviderStatus: intent.Status,
		Transaction:    tx,
	}
	s.markQueried(ctx, models.FamilyCard, tx, intent.Status, report)
	return report, nil
}

// ReverseBankTransaction requests a reversal of a completed movement. The
// reversal is recorded as its own pending transaction pointing back at the
// original; the original record is not touched.
func (s *PaymentService) ReverseBankTransaction(ctx context.Context, p ReversalPayload) (*Receipt, error) {
	if err := requireFields(field{"transactionId", p.TransactionID}); err != nil {
		return nil, err
	}
	if err := requireAmount(p.Amount); err != nil {
		return nil, err
	}
	amount, err := ParseAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	transactionID := strings.TrimSpace(p.TransactionID)
	remarks := strings.TrimSpace(p.Remarks)
	if remarks == "" {
		remarks = "Transaction reversal"
	}

	callCtx, cancel := s.providerContext(ctx)
	defer cancel()

	accepted, err := s.bank.Reverse(callCtx, transactionID, amount, remarks)
	if err := checkAccepted(gateways.ProviderBank, "reversal", accepted, err); err != nil {
		s.logger.Warn("reversal not accepted", zap.String("original_reference", transactionID), zap.Error(err))
		return nil, err
	}

	tx := &models.Transaction{
		CorrelationID:          accepted.CorrelationID,
		SecondaryCorrelationID: accepted.SecondaryCorrelationID,
		Kind:                   models.KindReversal,
		Amount:                 amount,
		Currency:               defaultCurrency,
		CounterpartyReference:  transactionID,
		OriginalReference:      transactionID,
		Description:            remarks,
	}
	if err := s.record(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("reversal accepted", zap.String("correlation_id", tx.CorrelationID), zap.String("original_reference", transactionID))
	return receiptFor(tx, accepted.ResponseDescription), nil
}

// RefundCardPayment refunds a recorded card payment in full or in part. The
// refund is recorded separately and settles through its own webhook.
func (s *PaymentService) RefundCardPayment(ctx context.Context, intentID string, p RefundPayload) (*Receipt, error) {
	intentID = strings.TrimSpace(intentID)
	if err := requireFields(field{"id", intentID}); err != nil {
		return nil, err
	}

	var amount int64
	if requireAmount(p.Amount) == nil {
		var err error
		if amount, err = ParseAmount(p.Amount); err != nil {
			return nil, err
		}
	}

	original, err := s.store.FindByCorrelationID(ctx, models.FamilyCard, intentID)
	if err != nil {
		return nil, err
	}
	if original.Kind != models.KindCardPayment {
		return nil, apperrors.Invalid("id", "only card payments can be refunded")
	}
	if amount > original.Amount {
		return nil, apperrors.Invalid("amount", fmt.Sprintf("exceeds the original payment of %d", original.Amount))
	}
	recorded := amount
	if recorded == 0 {
		recorded = original.Amount
	}

	callCtx, cancel := s.providerContext(ctx)
	defer cancel()

	accepted, err := s.card.Refund(callCtx, original.CorrelationID, amount, p.Remarks)
	if err := checkAccepted(gateways.ProviderStripe, "refund", accepted, err); err != nil {
		s.logger.Warn("refund not accepted", zap.String("original_reference", original.CorrelationID), zap.Error(err))
		return nil, err
	}

	tx := &models.Transaction{
		CorrelationID:         accepted.CorrelationID,
		Kind:                  models.KindCardRefund,
		Amount:                recorded,
		Currency:              original.Currency,
		CounterpartyReference: original.CounterpartyReference,
		OriginalReference:     original.CorrelationID,
		Description:           p.Remarks,
	}
	if err := s.record(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("refund accepted", zap.String("correlation_id", tx.CorrelationID), zap.String("original_reference", original.CorrelationID), zap.Int64("amount", recorded))
	return receiptFor(tx, accepted.ResponseDescription), nil
}

// ListTransactions returns records of one family in status, newest first.
func (s *PaymentService) ListTransactions(ctx context.Context, family models.Family, status models.Status, since time.Time, limit int64) ([]models.Transaction, error) {
	switch family {
	case models.FamilyMobileMoney, models.FamilyBank, models.FamilyCard:
	default:
		return nil, apperrors.Invalid("family", fmt.Sprintf("must be one of %s, %s or %s", models.FamilyMobileMoney, models.FamilyBank, models.FamilyCard))
	}
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return nil, apperrors.Invalid("status", fmt.Sprintf("unknown status %q", status))
	}
	return s.store.ListByStatus(ctx, family, status, since, limit)
}

func (s *PaymentService) Banks() []banks.Bank {
	return banks.List()
}

// CheckBalance requests the shortcode balance; Daraja posts the figures to the result URL.
func (s *PaymentService) CheckBalance(ctx context.Context) (*gateways.Initiation, error) {
	callCtx, cancel := s.providerContext(ctx)
	defer cancel()

	accepted, err := s.bank.CheckBalance(callCtx)
	if err := checkAccepted(gateways.ProviderBank, "balance", accepted, err); err != nil {
		s.logger.Warn("balance request failed", zap.Error(err))
		return nil, err
	}
	return accepted, nil
}

func (s *PaymentService) providerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// record persists an accepted attempt. Failure here leaves a payment the
// provider knows about and we do not; it is logged loudly so an operator can
// close the gap with a status query.
func (s *PaymentService) record(ctx context.Context, tx *models.Transaction) error {
	err := s.store.Create(ctx, tx)
	if err == nil {
		return nil
	}
	if !apperrors.IsPersistence(err) {
		err = &apperrors.PersistenceError{Op: "create", CorrelationID: tx.CorrelationID, Err: err}
	}
	s.logger.Error("reconciliation gap: provider accepted a transaction that was not recorded",
		zap.String("correlation_id", tx.CorrelationID),
		zap.String("secondary_correlation_id", tx.SecondaryCorrelationID),
		zap.String("kind", string(tx.Kind)),
		zap.Int64("amount", tx.Amount),
		zap.Error(err),
	)
	return err
}

// lookup returns nil without error when id is unknown.
func (s *PaymentService) lookup(ctx context.Context, family models.Family, id string) (*models.Transaction, error) {
	tx, err := s.store.FindByCorrelationID(ctx, family, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return tx, err
}

func (s *PaymentService) markQueried(ctx context.Context, family models.Family, tx *models.Transaction, desc string, report *StatusReport) {
	if tx == nil {
		return
	}
	report.Status = tx.Status
	if tx.Status.Terminal() {
		return
	}

	err := s.store.MarkQueried(ctx, family, tx.CorrelationID, desc)
	switch {
	case err == nil:
		report.Status = models.StatusQueried
	case errors.Is(err, apperrors.ErrNotFound):
		// settled by a callback since the lookup
	default:
		s.logger.Warn("could not mark transaction queried", zap.String("correlation_id", tx.CorrelationID), zap.Error(err))
	}
}

func checkAccepted(provider, op string, accepted *gateways.Initiation, err error) error {
	if err != nil {
		return err
	}
	if accepted == nil || accepted.CorrelationID == "" {
		return &apperrors.AdapterError{Provider: provider, Op: op, Err: errors.New("accepted without a correlation id")}
	}
	return nil
}
