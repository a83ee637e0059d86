package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencart/opencart-gobackend/internal/apperrors"
	"github.com/opencart/opencart-gobackend/internal/gateways"
	"github.com/opencart/opencart-gobackend/internal/models"
	"github.com/opencart/opencart-gobackend/internal/services"
	mock_services "github.com/opencart/opencart-gobackend/internal/services/mocks"
)

type paymentFixture struct {
	store *mock_services.MockTransactionStore
	mpesa *mock_services.MockMobileMoneyGateway
	bank  *mock_services.MockBankGateway
	card  *mock_services.MockCardGateway
	svc   *services.PaymentService
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	ctrl := gomock.NewController(t)
	f := &paymentFixture{
		store: mock_services.NewMockTransactionStore(ctrl),
		mpesa: mock_services.NewMockMobileMoneyGateway(ctrl),
		bank:  mock_services.NewMockBankGateway(ctrl),
		card:  mock_services.NewMockCardGateway(ctrl),
	}
	f.svc = services.NewPaymentService(f.store, f.mpesa, f.bank, f.card, zap.NewNop(), time.Second)
	return f
}

func amount(v string) json.RawMessage { return json.RawMessage(v) }

func TestInitiatePush_PersistsPendingRecord(t *testing.T) {
	f := newPaymentFixture(t)

	f.mpesa.EXPECT().
		InitiatePush(gomock.Any(), gateways.PushRequest{
			Phone:            "254712345678",
			Amount:           100,
			AccountReference: "Ref1",
			Description:      "Payment for Ref1",
		}).
		DoAndReturn(func(ctx context.Context, _ gateways.PushRequest) (*gateways.Initiation, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return &gateways.Initiation{CorrelationID: "cr1", SecondaryCorrelationID: "mr1", ResponseDescription: "Success. Request accepted for processing"}, nil
		})

	var saved *models.Transaction
	f.store.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
			tx.Status = models.StatusPending
			saved = tx
			return nil
		}).
		Times(1)

	got, err := f.svc.InitiatePush(context.Background(), services.PushPayload{
		Phone:            "0712345678",
		Amount:           amount(`100`),
		AccountReference: "Ref1",
	})
	require.NoError(t, err)
	assert.Equal(t, "cr1", got.CorrelationID)
	assert.Equal(t, "mr1", got.SecondaryCorrelationID)
	assert.Equal(t, models.StatusPending, got.Status)

	require.NotNil(t, saved)
	assert.Equal(t, "cr1", saved.CorrelationID)
	assert.Equal(t, int64(100), saved.Amount)
	assert.Equal(t, "254712345678", saved.CounterpartyReference)
	assert.Equal(t, models.KindMobileMoneyCollection, saved.Kind)
	assert.Equal(t, "KES", saved.Currency)
}

func TestInitiate_ValidationFailuresNeverReachProvider(t *testing.T) {
	tests := []struct {
		name  string
		field string
		call  func(*services.PaymentService) error
	}{
		{
			name:  "push missing phone",
			field: "phone",
			call: func(s *services.PaymentService) error {
				_, err := s.InitiatePush(context.Background(), services.PushPayload{Amount: amount(`100`), AccountReference: "Ref1"})
				return err
			},
		},
		{
			name:  "push zero amount",
			field: "amount",
			call: func(s *services.PaymentService) error {
				_, err := s.InitiatePush(context.Background(), services.PushPayload{Phone: "0712345678", Amount: amount(`0`), AccountReference: "Ref1"})
				return err
			},
		},
		{
			name:  "push non-numeric amount",
			field: "amount",
			call: func(s *services.PaymentService) error {
				_, err := s.InitiatePush(context.Background(), services.PushPayload{Phone: "0712345678", Amount: amount(`"abc"`), AccountReference: "Ref1"})
				return err
			},
		},
		{
			name:  "push amount checked before phone",
			field: "amount",
			call: func(s *services.PaymentService) error {
				_, err := s.InitiatePush(context.Background(), services.PushPayload{Phone: "123", Amount: amount(`-1`), AccountReference: "Ref1"})
				return err
			},
		},
		{
			name:  "push bad phone",
			field: "phone",
			call: func(s *services.PaymentService) error {
				_, err := s.InitiatePush(context.Background(), services.PushPayload{Phone: "0812345678", Amount: amount(`100`), AccountReference: "Ref1"})
				return err
			},
		},
		{
			name:  "send unknown bank",
			field: "bankCode",
			call: func(s *services.PaymentService) error {
				_, err := s.SendToBank(context.Background(), services.BankPayload{AccountNumber: "1234567890", Amount: amount(`500`), BankCode: "ZZZ", AccountName: "Jane Doe"})
				return err
			},
		},
		{
			name:  "collect negative amount",
			field: "amount",
			call: func(s *services.PaymentService) error {
				_, err := s.CollectFromBank(context.Background(), services.BankPayload{AccountNumber: "1234567890", Amount: amount(`-10`), BankCode: "KCB"})
				return err
			},
		},
		{
			name:  "collect missing account",
			field: "accountNumber",
			call: func(s *services.PaymentService) error {
				_, err := s.CollectFromBank(context.Background(), services.BankPayload{Amount: amount(`10`), BankCode: "KCB"})
				return err
			},
		},
		{
			name:  "collect missing account name",
			field: "accountName",
			call: func(s *services.PaymentService) error {
				_, err := s.CollectFromBank(context.Background(), services.BankPayload{AccountNumber: "1234567890", Amount: amount(`10`), BankCode: "KCB"})
				return err
			},
		},
		{
			name:  "send blank account name",
			field: "accountName",
			call: func(s *services.PaymentService) error {
				_, err := s.SendToBank(context.Background(), services.BankPayload{AccountNumber: "1234567890", Amount: amount(`10`), BankCode: "KCB", AccountName: "   "})
				return err
			},
		},
		{
			name:  "card unsupported currency",
			field: "currency",
			call: func(s *services.PaymentService) error {
				_, err := s.CreateCardPayment(context.Background(), services.CardPayload{Amount: amount(`5000`), Currency: "XYZ"})
				return err
			},
		},
		{
			name:  "card zero amount",
			field: "amount",
			call: func(s *services.PaymentService) error {
				_, err := s.CreateCardPayment(context.Background(), services.CardPayload{Amount: amount(`0`), Currency: "USD"})
				return err
			},
		},
		{
			name:  "reversal missing amount",
			field: "amount",
			call: func(s *services.PaymentService) error {
				_, err := s.ReverseBankTransaction(context.Background(), services.ReversalPayload{TransactionID: "NLJ41HAY6Q"})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// no EXPECT calls: any provider or store call fails the test
			f := newPaymentFixture(t)

			err := tt.call(f.svc)
			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestInitiate_AdapterFailurePersistsNothing(t *testing.T) {
	f := newPaymentFixture(t)
	providerErr := &apperrors.AdapterError{Provider: gateways.ProviderMpesa, Op: "stk push", StatusCode: 400, Err: errors.New("Invalid PhoneNumber")}

	f.mpesa.EXPECT().InitiatePush(gomock.Any(), gomock.Any()).Return(nil, providerErr)
	f.store.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.svc.InitiatePush(context.Background(), services.PushPayload{Phone: "0712345678", Amount: amount(`100`), AccountReference: "Ref1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsAdapter(err))
}

func TestInitiate_AcceptedWithoutCorrelationID(t *testing.T) {
	f := newPaymentFixture(t)

	f.bank.EXPECT().InitiateCredit(gomock.Any(), gomock.Any()).Return(&gateways.Initiation{}, nil)
	f.store.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.svc.SendToBank(context.Background(), services.BankPayload{AccountNumber: "1234567890", Amount: amount(`500`), BankCode: "KCB", AccountName: "Jane Doe"})
	assert.True(t, apperrors.IsAdapter(err))
}

func TestInitiate_PersistenceFaultAfterAcceptance(t *testing.T) {
	f := newPaymentFixture(t)

	f.mpesa.EXPECT().InitiatePush(gomock.Any(), gomock.Any()).Return(&gateways.Initiation{CorrelationID: "cr1"}, nil)
	f.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("server selection timeout"))

	_, err := f.svc.InitiatePush(context.Background(), services.PushPayload{Phone: "0712345678", Amount: amount(`100`), AccountReference: "Ref1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsPersistence(err))
	assert.Equal(t, 500, apperrors.HTTPStatus(err))
}

func TestBankTransfers_ResolveRegistryAndDirection(t *testing.T) {
	t.Run("send", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.bank.EXPECT().
			InitiateCredit(gomock.Any(), gateways.TransferRequest{
				AccountNumber: "1234567890",
				Amount:        2500,
				BankCode:      "68",
				AccountName:   "Jane Doe",
				Remarks:       "Supplier payout",
			}).
			Return(&gateways.Initiation{CorrelationID: "AG_1", SecondaryCorrelationID: "oc-1"}, nil)
		f.store.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
				assert.Equal(t, models.KindBankCredit, tx.Kind)
				assert.Equal(t, "EQUITY", tx.BankCode)
				assert.Equal(t, "oc-1", tx.SecondaryCorrelationID)
				return nil
			})

		got, err := f.svc.SendToBank(context.Background(), services.BankPayload{
			AccountNumber: "1234567890",
			Amount:        amount(`2500`),
			BankCode:      "equity",
			AccountName:   "Jane Doe",
			Remarks:       "Supplier payout",
		})
		require.NoError(t, err)
		assert.Equal(t, "AG_1", got.CorrelationID)
	})

	t.Run("collect", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.bank.EXPECT().InitiateCredit(gomock.Any(), gomock.Any()).Times(0)
		f.bank.EXPECT().
			InitiateDebit(gomock.Any(), gomock.Any()).
			Return(&gateways.Initiation{CorrelationID: "AG_2"}, nil)
		f.store.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
				assert.Equal(t, models.KindBankDebit, tx.Kind)
				assert.Equal(t, "Bank transfer", tx.Description)
				return nil
			})

		_, err := f.svc.CollectFromBank(context.Background(), services.BankPayload{AccountNumber: "1234567890", Amount: amount(`300`), BankCode: "KCB", AccountName: "Acme Ltd"})
		require.NoError(t, err)
	})
}

func TestCreateCardPayment(t *testing.T) {
	f := newPaymentFixture(t)

	f.card.EXPECT().
		CreatePaymentIntent(gomock.Any(), gateways.CardRequest{
			Amount:      5000,
			Currency:    "USD",
			Description: "Order 42",
			Metadata:    map[string]string{"order_id": "42"},
		}).
		Return(&gateways.CardIntent{ID: "pi_1", ClientSecret: "pi_1_secret", Status: "requires_payment_method"}, nil)
	f.store.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
			assert.Equal(t, "pi_1", tx.CorrelationID)
			assert.Equal(t, models.KindCardPayment, tx.Kind)
			assert.Equal(t, "USD", tx.Currency)
			return nil
		})

	got, err := f.svc.CreateCardPayment(context.Background(), services.CardPayload{Amount: amount(`5000`), Currency: "usd", Description: "Order 42", OrderID: "42"})
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", got.ClientSecret)
}

func TestQueryPushStatus(t *testing.T) {
	pending := &models.Transaction{CorrelationID: "cr1", SecondaryCorrelationID: "mr1", Status: models.StatusPending}
	code := 1032

	t.Run("by secondary id marks queried", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.store.EXPECT().FindByCorrelationID(gomock.Any(), models.FamilyMobileMoney, "mr1").Return(pending, nil)
		f.mpesa.EXPECT().QueryPush(gomock.Any(), "cr1").Return(&gateways.PushStatus{CheckoutRequestID: "cr1", ResultCode: &code, ResultDesc: "Request cancelled by user"}, nil)
		f.store.EXPECT().MarkQueried(gomock.Any(), models.FamilyMobileMoney, "cr1", "Request cancelled by user").Return(nil)
		f.store.EXPECT().Settle(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		got, err := f.svc.QueryPushStatus(context.Background(), services.QueryPayload{TransactionID: "mr1"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusQueried, got.Status)
		assert.Equal(t, &code, got.ResultCode)
	})

	t.Run("unknown id still queries provider", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.store.EXPECT().FindByCorrelationID(gomock.Any(), models.FamilyMobileMoney, "ws_CO_x").Return(nil, apperrors.ErrNotFound)
		f.mpesa.EXPECT().QueryPush(gomock.Any(), "ws_CO_x").Return(&gateways.PushStatus{ResponseDescription: "accepted"}, nil)

		got, err := f.svc.QueryPushStatus(context.Background(), services.QueryPayload{TransactionID: "ws_CO_x"})
		require.NoError(t, err)
		assert.Nil(t, got.Transaction)
		assert.Empty(t, got.Status)
	})

	t.Run("terminal record left alone", func(t *testing.T) {
		f := newPaymentFixture(t)
		done := &models.Transaction{CorrelationID: "cr2", Status: models.StatusCompleted}
		f.store.EXPECT().FindByCorrelationID(gomock.Any(), models.FamilyMobileMoney, "cr2").Return(done, nil)
		f.mpesa.EXPECT().QueryPush(gomock.Any(), "cr2").Return(&gateways.PushStatus{}, nil)
		f.store.EXPECT().MarkQueried(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		got, err := f.svc.QueryPushStatus(context.Background(), services.QueryPayload{TransactionID: "cr2"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, got.Status)
	})

	t.Run("missing id", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.svc.QueryPushStatus(context.Background(), services.QueryPayload{})
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestQueryBankStatus(t *testing.T) {
	f := newPaymentFixture(t)
	pending := &models.Transaction{CorrelationID: "AG_1", Status: models.StatusPending}

	f.store.EXPECT().FindByCorrelationID(gomock.Any(), models.FamilyBank, "AG_1").Return(pending, nil)
	f.bank.EXPECT().QueryStatus(gomock.Any(), "NLJ41HAY6Q", "AG_1").Return(&gateways.Initiation{CorrelationID: "AG_q", ResponseDescription: "Accept the service request successfully."}, nil)
	f.store.EXPECT().MarkQueried(gomock.Any(), models.FamilyBank, "AG_1", "Accept the service request successfully.").Return(apperrors.ErrNotFound)

	got, err := f.svc.QueryBankStatus(context.Background(), services.QueryPayload{TransactionID: "NLJ41HAY6Q", Reference: "AG_1"})
	require.NoError(t, err)
	assert.Equal(t, "AG_q", got.QueryCorrelationID)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestQueryCardStatus(t *testing.T) {
	f := newPaymentFixture(t)
	pending := &models.Transaction{CorrelationID: "pi_1", Status: models.StatusPending}

	f.store.EXPECT().FindByCorrelationID(gomock.Any(), models.FamilyCard, "pi_1").Return(pending, nil)
	f.card.EXPECT().GetPaymentIntent(gomock.Any(), "pi_1").Return(&gateways.CardIntent{ID: "pi_1", Status: "processing"}, nil)
	f.store.EXPECT().MarkQueried(gomock.Any(), models.FamilyCard, "pi_1", "processing").Return(nil)

	got, err := f.svc.QueryCardStatus(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, "processing", got.ProviderStatus)
	assert.Equal(t, models.StatusQueried, got.Status)
}

func TestReverseBankTransaction_CreatesSeparateRecord(t *testing.T) {
	f := newPaymentFixture(t)

	f.bank.EXPECT().Reverse(gomock.Any(), "NLJ41HAY6Q", int64(2500), "Customer refund").Return(&gateways.Initiation{CorrelationID: "AG_rev", SecondaryCorrelationID: "oc-rev"}, nil)
	f.store.EXPECT().Settle(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.store.EXPECT().MarkQueried(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.store.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
			assert.Equal(t, "AG_rev", tx.CorrelationID)
			assert.Equal(t, models.KindReversal, tx.Kind)
			assert.Equal(t, "NLJ41HAY6Q", tx.OriginalReference)
			assert.Equal(t, int64(2500), tx.Amount)
			return nil
		})

	got, err := f.svc.ReverseBankTransaction(context.Background(), services.ReversalPayload{TransactionID: "NLJ41HAY6Q", Amount: amount(`2500`), Remarks: "Customer refund"})
	require.NoError(t, err)
	assert.Equal(t, "NLJ41HAY6Q", got.OriginalReference)
	assert.Equal(t, models.KindReversal, got.Kind)
}

func TestRefundCardPayment(t *testing.T) {
	original := &models.Transaction{CorrelationID: "pi_1", Kind: models.KindCardPayment, Amount: 5000, Currency: "USD", Status: models.StatusCompleted}

	t.Run("full refund", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.store.EXPECT().FindByCorrelationID(gomock.Any(), models.FamilyCard, "pi_1").Return(original, nil)
		f.card.EXPECT().Refund(gomock.Any(), "pi_1", int64(0), "").Return(&gateways.Initiation{CorrelationID: "re_1", SecondaryCorrelationID: "pi_1", ResponseDescription: "pending"}, nil)
		f.store.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
				assert.Equal(t, "re_1", tx.CorrelationID)
				assert.Empty(t, tx.SecondaryCorrelationID)
				assert.Equal(t, models.KindCardRefund, tx.Kind)
				assert.Equal(t, int64(5000), tx.Amount)
				assert.Equal(t, "pi_1", tx.OriginalReference)
				return nil
			})

		_, err := f.svc.RefundCardPayment(context.Background(), "pi_1", services.RefundPayload{})
		require.NoError(t, err)
	})

	t.Run("more than paid", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.store.EXPECT().FindByCorrelationID(gomock.Any(), models.FamilyCard, "pi_1").Return(original, nil)

		_, err := f.svc.RefundCardPayment(context.Background(), "pi_1", services.RefundPayload{Amount: amount(`6000`)})
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "amount", verr.Field)
	})

	t.Run("unknown payment", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.store.EXPECT().FindByCorrelationID(gomock.Any(), models.FamilyCard, "pi_x").Return(nil, apperrors.ErrNotFound)

		_, err := f.svc.RefundCardPayment(context.Background(), "pi_x", services.RefundPayload{})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestListTransactions(t *testing.T) {
	f := newPaymentFixture(t)
	since := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	f.store.EXPECT().ListByStatus(gomock.Any(), models.FamilyBank, models.StatusPending, since, int64(50)).Return([]models.Transaction{{CorrelationID: "AG_1"}}, nil)

	got, err := f.svc.ListTransactions(context.Background(), models.FamilyBank, "", since, 50)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = f.svc.ListTransactions(context.Background(), models.Family("cash"), "", since, 50)
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.ListTransactions(context.Background(), models.FamilyBank, models.Status("settled"), since, 50)
	assert.True(t, apperrors.IsValidation(err))
}

func TestBanksAndBalance(t *testing.T) {
	f := newPaymentFixture(t)
	assert.NotEmpty(t, f.svc.Banks())

	f.bank.EXPECT().CheckBalance(gomock.Any()).Return(&gateways.Initiation{CorrelationID: "AG_bal"}, nil)
	got, err := f.svc.CheckBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AG_bal", got.CorrelationID)
}
