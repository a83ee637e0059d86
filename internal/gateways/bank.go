package gateways

import (
	"context"

	"github.com/google/uuid"
)

// Daraja command identifiers and the identifier type for bank-account parties.
const (
	CommandBusinessPayment    = "BusinessPayment"
	CommandBusinessPayBill    = "BusinessPayBill"
	CommandStatusQuery        = "TransactionStatusQuery"
	CommandReversal           = "TransactionReversal"
	CommandAccountBalance     = "AccountBalance"
	IdentifierTypeBankAccount = "4"
)

// TransferRequest moves Amount to or from AccountNumber. BankCode is the
// registry value (e.g. "01"), not the short name.
type TransferRequest struct {
	AccountNumber string
	Amount        int64
	BankCode      string
	AccountName   string
	Remarks       string
}

// BankGateway moves money between the business shortcode and bank accounts
// over the Daraja B2C and B2B rails.
type BankGateway struct {
	daraja *Daraja
	newID  func() string
}

func NewBankGateway(d *Daraja) *BankGateway {
	return &BankGateway{daraja: d, newID: uuid.NewString}
}

// InitiateCredit pays out from the business to a bank account.
func (g *BankGateway) InitiateCredit(ctx context.Context, req TransferRequest) (*Initiation, error) {
	cfg := g.daraja.cfg
	body := map[string]interface{}{
		"OriginatorConversationID": g.newID(),
		"InitiatorName":            cfg.InitiatorName,
		"SecurityCredential":       cfg.SecurityCredential,
		"CommandID":                CommandBusinessPayment,
		"Amount":                   req.Amount,
		"PartyA":                   cfg.ShortCode,
		"PartyB":                   req.AccountNumber,
		"Remarks":                  req.Remarks,
		"QueueTimeOutURL":          cfg.QueueTimeoutURL,
		"ResultURL":                cfg.ResultURL,
		"Occasion":                 "Payment to " + req.AccountName,
		"AccountReference":         req.AccountNumber,
		"ReceiverIdentifierType":   IdentifierTypeBankAccount,
		"BankCode":                 req.BankCode,
	}
	return g.submit(ctx, "bank credit", "/mpesa/b2c/v1/paymentrequest", body)
}

// InitiateDebit collects from a bank account into the business shortcode.
func (g *BankGateway) InitiateDebit(ctx context.Context, req TransferRequest) (*Initiation, error) {
	cfg := g.daraja.cfg
	body := map[string]interface{}{
		"OriginatorConversationID": g.newID(),
		"InitiatorName":            cfg.InitiatorName,
		"SecurityCredential":       cfg.SecurityCredential,
		"CommandID":                CommandBusinessPayBill,
		"Amount":                   req.Amount,
		"PartyA":                   req.AccountNumber,
		"PartyB":                   cfg.ShortCode,
		"Remarks":                  req.Remarks,
		"QueueTimeOutURL":          cfg.QueueTimeoutURL,
		"ResultURL":                cfg.ResultURL,
		"AccountReference":         req.AccountNumber,
		"SenderIdentifierType":     IdentifierTypeBankAccount,
		"RecieverIdentifierType":   IdentifierTypeBankAccount,
		"BankCode":                 req.BankCode,
		"Requester":                req.AccountName,
	}
	return g.submit(ctx, "bank debit", "/mpesa/b2b/v1/paymentrequest", body)
}

// QueryStatus asks Daraja to post the state of transactionID to the result URL.
func (g *BankGateway) QueryStatus(ctx context.Context, transactionID, reference string) (*Initiation, error) {
	cfg := g.daraja.cfg
	body := map[string]interface{}{
		"OriginatorConversationID": g.newID(),
		"InitiatorName":            cfg.InitiatorName,
		"SecurityCredential":       cfg.SecurityCredential,
		"CommandID":                CommandStatusQuery,
		"TransactionID":            transactionID,
		"PartyA":                   cfg.ShortCode,
		"IdentifierType":           IdentifierTypeBankAccount,
		"ResultURL":                cfg.ResultURL,
		"QueueTimeOutURL":          cfg.QueueTimeoutURL,
		"Remarks":                  "Transaction status query",
		"Occasion":                 reference,
	}
	return g.submit(ctx, "status query", "/mpesa/transactionstatus/v1/query", body)
}

// Reverse requests a reversal of a completed transaction. Acceptance only
// means the request was queued; the outcome arrives on the result URL.
func (g *BankGateway) Reverse(ctx context.Context, transactionID string, amount int64, remarks string) (*Initiation, error) {
	cfg := g.daraja.cfg
	body := map[string]interface{}{
		"OriginatorConversationID": g.newID(),
		"InitiatorName":            cfg.InitiatorName,
		"SecurityCredential":       cfg.SecurityCredential,
		"CommandID":                CommandReversal,
		"TransactionID":            transactionID,
		"Amount":                   amount,
		"ReceiverParty":            cfg.ShortCode,
		"RecieverIdentifierType":   IdentifierTypeBankAccount,
		"ResultURL":                cfg.ResultURL,
		"QueueTimeOutURL":          cfg.QueueTimeoutURL,
		"Remarks":                  remarks,
		"Occasion":                 "Transaction reversal",
	}
	return g.submit(ctx, "reversal", "/mpesa/reversal/v1/request", body)
}

// CheckBalance requests the shortcode balance; the figures arrive on the result URL.
func (g *BankGateway) CheckBalance(ctx context.Context) (*Initiation, error) {
	cfg := g.daraja.cfg
	body := map[string]interface{}{
		"OriginatorConversationID": g.newID(),
		"InitiatorName":            cfg.InitiatorName,
		"SecurityCredential":       cfg.SecurityCredential,
		"CommandID":                CommandAccountBalance,
		"PartyA":                   cfg.ShortCode,
		"IdentifierType":           IdentifierTypeBankAccount,
		"Remarks":                  "Balance inquiry",
		"QueueTimeOutURL":          cfg.QueueTimeoutURL,
		"ResultURL":                cfg.ResultURL,
	}
	return g.submit(ctx, "balance", "/mpesa/accountbalance/v1/query", body)
}

func (g *BankGateway) submit(ctx context.Context, op, path string, body map[string]interface{}) (*Initiation, error) {
	resp, raw, err := g.daraja.call(ctx, ProviderBank, op, path, body)
	if err != nil {
		return nil, err
	}
	return &Initiation{
		CorrelationID:          resp.ConversationID,
		SecondaryCorrelationID: resp.OriginatorConversationID,
		ResponseDescription:    resp.ResponseDescription,
		Raw:                    raw,
	}, nil
}
