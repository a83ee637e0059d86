package gateways

import (
	"context"
	"encoding/json"
)

// Initiation is a provider's acceptance of an asynchronous request.
// CorrelationID is the identifier its callback will carry.
type Initiation struct {
	CorrelationID          string          `json:"correlation_id"`
	SecondaryCorrelationID string          `json:"secondary_correlation_id,omitempty"`
	ResponseDescription    string          `json:"response_description,omitempty"`
	Raw                    json.RawMessage `json:"-"`
}

type PushRequest struct {
	Phone            string
	Amount           int64
	AccountReference string
	Description      string
}

// PushStatus is the synchronous answer to an STK status query.
type PushStatus struct {
	CheckoutRequestID   string          `json:"checkout_request_id"`
	MerchantRequestID   string          `json:"merchant_request_id"`
	ResponseDescription string          `json:"response_description,omitempty"`
	ResultCode          *int            `json:"result_code,omitempty"`
	ResultDesc          string          `json:"result_desc,omitempty"`
	Raw                 json.RawMessage `json:"-"`
}

// MpesaGateway requests payments from a customer's phone (STK push).
type MpesaGateway struct {
	daraja *Daraja
}

func NewMpesaGateway(d *Daraja) *MpesaGateway {
	return &MpesaGateway{daraja: d}
}

func (g *MpesaGateway) InitiatePush(ctx context.Context, req PushRequest) (*Initiation, error) {
	password, timestamp := g.daraja.credentials()
	cfg := g.daraja.cfg

	body := map[string]interface{}{
		"BusinessShortCode": cfg.ShortCode,
		"Password":          password,
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            req.Amount,
		"PartyA":            req.Phone,
		"PartyB":            cfg.ShortCode,
		"PhoneNumber":       req.Phone,
		"CallBackURL":       cfg.CallbackURL,
		"AccountReference":  req.AccountReference,
		"TransactionDesc":   req.Description,
	}

	resp, raw, err := g.daraja.call(ctx, ProviderMpesa, "stk push", "/mpesa/stkpush/v1/processrequest", body)
	if err != nil {
		return nil, err
	}
	return &Initiation{
		CorrelationID:          resp.CheckoutRequestID,
		SecondaryCorrelationID: resp.MerchantRequestID,
		ResponseDescription:    resp.ResponseDescription,
		Raw:                    raw,
	}, nil
}

// QueryPush asks for the state of an STK push. The password is derived again
// for this request; the one used at initiation has expired by now.
func (g *MpesaGateway) QueryPush(ctx context.Context, checkoutRequestID string) (*PushStatus, error) {
	password, timestamp := g.daraja.credentials()

	body := map[string]interface{}{
		"BusinessShortCode": g.daraja.cfg.ShortCode,
		"Password":          password,
		"Timestamp":         timestamp,
		"CheckoutRequestID": checkoutRequestID,
	}

	resp, raw, err := g.daraja.call(ctx, ProviderMpesa, "stk query", "/mpesa/stkpushquery/v1/query", body)
	if err != nil {
		return nil, err
	}

	status := &PushStatus{
		CheckoutRequestID:   resp.CheckoutRequestID,
		MerchantRequestID:   resp.MerchantRequestID,
		ResponseDescription: resp.ResponseDescription,
		ResultDesc:          resp.ResultDesc,
		Raw:                 raw,
	}
	if resp.ResultCode != nil {
		code := int(*resp.ResultCode)
		status.ResultCode = &code
	}
	return status, nil
}
