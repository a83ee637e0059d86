package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProviderLocation is the wall clock Daraja stamps its timestamps in.
var ProviderLocation = time.FixedZone("EAT", 3*60*60)

const (
	stkDateLayout    = "20060102150405"
	resultDateLayout = "02.01.2006 15:04:05"

	maxAmountChars    = 32
	maxAmountExponent = 18
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// Ack is the acknowledgment body Daraja expects back from every callback.
type Ack struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

func AckAccepted() Ack {
	return Ack{ResultCode: 0, ResultDesc: "Accepted"}
}

func AckRejected(desc string) Ack {
	return Ack{ResultCode: 1, ResultDesc: desc}
}

// ResultCode accepts both numeric and quoted numeric codes.
type ResultCode int

func (c *ResultCode) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("result code %q is not numeric", s)
	}
	*c = ResultCode(n)
	return nil
}

// STKCallbackEnvelope is the body of an STK push callback.
type STKCallbackEnvelope struct {
	Body struct {
		StkCallback *STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

type STKCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        *ResultCode       `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

type CallbackMetadata struct {
	Item []MetadataItem `json:"Item"`
}

type MetadataItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value,omitempty"`
}

// ResultEnvelope is the body Daraja posts to the result URL for B2C, B2B,
// status query and reversal requests.
type ResultEnvelope struct {
	Result *Result `json:"Result"`
}

type Result struct {
	ResultType               int               `json:"ResultType"`
	ResultCode               *ResultCode       `json:"ResultCode"`
	ResultDesc               string            `json:"ResultDesc"`
	OriginatorConversationID string            `json:"OriginatorConversationID"`
	ConversationID           string            `json:"ConversationID"`
	TransactionID            string            `json:"TransactionID"`
	ResultParameters         *ResultParameters `json:"ResultParameters,omitempty"`
}

type ResultParameters struct {
	ResultParameter ParameterList `json:"ResultParameter"`
}

type KeyValue struct {
	Key   string          `json:"Key"`
	Value json.RawMessage `json:"Value,omitempty"`
}

// ParameterList decodes ResultParameter whether Daraja sends one object or a list.
type ParameterList []KeyValue

func (l *ParameterList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var single KeyValue
		if err := json.Unmarshal(b, &single); err != nil {
			return err
		}
		*l = ParameterList{single}
		return nil
	}
	var many []KeyValue
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// STKSettlement holds the metadata Daraja attaches to a successful STK callback.
type STKSettlement struct {
	ReceiptNumber   string
	TransactionDate *time.Time
	Amount          int64
	PhoneNumber     string
}

// ExtractSTKMetadata maps the known CallbackMetadata items to named fields.
// Missing or unparseable items leave the zero value in place.
func ExtractSTKMetadata(items []MetadataItem) STKSettlement {
	var out STKSettlement
	for _, item := range items {
		switch item.Name {
		case "MpesaReceiptNumber":
			out.ReceiptNumber = rawString(item.Value)
		case "TransactionDate":
			if t, err := time.ParseInLocation(stkDateLayout, rawString(item.Value), ProviderLocation); err == nil {
				out.TransactionDate = &t
			}
		case "Amount":
			out.Amount = rawAmount(item.Value)
		case "PhoneNumber":
			out.PhoneNumber = rawString(item.Value)
		}
	}
	return out
}

// ResultSettlement holds the parameters of a successful Result callback.
type ResultSettlement struct {
	Receipt      string
	CompletedAt  *time.Time
	Amount       int64
	ReceiverName string
}

func ExtractResultParameters(params ParameterList) ResultSettlement {
	var out ResultSettlement
	for _, p := range params {
		switch p.Key {
		case "TransactionReceipt":
			out.Receipt = rawString(p.Value)
		case "TransactionCompletedDateTime":
			if t, err := time.ParseInLocation(resultDateLayout, rawString(p.Value), ProviderLocation); err == nil {
				out.CompletedAt = &t
			}
		case "TransactionAmount", "Amount":
			out.Amount = rawAmount(p.Value)
		case "ReceiverPartyPublicName":
			out.ReceiverName = rawString(p.Value)
		}
	}
	return out
}

func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// rawAmount reads a provider amount in whole units, rounding half up.
// Values that are not numbers, or are out of range, read as zero.
func rawAmount(raw json.RawMessage) int64 {
	s := rawString(raw)
	if len(s) > maxAmountChars {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.Exponent() > maxAmountExponent || d.Exponent() < -maxAmountExponent {
		return 0
	}
	d = d.Round(0)
	if d.GreaterThan(maxAmount) || d.LessThan(decimal.Zero) {
		return 0
	}
	return d.IntPart()
}
