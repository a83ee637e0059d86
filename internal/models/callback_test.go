package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencart/opencart-gobackend/internal/models"
)

func TestExtractSTKMetadata(t *testing.T) {
	body := `{"Body":{"stkCallback":{
		"MerchantRequestID":"mr1","CheckoutRequestID":"cr1","ResultCode":0,"ResultDesc":"ok",
		"CallbackMetadata":{"Item":[
			{"Name":"Amount","Value":1.00},
			{"Name":"MpesaReceiptNumber","Value":"ABC123"},
			{"Name":"Balance"},
			{"Name":"TransactionDate","Value":20191219102115},
			{"Name":"PhoneNumber","Value":254712345678}
		]}}}}`

	var env models.STKCallbackEnvelope
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	require.NotNil(t, env.Body.StkCallback)
	require.NotNil(t, env.Body.StkCallback.ResultCode)
	assert.Equal(t, models.ResultCode(0), *env.Body.StkCallback.ResultCode)

	got := models.ExtractSTKMetadata(env.Body.StkCallback.CallbackMetadata.Item)
	assert.Equal(t, "ABC123", got.ReceiptNumber)
	assert.Equal(t, int64(1), got.Amount)
	assert.Equal(t, "254712345678", got.PhoneNumber)
	require.NotNil(t, got.TransactionDate)
	assert.True(t, got.TransactionDate.Equal(time.Date(2019, 12, 19, 10, 21, 15, 0, models.ProviderLocation)))
}

func TestExtractSTKMetadata_MissingItems(t *testing.T) {
	got := models.ExtractSTKMetadata(nil)
	assert.Empty(t, got.ReceiptNumber)
	assert.Nil(t, got.TransactionDate)
	assert.Zero(t, got.Amount)
}

func TestResultEnvelope_SingleParameterAndStringCode(t *testing.T) {
	body := `{"Result":{"ResultType":0,"ResultCode":"2001","ResultDesc":"The initiator information is invalid.",
		"OriginatorConversationID":"oc1","ConversationID":"c1","TransactionID":"T1",
		"ResultParameters":{"ResultParameter":{"Key":"TransactionReceipt","Value":"RCPT1"}}}}`

	var env models.ResultEnvelope
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	require.NotNil(t, env.Result)
	assert.Equal(t, models.ResultCode(2001), *env.Result.ResultCode)
	require.Len(t, env.Result.ResultParameters.ResultParameter, 1)
	assert.Equal(t, "RCPT1", models.ExtractResultParameters(env.Result.ResultParameters.ResultParameter).Receipt)
}

func TestExtractResultParameters(t *testing.T) {
	params := models.ParameterList{
		{Key: "TransactionAmount", Value: json.RawMessage(`8000`)},
		{Key: "TransactionReceipt", Value: json.RawMessage(`"NLJ41HAY6Q"`)},
		{Key: "TransactionCompletedDateTime", Value: json.RawMessage(`"19.12.2019 11:45:50"`)},
		{Key: "ReceiverPartyPublicName", Value: json.RawMessage(`"254708374149 - John Doe"`)},
	}

	got := models.ExtractResultParameters(params)
	assert.Equal(t, "NLJ41HAY6Q", got.Receipt)
	assert.Equal(t, int64(8000), got.Amount)
	assert.Equal(t, "254708374149 - John Doe", got.ReceiverName)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, 11, got.CompletedAt.Hour())
}

func TestExtractResultParameters_AmountsInWholeUnits(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int64
	}{
		{name: "integer", value: `2500`, want: 2500},
		{name: "decimal string", value: `"2500.00"`, want: 2500},
		{name: "rounds half up", value: `99.5`, want: 100},
		{name: "huge exponent", value: `1e2000000000`, want: 0},
		{name: "overflow", value: `99999999999999999999`, want: 0},
		{name: "not a number", value: `"n/a"`, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			got := models.ExtractResultParameters(models.ParameterList{{Key: "TransactionAmount", Value: json.RawMessage(tt.value)}})
			assert.Less(t, time.Since(start), 100*time.Millisecond)
			assert.Equal(t, tt.want, got.Amount)
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to models.Status
		want     bool
	}{
		{models.StatusPending, models.StatusCompleted, true},
		{models.StatusPending, models.StatusFailed, true},
		{models.StatusPending, models.StatusQueried, true},
		{models.StatusQueried, models.StatusCompleted, true},
		{models.StatusQueried, models.StatusQueried, true},
		{models.StatusCompleted, models.StatusFailed, false},
		{models.StatusFailed, models.StatusCompleted, false},
		{models.StatusCompleted, models.StatusQueried, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
	assert.True(t, models.StatusCompleted.Terminal())
	assert.False(t, models.StatusQueried.Terminal())
}

func TestStatusSources(t *testing.T) {
	movable := []models.Status{models.StatusPending, models.StatusQueried}
	assert.Equal(t, movable, models.StatusCompleted.Sources())
	assert.Equal(t, movable, models.StatusFailed.Sources())
	assert.Equal(t, movable, models.StatusQueried.Sources())
	assert.Empty(t, models.StatusPending.Sources())
	for _, s := range models.Statuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, models.Status("settled").Valid())
}
