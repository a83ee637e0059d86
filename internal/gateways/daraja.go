package gateways

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opencart/opencart-gobackend/internal/apperrors"
	"github.com/opencart/opencart-gobackend/internal/models"
)

const (
	ProviderMpesa = "mpesa"
	ProviderBank  = "bank"

	timestampLayout    = "20060102150405"
	tokenExpiryMargin  = 60 * time.Second
	defaultCallTimeout = 30 * time.Second
)

// TokenCache stores provider access tokens between requests.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, token string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type DarajaConfig struct {
	BaseURL            string
	ConsumerKey        string
	ConsumerSecret     string
	ShortCode          string
	Passkey            string
	InitiatorName      string
	SecurityCredential string
	CallbackURL        string
	ResultURL          string
	QueueTimeoutURL    string
	Timeout            time.Duration
}

// Daraja holds the credentials and transport shared by the mobile-money and
// bank gateways. It keeps no per-request state.
type Daraja struct {
	cfg    DarajaConfig
	client *http.Client
	tokens TokenCache
	logger *zap.Logger
	now    func() time.Time
}

func NewDaraja(cfg DarajaConfig, tokens TokenCache, logger *zap.Logger) *Daraja {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultCallTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Daraja{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// Timestamp formats t the way Daraja signs requests: to the second, East
// Africa Time, no zone suffix.
func Timestamp(t time.Time) string {
	return t.In(models.ProviderLocation).Format(timestampLayout)
}

// Password derives the time-bound STK password from the shortcode, passkey
// and request timestamp.
func Password(shortCode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))
}

// credentials returns a fresh password and the timestamp it was derived from.
func (d *Daraja) credentials() (password, timestamp string) {
	timestamp = Timestamp(d.now())
	return Password(d.cfg.ShortCode, d.cfg.Passkey, timestamp), timestamp
}

func (d *Daraja) tokenKey() string {
	return "daraja:token:" + d.cfg.ConsumerKey
}

// Authenticate returns a bearer token, from the cache when one is held.
func (d *Daraja) Authenticate(ctx context.Context) (string, error) {
	if d.tokens != nil {
		token, ok, err := d.tokens.Get(ctx, d.tokenKey())
		if err != nil {
			d.logger.Warn("token cache read failed", zap.Error(err))
		} else if ok {
			return token, nil
		}
	}

	token, ttl, err := d.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	if d.tokens != nil && ttl > 0 {
		if err := d.tokens.Set(ctx, d.tokenKey(), token, ttl); err != nil {
			d.logger.Warn("token cache write failed", zap.Error(err))
		}
	}
	return token, nil
}

func (d *Daraja) invalidateToken(ctx context.Context) {
	if d.tokens == nil {
		return
	}
	if err := d.tokens.Delete(ctx, d.tokenKey()); err != nil {
		d.logger.Warn("token cache delete failed", zap.Error(err))
	}
}

func (d *Daraja) fetchToken(ctx context.Context) (string, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.cfg.BaseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", 0, &apperrors.AdapterError{Provider: ProviderMpesa, Op: "authenticate", Err: err}
	}
	req.SetBasicAuth(d.cfg.ConsumerKey, d.cfg.ConsumerSecret)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", 0, &apperrors.AdapterError{Provider: ProviderMpesa, Op: "authenticate", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", 0, &apperrors.AdapterError{Provider: ProviderMpesa, Op: "authenticate", StatusCode: resp.StatusCode, Err: errors.New(string(body))}
	}

	var result struct {
		AccessToken string          `json:"access_token"`
		ExpiresIn   json.RawMessage `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", 0, &apperrors.AdapterError{Provider: ProviderMpesa, Op: "authenticate", Err: fmt.Errorf("decode token: %w", err)}
	}
	if result.AccessToken == "" {
		return "", 0, &apperrors.AdapterError{Provider: ProviderMpesa, Op: "authenticate", Err: errors.New("empty access token")}
	}

	seconds, _ := strconv.Atoi(strings.Trim(string(result.ExpiresIn), `"`))
	ttl := time.Duration(seconds)*time.Second - tokenExpiryMargin
	if ttl < 0 {
		ttl = 0
	}
	return result.AccessToken, ttl, nil
}

// darajaResponse covers the synchronous acknowledgment of every Daraja API
// plus its error body.
type darajaResponse struct {
	MerchantRequestID        string             `json:"MerchantRequestID"`
	CheckoutRequestID        string             `json:"CheckoutRequestID"`
	ConversationID           string             `json:"ConversationID"`
	OriginatorConversationID string             `json:"OriginatorConversationID"`
	ResponseCode             string             `json:"ResponseCode"`
	ResponseDescription      string             `json:"ResponseDescription"`
	CustomerMessage          string             `json:"CustomerMessage"`
	ResultCode               *models.ResultCode `json:"ResultCode"`
	ResultDesc               string             `json:"ResultDesc"`
	RequestID                string             `json:"requestId"`
	ErrorCode                string             `json:"errorCode"`
	ErrorMessage             string             `json:"errorMessage"`
}

// call posts payload with a bearer token. A 401 drops the cached token and
// retries once with a fresh one.
func (d *Daraja) call(ctx context.Context, provider, op, path string, payload interface{}) (*darajaResponse, json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, &apperrors.AdapterError{Provider: provider, Op: op, Err: fmt.Errorf("marshal request: %w", err)}
	}
	d.logger.Debug("daraja request", zap.String("op", op), zap.ByteString("body", maskSensitiveFields(body)))

	for attempt := 0; ; attempt++ {
		token, err := d.Authenticate(ctx)
		if err != nil {
			return nil, nil, err
		}

		status, raw, err := d.post(ctx, path, token, body)
		if err != nil {
			return nil, nil, &apperrors.AdapterError{Provider: provider, Op: op, Err: err}
		}
		if status == http.StatusUnauthorized && attempt == 0 {
			d.logger.Info("daraja rejected token, re-authenticating", zap.String("op", op))
			d.invalidateToken(ctx)
			continue
		}

		var resp darajaResponse
		decodeErr := json.Unmarshal(raw, &resp)
		if status != http.StatusOK {
			msg := resp.ErrorMessage
			if msg == "" {
				msg = string(raw)
			}
			return nil, raw, &apperrors.AdapterError{Provider: provider, Op: op, StatusCode: status, Err: errors.New(msg)}
		}
		if decodeErr != nil {
			return nil, raw, &apperrors.AdapterError{Provider: provider, Op: op, Err: fmt.Errorf("decode response: %w", decodeErr)}
		}
		if resp.ResponseCode != "" && resp.ResponseCode != "0" {
			return nil, raw, &apperrors.AdapterError{Provider: provider, Op: op, Err: fmt.Errorf("rejected with code %s: %s", resp.ResponseCode, resp.ResponseDescription)}
		}
		return &resp, raw, nil
	}
}

func (d *Daraja) post(ctx context.Context, path, token string, body []byte) (int, json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, raw, nil
}

var sensitiveKeys = []string{"Password", "SecurityCredential", "PhoneNumber", "PartyA", "PartyB", "AccountReference"}

// maskSensitiveFields keeps only the last four characters of credentials,
// phone numbers and account numbers before a body is logged.
func maskSensitiveFields(body []byte) []byte {
	var req map[string]interface{}
	if err := json.Unmarshal(body, &req); err != nil {
		return body
	}
	for _, key := range sensitiveKeys {
		v, ok := req[key].(string)
		if !ok {
			continue
		}
		if len(v) > 4 {
			req[key] = "****" + v[len(v)-4:]
		} else {
			req[key] = "****"
		}
	}
	masked, _ := json.Marshal(req)
	return masked
}
