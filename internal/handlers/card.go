package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/opencart/opencart-gobackend/internal/apperrors"
	"github.com/opencart/opencart-gobackend/internal/services"
)

func (h *PaymentHandler) CreateCardPayment(w http.ResponseWriter, r *http.Request) {
	var req services.CardPayload
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	receipt, err := h.payments.CreateCardPayment(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Payment intent created", receipt)
}

func (h *PaymentHandler) CardStatus(w http.ResponseWriter, r *http.Request) {
	report, err := h.payments.QueryCardStatus(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Card payment status retrieved", report)
}

func (h *PaymentHandler) RefundCardPayment(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, h.logger, apperrors.Invalid("", "request body too large"))
		return
	}
	var req services.RefundPayload
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, h.logger, apperrors.Invalid("", "invalid request body: "+err.Error()))
			return
		}
	}

	paymentID := mux.Vars(r)["id"]
	receipt, err := h.payments.RefundCardPayment(r.Context(), paymentID, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.logger.Info("refund requested",
		zap.String("operator", Subject(r.Context())),
		zap.String("payment_id", paymentID),
		zap.String("correlation_id", receipt.CorrelationID))
	respond(w, http.StatusOK, "Refund requested", receipt)
}

// CardWebhook answers Stripe with 400 for a bad signature or body, 500 when
// the outcome could not be stored (Stripe retries), and 200 otherwise.
func (h *PaymentHandler) CardWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	outcome, err := h.reconciler.ReconcileCard(r.Context(), body, r.Header.Get("Stripe-Signature"))
	switch {
	case outcome == services.OutcomeRejected:
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "webhook rejected"})
	case outcome == services.OutcomeFault || err != nil:
		h.logger.Error("stripe webhook not recorded", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, apiResponse{Message: "webhook not recorded"})
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{"received": true, "outcome": outcome})
	}
}
