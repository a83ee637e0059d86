package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/opencart/opencart-gobackend/internal/models"
	"github.com/opencart/opencart-gobackend/internal/services"
)

func (h *PaymentHandler) InitiatePush(w http.ResponseWriter, r *http.Request) {
	var req services.PushPayload
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	receipt, err := h.payments.InitiatePush(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "STK push sent, awaiting customer confirmation", receipt)
}

func (h *PaymentHandler) PushStatus(w http.ResponseWriter, r *http.Request) {
	var req services.QueryPayload
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	report, err := h.payments.QueryPushStatus(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "STK push status retrieved", report)
}

// PushCallback always answers 200 with a Daraja acknowledgment; a failure
// code in the body is what makes Daraja redeliver.
func (h *PaymentHandler) PushCallback(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.logger.Warn("stk callback body unreadable", zap.Error(err))
		writeJSON(w, http.StatusOK, models.AckRejected("Rejected: unreadable body"))
		return
	}

	ack, outcome := h.reconciler.ReconcilePush(r.Context(), body)
	h.logger.Debug("stk callback handled", zap.String("outcome", string(outcome)))
	writeJSON(w, http.StatusOK, ack)
}
