package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/opencart/opencart-gobackend/internal/models"
	"github.com/opencart/opencart-gobackend/internal/services"
)

func (h *PaymentHandler) SendToBank(w http.ResponseWriter, r *http.Request) {
	var req services.BankPayload
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	receipt, err := h.payments.SendToBank(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Bank transfer initiated", receipt)
}

func (h *PaymentHandler) CollectFromBank(w http.ResponseWriter, r *http.Request) {
	var req services.BankPayload
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	receipt, err := h.payments.CollectFromBank(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Bank collection initiated", receipt)
}

func (h *PaymentHandler) QueryBankStatus(w http.ResponseWriter, r *http.Request) {
	var req services.QueryPayload
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	report, err := h.payments.QueryBankStatus(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Status query submitted", report)
}

func (h *PaymentHandler) ReverseBankTransaction(w http.ResponseWriter, r *http.Request) {
	var req services.ReversalPayload
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	receipt, err := h.payments.ReverseBankTransaction(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.logger.Info("reversal requested",
		zap.String("operator", Subject(r.Context())),
		zap.String("transaction_id", req.TransactionID),
		zap.String("correlation_id", receipt.CorrelationID))
	respond(w, http.StatusOK, "Reversal requested", receipt)
}

func (h *PaymentHandler) BankResult(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.logger.Warn("result callback body unreadable", zap.Error(err))
		writeJSON(w, http.StatusOK, models.AckRejected("Rejected: unreadable body"))
		return
	}

	ack, outcome := h.reconciler.ReconcileBankResult(r.Context(), body)
	h.logger.Debug("result callback handled", zap.String("outcome", string(outcome)))
	writeJSON(w, http.StatusOK, ack)
}

func (h *PaymentHandler) BankTimeout(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.logger.Warn("timeout callback body unreadable", zap.Error(err))
		writeJSON(w, http.StatusOK, models.AckRejected("Rejected: unreadable body"))
		return
	}

	ack, _ := h.reconciler.ReconcileBankTimeout(r.Context(), body)
	writeJSON(w, http.StatusOK, ack)
}
