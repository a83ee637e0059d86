package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/opencart/opencart-gobackend/internal/apperrors"
	"github.com/opencart/opencart-gobackend/internal/models"
	"github.com/opencart/opencart-gobackend/internal/services"
)

// PaymentHandler serves initiation, query, callback and audit endpoints for
// every payment family.
type PaymentHandler struct {
	payments   *services.PaymentService
	reconciler *services.ReconciliationService
	logger     *zap.Logger
}

func NewPaymentHandler(payments *services.PaymentService, reconciler *services.ReconciliationService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, reconciler: reconciler, logger: logger}
}

// ListTransactions serves GET /api/transactions/{family}?status=&since=&limit=.
// since is RFC3339; status defaults to pending.
func (h *PaymentHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	family := models.Family(mux.Vars(r)["family"])
	query := r.URL.Query()

	var since time.Time
	if s := query.Get("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, h.logger, apperrors.Invalid("since", "must be an RFC3339 timestamp"))
			return
		}
		since = t
	}

	var limit int64
	if l := query.Get("limit"); l != "" {
		n, err := strconv.ParseInt(l, 10, 64)
		if err != nil || n <= 0 {
			writeError(w, h.logger, apperrors.Invalid("limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	txs, err := h.payments.ListTransactions(r.Context(), family, models.Status(query.Get("status")), since, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Transactions retrieved", txs)
}

func (h *PaymentHandler) Banks(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "Supported banks", h.payments.Banks())
}

func (h *PaymentHandler) Balance(w http.ResponseWriter, r *http.Request) {
	accepted, err := h.payments.CheckBalance(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusAccepted, "Balance request accepted; the result is posted to the result URL", accepted)
}

func (h *PaymentHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "Payment reconciliation API is running", nil)
}
