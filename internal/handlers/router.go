package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter registers every route. Provider callbacks and customer checkout
// endpoints are public; operator endpoints require a bearer token signed
// with jwtSecret.
func NewRouter(h *PaymentHandler, jwtSecret []byte, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestLogger(logger))

	router.HandleFunc("/", h.Health).Methods("GET", "HEAD")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/mpesa/stk/initiate", h.InitiatePush).Methods("POST")
	api.HandleFunc("/mpesa/stk/callback", h.PushCallback).Methods("POST")
	api.HandleFunc("/bank/callback/result", h.BankResult).Methods("POST")
	api.HandleFunc("/bank/callback/timeout", h.BankTimeout).Methods("POST")
	api.HandleFunc("/payments/card", h.CreateCardPayment).Methods("POST")
	api.HandleFunc("/payments/card/webhook", h.CardWebhook).Methods("POST")

	protected := api.NewRoute().Subrouter()
	protected.Use(RequireAuth(jwtSecret))
	protected.HandleFunc("/mpesa/stk/status", h.PushStatus).Methods("POST")
	protected.HandleFunc("/bank/send", h.SendToBank).Methods("POST")
	protected.HandleFunc("/bank/collect", h.CollectFromBank).Methods("POST")
	protected.HandleFunc("/bank/query", h.QueryBankStatus).Methods("POST")
	protected.HandleFunc("/bank/reverse", h.ReverseBankTransaction).Methods("POST")
	protected.HandleFunc("/bank/banks", h.Banks).Methods("GET")
	protected.HandleFunc("/bank/balance", h.Balance).Methods("GET")
	protected.HandleFunc("/payments/card/{id}/refund", h.RefundCardPayment).Methods("POST")
	protected.HandleFunc("/payments/card/{id}/status", h.CardStatus).Methods("GET")
	protected.HandleFunc("/transactions/{family}", h.ListTransactions).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, apiResponse{Message: "route not found"})
	})
	return router
}
