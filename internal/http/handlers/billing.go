package handlers

import (
	"net/http"

	"itboard/internal/app"
	"itboard/internal/http/middleware"
	"itboard/internal/http/response"
)

type BillingHandler struct {
	billing *app.BillingService
}

func NewBillingHandler(billing *app.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

func (h *BillingHandler) Entitlements(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	summary, err := h.billing.Entitlements(r.Context(), companyID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, summary)
}

// PaymentStatus is the poll target for the QR payment page: it reports the
// provider status and applies the entitlement the first time completed is
// observed.
func (h *BillingHandler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	paymentID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	payment, err := h.billing.PollPayment(r.Context(), paymentID, companyID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, payment)
}
