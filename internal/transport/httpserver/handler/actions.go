package handler

import (
	"fmt"
	"net/http"
	"strings"

	analysisdomain "subtrack-go/internal/domain/analysis"
	"github.com/go-chi/chi/v5"
)

type shareSubscriptionRequest struct {
	TargetUserIDs []string `json:"targetUserIds"`
}

type cancelRemindersRequest struct {
	SubscriptionID string `json:"subscriptionId"`
}

type cancelRemindersResponse struct {
	CancelledCount int64  `json:"cancelledCount"`
	Message        string `json:"message"`
}

type upcomingPaymentResponse struct {
	SubscriptionID   string  `json:"subscriptionId"`
	SubscriptionName string  `json:"subscriptionName"`
	DueDate          string  `json:"dueDate"`
	Amount           float64 `json:"amount"`
}

type costAnalysisResponse struct {
	TotalMonthly     float64                   `json:"totalMonthly"`
	TotalYearly      float64                   `json:"totalYearly"`
	PerPersonMonthly float64                   `json:"perPersonMonthly"`
	PerPersonYearly  float64                   `json:"perPersonYearly"`
	ByCategory       map[string]float64        `json:"byCategory"`
	UpcomingPayments []upcomingPaymentResponse `json:"upcomingPayments"`
}

func toCostAnalysisResponse(analysis analysisdomain.CostAnalysis) costAnalysisResponse {
	upcoming := make([]upcomingPaymentResponse, 0, len(analysis.UpcomingPayments))
	for _, payment := range analysis.UpcomingPayments {
		upcoming = append(upcoming, upcomingPaymentResponse{
			SubscriptionID:   payment.SubscriptionID,
			SubscriptionName: payment.SubscriptionName,
			DueDate:          formatDate(payment.DueDate),
			Amount:           payment.Amount,
		})
	}
	return costAnalysisResponse{
		TotalMonthly:     analysis.TotalMonthly,
		TotalYearly:      analysis.TotalYearly,
		PerPersonMonthly: analysis.PerPersonMonthly,
		PerPersonYearly:  analysis.PerPersonYearly,
		ByCategory:       analysis.ByCategory,
		UpcomingPayments: upcoming,
	}
}

func (h *Handlers) CostAnalysis(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID := strings.TrimSpace(query.Get("userId"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}
	householdSize, err := parseIntParam(query.Get("householdSize"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid householdSize")
		return
	}

	analysis, err := h.Analysis.CostAnalysis(r.Context(), userID, householdSize)
	if err != nil {
		h.log.InternalError("actions.cost_analysis: failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toCostAnalysisResponse(analysis))
}

func (h *Handlers) ShareSubscription(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req shareSubscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}

	subscription, err := h.Subscriptions.Share(r.Context(), id, req.TargetUserIDs, actorFromRequest(r))
	if err != nil {
		h.writeSubscriptionError(w, err, "share")
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(subscription))
}

func (h *Handlers) CancelReminders(w http.ResponseWriter, r *http.Request) {
	var req cancelRemindersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}
	if strings.TrimSpace(req.SubscriptionID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "subscriptionId is required")
		return
	}

	cancelled, err := h.Reminders.CancelBySubscription(r.Context(), req.SubscriptionID)
	if err != nil {
		h.log.InternalError("actions.cancel_reminders: failed", err, "subscription_id", req.SubscriptionID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	plural := "en"
	if cancelled == 1 {
		plural = ""
	}
	writeJSON(w, http.StatusOK, cancelRemindersResponse{
		CancelledCount: cancelled,
		Message:        fmt.Sprintf("Erfolgreich %d Erinnerung%s deaktiviert", cancelled, plural),
	})
}
