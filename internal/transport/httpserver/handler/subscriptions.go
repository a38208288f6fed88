package handler

import (
	"errors"
	"net/http"
	"time"

	subscriptiondomain "subtrack-go/internal/domain/subscription"
	"subtrack-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createSubscriptionRequest struct {
	Name                 string  `json:"name"`
	Price                float64 `json:"price"`
	BillingCycle         string  `json:"billingCycle"`
	NextBillingDate      string  `json:"nextBillingDate"`
	CancellationDeadline *string `json:"cancellationDeadline"`
	IsActive             *bool   `json:"isActive"`
	Notes                *string `json:"notes"`
	Color                string  `json:"color"`
	UserID               string  `json:"userId"`
	CategoryID           string  `json:"categoryId"`
}

type updateSubscriptionRequest struct {
	Name                 *string  `json:"name"`
	Price                *float64 `json:"price"`
	BillingCycle         *string  `json:"billingCycle"`
	NextBillingDate      *string  `json:"nextBillingDate"`
	CancellationDeadline *string  `json:"cancellationDeadline"`
	IsActive             *bool    `json:"isActive"`
	Notes                *string  `json:"notes"`
	Color                *string  `json:"color"`
	CategoryID           *string  `json:"categoryId"`
}

type subscriptionResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Price                float64   `json:"price"`
	BillingCycle         string    `json:"billingCycle"`
	NextBillingDate      string    `json:"nextBillingDate"`
	CancellationDeadline *string   `json:"cancellationDeadline"`
	IsActive             bool      `json:"isActive"`
	Notes                *string   `json:"notes"`
	Color                string    `json:"color"`
	SharedWith           []string  `json:"sharedWith"`
	UserID               string    `json:"userId"`
	CategoryID           string    `json:"categoryId"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func toSubscriptionResponse(subscription *subscriptiondomain.Subscription) subscriptionResponse {
	sharedWith := subscription.SharedWith
	if sharedWith == nil {
		sharedWith = []string{}
	}
	return subscriptionResponse{
		ID:                   subscription.ID,
		Name:                 subscription.Name,
		Price:                subscription.Price,
		BillingCycle:         string(subscription.BillingCycle),
		NextBillingDate:      formatDate(subscription.NextBillingDate),
		CancellationDeadline: formatDatePtr(subscription.CancellationDeadline),
		IsActive:             subscription.IsActive,
		Notes:                subscription.Notes,
		Color:                subscription.Color,
		SharedWith:           sharedWith,
		UserID:               subscription.UserID,
		CategoryID:           subscription.CategoryID,
		CreatedAt:            subscription.CreatedAt,
		UpdatedAt:            subscription.UpdatedAt,
	}
}

func actorFromRequest(r *http.Request) subscriptiondomain.Actor {
	identity := middleware.IdentityFromContext(r.Context())
	return subscriptiondomain.Actor{UserID: identity.UserID, Role: identity.Role}
}

func (h *Handlers) writeSubscriptionError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound):
		writeError(w, http.StatusNotFound, "subscription_not_found", "subscription not found")
	case errors.Is(err, subscriptiondomain.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "access_denied", "Sie haben keinen Zugriff auf dieses Abonnement")
	case errors.Is(err, subscriptiondomain.ErrNotOwner):
		writeError(w, http.StatusForbidden, "not_owner", "only the owner may modify this subscription")
	case errors.Is(err, subscriptiondomain.ErrSharingNotAllowed):
		writeError(w, http.StatusForbidden, "sharing_not_allowed", "sharing subscriptions requires a premium account")
	case errors.Is(err, subscriptiondomain.ErrUserMissing):
		writeError(w, http.StatusBadRequest, "user_missing", "referenced user does not exist")
	case errors.Is(err, subscriptiondomain.ErrCategoryMissing):
		writeError(w, http.StatusBadRequest, "category_missing", "referenced category does not exist")
	case errors.Is(err, subscriptiondomain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError("subscriptions."+op+": failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func (h *Handlers) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subscriptions, err := h.Subscriptions.List(r.Context(), actorFromRequest(r))
	if err != nil {
		h.log.InternalError("subscriptions.list: query failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]subscriptionResponse, 0, len(subscriptions))
	for i := range subscriptions {
		response = append(response, toSubscriptionResponse(&subscriptions[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetSubscription(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	subscription, err := h.Subscriptions.Get(r.Context(), id, actorFromRequest(r))
	if err != nil {
		h.writeSubscriptionError(w, err, "get")
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(subscription))
}

func (h *Handlers) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}

	nextBilling, err := parseDateRequired(req.NextBillingDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid nextBillingDate")
		return
	}
	deadline, err := parseDateParam(stringValue(req.CancellationDeadline))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid cancellationDeadline")
		return
	}

	subscription, err := h.Subscriptions.Create(r.Context(), subscriptiondomain.CreateSubscriptionInput{
		Name:                 req.Name,
		Price:                req.Price,
		BillingCycle:         req.BillingCycle,
		NextBillingDate:      nextBilling,
		CancellationDeadline: deadline,
		IsActive:             req.IsActive,
		Notes:                req.Notes,
		Color:                req.Color,
		UserID:               req.UserID,
		CategoryID:           req.CategoryID,
	})
	if err != nil {
		h.writeSubscriptionError(w, err, "create")
		return
	}
	writeJSON(w, http.StatusCreated, toSubscriptionResponse(subscription))
}

func (h *Handlers) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateSubscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}

	input := subscriptiondomain.UpdateSubscriptionInput{
		Name:         req.Name,
		Price:        req.Price,
		BillingCycle: req.BillingCycle,
		IsActive:     req.IsActive,
		Notes:        req.Notes,
		Color:        req.Color,
		CategoryID:   req.CategoryID,
	}
	if req.NextBillingDate != nil {
		parsed, err := parseDateRequired(*req.NextBillingDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid nextBillingDate")
			return
		}
		input.NextBillingDate = &parsed
	}
	if req.CancellationDeadline != nil {
		parsed, err := parseDateRequired(*req.CancellationDeadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid cancellationDeadline")
			return
		}
		input.CancellationDeadline = &parsed
	}

	subscription, err := h.Subscriptions.Update(r.Context(), id, input, actorFromRequest(r))
	if err != nil {
		h.writeSubscriptionError(w, err, "update")
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(subscription))
}

func (h *Handlers) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Subscriptions.Delete(r.Context(), id, actorFromRequest(r)); err != nil {
		h.writeSubscriptionError(w, err, "delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
