package handler

import (
	"errors"
	"net/http"
	"time"

	reminderdomain "subtrack-go/internal/domain/reminder"
	"github.com/go-chi/chi/v5"
)

type createReminderRequest struct {
	SubscriptionID *string `json:"subscriptionId"`
	ReminderDate   string  `json:"reminderDate"`
	Type           string  `json:"type"`
	IsActive       *bool   `json:"isActive"`
	Title          string  `json:"title"`
	Description    *string `json:"description"`
}

type updateReminderRequest struct {
	SubscriptionID *string `json:"subscriptionId"`
	ReminderDate   *string `json:"reminderDate"`
	Type           *string `json:"type"`
	IsActive       *bool   `json:"isActive"`
	Title          *string `json:"title"`
	Description    *string `json:"description"`
}

type reminderResponse struct {
	ID             string    `json:"id"`
	SubscriptionID *string   `json:"subscriptionId"`
	ReminderDate   string    `json:"reminderDate"`
	Type           string    `json:"type"`
	IsActive       bool      `json:"isActive"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toReminderResponse(reminder *reminderdomain.Reminder) reminderResponse {
	return reminderResponse{
		ID:             reminder.ID,
		SubscriptionID: reminder.SubscriptionID,
		ReminderDate:   formatDate(reminder.ReminderDate),
		Type:           string(reminder.Type),
		IsActive:       reminder.IsActive,
		Title:          reminder.Title,
		Description:    reminder.Description,
		CreatedAt:      reminder.CreatedAt,
	}
}

func toReminderListResponse(reminders []reminderdomain.Reminder) []reminderResponse {
	response := make([]reminderResponse, 0, len(reminders))
	for i := range reminders {
		response = append(response, toReminderResponse(&reminders[i]))
	}
	return response
}

func (h *Handlers) ListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.Reminders.List(r.Context())
	if err != nil {
		h.log.InternalError("reminders.list: query failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toReminderListResponse(reminders))
}

// DueReminders lists active reminders due on or before the given date
// (today when the date parameter is absent).
func (h *Handlers) DueReminders(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}
	cutoff := time.Now().UTC()
	if date != nil {
		cutoff = *date
	}

	reminders, err := h.Reminders.Due(r.Context(), cutoff)
	if err != nil {
		h.log.InternalError("reminders.due: query failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toReminderListResponse(reminders))
}

func (h *Handlers) ListRemindersBySubscription(w http.ResponseWriter, r *http.Request) {
	subscriptionID := chi.URLParam(r, "id")
	reminders, err := h.Reminders.ListBySubscription(r.Context(), subscriptionID)
	if err != nil {
		h.log.InternalError("reminders.by_subscription: query failed", err, "subscription_id", subscriptionID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toReminderListResponse(reminders))
}

func (h *Handlers) GetReminder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reminder, err := h.Reminders.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, reminderdomain.ErrReminderNotFound) {
			writeError(w, http.StatusNotFound, "reminder_not_found", "reminder not found")
			return
		}
		h.log.InternalError("reminders.get: query failed", err, "reminder_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toReminderResponse(reminder))
}

func (h *Handlers) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var req createReminderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}

	reminderDate, err := parseDateRequired(req.ReminderDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid reminderDate")
		return
	}

	reminder, err := h.Reminders.Create(r.Context(), reminderdomain.CreateReminderInput{
		SubscriptionID: req.SubscriptionID,
		ReminderDate:   reminderDate,
		Type:           req.Type,
		IsActive:       req.IsActive,
		Title:          req.Title,
		Description:    req.Description,
	})
	if err != nil {
		if errors.Is(err, reminderdomain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		h.log.InternalError("reminders.create: insert failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, toReminderResponse(reminder))
}

func (h *Handlers) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateReminderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}

	input := reminderdomain.UpdateReminderInput{
		SubscriptionID: req.SubscriptionID,
		Type:           req.Type,
		IsActive:       req.IsActive,
		Title:          req.Title,
		Description:    req.Description,
	}
	if req.ReminderDate != nil {
		parsed, err := parseDateRequired(*req.ReminderDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid reminderDate")
			return
		}
		input.ReminderDate = &parsed
	}

	reminder, err := h.Reminders.Update(r.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, reminderdomain.ErrReminderNotFound):
			writeError(w, http.StatusNotFound, "reminder_not_found", "reminder not found")
		case errors.Is(err, reminderdomain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("reminders.update: update failed", err, "reminder_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, toReminderResponse(reminder))
}

func (h *Handlers) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Reminders.Delete(r.Context(), id); err != nil {
		if errors.Is(err, reminderdomain.ErrReminderNotFound) {
			writeError(w, http.StatusNotFound, "reminder_not_found", "reminder not found")
			return
		}
		h.log.InternalError("reminders.delete: delete failed", err, "reminder_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
