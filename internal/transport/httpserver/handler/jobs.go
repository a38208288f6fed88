package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	jobdomain "subtrack-go/internal/domain/job"
	"subtrack-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type startExportJobRequest struct {
	UserID string `json:"userId"`
}

type importEntryRequest struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	BillingCycle string  `json:"billingCycle"`
	CategoryName string  `json:"categoryName"`
}

type startImportJobRequest struct {
	UserID        string               `json:"userId"`
	Subscriptions []importEntryRequest `json:"subscriptions"`
}

type jobCreatedResponse struct {
	JobID     string `json:"jobId"`
	Message   string `json:"message"`
	StatusURL string `json:"statusUrl"`
}

type jobResponse struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	Status      string           `json:"status"`
	Progress    int              `json:"progress"`
	Result      jobdomain.Result `json:"result,omitempty"`
	Error       *string          `json:"error"`
	UserID      string           `json:"userId"`
	CreatedAt   time.Time        `json:"createdAt"`
	CompletedAt *time.Time       `json:"completedAt"`
}

func toJobResponse(job *jobdomain.Job) jobResponse {
	return jobResponse{
		ID:          job.ID,
		Type:        string(job.Type),
		Status:      string(job.Status),
		Progress:    job.Progress,
		Result:      job.Result,
		Error:       job.Error,
		UserID:      job.UserID,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
	}
}

func jobCreated(job *jobdomain.Job, message string) jobCreatedResponse {
	return jobCreatedResponse{
		JobID:     job.ID,
		Message:   message,
		StatusURL: "/jobs/" + job.ID + "/status",
	}
}

func (h *Handlers) StartExportJob(w http.ResponseWriter, r *http.Request) {
	var req startExportJobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}

	job, err := h.Jobs.Create(r.Context(), jobdomain.TypeExportSubscriptions, strings.TrimSpace(req.UserID))
	if err != nil {
		if errors.Is(err, jobdomain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		h.log.InternalError("jobs.export: create failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusAccepted, jobCreated(job, "Export-Job wurde erstellt und wird im Hintergrund ausgeführt"))
}

// StartReminderCheckJob attributes the job to "system" when no caller
// identity was supplied.
func (h *Handlers) StartReminderCheckJob(w http.ResponseWriter, r *http.Request) {
	userID := middleware.IdentityFromContext(r.Context()).UserID
	if userID == "" {
		userID = "system"
	}

	job, err := h.Jobs.Create(r.Context(), jobdomain.TypeCheckReminders, userID)
	if err != nil {
		h.log.InternalError("jobs.check_reminders: create failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusAccepted, jobCreated(job, "Erinnerungs-Check wurde gestartet und läuft im Hintergrund"))
}

func (h *Handlers) StartImportJob(w http.ResponseWriter, r *http.Request) {
	var req startImportJobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}

	entries := make([]jobdomain.ImportEntry, 0, len(req.Subscriptions))
	for _, entry := range req.Subscriptions {
		entries = append(entries, jobdomain.ImportEntry{
			Name:         entry.Name,
			Price:        entry.Price,
			BillingCycle: entry.BillingCycle,
			CategoryName: entry.CategoryName,
		})
	}

	job, err := h.Jobs.CreateImport(r.Context(), strings.TrimSpace(req.UserID), entries)
	if err != nil {
		if errors.Is(err, jobdomain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		h.log.InternalError("jobs.import: create failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusAccepted, jobCreated(job, "Import-Job wurde erstellt und wird im Hintergrund ausgeführt"))
}

func (h *Handlers) JobStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := h.Jobs.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, jobdomain.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job_not_found", "job not found")
			return
		}
		h.log.InternalError("jobs.status: query failed", err, "job_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(job))
}

func (h *Handlers) ListJobsByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	jobs, err := h.Jobs.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.InternalError("jobs.list: query failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]jobResponse, 0, len(jobs))
	for i := range jobs {
		response = append(response, toJobResponse(&jobs[i]))
	}
	writeJSON(w, http.StatusOK, response)
}
