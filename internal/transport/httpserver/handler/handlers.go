package handler

import (
	"net/http"

	analysisdomain "subtrack-go/internal/domain/analysis"
	categorydomain "subtrack-go/internal/domain/category"
	jobdomain "subtrack-go/internal/domain/job"
	reminderdomain "subtrack-go/internal/domain/reminder"
	subscriptiondomain "subtrack-go/internal/domain/subscription"
	userdomain "subtrack-go/internal/domain/user"
	"subtrack-go/pkg/logger"
)

type Handlers struct {
	log logger.Logger

	Users         *userdomain.Service
	Categories    *categorydomain.Service
	Subscriptions *subscriptiondomain.Service
	Reminders     *reminderdomain.Service
	Analysis      *analysisdomain.Service
	Jobs          *jobdomain.Service
}

func New(
	log logger.Logger,
	users *userdomain.Service,
	categories *categorydomain.Service,
	subscriptions *subscriptiondomain.Service,
	reminders *reminderdomain.Service,
	analysis *analysisdomain.Service,
	jobs *jobdomain.Service,
) *Handlers {
	return &Handlers{
		log:           log,
		Users:         users,
		Categories:    categories,
		Subscriptions: subscriptions,
		Reminders:     reminders,
		Analysis:      analysis,
		Jobs:          jobs,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
